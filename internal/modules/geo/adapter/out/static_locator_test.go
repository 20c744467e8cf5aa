package out_test

import (
	"context"
	"testing"

	geooutadapter "geomoments/internal/modules/geo/adapter/out"
)

func TestStaticLocator(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	pos, err := geooutadapter.NewStaticLocator(10.7769, 106.7009).Locate(ctx)
	if err != nil || pos.Lat != 10.7769 || pos.Lng != 106.7009 {
		t.Fatalf("unexpected position %+v err=%v", pos, err)
	}
	if _, err := geooutadapter.NewStaticLocator(0, 0).Locate(ctx); err == nil {
		t.Fatalf("unset center should fail")
	}
	if _, err := geooutadapter.NewStaticLocator(95, 10).Locate(ctx); err == nil {
		t.Fatalf("out of range latitude should fail")
	}
	if name := geooutadapter.NewStaticLocator(1, 1).Name(); name != "config" {
		t.Fatalf("unexpected name %q", name)
	}
}
