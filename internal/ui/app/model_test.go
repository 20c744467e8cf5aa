package app

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	authdto "geomoments/internal/modules/auth/dto"
	checkindto "geomoments/internal/modules/checkin/dto"
	geoinadapter "geomoments/internal/modules/geo/adapter/in"
	geooutadapter "geomoments/internal/modules/geo/adapter/out"
	geoservice "geomoments/internal/modules/geo/service"
	geousecase "geomoments/internal/modules/geo/usecase"
	apperrors "geomoments/internal/platform/errors"
	"geomoments/internal/ui/components"
	accountview "geomoments/internal/ui/views/account"
	feedview "geomoments/internal/ui/views/feed"
	"geomoments/internal/ui/views/mapview"
)

type fakeAccount struct{ session authdto.SessionOutput }

func (f fakeAccount) Current(context.Context) (authdto.SessionOutput, error) { return f.session, nil }
func (f fakeAccount) Login(context.Context, string, string) (authdto.SessionOutput, error) {
	return f.session, nil
}
func (f fakeAccount) Register(context.Context, string, string, string) (authdto.SessionOutput, error) {
	return f.session, nil
}
func (f fakeAccount) Logout(context.Context) error { return nil }

type fakeCheckIns struct {
	items     []checkindto.CheckInOutput
	createErr error
	created   []string
}

func (f *fakeCheckIns) List(context.Context, bool, int) (checkindto.ListOutput, error) {
	return checkindto.ListOutput{Items: f.items}, nil
}

func (f *fakeCheckIns) Create(_ context.Context, caption string, paths []string, lat, lng float64) (checkindto.CheckInOutput, error) {
	if f.createErr != nil {
		return checkindto.CheckInOutput{}, f.createErr
	}
	f.created = append(f.created, caption)
	return checkindto.CheckInOutput{ID: "new", Caption: caption, ImageURLs: paths, Lat: lat, Lng: lng, CreatedAt: time.Now()}, nil
}

var ann = authdto.SessionOutput{Authenticated: true, User: authdto.UserOutput{ID: "1", Username: "ann", Email: "ann@example.com"}}

func newTestModel(t *testing.T, session authdto.SessionOutput, checkins *fakeCheckIns) Model {
	t.Helper()
	geo := geoinadapter.NewTUIHandler(geousecase.NewInteractor(geoservice.NewGeoService(geooutadapter.NewStaticLocator(21.0285, 105.8542), 14, nil)))
	m := NewModel(fakeAccount{session: session}, checkins, geo)
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	v, err := geo.Viewport(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("viewport: %v", err)
	}
	m = step(t, m, mapview.ReadyMsg{Viewport: v})
	m = step(t, m, feedview.LoadedMsg{Out: checkindto.ListOutput{Items: checkins.items}})
	m = step(t, m, accountview.SessionMsg{Action: accountview.ActionLoad, Session: session})
	return m
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestPaletteGotoThenCheckInPrependsToFeed(t *testing.T) {
	t.Parallel()
	checkins := &fakeCheckIns{items: []checkindto.CheckInOutput{{ID: "old", Lat: 21.03, Lng: 105.85}}}
	m := newTestModel(t, ann, checkins)

	m = step(t, m, components.PaletteSubmitMsg{Input: "goto 21.0300 105.8500"})
	if pos, ok := m.mapView.Selected(); !ok || pos.Lat != 21.03 {
		t.Fatalf("goto did not select a position: %+v %v", pos, ok)
	}

	next, cmd := m.Update(components.PaletteSubmitMsg{Input: "checkin a.png,b.png phở ngon"})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("checkin should produce a submit command (status %q)", m.status)
	}
	submit, ok := cmd().(components.CheckInSubmitMsg)
	if !ok || len(submit.ImagePaths) != 2 || submit.Caption != "phở ngon" {
		t.Fatalf("unexpected submit %+v", submit)
	}

	next, cmd = m.Update(submit)
	m = next.(Model)
	if !m.posting || cmd == nil {
		t.Fatalf("submit should start posting")
	}
	m = step(t, m, cmd())

	items := m.feedView.Items()
	if len(items) != 2 || items[0].ID != "new" || items[1].ID != "old" {
		t.Fatalf("new check-in should lead the feed: %+v", items)
	}
	if m.posting || m.status != "posted: phở ngon" {
		t.Fatalf("unexpected state posting=%v status=%q", m.posting, m.status)
	}
}

func TestCheckInWhileAnonymousOpensLogin(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, authdto.SessionOutput{}, &fakeCheckIns{})
	m = step(t, m, mapview.CheckInRequestMsg{Lat: 21, Lng: 105})
	if m.activeTab != tabAccount || !m.accountView.Capturing() {
		t.Fatalf("expected login form on the account tab, tab=%d", m.activeTab)
	}
	if m.form.Visible() {
		t.Fatalf("check-in form must not open for anonymous users")
	}
}

func TestExpiredSessionDuringCheckInRedirectsToLogin(t *testing.T) {
	t.Parallel()
	checkins := &fakeCheckIns{createErr: errors.Join(errors.New("graphql"), apperrors.ErrSessionExpired)}
	m := newTestModel(t, ann, checkins)
	m = step(t, m, checkInCreatedMsg{err: checkins.createErr})
	if m.activeTab != tabAccount || m.status != apperrors.ErrSessionExpired.Error() {
		t.Fatalf("expected session expired handling, tab=%d status=%q", m.activeTab, m.status)
	}
}

func TestCheckInRequestOpensFormWhenLoggedIn(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, ann, &fakeCheckIns{})
	m = step(t, m, mapview.CheckInRequestMsg{Lat: 21, Lng: 105})
	if !m.form.Visible() {
		t.Fatalf("check-in form should open")
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.form.Visible() {
		t.Fatalf("esc should close the form")
	}
}

func TestUnknownPaletteCommand(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, ann, &fakeCheckIns{})
	m = step(t, m, components.PaletteSubmitMsg{Input: "dance"})
	if m.status != "unknown command: dance" {
		t.Fatalf("status = %q", m.status)
	}
	m = step(t, m, components.PaletteSubmitMsg{Input: "goto north 5"})
	if m.status != "goto: coordinates must be numbers" {
		t.Fatalf("status = %q", m.status)
	}
}
