package domain

import (
	"reflect"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	cases := []Session{
		NewSession(User{ID: "1", Username: "ann", Email: "a@x.com"}, "tok1", "ref1"),
		NewSession(User{ID: "42", Username: "Nguyễn Văn A", Email: "van.a+geo@example.vn"}, "eyJhbGciOi.J9.x-y_z", "r/e=f+?&"),
		NewSession(User{}, "a b c", "%41"),
	}
	for _, want := range cases {
		got := DecodeSession(EncodeSession(want))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round trip mismatch:\n got  %+v (%+v)\n want %+v (%+v)", got, got.User, want, want.User)
		}
	}
}

func TestEncodeProducesPercentEncodedJSON(t *testing.T) {
	t.Parallel()
	raw := EncodeSession(NewSession(User{ID: "1", Username: "ann", Email: "a@x.com"}, "tok 1", "ref1"))
	for _, forbidden := range []string{"{", "\"", ":", ";", ",", " ", "+"} {
		if strings.Contains(raw, forbidden) {
			t.Fatalf("encoded value must be cookie safe, found %q in %s", forbidden, raw)
		}
	}
	if !strings.HasPrefix(raw, "%7B%22user%22%3A%7B%22id%22%3A%221%22") {
		t.Fatalf("unexpected encoding prefix: %s", raw)
	}
	if !strings.Contains(raw, "tok%201") {
		t.Fatalf("spaces must encode as %%20: %s", raw)
	}
}

func TestEncodeAnonymousWritesNulls(t *testing.T) {
	t.Parallel()
	want := "%7B%22user%22%3Anull%2C%22accessToken%22%3Anull%2C%22refreshToken%22%3Anull%7D"
	if got := EncodeSession(Anonymous()); got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestDecodeDegradesToAnonymous(t *testing.T) {
	t.Parallel()
	inputs := map[string]string{
		"empty":             "",
		"blank":             "   ",
		"not json":          "not valid json",
		"bad escape":        "%7B%ZZ",
		"json array":        "%5B1%2C2%5D",
		"json null":         "null",
		"user only":         "%7B%22user%22%3Anull%7D",
		"missing refresh":   "%7B%22user%22%3A%7B%22id%22%3A%221%22%7D%2C%22accessToken%22%3A%22t%22%7D",
		"user wrong type":   "%7B%22user%22%3A%22ann%22%2C%22accessToken%22%3A%22t%22%2C%22refreshToken%22%3A%22r%22%7D",
		"empty tokens":      "%7B%22user%22%3A%7B%22id%22%3A%221%22%7D%2C%22accessToken%22%3A%22%22%2C%22refreshToken%22%3A%22%22%7D",
		"token wrong type":  "%7B%22user%22%3A%7B%7D%2C%22accessToken%22%3A1%2C%22refreshToken%22%3A%22r%22%7D",
		"truncated literal": "%7B%22user%22%3A%7B%22id%22",
	}
	for name, raw := range inputs {
		got := DecodeSession(raw)
		if !reflect.DeepEqual(got, Anonymous()) {
			t.Fatalf("%s: expected anonymous session, got %+v", name, got)
		}
		if got.State() != StateAnonymous {
			t.Fatalf("%s: expected anonymous state", name)
		}
	}
}

func TestDecodeAcceptsUnescapedReservedCharacters(t *testing.T) {
	t.Parallel()
	// encodeURIComponent leaves !*'() unescaped.
	raw := "%7B%22user%22%3A%7B%22id%22%3A%221%22%2C%22username%22%3A%22o'neil(!)%22%2C%22email%22%3A%22o%40x.com%22%7D%2C%22accessToken%22%3A%22a*%22%2C%22refreshToken%22%3A%22r%22%7D"
	got := DecodeSession(raw)
	if !got.Authenticated() {
		t.Fatalf("expected authenticated session")
	}
	if got.User.Username != "o'neil(!)" || got.AccessToken != "a*" {
		t.Fatalf("unexpected decode result %+v %+v", got, got.User)
	}
}

func TestEscapeComponentKeepsMarkCharacters(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"o'brien(x)!*": "o'brien(x)!*",
		"a b+c":        "a%20b%2Bc",
		"%21":          "%2521",
		"~-_.":         "~-_.",
		`{"k":1}`:      "%7B%22k%22%3A1%7D",
	}
	for in, want := range cases {
		if got := escapeComponent(in); got != want {
			t.Fatalf("escapeComponent(%q) = %q, want %q", in, got, want)
		}
	}

	s := NewSession(User{ID: "7", Username: "o'brien(x)!", Email: "ob@x.com"}, "t*1", "r(1)")
	encoded := EncodeSession(s)
	if !strings.Contains(encoded, "o'brien(x)!") {
		t.Fatalf("marks should stay literal, got %s", encoded)
	}
	if got := DecodeSession(encoded); !reflect.DeepEqual(got, s) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
