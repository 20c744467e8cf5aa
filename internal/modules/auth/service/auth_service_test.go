package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"geomoments/internal/modules/auth/domain"
	authout "geomoments/internal/modules/auth/port/out"
	"geomoments/internal/modules/auth/service"
	"geomoments/internal/platform/clock"
	apperrors "geomoments/internal/platform/errors"
)

type fakeGateway struct {
	creds authout.Credentials
	err   error
	calls int
}

func (f *fakeGateway) Login(context.Context, string, string) (authout.Credentials, error) {
	f.calls++
	return f.creds, f.err
}

func (f *fakeGateway) Register(context.Context, string, string, string) (authout.Credentials, error) {
	f.calls++
	return f.creds, f.err
}

type fakeInspector struct{ info domain.TokenInfo }

func (f fakeInspector) Inspect(string) (domain.TokenInfo, bool) { return f.info, !f.info.ExpiresAt.IsZero() }

var now = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newAuthService(gw *fakeGateway, info domain.TokenInfo) (*service.AuthService, *service.SessionStore, *recordingStorage) {
	storage := newRecordingStorage()
	store := newStore(storage)
	return service.NewAuthService(clock.Fixed(now), store, gw, fakeInspector{info: info}), store, storage
}

func TestLoginStoresReturnedBundle(t *testing.T) {
	t.Parallel()
	gw := &fakeGateway{creds: authout.Credentials{User: ann, AccessToken: "tok1", RefreshToken: "ref1"}}
	svc, store, storage := newAuthService(gw, domain.TokenInfo{})

	session, err := svc.Login(context.Background(), " ann ", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.User.Username != "ann" || store.Snapshot().AccessToken != "tok1" {
		t.Fatalf("login did not set the store: %+v", session)
	}
	if _, ok, _ := storage.Get(context.Background(), domain.CookieName); !ok {
		t.Fatalf("login must persist the session")
	}
}

func TestLoginValidatesBeforeCallingGateway(t *testing.T) {
	t.Parallel()
	gw := &fakeGateway{}
	svc, _, _ := newAuthService(gw, domain.TokenInfo{})
	if _, err := svc.Login(context.Background(), "  ", "pw"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ann", ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "not-an-email", "pw"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for bad email, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("gateway must not be called for invalid input, got %d calls", gw.calls)
	}
}

func TestGatewayFailureLeavesStoreUntouched(t *testing.T) {
	t.Parallel()
	gw := &fakeGateway{err: errors.New("Invalid credentials")}
	svc, store, _ := newAuthService(gw, domain.TokenInfo{})
	if _, err := svc.Login(context.Background(), "ann", "bad"); err == nil || err.Error() != "Invalid credentials" {
		t.Fatalf("expected gateway message, got %v", err)
	}
	if store.Snapshot().Authenticated() {
		t.Fatalf("failed login must not authenticate")
	}
}

func TestIncompleteBundleIsRejected(t *testing.T) {
	t.Parallel()
	gw := &fakeGateway{creds: authout.Credentials{User: ann, AccessToken: "tok1"}}
	svc, store, _ := newAuthService(gw, domain.TokenInfo{})
	if _, err := svc.Register(context.Background(), "ann", "a@x.com", "pw"); err == nil {
		t.Fatalf("expected error for missing refresh token")
	}
	if store.Snapshot().Authenticated() {
		t.Fatalf("incomplete bundle must not be stored")
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gw := &fakeGateway{creds: authout.Credentials{User: ann, AccessToken: "tok1", RefreshToken: "ref1"}}

	svc, _, _ := newAuthService(gw, domain.TokenInfo{ExpiresAt: now.Add(time.Hour)})
	if _, err := svc.BearerToken(); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("anonymous store must report not authenticated, got %v", err)
	}
	_, _ = svc.Login(ctx, "ann", "pw")
	token, err := svc.BearerToken()
	if err != nil || token != "tok1" {
		t.Fatalf("expected tok1, got %q err=%v", token, err)
	}

	expired, store, _ := newAuthService(gw, domain.TokenInfo{ExpiresAt: now.Add(-time.Minute)})
	_, _ = expired.Login(ctx, "ann", "pw")
	if _, err := expired.BearerToken(); !errors.Is(err, apperrors.ErrSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if !store.Snapshot().Authenticated() {
		t.Fatalf("expiry must not clear the store")
	}
}

func TestLogoutClears(t *testing.T) {
	t.Parallel()
	gw := &fakeGateway{creds: authout.Credentials{User: ann, AccessToken: "tok1", RefreshToken: "ref1"}}
	svc, store, _ := newAuthService(gw, domain.TokenInfo{})
	_, _ = svc.Login(context.Background(), "ann", "pw")
	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.Snapshot().Authenticated() {
		t.Fatalf("logout must clear the session")
	}
	session, info := svc.Current()
	if session.Authenticated() || info.HasExpiry() {
		t.Fatalf("anonymous current must carry no token info")
	}
}
