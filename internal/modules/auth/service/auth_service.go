package service

import (
	"context"
	"fmt"
	"strings"

	"geomoments/internal/modules/auth/domain"
	authout "geomoments/internal/modules/auth/port/out"
	"geomoments/internal/platform/clock"
	apperrors "geomoments/internal/platform/errors"
)

type AuthService struct {
	clock     clock.Clock
	store     *SessionStore
	gateway   authout.AuthGateway
	inspector authout.TokenInspector
}

func NewAuthService(clock clock.Clock, store *SessionStore, gateway authout.AuthGateway, inspector authout.TokenInspector) *AuthService {
	return &AuthService{clock: clock, store: store, gateway: gateway, inspector: inspector}
}

func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (domain.Session, error) {
	usernameOrEmail = strings.TrimSpace(usernameOrEmail)
	if usernameOrEmail == "" || password == "" {
		return domain.Session{}, fmt.Errorf("%w: username or email and password are required", apperrors.ErrInvalidInput)
	}
	creds, err := s.gateway.Login(ctx, usernameOrEmail, password)
	if err != nil {
		return domain.Session{}, err
	}
	return s.adopt(ctx, creds)
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return domain.Session{}, fmt.Errorf("%w: username, email and password are required", apperrors.ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return domain.Session{}, fmt.Errorf("%w: %q is not an email address", apperrors.ErrInvalidInput, email)
	}
	creds, err := s.gateway.Register(ctx, username, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	return s.adopt(ctx, creds)
}

func (s *AuthService) adopt(ctx context.Context, creds authout.Credentials) (domain.Session, error) {
	if creds.AccessToken == "" || creds.RefreshToken == "" {
		return domain.Session{}, fmt.Errorf("server returned an incomplete credential bundle")
	}
	if err := s.store.SetAuth(ctx, creds.User, creds.AccessToken, creds.RefreshToken); err != nil {
		return s.store.Snapshot(), err
	}
	return s.store.Snapshot(), nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.ClearAuth(ctx)
}

func (s *AuthService) Current() (domain.Session, domain.TokenInfo) {
	session := s.store.Snapshot()
	if !session.Authenticated() || s.inspector == nil {
		return session, domain.TokenInfo{}
	}
	info, _ := s.inspector.Inspect(session.AccessToken)
	return session, info
}

// BearerToken hands out the access token for authenticated calls. An
// expired token is reported but left in place; the user decides when to
// log in again.
func (s *AuthService) BearerToken() (string, error) {
	session, info := s.Current()
	if !session.Authenticated() {
		return "", apperrors.ErrNotAuthenticated
	}
	if info.ExpiredAt(s.clock.Now()) {
		return "", apperrors.ErrSessionExpired
	}
	return session.AccessToken, nil
}

func (s *AuthService) Expired(info domain.TokenInfo) bool {
	return info.ExpiredAt(s.clock.Now())
}
