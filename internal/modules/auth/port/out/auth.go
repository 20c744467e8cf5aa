package out

import (
	"context"
	"net/http"

	"geomoments/internal/modules/auth/domain"
)

// CookieStorage is a named-slot key/value store with cookie attributes.
// A Set with MaxAge < 0 removes the slot.
type CookieStorage interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, cookie *http.Cookie) error
}

type Credentials struct {
	User         domain.User
	AccessToken  string
	RefreshToken string
}

type AuthGateway interface {
	Login(ctx context.Context, usernameOrEmail, password string) (Credentials, error)
	Register(ctx context.Context, username, email, password string) (Credentials, error)
}

// TokenInspector reads claims from an access token without verifying it.
type TokenInspector interface {
	Inspect(token string) (domain.TokenInfo, bool)
}
