package in

import (
	"context"

	"geomoments/internal/modules/auth/dto"
)

type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error)
	Register(ctx context.Context, input dto.RegisterInput) (dto.SessionOutput, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (dto.SessionOutput, error)
	SessionReader
}

// SessionReader is the narrow view other modules get of the session store.
type SessionReader interface {
	// BearerToken returns the current access token, or ErrNotAuthenticated /
	// ErrSessionExpired.
	BearerToken(ctx context.Context) (string, error)
}
