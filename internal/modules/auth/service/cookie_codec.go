package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"geomoments/internal/modules/auth/domain"
	authout "geomoments/internal/modules/auth/port/out"
	"geomoments/internal/platform/logging"
)

// CookieCodec moves sessions in and out of the geomoments_auth slot.
type CookieCodec struct {
	storage authout.CookieStorage
	logger  *slog.Logger
}

func NewCookieCodec(storage authout.CookieStorage, logger *slog.Logger) *CookieCodec {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CookieCodec{storage: storage, logger: logger}
}

// Read returns the persisted session, or the anonymous one when the slot
// is empty, unreadable or malformed.
func (c *CookieCodec) Read(ctx context.Context) domain.Session {
	raw, ok, err := c.storage.Get(ctx, domain.CookieName)
	if err != nil {
		c.logger.Debug("session slot unreadable", "error", err)
		return domain.Anonymous()
	}
	if !ok {
		return domain.Anonymous()
	}
	s := domain.DecodeSession(raw)
	if !s.Authenticated() {
		c.logger.Debug("session slot holds no usable session")
	}
	return s
}

func (c *CookieCodec) Persist(ctx context.Context, s domain.Session) error {
	err := c.storage.Set(ctx, &http.Cookie{
		Name:   domain.CookieName,
		Value:  domain.EncodeSession(s),
		Path:   domain.CookiePath,
		MaxAge: domain.CookieMaxAge,
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Erase overwrites the slot with an already-expired entry.
func (c *CookieCodec) Erase(ctx context.Context) error {
	err := c.storage.Set(ctx, &http.Cookie{
		Name:   domain.CookieName,
		Value:  "",
		Path:   domain.CookiePath,
		MaxAge: -1,
	})
	if err != nil {
		return fmt.Errorf("erase session: %w", err)
	}
	return nil
}
