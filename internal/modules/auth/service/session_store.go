package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"geomoments/internal/modules/auth/domain"
	apperrors "geomoments/internal/platform/errors"
	"geomoments/internal/platform/logging"
)

// SessionStore is the single owner of the current session. Reads return
// copies; SetAuth and ClearAuth are the only writers and always move the
// whole bundle. writeMu is held across the memory update and the slot
// write so the last mutator wins in both places.
type SessionStore struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	codec   *CookieCodec
	logger  *slog.Logger
	current domain.Session
}

func NewSessionStore(ctx context.Context, codec *CookieCodec, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &SessionStore{codec: codec, logger: logger}
	s.Initialize(ctx)
	return s
}

// Initialize reloads the session from storage.
func (s *SessionStore) Initialize(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	loaded := s.codec.Read(ctx)
	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	s.logger.Debug("session initialized", "state", loaded.State())
}

func (s *SessionStore) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// SetAuth replaces the session and persists it. Both tokens are required;
// an incomplete bundle is rejected and leaves the store untouched. The
// in-memory state is updated even when the write fails; the error reports
// the failed write.
func (s *SessionStore) SetAuth(ctx context.Context, user domain.User, accessToken, refreshToken string) error {
	if accessToken == "" || refreshToken == "" {
		return fmt.Errorf("%w: access and refresh tokens are required", apperrors.ErrInvalidInput)
	}
	next := domain.NewSession(user, accessToken, refreshToken)
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	if err := s.codec.Persist(ctx, next); err != nil {
		s.logger.Warn("session not persisted", "error", err)
		return err
	}
	s.logger.Debug("session stored", "user_id", user.ID)
	return nil
}

// ClearAuth resets to anonymous and erases the slot. Safe to repeat.
func (s *SessionStore) ClearAuth(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.current = domain.Anonymous()
	s.mu.Unlock()
	if err := s.codec.Erase(ctx); err != nil {
		s.logger.Warn("session slot not erased", "error", err)
		return err
	}
	s.logger.Debug("session cleared")
	return nil
}
