package domain

import (
	"testing"
	"time"
)

func TestSessionStates(t *testing.T) {
	t.Parallel()
	if Anonymous().State() != StateAnonymous {
		t.Fatalf("zero session must be anonymous")
	}
	s := NewSession(User{ID: "1"}, "a", "r")
	if s.State() != StateAuthenticated {
		t.Fatalf("complete bundle must be authenticated")
	}
	partial := Session{User: &User{ID: "1"}, AccessToken: "a"}
	if partial.Authenticated() {
		t.Fatalf("bundle without refresh token must not count as authenticated")
	}
}

func TestCloneDoesNotShareUser(t *testing.T) {
	t.Parallel()
	s := NewSession(User{ID: "1", Username: "ann"}, "a", "r")
	c := s.Clone()
	c.User.Username = "bob"
	if s.User.Username != "ann" {
		t.Fatalf("clone mutated original user")
	}
}

func TestTokenInfoExpiry(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	if (TokenInfo{}).ExpiredAt(now) {
		t.Fatalf("token without exp never expires")
	}
	info := TokenInfo{ExpiresAt: now}
	if !info.ExpiredAt(now) {
		t.Fatalf("token expiring now counts as expired")
	}
	if info.ExpiredAt(now.Add(-time.Second)) {
		t.Fatalf("token not yet expired")
	}
}
