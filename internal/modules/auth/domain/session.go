package domain

import "time"

const (
	// CookieName is the storage slot holding the persisted session.
	CookieName = "geomoments_auth"
	CookiePath = "/"
	// CookieMaxAge is the lifetime of a persisted session, in seconds.
	CookieMaxAge = 7 * 24 * 60 * 60
)

type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session bundles the current identity with its credential pair. The three
// fields are only ever replaced or cleared together.
type Session struct {
	User         *User
	AccessToken  string
	RefreshToken string
}

func Anonymous() Session {
	return Session{}
}

func NewSession(user User, accessToken, refreshToken string) Session {
	return Session{User: &user, AccessToken: accessToken, RefreshToken: refreshToken}
}

func (s Session) Authenticated() bool {
	return s.User != nil && s.AccessToken != "" && s.RefreshToken != ""
}

func (s Session) State() State {
	if s.Authenticated() {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Clone returns a copy that shares no memory with s.
func (s Session) Clone() Session {
	if s.User == nil {
		return Session{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken}
	}
	u := *s.User
	return Session{User: &u, AccessToken: s.AccessToken, RefreshToken: s.RefreshToken}
}

// TokenInfo is what can be learned about an access token without
// verifying it.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

func (t TokenInfo) HasExpiry() bool {
	return !t.ExpiresAt.IsZero()
}

func (t TokenInfo) ExpiredAt(now time.Time) bool {
	return t.HasExpiry() && !now.Before(t.ExpiresAt)
}
