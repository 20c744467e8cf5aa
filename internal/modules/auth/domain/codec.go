package domain

import (
	"encoding/json"
	"net/url"
	"strings"
)

type cookieUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type cookiePayload struct {
	User         *cookieUser `json:"user"`
	AccessToken  *string     `json:"accessToken"`
	RefreshToken *string     `json:"refreshToken"`
}

// EncodeSession renders the full bundle as percent-encoded JSON. Absent
// fields are written as null. Callers keep the result under the storage
// medium's size ceiling; no limit is enforced here.
func EncodeSession(s Session) string {
	payload := cookiePayload{}
	if s.User != nil {
		payload.User = &cookieUser{ID: s.User.ID, Username: s.User.Username, Email: s.User.Email}
	}
	if s.AccessToken != "" {
		token := s.AccessToken
		payload.AccessToken = &token
	}
	if s.RefreshToken != "" {
		token := s.RefreshToken
		payload.RefreshToken = &token
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		// Only strings and a struct of strings are marshalled.
		return ""
	}
	return escapeComponent(string(raw))
}

// DecodeSession never fails: anything that is not a complete, well-formed
// bundle decodes to the anonymous session.
func DecodeSession(raw string) Session {
	if strings.TrimSpace(raw) == "" {
		return Anonymous()
	}
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return Anonymous()
	}
	var payload cookiePayload
	if err := json.Unmarshal([]byte(unescaped), &payload); err != nil {
		return Anonymous()
	}
	if payload.User == nil || payload.AccessToken == nil || payload.RefreshToken == nil {
		return Anonymous()
	}
	s := NewSession(User{
		ID:       payload.User.ID,
		Username: payload.User.Username,
		Email:    payload.User.Email,
	}, *payload.AccessToken, *payload.RefreshToken)
	if !s.Authenticated() {
		return Anonymous()
	}
	return s
}

// componentUnreserved restores the marks encodeURIComponent leaves as-is
// but url.QueryEscape escapes.
var componentUnreserved = strings.NewReplacer("%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// escapeComponent follows encodeURIComponent: spaces become %20, and
// !'()* stay literal.
func escapeComponent(s string) string {
	return componentUnreserved.Replace(strings.ReplaceAll(url.QueryEscape(s), "+", "%20"))
}
