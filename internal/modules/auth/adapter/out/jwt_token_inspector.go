package out

import (
	"github.com/golang-jwt/jwt/v5"

	"geomoments/internal/modules/auth/domain"
	authout "geomoments/internal/modules/auth/port/out"
)

// JWTTokenInspector reads registered claims without checking the
// signature; the client never holds the server's key.
type JWTTokenInspector struct {
	parser *jwt.Parser
}

func NewJWTTokenInspector() authout.TokenInspector {
	return JWTTokenInspector{parser: jwt.NewParser()}
}

func (i JWTTokenInspector) Inspect(token string) (domain.TokenInfo, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return domain.TokenInfo{}, false
	}
	info := domain.TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return info, true
}
