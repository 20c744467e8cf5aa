package out

import (
	"context"
	"net/http"

	authout "geomoments/internal/modules/auth/port/out"
)

// NopCookieStorage backs ephemeral runs: nothing is read or written.
type NopCookieStorage struct{}

func NewNopCookieStorage() authout.CookieStorage {
	return NopCookieStorage{}
}

func (NopCookieStorage) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (NopCookieStorage) Set(context.Context, *http.Cookie) error           { return nil }
