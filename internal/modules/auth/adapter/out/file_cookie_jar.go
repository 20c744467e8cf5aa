package out

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	authout "geomoments/internal/modules/auth/port/out"
	"geomoments/internal/platform/clock"
)

type jarEntry struct {
	Value   string    `json:"value"`
	Path    string    `json:"path"`
	Expires time.Time `json:"expires,omitzero"`
}

type jarFile struct {
	Cookies map[string]jarEntry `json:"cookies"`
}

// FileCookieJar keeps cookie slots in a JSON file, honouring Max-Age the
// way a browser does: expired entries read as absent and are purged.
type FileCookieJar struct {
	mu    sync.Mutex
	path  string
	clock clock.Clock
}

func NewFileCookieJar(path string, clk clock.Clock) authout.CookieStorage {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &FileCookieJar{path: path, clock: clk}
}

func (j *FileCookieJar) Get(_ context.Context, name string) (string, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	jar, err := j.load()
	if err != nil {
		return "", false, err
	}
	entry, ok := jar.Cookies[name]
	if !ok {
		return "", false, nil
	}
	if j.expired(entry) {
		delete(jar.Cookies, name)
		if err := j.save(jar); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (j *FileCookieJar) Set(_ context.Context, cookie *http.Cookie) error {
	if cookie == nil || cookie.Name == "" {
		return fmt.Errorf("cookie name is required")
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	jar, err := j.load()
	if err != nil {
		return err
	}
	now := j.clock.Now()
	entry := jarEntry{Value: cookie.Value, Path: cookie.Path}
	switch {
	case cookie.MaxAge < 0:
		delete(jar.Cookies, cookie.Name)
		return j.save(jar)
	case cookie.MaxAge > 0:
		entry.Expires = now.Add(time.Duration(cookie.MaxAge) * time.Second)
	case !cookie.Expires.IsZero():
		if !cookie.Expires.After(now) {
			delete(jar.Cookies, cookie.Name)
			return j.save(jar)
		}
		entry.Expires = cookie.Expires.UTC()
	}
	if entry.Path == "" {
		entry.Path = "/"
	}
	jar.Cookies[cookie.Name] = entry
	return j.save(jar)
}

func (j *FileCookieJar) expired(entry jarEntry) bool {
	return !entry.Expires.IsZero() && !j.clock.Now().Before(entry.Expires)
}

func (j *FileCookieJar) load() (jarFile, error) {
	jar := jarFile{Cookies: map[string]jarEntry{}}
	payload, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return jar, nil
		}
		return jar, fmt.Errorf("read cookie jar: %w", err)
	}
	if err := json.Unmarshal(payload, &jar); err != nil {
		// A corrupt jar behaves like an empty one; the next write replaces it.
		return jarFile{Cookies: map[string]jarEntry{}}, nil
	}
	if jar.Cookies == nil {
		jar.Cookies = map[string]jarEntry{}
	}
	return jar, nil
}

func (j *FileCookieJar) save(jar jarFile) error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return fmt.Errorf("create cookie jar dir: %w", err)
	}
	payload, err := json.MarshalIndent(jar, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cookie jar: %w", err)
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write cookie jar: %w", err)
	}
	if err := os.Rename(tmp, j.path); err != nil {
		return fmt.Errorf("replace cookie jar: %w", err)
	}
	return nil
}
