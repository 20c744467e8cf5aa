package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"geomoments/internal/modules/checkin/domain"

	_ "modernc.org/sqlite"
)

// SQLiteFeedCache mirrors the last fetched feed. An empty path keeps the
// cache in memory for the life of the process.
type SQLiteFeedCache struct {
	db *sql.DB
}

func NewSQLiteFeedCache(dbPath string) (*SQLiteFeedCache, error) {
	dsn := ":memory:"
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		dsn = dbPath
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if dbPath == "" {
		// every pooled connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	cache := &SQLiteFeedCache{db: db}
	if err := cache.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

func (s *SQLiteFeedCache) Close() error {
	return s.db.Close()
}

func (s *SQLiteFeedCache) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS checkins (
  id TEXT PRIMARY KEY,
  caption TEXT NOT NULL,
  image_urls TEXT NOT NULL,
  lat REAL NOT NULL,
  lng REAL NOT NULL,
  created_at INTEGER NOT NULL,
  like_count INTEGER NOT NULL,
  type TEXT NOT NULL,
  status TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS checkins_created_at ON checkins(created_at DESC);
CREATE TABLE IF NOT EXISTS feed_meta (
  key TEXT PRIMARY KEY,
  value INTEGER NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create feed tables: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteFeedCache) Replace(ctx context.Context, items []domain.CheckIn, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin feed replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM checkins`); err != nil {
		return fmt.Errorf("reset checkins: %w", err)
	}
	for _, item := range items {
		if err := upsertCheckIn(ctx, tx, item); err != nil {
			return err
		}
	}
	if err := setFetchedAt(ctx, tx, fetchedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit feed replace: %w", err)
	}
	return nil
}

func (s *SQLiteFeedCache) Upsert(ctx context.Context, item domain.CheckIn) error {
	return upsertCheckIn(ctx, s.db, item)
}

func upsertCheckIn(ctx context.Context, db execer, item domain.CheckIn) error {
	const stmt = `
INSERT INTO checkins (id, caption, image_urls, lat, lng, created_at, like_count, type, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  caption=excluded.caption,
  image_urls=excluded.image_urls,
  lat=excluded.lat,
  lng=excluded.lng,
  created_at=excluded.created_at,
  like_count=excluded.like_count,
  type=excluded.type,
  status=excluded.status;
`
	urls := item.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	encoded, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("encode image urls: %w", err)
	}
	_, err = db.ExecContext(ctx, stmt,
		item.ID,
		item.Caption,
		string(encoded),
		item.Lat,
		item.Lng,
		item.CreatedAt.UnixMilli(),
		item.LikeCount,
		string(item.Type),
		string(item.Status),
	)
	if err != nil {
		return fmt.Errorf("upsert checkin: %w", err)
	}
	return nil
}

func setFetchedAt(ctx context.Context, db execer, at time.Time) error {
	const stmt = `
INSERT INTO feed_meta (key, value) VALUES ('fetched_at', ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value;
`
	if _, err := db.ExecContext(ctx, stmt, at.UnixMilli()); err != nil {
		return fmt.Errorf("record fetch time: %w", err)
	}
	return nil
}

// List returns cached check-ins newest first together with the time of the
// fetch that produced them. A zero time means nothing was ever fetched.
func (s *SQLiteFeedCache) List(ctx context.Context, limit int) ([]domain.CheckIn, time.Time, error) {
	var fetchedAt time.Time
	var ms int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM feed_meta WHERE key = 'fetched_at'`).Scan(&ms)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, time.Time{}, fmt.Errorf("read fetch time: %w", err)
	default:
		fetchedAt = time.UnixMilli(ms).UTC()
	}

	query := `SELECT id, caption, image_urls, lat, lng, created_at, like_count, type, status
FROM checkins ORDER BY created_at DESC, id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query checkins: %w", err)
	}
	defer rows.Close()

	items := []domain.CheckIn{}
	for rows.Next() {
		var (
			item      domain.CheckIn
			urls      string
			createdAt int64
			kind      string
			status    string
		)
		if err := rows.Scan(&item.ID, &item.Caption, &urls, &item.Lat, &item.Lng, &createdAt, &item.LikeCount, &kind, &status); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan checkin: %w", err)
		}
		if err := json.Unmarshal([]byte(urls), &item.ImageURLs); err != nil {
			return nil, time.Time{}, fmt.Errorf("decode image urls for %s: %w", item.ID, err)
		}
		item.CreatedAt = time.UnixMilli(createdAt).UTC()
		item.Type = domain.Kind(kind)
		item.Status = domain.Status(status)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate checkins: %w", err)
	}
	return items, fetchedAt, nil
}
