package out

import (
	"context"
	"time"

	"geomoments/internal/modules/checkin/domain"
)

type Gateway interface {
	AllCheckIns(ctx context.Context) ([]domain.CheckIn, error)
	CreateCheckIn(ctx context.Context, bearerToken string, submission domain.Submission) (domain.CheckIn, error)
}

// ImageUploader stores an encoded image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, dataURL string) (string, error)
}

type ImageReader interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// FeedCache keeps the last fetched feed for offline use.
type FeedCache interface {
	Replace(ctx context.Context, items []domain.CheckIn, fetchedAt time.Time) error
	Upsert(ctx context.Context, item domain.CheckIn) error
	List(ctx context.Context, limit int) ([]domain.CheckIn, time.Time, error)
}
