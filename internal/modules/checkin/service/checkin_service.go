package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	authin "geomoments/internal/modules/auth/port/in"
	"geomoments/internal/modules/checkin/domain"
	checkinout "geomoments/internal/modules/checkin/port/out"
	"geomoments/internal/platform/clock"
	apperrors "geomoments/internal/platform/errors"
	"geomoments/internal/platform/logging"
)

const uploadConcurrency = 3

// Feed is a list result; Stale marks a cached copy served after a failed
// fetch.
type Feed struct {
	Items     []domain.CheckIn
	FetchedAt time.Time
	Stale     bool
	Warning   string
}

type CheckInService struct {
	clock    clock.Clock
	session  authin.SessionReader
	gateway  checkinout.Gateway
	uploader checkinout.ImageUploader
	images   checkinout.ImageReader
	cache    checkinout.FeedCache
	logger   *slog.Logger
}

func NewCheckInService(
	clock clock.Clock,
	session authin.SessionReader,
	gateway checkinout.Gateway,
	uploader checkinout.ImageUploader,
	images checkinout.ImageReader,
	cache checkinout.FeedCache,
	logger *slog.Logger,
) *CheckInService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CheckInService{
		clock:    clock,
		session:  session,
		gateway:  gateway,
		uploader: uploader,
		images:   images,
		cache:    cache,
		logger:   logger,
	}
}

func (s *CheckInService) List(ctx context.Context, offline bool, limit int) (Feed, error) {
	if offline {
		return s.cached(ctx, limit, nil)
	}
	items, err := s.gateway.AllCheckIns(ctx)
	if err != nil {
		s.logger.Warn("feed fetch failed, falling back to cache", "error", err)
		return s.cached(ctx, limit, err)
	}
	domain.SortNewestFirst(items)
	fetchedAt := s.clock.Now()
	if s.cache != nil {
		if err := s.cache.Replace(ctx, items, fetchedAt); err != nil {
			s.logger.Warn("feed cache not updated", "error", err)
		}
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return Feed{Items: items, FetchedAt: fetchedAt}, nil
}

func (s *CheckInService) cached(ctx context.Context, limit int, fetchErr error) (Feed, error) {
	if s.cache == nil {
		if fetchErr != nil {
			return Feed{}, fetchErr
		}
		return Feed{}, nil
	}
	items, fetchedAt, err := s.cache.List(ctx, limit)
	if err != nil {
		if fetchErr != nil {
			return Feed{}, errors.Join(fetchErr, err)
		}
		return Feed{}, err
	}
	if fetchErr == nil {
		return Feed{Items: items, FetchedAt: fetchedAt, Stale: true}, nil
	}
	if len(items) == 0 {
		return Feed{}, fetchErr
	}
	return Feed{Items: items, FetchedAt: fetchedAt, Stale: true, Warning: fetchErr.Error()}, nil
}

// Create uploads the draft's images and submits the check-in on behalf of
// the current session.
func (s *CheckInService) Create(ctx context.Context, draft domain.Draft) (domain.CheckIn, error) {
	token, err := s.session.BearerToken(ctx)
	if err != nil {
		return domain.CheckIn{}, err
	}
	if err := draft.Validate(); err != nil {
		return domain.CheckIn{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	urls, err := s.uploadAll(ctx, draft.ImagePaths)
	if err != nil {
		return domain.CheckIn{}, err
	}

	created, err := s.gateway.CreateCheckIn(ctx, token, domain.Submission{
		Caption:   strings.TrimSpace(draft.Caption),
		ImageURLs: urls,
		Lat:       draft.Lat,
		Lng:       draft.Lng,
	})
	if err != nil {
		return domain.CheckIn{}, err
	}
	if s.cache != nil {
		if err := s.cache.Upsert(ctx, created); err != nil {
			s.logger.Warn("new check-in not cached", "id", created.ID, "error", err)
		}
	}
	s.logger.Info("check-in created", "id", created.ID, "images", len(urls))
	return created, nil
}

// uploadAll uploads images concurrently and returns their URLs in input
// order. The first failure cancels the rest.
func (s *CheckInService) uploadAll(ctx context.Context, paths []string) ([]string, error) {
	urls := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			data, err := s.images.Read(gctx, path)
			if err != nil {
				return err
			}
			dataURL, err := domain.EncodeDataURL(data)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", apperrors.ErrInvalidInput, path, err)
			}
			url, err := s.uploader.Upload(gctx, dataURL)
			if err != nil {
				return err
			}
			if url == "" {
				return fmt.Errorf("%w: %s", apperrors.ErrUploadFailed, path)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
