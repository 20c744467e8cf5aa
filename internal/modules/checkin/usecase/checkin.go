package usecase

import (
	"context"

	"geomoments/internal/modules/checkin/domain"
	"geomoments/internal/modules/checkin/dto"
	checkinin "geomoments/internal/modules/checkin/port/in"
	"geomoments/internal/modules/checkin/service"
)

type Interactor struct {
	svc *service.CheckInService
}

func NewInteractor(svc *service.CheckInService) checkinin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) (dto.ListOutput, error) {
	feed, err := i.svc.List(ctx, input.Offline, input.Limit)
	if err != nil {
		return dto.ListOutput{}, err
	}
	out := dto.ListOutput{
		Items:     make([]dto.CheckInOutput, 0, len(feed.Items)),
		Stale:     feed.Stale,
		Warning:   feed.Warning,
		FetchedAt: feed.FetchedAt,
	}
	for _, item := range feed.Items {
		out.Items = append(out.Items, toOutput(item))
	}
	return out, nil
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.CheckInOutput, error) {
	created, err := i.svc.Create(ctx, domain.Draft{
		Caption:    input.Caption,
		ImagePaths: input.ImagePaths,
		Lat:        input.Lat,
		Lng:        input.Lng,
	})
	if err != nil {
		return dto.CheckInOutput{}, err
	}
	return toOutput(created), nil
}

func toOutput(c domain.CheckIn) dto.CheckInOutput {
	return dto.CheckInOutput{
		ID:          c.ID,
		Caption:     c.Caption,
		ImageURLs:   append([]string(nil), c.ImageURLs...),
		Lat:         c.Lat,
		Lng:         c.Lng,
		CreatedAt:   c.CreatedAt,
		LikeCount:   c.LikeCount,
		Type:        string(c.Type),
		TypeLabel:   c.Type.Label(),
		Status:      string(c.Status),
		StatusLabel: c.Status.Label(),
	}
}
