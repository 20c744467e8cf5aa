package in

import (
	"context"

	"geomoments/internal/modules/checkin/dto"
)

type Usecase interface {
	List(ctx context.Context, input dto.ListInput) (dto.ListOutput, error)
	Create(ctx context.Context, input dto.CreateInput) (dto.CheckInOutput, error)
}
