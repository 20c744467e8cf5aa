package in

import (
	"context"

	"geomoments/internal/modules/checkin/dto"
	checkinin "geomoments/internal/modules/checkin/port/in"
)

type CLIHandler struct {
	usecase checkinin.Usecase
}

func NewCLIHandler(usecase checkinin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, offline bool, limit int) (dto.ListOutput, error) {
	return h.usecase.List(ctx, dto.ListInput{Offline: offline, Limit: limit})
}

func (h CLIHandler) Create(ctx context.Context, caption string, imagePaths []string, lat, lng float64) (dto.CheckInOutput, error) {
	return h.usecase.Create(ctx, dto.CreateInput{Caption: caption, ImagePaths: imagePaths, Lat: lat, Lng: lng})
}
