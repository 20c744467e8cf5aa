package in

import (
	"context"

	"geomoments/internal/modules/geo/dto"
	geoin "geomoments/internal/modules/geo/port/in"
)

type CLIHandler struct {
	usecase geoin.Usecase
}

func NewCLIHandler(usecase geoin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Locate(ctx context.Context) (dto.LocateOutput, error) {
	return h.usecase.Locate(ctx)
}
