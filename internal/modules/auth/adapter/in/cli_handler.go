package in

import (
	"context"

	"geomoments/internal/modules/auth/dto"
	authin "geomoments/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, usernameOrEmail, password string) (dto.SessionOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{UsernameOrEmail: usernameOrEmail, Password: password})
}

func (h CLIHandler) Register(ctx context.Context, username, email, password string) (dto.SessionOutput, error) {
	return h.usecase.Register(ctx, dto.RegisterInput{Username: username, Email: email, Password: password})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) BearerToken(ctx context.Context) (string, error) {
	return h.usecase.BearerToken(ctx)
}
