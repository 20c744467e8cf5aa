package usecase

import (
	"context"

	"geomoments/internal/modules/auth/domain"
	"geomoments/internal/modules/auth/dto"
	authin "geomoments/internal/modules/auth/port/in"
	"geomoments/internal/modules/auth/service"
)

type Interactor struct {
	svc *service.AuthService
}

func NewInteractor(svc *service.AuthService) authin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error) {
	if _, err := i.svc.Login(ctx, input.UsernameOrEmail, input.Password); err != nil {
		return dto.SessionOutput{}, err
	}
	return i.Current(ctx)
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.SessionOutput, error) {
	if _, err := i.svc.Register(ctx, input.Username, input.Email, input.Password); err != nil {
		return dto.SessionOutput{}, err
	}
	return i.Current(ctx)
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.svc.Logout(ctx)
}

func (i *Interactor) Current(_ context.Context) (dto.SessionOutput, error) {
	session, info := i.svc.Current()
	return toOutput(session, info, i.svc.Expired(info)), nil
}

func (i *Interactor) BearerToken(_ context.Context) (string, error) {
	return i.svc.BearerToken()
}

func toOutput(session domain.Session, info domain.TokenInfo, expired bool) dto.SessionOutput {
	if !session.Authenticated() {
		return dto.SessionOutput{}
	}
	return dto.SessionOutput{
		Authenticated: true,
		User: dto.UserOutput{
			ID:       session.User.ID,
			Username: session.User.Username,
			Email:    session.User.Email,
		},
		ExpiresAt: info.ExpiresAt,
		Expired:   expired,
	}
}
