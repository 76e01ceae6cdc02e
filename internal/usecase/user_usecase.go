package usecase

import (
	"context"

	"job-tracker/internal/domain/user"
	ucuser "job-tracker/internal/usecase/user"

	"github.com/google/uuid"
)

type UserUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (user.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, in ucuser.UpdateMeInput) (user.User, error)
	SetRole(ctx context.Context, actorID, userID uuid.UUID, role user.Role) (user.User, error)
	SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (user.User, error)
}

type User struct {
	svc *ucuser.Service
}

func NewUserUsecase(users user.Repository, bcryptCost int) *User {
	return &User{svc: ucuser.NewService(users, bcryptCost)}
}

func (u *User) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return u.svc.GetMe(ctx, userID)
}

func (u *User) UpdateMe(ctx context.Context, userID uuid.UUID, in ucuser.UpdateMeInput) (user.User, error) {
	return u.svc.UpdateMe(ctx, userID, in)
}

func (u *User) SetRole(ctx context.Context, actorID, userID uuid.UUID, role user.Role) (user.User, error) {
	return u.svc.SetRole(ctx, actorID, userID, role)
}

func (u *User) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (user.User, error) {
	return u.svc.SetActive(ctx, actorID, userID, active)
}
