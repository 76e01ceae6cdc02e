package user

import (
	"context"
	"errors"
	"strings"

	"job-tracker/internal/domain/user"
	ucauth "job-tracker/internal/usecase/auth"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
	ErrSelfChange   = errors.New("cannot change own role or active flag")
	ErrInternal     = errors.New("internal error")
)

type UpdateMeInput struct {
	FullName *string
	Phone    *string
	Password *string
}

type Service struct {
	users      user.Repository
	bcryptCost int
}

func NewService(users user.Repository, bcryptCost int) *Service {
	return &Service{users: users, bcryptCost: bcryptCost}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return s.get(ctx, userID)
}

func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateMeInput) (user.User, error) {
	usr, err := s.load(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" || len(name) > 200 {
			return user.User{}, ErrInvalidInput
		}
		usr.FullName = name
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if len(phone) > 50 {
			return user.User{}, ErrInvalidInput
		}
		usr.Phone = phone
	}
	if in.Password != nil {
		pw := strings.TrimSpace(*in.Password)
		if len(pw) < 8 || len(pw) > 72 {
			return user.User{}, ErrInvalidInput
		}
		hash, err := ucauth.HashPassword(pw, s.bcryptCost)
		if err != nil {
			return user.User{}, ErrInternal
		}
		usr.PasswordHash = hash
	}

	if err := s.users.UpdateUser(ctx, usr); err != nil {
		return user.User{}, ErrInternal
	}
	return s.get(ctx, userID)
}

// SetRole changes another user's role.
func (s *Service) SetRole(ctx context.Context, actorID, userID uuid.UUID, role user.Role) (user.User, error) {
	if !role.Valid() {
		return user.User{}, ErrInvalidInput
	}
	if actorID == userID {
		return user.User{}, ErrSelfChange
	}
	usr, err := s.load(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	usr.Role = role
	if err := s.users.UpdateUser(ctx, usr); err != nil {
		return user.User{}, ErrInternal
	}
	return s.get(ctx, userID)
}

// SetActive enables or disables another user's account.
func (s *Service) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (user.User, error) {
	if actorID == userID {
		return user.User{}, ErrSelfChange
	}
	usr, err := s.load(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	usr.IsActive = active
	if err := s.users.UpdateUser(ctx, usr); err != nil {
		return user.User{}, ErrInternal
	}
	return s.get(ctx, userID)
}

func (s *Service) get(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.load(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	return ucauth.Sanitize(usr), nil
}

func (s *Service) load(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return usr, nil
}
