package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"job-tracker/internal/domain/user"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrRoleNotAllowed         = errors.New("role not allowed for self sign-up")
	ErrInactiveUser           = errors.New("user is inactive")
	ErrInternal               = errors.New("internal error")
)

var validate = validator.New()

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Role     user.Role
}

type LoginInput struct {
	Email    string
	Password string
}

type Options struct {
	AllowRecruiterSignup bool
	BcryptCost           int
}

type Service struct {
	users user.Repository
	opts  Options
}

func NewService(users user.Repository, opts Options) *Service {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{users: users, opts: opts}
}

// Register creates an active account. Self sign-up yields a job seeker unless
// recruiter sign-up is enabled; admins are never self-registered.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if !isValidEmail(email) || !isValidPassword(in.Password) {
		return user.User{}, ErrInvalidInput
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" || len(fullName) > 200 {
		return user.User{}, ErrInvalidInput
	}

	role := in.Role
	switch role {
	case "":
		role = user.RoleJobSeeker
	case user.RoleJobSeeker:
	case user.RoleRecruiter:
		if !s.opts.AllowRecruiterSignup {
			return user.User{}, ErrRoleNotAllowed
		}
	default:
		return user.User{}, ErrRoleNotAllowed
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, ErrInternal
	}
	if exists {
		return user.User{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		IsActive:     true,
	}

	if err := s.users.CreateUser(ctx, u); err != nil {
		exists, exErr := s.users.ExistsByEmail(ctx, email)
		if exErr == nil && exists {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, ErrInternal
	}

	created, err := s.users.GetUserByID(ctx, u.ID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return Sanitize(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return user.User{}, ErrInactiveUser
	}

	return Sanitize(u), nil
}

func HashPassword(pw string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", ErrInternal
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func isValidPassword(pw string) bool {
	pw = strings.TrimSpace(pw)
	return len(pw) >= 8 && len(pw) <= 72
}

// Sanitize strips the password hash before a user leaves the usecase layer.
func Sanitize(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
