package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/casedesk/casedesk/internal/model"
	"github.com/casedesk/casedesk/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence surface for accounts.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// UserService handles registration, credential checks, and the
// administrative activate/deactivate toggle.
type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Register creates a new active account. Self-registration is limited to
// CLIENT and LAWYER; admins are provisioned out of band.
func (s *UserService) Register(ctx context.Context, email, password string, role model.Role) (*model.User, error) {
	if role != model.RoleClient && role != model.RoleLawyer {
		return nil, fmt.Errorf("role %q cannot self-register", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(role)),
	)

	return user, nil
}

// Authenticate checks credentials and returns the account. Inactive
// accounts fail exactly like wrong passwords.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidLogin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidLogin
	}

	return user, nil
}

// SetActive toggles the soft-delete flag on an account.
func (s *UserService) SetActive(ctx context.Context, id int64, active bool) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.users.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	s.logger.Info("user active flag changed",
		zap.Int64("user_id", id),
		zap.Bool("active", active),
	)

	return nil
}

// GetByID fetches one account. Returns (nil, nil) when not found.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
