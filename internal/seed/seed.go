package seed

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk/internal/model"
	"github.com/casedesk/casedesk/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BootstrapAdmin ensures an ADMIN account exists for the configured
// credentials. Admins cannot self-register, so a fresh deployment needs
// this to have a first reviewer. No-op when email is empty or taken.
func BootstrapAdmin(ctx context.Context, users *repository.UserRepository, email, password string, logger *zap.Logger) error {
	if email == "" {
		return nil
	}

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     true,
	}

	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	logger.Info("bootstrap admin created", zap.Int64("user_id", admin.ID))
	return nil
}
