package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"baseline_academy/internal/common"
	"baseline_academy/internal/domain/model"
	"baseline_academy/internal/domain/repository"
)

// AdminPasswordHash is the bcrypt hash of "password", used for the default admin.
const AdminPasswordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

// SeedAdmin creates the default admin account unless one already exists.
func SeedAdmin(ctx context.Context, users repository.UserRepository, logger *slog.Logger) error {
	_, err := users.FindByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrUserNotFound) {
		return fmt.Errorf("looking up admin: %w", err)
	}

	admin := &model.User{
		Username:     "admin",
		Email:        "admin@baselineacademy.com",
		PasswordHash: AdminPasswordHash,
		Role:         model.RoleAdmin,
	}
	if err := users.Insert(ctx, admin); err != nil {
		// Another instance may have seeded first.
		if errors.Is(err, common.ErrDuplicateUsername) || errors.Is(err, common.ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("seeding admin: %w", err)
	}
	logger.Warn("seeded default admin account; change its password", "user_id", admin.ID)
	return nil
}
