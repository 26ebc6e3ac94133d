package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/config"
)

// AdminEnsurer creates or promotes the bootstrap admin. *services.AuthService
// implements it.
type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, error)
}

// CreateDefaultData makes sure the configured admin account exists. Without
// an admin email nothing is seeded.
func CreateDefaultData(ctx context.Context, cfg *config.Config, admins AdminEnsurer, lgr zerolog.Logger) error {
	if cfg.Admin.Email == "" {
		lgr.Info().Msg("No admin email configured, skipping admin seed")
		return nil
	}

	lgr.Info().Str("email", cfg.Admin.Email).Msg("Checking/Creating admin account...")
	admin, err := admins.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	lgr.Info().Str("userID", admin.ID).Msg("Admin account ready")
	return nil
}
