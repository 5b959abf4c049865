// Package bootstrap wires the runtime dependencies shared by the server and the CLIs.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"spincat/internal/cache"
	"spincat/internal/config"
	"spincat/internal/database"
	"spincat/internal/middleware"
	"spincat/internal/models"
	"spincat/internal/repository"
	"spincat/internal/validation"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitRuntime connects to the database (applying the schema) and Redis. A Redis
// failure is logged and yields a nil client; the API runs without it.
func InitRuntime(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "redis unavailable, continuing without it",
			slog.String("error", err.Error()))
		rdb = nil
	}

	if err := EnsureDevAdmin(ctx, cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	return db, rdb, nil
}

// EnsureDevAdmin creates the development admin account when DEV_BOOTSTRAP_ADMIN
// is set outside production. An existing account is left untouched.
func EnsureDevAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil || !cfg.DevBootstrapAdmin || cfg.IsProduction() {
		return nil
	}

	username := strings.TrimSpace(cfg.DevAdminUsername)
	if username == "" {
		username = "admin"
	}
	if err := validation.ValidateUsername(username); err != nil {
		return fmt.Errorf("DEV_ADMIN_USERNAME: %w", err)
	}
	if cfg.DevAdminPassword == "" {
		return errors.New("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	admins := repository.NewAdminRepository(db)
	_, err := admins.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DevAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	err = admins.Create(ctx, &models.Admin{Username: username, PasswordHash: string(hash)})
	if err != nil && !errors.Is(err, repository.ErrDuplicateAdmin) {
		return err
	}

	middleware.Logger.InfoContext(ctx, "development admin ensured", slog.String("username", username))
	return nil
}
