// Package bootstrap wires the process-wide dependencies shared by the
// server and the command-line tools.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"agora/internal/cache"
	"agora/internal/config"
	"agora/internal/database"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// EnsureCategories creates the default categories that are missing.
	EnsureCategories bool
}

// InitRuntime connects to the database and Redis, then applies the
// development bootstrap steps. Redis is optional: a nil client is returned
// when it is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.InitRedis(cfg.RedisURL)

	if err := ensureDevAdmin(ctx, cfg, repository.NewUserRepository(db)); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	if opts.EnsureCategories {
		_, created, err := seed.EnsureCategories(ctx, repository.NewCategoryRepository(db))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to ensure default categories: %w", err)
		}
		if created > 0 {
			middleware.Logger.Info("default categories created", "count", created)
		}
	}

	return db, rdb, nil
}

// ensureDevAdmin makes sure a development administrator exists. It only
// runs in development with DEV_BOOTSTRAP_ADMIN set; an existing account
// with the email is promoted rather than recreated.
func ensureDevAdmin(ctx context.Context, cfg *config.Config, users repository.UserRepository) error {
	if cfg == nil || !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.DevAdminEmail))
	if email == "" {
		email = "admin@agora.local"
	}
	name := strings.TrimSpace(cfg.DevAdminName)
	if name == "" {
		name = "Administrador"
	}
	if cfg.DevAdminPassword == "" {
		return fmt.Errorf("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if !existing.IsAdmin {
			if err := users.SetAdmin(ctx, existing.ID, true); err != nil {
				return err
			}
		}
		middleware.Logger.Info("development admin ensured", "email", email, "created", false)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DevAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		IsAdmin:  true,
		Profile: &models.UserProfile{
			Bio:        "Administrador da plataforma",
			Occupation: "Administrador",
			IsPublic:   true,
		},
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	middleware.Logger.Info("development admin ensured", "email", email, "created", true)
	return nil
}
