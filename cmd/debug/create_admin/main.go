// Creates the bootstrap admin account against the configured document store.
// Useful when the server itself should not hold the admin password.
//
// Usage: ADMIN_PASSWORD=... go run ./cmd/debug/create_admin
package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/mediashare-services/common/config"
	"github.com/mediashare-services/common/logger"
	"github.com/mediashare-services/common/store"
	"github.com/mediashare-services/common/token"
	"github.com/mediashare-services/services/auth-lambda/repository"
	"github.com/mediashare-services/services/auth-lambda/usecase"
)

type noopMailer struct{}

func (noopMailer) SendOTPEmail(ctx context.Context, to, code string) error { return nil }

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration: %v", err)
	}

	ctx := context.Background()
	st, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal("failed to connect to document store: %v", err)
	}
	defer st.Close(ctx)

	auth := usecase.NewAuthUsecase(
		repository.NewUserRepository(st),
		repository.NewResetRepository(st),
		token.NewService(cfg.JWTSecret),
		noopMailer{},
		cfg,
	)

	if err := auth.EnsureAdmin(ctx); err != nil {
		logger.Fatal("admin bootstrap failed: %v", err)
	}
	logger.Info("admin account %s is present", cfg.AdminUsername)
}
