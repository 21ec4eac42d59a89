package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/mediashare-services/common/config"
	"github.com/mediashare-services/common/email"
	"github.com/mediashare-services/common/logger"
	"github.com/mediashare-services/common/store"
	"github.com/mediashare-services/common/token"
	"github.com/mediashare-services/services/auth-lambda/handler"
	"github.com/mediashare-services/services/auth-lambda/repository"
	"github.com/mediashare-services/services/auth-lambda/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration: %v", err)
	}

	st, err := store.ConnectMongo(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal("failed to connect to document store: %v", err)
	}

	tokens := token.NewService(cfg.JWTSecret)
	mailer := email.NewService(cfg.SMTP)

	auth := usecase.NewAuthUsecase(
		repository.NewUserRepository(st),
		repository.NewResetRepository(st),
		tokens,
		mailer,
		cfg,
	)

	h := handler.NewAuthHandler(auth, tokens)
	lambda.Start(h.Route)
}
