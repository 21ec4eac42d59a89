package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/mediashare-services/common/config"
	"github.com/mediashare-services/common/logger"
	"github.com/mediashare-services/common/store"
	"github.com/mediashare-services/common/token"
	"github.com/mediashare-services/services/media-lambda/handler"
	"github.com/mediashare-services/services/media-lambda/repository"
	"github.com/mediashare-services/services/media-lambda/storage"
	"github.com/mediashare-services/services/media-lambda/usecase"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration: %v", err)
	}

	st, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal("failed to connect to document store: %v", err)
	}

	objects, err := storage.NewS3Storage(ctx, storage.Options{
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		Endpoint:     cfg.S3Endpoint,
		UsePathStyle: cfg.S3UsePathStyle,
	})
	if err != nil {
		logger.Fatal("failed to initialise object storage: %v", err)
	}

	media := usecase.NewMediaUsecase(repository.NewContentRepository(st), objects, cfg)
	h := handler.NewMediaHandler(media, token.NewService(cfg.JWTSecret))
	lambda.Start(h.Route)
}
