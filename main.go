// Local development server. Each service normally runs as its own Lambda
// behind API Gateway; this binary mounts them all on one HTTP port by
// adapting net/http requests into API Gateway events.
package main

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/joho/godotenv"

	"github.com/mediashare-services/common/config"
	"github.com/mediashare-services/common/email"
	"github.com/mediashare-services/common/logger"
	"github.com/mediashare-services/common/scheduler"
	"github.com/mediashare-services/common/store"
	"github.com/mediashare-services/common/token"
	authhandler "github.com/mediashare-services/services/auth-lambda/handler"
	authrepo "github.com/mediashare-services/services/auth-lambda/repository"
	authusecase "github.com/mediashare-services/services/auth-lambda/usecase"
	mediahandler "github.com/mediashare-services/services/media-lambda/handler"
	mediarepo "github.com/mediashare-services/services/media-lambda/repository"
	"github.com/mediashare-services/services/media-lambda/storage"
	mediausecase "github.com/mediashare-services/services/media-lambda/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

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

	tokens := token.NewService(cfg.JWTSecret)
	mailer := email.NewService(cfg.SMTP)

	auth := authusecase.NewAuthUsecase(
		authrepo.NewUserRepository(st),
		authrepo.NewResetRepository(st),
		tokens,
		mailer,
		cfg,
	)
	if err := auth.EnsureAdmin(ctx); err != nil {
		logger.Fatal("failed to bootstrap admin account: %v", err)
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
	media := mediausecase.NewMediaUsecase(mediarepo.NewContentRepository(st), objects, cfg)

	cleanup := scheduler.NewResetRequestCleanupScheduler(st, cfg.CleanupInterval, cfg.CleanupRetention)
	cleanup.Start()
	defer cleanup.Stop()

	authH := authhandler.NewAuthHandler(auth, tokens)
	mediaH := mediahandler.NewMediaHandler(media, tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/", serveLambda(authH.Route))
	mux.HandleFunc("/media/", serveLambda(mediaH.Route))

	logger.Info("local server listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
		logger.Fatal("server stopped: %v", err)
	}
}

type lambdaRoute func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// serveLambda bridges a net/http request into an API Gateway invocation.
func serveLambda(route lambdaRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		event, err := adaptRequest(r)
		if err != nil {
			http.Error(w, "failed to read request", http.StatusBadRequest)
			return
		}

		resp, err := route(r.Context(), event)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		w.Write([]byte(resp.Body))

		logger.Default().LogRequest(logger.RequestLog{
			Method:   r.Method,
			Path:     r.URL.Path,
			Status:   resp.StatusCode,
			Duration: time.Since(start),
			ClientIP: clientIP(r),
		})
	}
}

func adaptRequest(r *http.Request) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}

	query := make(map[string]string)
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			query[k] = vs[0]
		}
	}

	return events.APIGatewayProxyRequest{
		Path:                  r.URL.Path,
		HTTPMethod:            r.Method,
		Headers:               headers,
		QueryStringParameters: query,
		Body:                  string(body),
	}, nil
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.Split(fwd, ",")[0]
	}
	return r.RemoteAddr
}
