package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	apperrors "github.com/mediashare-services/common/errors"
	"github.com/mediashare-services/common/logger"
	"github.com/mediashare-services/common/response"
	"github.com/mediashare-services/common/scopes"
	"github.com/mediashare-services/common/token"
	"github.com/mediashare-services/services/media-lambda/models"
	"github.com/mediashare-services/services/media-lambda/usecase"
)

// MediaHandler terminates HTTP for the media service. Every operation
// requires an authenticated user; ownership checks happen in the usecase.
type MediaHandler struct {
	media  *usecase.MediaUsecase
	tokens *token.Service
	log    *logger.Logger
}

// NewMediaHandler creates the handler.
func NewMediaHandler(media *usecase.MediaUsecase, tokens *token.Service) *MediaHandler {
	return &MediaHandler{
		media:  media,
		tokens: tokens,
		log:    logger.With("handler", "media"),
	}
}

// Route dispatches an API Gateway request to the matching operation.
func (h *MediaHandler) Route(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Headers: response.CORSHeaders}, nil
	}

	claims, err := h.currentClaims(request)
	if err != nil {
		return createErrorResponse(err), nil
	}
	if !scopes.Requires(claims.Scopes, []string{scopes.User}) {
		return createErrorResponse(apperrors.Forbidden()), nil
	}

	path := strings.TrimSuffix(request.Path, "/")
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	method := request.HTTPMethod

	switch {
	case path == "/media/images" && method == http.MethodPost:
		return h.handleUploadImage(ctx, claims.Username, request)
	case path == "/media/contents" && method == http.MethodGet:
		return h.handleListContent(ctx, claims.Username, request)
	case len(segments) == 3 && segments[0] == "media" && segments[1] == "contents" && method == http.MethodGet:
		return h.handleGetContent(ctx, claims.Username, segments[2])
	case len(segments) == 4 && segments[0] == "media" && segments[1] == "contents" && segments[3] == "share" && method == http.MethodGet:
		return h.handleShare(ctx, claims.Username, segments[2])
	case len(segments) == 3 && segments[0] == "media" && segments[1] == "images" && method == http.MethodPatch:
		return h.handleUpdateImage(ctx, claims.Username, segments[2], request)
	case len(segments) == 3 && segments[0] == "media" && segments[1] == "images" && method == http.MethodDelete:
		return h.handleDeleteImage(ctx, claims.Username, segments[2])
	case path == "/media/videos" && method == http.MethodPost:
		return h.handleUploadVideo(ctx, claims.Username, request)
	case len(segments) == 4 && segments[0] == "media" && segments[1] == "videos" && segments[3] == "download" && method == http.MethodGet:
		return h.handleDownloadVideo(ctx, claims.Username, segments[2])
	case len(segments) == 3 && segments[0] == "media" && segments[1] == "videos" && method == http.MethodDelete:
		return h.handleDeleteVideo(ctx, claims.Username, segments[2])
	default:
		return createErrorResponse(apperrors.NotFound("Route")), nil
	}
}

// ============================================================
// Images
// ============================================================

func (h *MediaHandler) handleUploadImage(ctx context.Context, username string, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.UploadImageRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(apperrors.ValidationError("Request body is not valid JSON")), nil
	}

	item, err := h.media.UploadImage(ctx, username, req)
	if err != nil {
		return createErrorResponse(err), nil
	}
	return createSuccessResponse(http.StatusCreated, item), nil
}

func (h *MediaHandler) handleListContent(ctx context.Context, username string, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var imagesOnly *bool
	switch request.QueryStringParameters["type"] {
	case "images":
		v := true
		imagesOnly = &v
	case "videos":
		v := false
		imagesOnly = &v
	}

	items, err := h.media.ListContent(ctx, username, imagesOnly)
	if err != nil {
		return createErrorResponse(err), nil
	}
	return createSuccessResponse(http.StatusOK, items), nil
}

func (h *MediaHandler) handleGetContent(ctx context.Context, username, id string) (events.APIGatewayProxyResponse, error) {
	item, err := h.media.GetContent(ctx, username, id)
	if err != nil {
		return createErrorResponse(err), nil
	}
	return createSuccessResponse(http.StatusOK, item), nil
}

func (h *MediaHandler) handleUpdateImage(ctx context.Context, username, id string, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.UpdateImageRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(apperrors.ValidationError("Request body is not valid JSON")), nil
	}

	if err := h.media.UpdateImage(ctx, username, id, req); err != nil {
		return createErrorResponse(err), nil
	}
	return createMessageResponse(http.StatusOK, "Image updated"), nil
}

func (h *MediaHandler) handleDeleteImage(ctx context.Context, username, id string) (events.APIGatewayProxyResponse, error) {
	if err := h.media.DeleteImage(ctx, username, id); err != nil {
		return createErrorResponse(err), nil
	}
	return createMessageResponse(http.StatusOK, "Image deleted"), nil
}

// ============================================================
// Videos
// ============================================================

func (h *MediaHandler) handleUploadVideo(ctx context.Context, username string, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.UploadVideoRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(apperrors.ValidationError("Request body is not valid JSON")), nil
	}

	item, err := h.media.UploadVideo(ctx, username, req)
	if err != nil {
		return createErrorResponse(err), nil
	}
	return createSuccessResponse(http.StatusCreated, item), nil
}

func (h *MediaHandler) handleDownloadVideo(ctx context.Context, username, id string) (events.APIGatewayProxyResponse, error) {
	resp, err := h.media.DownloadVideo(ctx, username, id)
	if err != nil {
		return createErrorResponse(err), nil
	}
	return createSuccessResponse(http.StatusOK, resp), nil
}

func (h *MediaHandler) handleDeleteVideo(ctx context.Context, username, id string) (events.APIGatewayProxyResponse, error) {
	if err := h.media.DeleteVideo(ctx, username, id); err != nil {
		return createErrorResponse(err), nil
	}
	return createMessageResponse(http.StatusOK, "Video deleted"), nil
}

// ============================================================
// Sharing
// ============================================================

func (h *MediaHandler) handleShare(ctx context.Context, username, id string) (events.APIGatewayProxyResponse, error) {
	resp, err := h.media.ShareContent(ctx, username, id)
	if err != nil {
		return createErrorResponse(err), nil
	}
	return createSuccessResponse(http.StatusOK, resp), nil
}

// ============================================================
// Authentication helpers
// ============================================================

type callerClaims struct {
	Username string
	Scopes   []string
}

func (h *MediaHandler) currentClaims(request events.APIGatewayProxyRequest) (*callerClaims, error) {
	header := request.Headers["Authorization"]
	if header == "" {
		header = request.Headers["authorization"]
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, apperrors.Unauthorized()
	}

	subject, tokenScopes, err := h.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, apperrors.Unauthorized()
	}
	return &callerClaims{Username: subject, Scopes: tokenScopes}, nil
}

// ============================================================
// Response helpers
// ============================================================

func createSuccessResponse(status int, data interface{}) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(response.SuccessResponse(data))
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    response.CORSHeaders,
		Body:       string(body),
	}
}

func createMessageResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(response.MessageResponse(message))
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    response.CORSHeaders,
		Body:       string(body),
	}
}

func createErrorResponse(err error) events.APIGatewayProxyResponse {
	appErr := apperrors.ToAppError(err)
	body, _ := json.Marshal(response.ErrorResponse(appErr.Message))
	return events.APIGatewayProxyResponse{
		StatusCode: appErr.HTTPStatus,
		Headers:    response.CORSHeaders,
		Body:       string(body),
	}
}
