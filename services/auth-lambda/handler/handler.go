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
	"github.com/mediashare-services/services/auth-lambda/models"
	"github.com/mediashare-services/services/auth-lambda/usecase"
)

// AuthHandler terminates HTTP for the auth service.
type AuthHandler struct {
	auth   *usecase.AuthUsecase
	tokens *token.Service
	log    *logger.Logger
}

// NewAuthHandler creates the handler.
func NewAuthHandler(auth *usecase.AuthUsecase, tokens *token.Service) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		tokens: tokens,
		log:    logger.With("handler", "auth"),
	}
}

// Route dispatches an API Gateway request to the matching operation.
func (h *AuthHandler) Route(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Headers: response.CORSHeaders}, nil
	}

	path := strings.TrimSuffix(request.Path, "/")
	switch {
	case path == "/auth/token" && request.HTTPMethod == http.MethodPost:
		return h.HandleLogin(ctx, request)
	case path == "/auth/register" && request.HTTPMethod == http.MethodPost:
		return h.HandleRegister(ctx, request)
	case path == "/auth/register-moderator" && request.HTTPMethod == http.MethodPost:
		return h.HandleRegisterModerator(ctx, request)
	case path == "/auth/assign-moderator" && request.HTTPMethod == http.MethodPost:
		return h.HandleAssignModerator(ctx, request)
	case path == "/auth/forgot-password" && request.HTTPMethod == http.MethodPost:
		return h.HandleForgotPassword(ctx, request)
	case path == "/auth/verify-otp" && request.HTTPMethod == http.MethodPost:
		return h.HandleVerifyOTP(ctx, request)
	case path == "/auth/user-type" && request.HTTPMethod == http.MethodGet:
		return h.HandleGetUserType(ctx, request)
	default:
		return createErrorResponse(apperrors.NotFound("Route")), nil
	}
}

// ============================================================
// Public operations
// ============================================================

// HandleLogin handles POST /auth/token.
func (h *AuthHandler) HandleLogin(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.LoginRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(apperrors.ValidationError("Request body is not valid JSON")), nil
	}

	resp, err := h.auth.Login(ctx, req)
	if err != nil {
		return createErrorResponse(err), nil
	}
	return createSuccessResponse(http.StatusOK, resp), nil
}

// HandleRegister handles POST /auth/register.
func (h *AuthHandler) HandleRegister(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.RegisterRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(apperrors.ValidationError("Request body is not valid JSON")), nil
	}

	resp, err := h.auth.Register(ctx, req)
	if err != nil {
		return createErrorResponse(err), nil
	}
	return createSuccessResponse(http.StatusCreated, resp), nil
}

// HandleForgotPassword handles POST /auth/forgot-password.
func (h *AuthHandler) HandleForgotPassword(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.ForgotPasswordRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(apperrors.ValidationError("Request body is not valid JSON")), nil
	}

	if err := h.auth.ForgotPassword(ctx, req); err != nil {
		return createErrorResponse(err), nil
	}
	return createMessageResponse(http.StatusOK, "If the account exists, a reset code has been sent"), nil
}

// ============================================================
// Protected operations
// ============================================================

// HandleVerifyOTP handles POST /auth/verify-otp. The caller must present a
// valid bearer token; the reset always applies to the token's own account,
// so a guessed code can never complete someone else's reset.
func (h *AuthHandler) HandleVerifyOTP(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	claims, err := h.currentClaims(request)
	if err != nil {
		return createErrorResponse(err), nil
	}

	var req models.VerifyOTPRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(apperrors.ValidationError("Request body is not valid JSON")), nil
	}

	if err := h.auth.VerifyOTP(ctx, claims.Username, req); err != nil {
		return createErrorResponse(err), nil
	}
	return createMessageResponse(http.StatusOK, "Password has been reset"), nil
}

// HandleRegisterModerator handles POST /auth/register-moderator. One scope
// set guards both variants: any admin or admin:master holder may create
// regular and master moderators alike.
func (h *AuthHandler) HandleRegisterModerator(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	claims, err := h.currentClaims(request)
	if err != nil {
		return createErrorResponse(err), nil
	}
	if err := requireScopes(claims.Scopes, []string{scopes.Admin, scopes.AdminMaster}); err != nil {
		return createErrorResponse(err), nil
	}

	master := request.QueryStringParameters["master"] == "true"

	var req models.RegisterRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(apperrors.ValidationError("Request body is not valid JSON")), nil
	}

	user, err := h.auth.RegisterModerator(ctx, req, master)
	if err != nil {
		return createErrorResponse(err), nil
	}
	return createSuccessResponse(http.StatusCreated, map[string]interface{}{
		"username": user.Username,
		"scopes":   user.Scopes,
	}), nil
}

// HandleAssignModerator handles POST /auth/assign-moderator. Only admin and
// admin:master holders may promote users; moderators of any rank cannot
// grant scopes.
func (h *AuthHandler) HandleAssignModerator(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	claims, err := h.currentClaims(request)
	if err != nil {
		return createErrorResponse(err), nil
	}
	if err := requireScopes(claims.Scopes, []string{scopes.Admin, scopes.AdminMaster}); err != nil {
		return createErrorResponse(err), nil
	}

	var req models.AssignModeratorRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(apperrors.ValidationError("Request body is not valid JSON")), nil
	}

	if err := h.auth.AssignModerator(ctx, req); err != nil {
		return createErrorResponse(err), nil
	}
	return createMessageResponse(http.StatusOK, "Moderator scope assigned"), nil
}

// HandleGetUserType handles GET /auth/user-type.
func (h *AuthHandler) HandleGetUserType(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	claims, err := h.currentClaims(request)
	if err != nil {
		return createErrorResponse(err), nil
	}
	if err := requireScopes(claims.Scopes, []string{scopes.User}); err != nil {
		return createErrorResponse(err), nil
	}

	return createSuccessResponse(http.StatusOK, h.auth.GetUserType(claims.Username, claims.Scopes)), nil
}

// ============================================================
// Authentication helpers
// ============================================================

// callerClaims is the validated identity extracted from a bearer token.
type callerClaims struct {
	Username string
	Scopes   []string
}

// currentClaims validates the Authorization header and returns the caller's
// identity. Any failure maps to a 401.
func (h *AuthHandler) currentClaims(request events.APIGatewayProxyRequest) (*callerClaims, error) {
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

// requireScopes enforces that the caller holds at least one required scope.
func requireScopes(tokenScopes, required []string) error {
	if !scopes.Requires(tokenScopes, required) {
		return apperrors.Forbidden()
	}
	return nil
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
