package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mediashare-services/common/config"
	"github.com/mediashare-services/common/scopes"
	"github.com/mediashare-services/common/store"
	"github.com/mediashare-services/common/token"
	"github.com/mediashare-services/services/auth-lambda/repository"
	"github.com/mediashare-services/services/auth-lambda/usecase"
)

// recordingMailer captures sent OTP emails instead of hitting SMTP.
type recordingMailer struct {
	codes []string
}

func (m *recordingMailer) SendOTPEmail(ctx context.Context, to, code string) error {
	m.codes = append(m.codes, code)
	return nil
}

func newTestHandler(t *testing.T) (*AuthHandler, *token.Service, *recordingMailer) {
	t.Helper()

	st := store.NewMemoryStore()
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		TokenTTL:      8 * time.Hour,
		OTPLength:     6,
		OTPTTL:        2 * time.Hour,
		ResetCooldown: 2 * time.Hour,
	}
	tokens := token.NewService(cfg.JWTSecret)
	mailer := &recordingMailer{}
	uc := usecase.NewAuthUsecase(
		repository.NewUserRepository(st),
		repository.NewResetRepository(st),
		tokens,
		mailer,
		cfg,
	)
	return NewAuthHandler(uc, tokens), tokens, mailer
}

func bearerFor(t *testing.T, tokens *token.Service, username string, tokenScopes []string) string {
	t.Helper()
	tok, err := tokens.Issue(username, tokenScopes, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return "Bearer " + tok
}

func postJSON(path string, payload interface{}, authHeader string) events.APIGatewayProxyRequest {
	body, _ := json.Marshal(payload)
	req := events.APIGatewayProxyRequest{
		Path:       path,
		HTTPMethod: http.MethodPost,
		Body:       string(body),
		Headers:    map[string]string{},
	}
	if authHeader != "" {
		req.Headers["Authorization"] = authHeader
	}
	return req
}

func TestRegisterAndLoginRoundtrip(t *testing.T) {
	h, _, _ := newTestHandler(t)
	ctx := context.Background()

	resp, err := h.Route(ctx, postJSON("/auth/register", map[string]string{
		"username":  "alice",
		"password":  "Pass123",
		"full_name": "Alice Smith",
		"email":     "alice@example.com",
	}, ""))
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201, body: %s", resp.StatusCode, resp.Body)
	}

	resp, err = h.Route(ctx, postJSON("/auth/token", map[string]string{
		"username": "alice",
		"password": "Pass123",
	}, ""))
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200, body: %s", resp.StatusCode, resp.Body)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Token     string `json:"access_token"`
			TokenType string `json:"token_type"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &envelope); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if !envelope.Success || envelope.Data.Token == "" || envelope.Data.TokenType != "bearer" {
		t.Errorf("unexpected login envelope: %s", resp.Body)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h, _, _ := newTestHandler(t)

	resp, _ := h.Route(context.Background(), postJSON("/auth/token", map[string]string{
		"username": "nobody",
		"password": "Wrong123",
	}, ""))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAuthorizationMatrix(t *testing.T) {
	h, tokens, _ := newTestHandler(t)
	ctx := context.Background()

	// Seed a user the protected operations can act on.
	if resp, _ := h.Route(ctx, postJSON("/auth/register", map[string]string{
		"username":  "target",
		"password":  "Pass123",
		"full_name": "Target User",
		"email":     "target@example.com",
	}, "")); resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed register failed: %s", resp.Body)
	}

	adminToken := bearerFor(t, tokens, "root", []string{scopes.AdminMaster, scopes.Admin, scopes.User})
	plainAdminToken := bearerFor(t, tokens, "admin2", []string{scopes.Admin, scopes.User})
	masterAdminToken := bearerFor(t, tokens, "root2", []string{scopes.AdminMaster, scopes.User})
	masterModToken := bearerFor(t, tokens, "mm", []string{scopes.Moderator, scopes.MasterModerator, scopes.User})
	userToken := bearerFor(t, tokens, "joe", []string{scopes.User})

	modPayload := func(username string) map[string]string {
		return map[string]string{
			"username":  username,
			"password":  "Pass123",
			"full_name": "New Mod",
			"email":     username + "@example.com",
		}
	}
	withMaster := func(r events.APIGatewayProxyRequest) events.APIGatewayProxyRequest {
		r.QueryStringParameters = map[string]string{"master": "true"}
		return r
	}

	tests := []struct {
		name       string
		request    events.APIGatewayProxyRequest
		wantStatus int
	}{
		{
			name:       "Missing token yields 401",
			request:    postJSON("/auth/assign-moderator", map[string]string{"username": "target"}, ""),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Garbage token yields 401",
			request:    postJSON("/auth/assign-moderator", map[string]string{"username": "target"}, "Bearer not.a.token"),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Plain user cannot assign moderator",
			request:    postJSON("/auth/assign-moderator", map[string]string{"username": "target"}, userToken),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "Master moderator cannot assign moderator",
			request:    postJSON("/auth/assign-moderator", map[string]string{"username": "target"}, masterModToken),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "Admin can assign moderator",
			request:    postJSON("/auth/assign-moderator", map[string]string{"username": "target"}, adminToken),
			wantStatus: http.StatusOK,
		},
		{
			name:       "Master admin can assign moderator",
			request:    postJSON("/auth/assign-moderator", map[string]string{"username": "target"}, masterAdminToken),
			wantStatus: http.StatusOK,
		},
		{
			name:       "Assigning to unknown user yields 404",
			request:    postJSON("/auth/assign-moderator", map[string]string{"username": "ghost"}, adminToken),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Plain user cannot register moderator",
			request:    postJSON("/auth/register-moderator", modPayload("newmod1"), userToken),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "Master moderator cannot register moderator",
			request:    postJSON("/auth/register-moderator", modPayload("newmod1"), masterModToken),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "Admin can register moderator",
			request:    postJSON("/auth/register-moderator", modPayload("newmod1"), plainAdminToken),
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Master admin can register moderator",
			request:    postJSON("/auth/register-moderator", modPayload("newmod2"), masterAdminToken),
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Plain admin can register master moderator",
			request:    withMaster(postJSON("/auth/register-moderator", modPayload("mastermod1"), plainAdminToken)),
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Master admin can register master moderator",
			request:    withMaster(postJSON("/auth/register-moderator", modPayload("mastermod2"), adminToken)),
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.Route(ctx, tt.request)
			if err != nil {
				t.Fatalf("Route() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d, body: %s", resp.StatusCode, tt.wantStatus, resp.Body)
			}
		})
	}
}

func TestVerifyOTPRequiresAuthentication(t *testing.T) {
	h, tokens, mailer := newTestHandler(t)
	ctx := context.Background()

	if resp, _ := h.Route(ctx, postJSON("/auth/register", map[string]string{
		"username":  "alice",
		"password":  "Pass123",
		"full_name": "Alice Smith",
		"email":     "alice@example.com",
	}, "")); resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed register failed: %s", resp.Body)
	}
	if resp, _ := h.Route(ctx, postJSON("/auth/forgot-password", map[string]string{
		"username": "alice",
	}, "")); resp.StatusCode != http.StatusOK {
		t.Fatalf("forgot-password failed: %s", resp.Body)
	}
	if len(mailer.codes) != 1 {
		t.Fatalf("sent %d OTP mails, want 1", len(mailer.codes))
	}
	code := mailer.codes[0]

	verifyPayload := map[string]string{"otp": code, "new_password": "NewPass1"}

	t.Run("Without a token the reset is rejected", func(t *testing.T) {
		resp, _ := h.Route(ctx, postJSON("/auth/verify-otp", verifyPayload, ""))
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401, body: %s", resp.StatusCode, resp.Body)
		}
	})

	t.Run("A token for another account cannot consume the code", func(t *testing.T) {
		bobAuth := bearerFor(t, tokens, "bob", []string{scopes.User})
		resp, _ := h.Route(ctx, postJSON("/auth/verify-otp", verifyPayload, bobAuth))
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400, body: %s", resp.StatusCode, resp.Body)
		}
	})

	t.Run("The account's own token completes the reset", func(t *testing.T) {
		aliceAuth := bearerFor(t, tokens, "alice", []string{scopes.User})
		resp, _ := h.Route(ctx, postJSON("/auth/verify-otp", verifyPayload, aliceAuth))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200, body: %s", resp.StatusCode, resp.Body)
		}

		resp, _ = h.Route(ctx, postJSON("/auth/token", map[string]string{
			"username": "alice",
			"password": "NewPass1",
		}, ""))
		if resp.StatusCode != http.StatusOK {
			t.Errorf("login with new password failed: %s", resp.Body)
		}
	})
}

func TestGetUserType(t *testing.T) {
	h, tokens, _ := newTestHandler(t)
	ctx := context.Background()

	req := events.APIGatewayProxyRequest{
		Path:       "/auth/user-type",
		HTTPMethod: http.MethodGet,
		Headers: map[string]string{
			"Authorization": bearerFor(t, tokens, "mm", []string{scopes.Moderator, scopes.MasterModerator, scopes.User}),
		},
	}

	resp, err := h.Route(ctx, req)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", resp.StatusCode, resp.Body)
	}

	var envelope struct {
		Data struct {
			Username string `json:"username"`
			UserType string `json:"user_type"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &envelope); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if envelope.Data.UserType != string(scopes.TypeMasterModerator) {
		t.Errorf("user type = %s, want %s", envelope.Data.UserType, scopes.TypeMasterModerator)
	}
}

func TestUnknownRoute(t *testing.T) {
	h, _, _ := newTestHandler(t)

	resp, _ := h.Route(context.Background(), events.APIGatewayProxyRequest{
		Path:       "/auth/nope",
		HTTPMethod: http.MethodPost,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
