package repository

import (
	"testing"
	"time"

	"github.com/mediashare-services/common/store"
)

// The store returns scope lists as []interface{} and timestamps as time.Time
// regardless of backend; the converters must not lose either.
func TestDocToUserDecodesStoreShapes(t *testing.T) {
	created := time.Now().Truncate(time.Millisecond)
	doc := store.Document{
		"id":         "u1",
		"username":   "alice",
		"full_name":  "Alice Smith",
		"email":      "alice@example.com",
		"password":   "$2a$10$digest",
		"disabled":   false,
		"scopes":     []interface{}{"moderator", "user"},
		"created_at": created,
	}

	user := docToUser(doc)

	if len(user.Scopes) != 2 || user.Scopes[0] != "moderator" || user.Scopes[1] != "user" {
		t.Errorf("scopes = %v, want [moderator user]", user.Scopes)
	}
	if !user.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", user.CreatedAt, created)
	}
	if user.Username != "alice" || user.Password != "$2a$10$digest" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestDocToResetRequestDecodesStoreShapes(t *testing.T) {
	expiry := time.Now().Add(2 * time.Hour).Truncate(time.Millisecond)
	changed := time.Now().Truncate(time.Millisecond)
	doc := store.Document{
		"user_id":              "u1",
		"reset_otp":            "123456",
		"otp_expiry":           expiry,
		"password_changed":     true,
		"last_password_change": changed,
		"is_deleted":           false,
	}

	req := docToResetRequest(doc)

	if !req.OTPExpiry.Equal(expiry) {
		t.Errorf("otp_expiry = %v, want %v", req.OTPExpiry, expiry)
	}
	if req.LastPasswordChange == nil || !req.LastPasswordChange.Equal(changed) {
		t.Errorf("last_password_change = %v, want %v", req.LastPasswordChange, changed)
	}
	if !req.PasswordChanged || req.ResetOTP != "123456" {
		t.Errorf("unexpected request: %+v", req)
	}
}
