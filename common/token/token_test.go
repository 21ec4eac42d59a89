package token

import (
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewService("super-secret")

	tok, err := svc.Issue("alice", []string{"user", "moderator"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	subject, tokenScopes, err := svc.Validate(tok)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if subject != "alice" {
		t.Errorf("subject = %q, want %q", subject, "alice")
	}
	if len(tokenScopes) != 2 || tokenScopes[0] != "user" || tokenScopes[1] != "moderator" {
		t.Errorf("scopes = %v, want [user moderator]", tokenScopes)
	}
}

func TestValidateExpired(t *testing.T) {
	svc := NewService("super-secret")

	tok, err := svc.Issue("alice", []string{"user"}, -1*time.Second)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, _, err := svc.Validate(tok); err != ErrUnauthorized {
		t.Errorf("Validate() error = %v, want ErrUnauthorized", err)
	}
}

func TestValidateFailuresCollapse(t *testing.T) {
	svc := NewService("right-secret")

	forged, err := NewService("wrong-secret").Issue("alice", []string{"admin"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"Wrong secret", forged},
		{"Malformed", "not.a.jwt"},
		{"Empty", ""},
		{"Truncated", forged[:len(forged)/2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Validate(tt.token)
			if err != ErrUnauthorized {
				t.Errorf("Validate() error = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestValidateScopeSnapshot(t *testing.T) {
	svc := NewService("super-secret")

	tok, err := svc.Issue("bob", []string{"user"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Scopes come back exactly as issued; the token is a fixed capability
	// grant, not a live view of the user document.
	_, tokenScopes, err := svc.Validate(tok)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(tokenScopes) != 1 || tokenScopes[0] != "user" {
		t.Errorf("scopes = %v, want [user]", tokenScopes)
	}
}
