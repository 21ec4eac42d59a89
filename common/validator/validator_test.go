package validator

import "testing"

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		expected bool
	}{
		{"Simple username", "alice", true},
		{"With digits and dots", "alice.99", true},
		{"With underscore and hyphen", "a_l-ice", true},
		{"Too short", "al", false},
		{"Too long", "a123456789012345678901234567890123", false},
		{"Spaces", "ali ce", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidUsername(tt.username); got != tt.expected {
				t.Errorf("IsValidUsername(%q) = %v, want %v", tt.username, got, tt.expected)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected bool
	}{
		{"Standard email", "user@example.com", true},
		{"Subdomain", "user@mail.example.com", true},
		{"Plus alias", "user+tag@example.com", true},
		{"Missing at", "userexample.com", false},
		{"Missing domain", "user@", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.expected {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.expected)
			}
		})
	}
}

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		expected bool
	}{
		{"Letters and digits", "Pass123", true},
		{"With special chars", "Abc@123!", true},
		{"Too short", "Ab1", false},
		{"Digits only", "123456", false},
		{"Letters only", "abcdef", false},
		{"Disallowed character", "Pass 123", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPassword(tt.password); got != tt.expected {
				t.Errorf("IsValidPassword(%q) = %v, want %v", tt.password, got, tt.expected)
			}
		})
	}
}

func TestGetPasswordError(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "Pass123", false},
		{"Empty", "", true},
		{"Too short", "Ab1", true},
		{"No digit", "abcdef", true},
		{"No letter", "123456", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := GetPasswordError(tt.password)
			if (msg != "") != tt.wantErr {
				t.Errorf("GetPasswordError(%q) = %q, wantErr %v", tt.password, msg, tt.wantErr)
			}
		})
	}
}

func TestGetFullNameError(t *testing.T) {
	if msg := GetFullNameError("Alice van der Berg"); msg != "" {
		t.Errorf("GetFullNameError() = %q, want empty", msg)
	}
	if msg := GetFullNameError(""); msg == "" {
		t.Error("GetFullNameError(\"\") should return an error message")
	}
	if msg := GetFullNameError("A"); msg == "" {
		t.Error("GetFullNameError(\"A\") should return an error message")
	}
}
