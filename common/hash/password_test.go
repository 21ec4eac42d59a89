package hash

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	digest, err := HashPassword("Pass123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if digest == "" {
		t.Fatal("HashPassword() returned empty digest")
	}
	if digest == "Pass123" {
		t.Error("HashPassword() stored the plaintext")
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Errorf("HashPassword() digest %q is not a bcrypt digest", digest)
	}
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("Pass123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	second, err := HashPassword("Pass123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if first == second {
		t.Error("two digests of the same password are identical, salt is missing")
	}
}

func TestVerifyPassword(t *testing.T) {
	digest, err := HashPassword("Pass123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		plain    string
		digest   string
		expected bool
	}{
		{"Correct password", "Pass123", digest, true},
		{"Wrong password", "WrongPass", digest, false},
		{"Empty plain", "", digest, false},
		{"Empty digest", "Pass123", "", false},
		{"Garbage digest", "Pass123", "not-a-digest", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifyPassword(tt.plain, tt.digest)
			if got != tt.expected {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.expected)
			}
		})
	}
}
