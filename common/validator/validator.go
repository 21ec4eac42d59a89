package validator

import (
	"regexp"
	"strings"
)

// Regex patterns
var (
	// Username pattern: 3-32 chars, letters, digits, underscore, dot, hyphen
	UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,32}$`)

	// Email pattern - RFC 5322 simplified
	EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(?:\.[a-zA-Z0-9_+&*-]+)*@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)

	// Full name pattern: 2-100 chars, Unicode letters, spaces, dots, hyphens, apostrophes
	FullNamePattern = regexp.MustCompile(`^[\p{L} .'-]{2,100}$`)

	// Password pattern: min 6 chars, allowed characters only
	// Allowed: letters, digits, @#$%^&+=!-
	PasswordPattern = regexp.MustCompile(`^[A-Za-z\d@#$%^&+=!\-]{6,}$`)

	letterPattern = regexp.MustCompile(`[A-Za-z]`)
	digitPattern  = regexp.MustCompile(`\d`)
)

// IsValidUsername validates username format
func IsValidUsername(username string) bool {
	if username == "" {
		return false
	}
	return UsernamePattern.MatchString(strings.TrimSpace(username))
}

// IsValidEmail validates email format
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return EmailPattern.MatchString(email)
}

// IsValidFullName validates full name
func IsValidFullName(name string) bool {
	if name == "" {
		return false
	}
	return FullNamePattern.MatchString(strings.TrimSpace(name))
}

// IsValidPassword validates password strength: at least 6 characters with at
// least one letter and one digit.
func IsValidPassword(password string) bool {
	if password == "" {
		return false
	}
	if !PasswordPattern.MatchString(password) {
		return false
	}
	return letterPattern.MatchString(password) && digitPattern.MatchString(password)
}

// GetUsernameError returns user-friendly error message for username
func GetUsernameError(username string) string {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "Username must not be empty"
	}
	if len(trimmed) < 3 {
		return "Username must have at least 3 characters"
	}
	if len(trimmed) > 32 {
		return "Username must not exceed 32 characters"
	}
	if !IsValidUsername(trimmed) {
		return "Username may only contain letters, digits, underscores, dots and hyphens"
	}
	return ""
}

// GetEmailError returns user-friendly error message for email
func GetEmailError(email string) string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "Email must not be empty"
	}
	if !IsValidEmail(trimmed) {
		return "Email is not valid. Example: user@example.com"
	}
	return ""
}

// GetFullNameError returns user-friendly error message for full name
func GetFullNameError(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Full name must not be empty"
	}
	if len(trimmed) < 2 {
		return "Full name must have at least 2 characters"
	}
	if len(trimmed) > 100 {
		return "Full name must not exceed 100 characters"
	}
	if !IsValidFullName(trimmed) {
		return "Full name may only contain letters, spaces, dots, hyphens and apostrophes"
	}
	return ""
}

// GetPasswordError returns user-friendly error message for password
func GetPasswordError(password string) string {
	if password == "" {
		return "Password must not be empty"
	}
	if len(password) < 6 {
		return "Password must have at least 6 characters"
	}
	if !letterPattern.MatchString(password) {
		return "Password must contain at least 1 letter"
	}
	if !digitPattern.MatchString(password) {
		return "Password must contain at least 1 digit"
	}
	if !IsValidPassword(password) {
		return "Password may only contain letters, digits and special characters (@#$%^&+=!-)"
	}
	return ""
}
