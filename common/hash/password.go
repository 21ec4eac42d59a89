package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain password with bcrypt. The digest embeds a
// per-call random salt, so hashing the same password twice yields different
// digests.
func HashPassword(plainPassword string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword compares a plain password with a stored bcrypt digest.
func VerifyPassword(plainPassword, storedDigest string) bool {
	if plainPassword == "" || storedDigest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedDigest), []byte(plainPassword)) == nil
}
