package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is the single error returned for every validation failure:
// bad signature, expired, malformed. Collapsing them denies an attacker an
// oracle for telling the cases apart.
var ErrUnauthorized = errors.New("invalid or expired token")

// Claims carries the token subject and its scope snapshot.
type Claims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// Service issues and validates signed bearer tokens. The signing secret is
// loaded once at startup and injected here; nothing reads the environment.
type Service struct {
	secret []byte
}

// NewService creates a token service around the process-wide signing secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Issue produces a signed token whose payload carries the subject and the
// scope set granted at issuance. The scopes are a snapshot; they are not
// re-checked against live user state while the token lives.
func (s *Service) Issue(subject string, scopes []string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate verifies the signature and expiry and returns the subject and
// scope claims. HMAC verification inside the JWT library uses a
// constant-time compare.
func (s *Service) Validate(tokenString string) (string, []string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", nil, ErrUnauthorized
	}

	if claims.Subject == "" {
		return "", nil, ErrUnauthorized
	}

	return claims.Subject, claims.Scopes, nil
}
