package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/monocle-dev/hackhub/internal/services"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// SessionClaims are the claims of a session token. Subject is the identity
// provider's user id.
type SessionClaims struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

func (c SessionClaims) Identity() *services.Identity {
	return &services.Identity{
		ExternalID: c.Subject,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Username:   c.Username,
	}
}

type SessionVerifier struct {
	secret []byte
}

func NewSessionVerifier(secret string) (*SessionVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is not set")
	}
	return &SessionVerifier{secret: []byte(secret)}, nil
}

func (v *SessionVerifier) Verify(tokenString string) (*services.Identity, error) {
	var claims SessionClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	if claims.Subject == "" {
		return nil, ErrInvalidSession
	}

	return claims.Identity(), nil
}

// IssueSession signs a session for identity. Production sessions come from the
// identity provider; this is for tests and local tooling.
func (v *SessionVerifier) IssueSession(identity services.Identity, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := SessionClaims{
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Username:  identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ExternalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
