// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/common"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the session identity. Subject mirrors UserID so that
// standard JWT tooling can read it.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Role   string `json:"role"`
}

// Authority signs and verifies HS256 session tokens. It holds no per-session
// state; a token is valid until its expiry.
type Authority struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewAuthority(secretKey []byte, validity time.Duration) *Authority {
	return &Authority{secret: secretKey, validity: validity, now: time.Now}
}

// Issue returns a signed token for the given identity expiring after the
// configured validity.
func (a *Authority) Issue(userID, role string) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.validity)),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature, algorithm and expiry and returns the caller.
// Expired tokens yield common.ErrTokenExpired; everything else that fails
// yields common.ErrInvalidToken.
func (a *Authority) Verify(tokenString string) (models.Caller, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Caller{}, common.ErrTokenExpired
		}
		return models.Caller{}, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" || !models.ValidRole(claims.Role) {
		return models.Caller{}, common.ErrInvalidToken
	}

	return models.Caller{ID: claims.UserID, Role: claims.Role}, nil
}
