// Package auth mints and verifies the signed tokens that identify user
// sessions.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the standard claims plus the owning user.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// newTokenID is a seam for tests.
var newTokenID = uuid.NewString

// GenerateToken signs a token for userID with HS256. The token has a unique
// ID and no expiry claim; validity lives with the stored session so it can
// be extended without reissuing the token.
func GenerateToken(userID ids.UserID, secretKey []byte, issuedAt time.Time) (string, error) {
	if userID.IsZero() {
		return "", common.NewInvalidArgumentError("user_id", "must not be empty")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       newTokenID(),
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
		UserID: userID.String(),
	})

	s, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// GetUserIDFromToken verifies the signature of tokenString and returns the
// user it was issued to. Any failure maps to common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (ids.UserID, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ids.UserID{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return ids.UserID{}, common.ErrInvalidToken
	}

	userID, err := ids.UserIDFrom(claims.UserID)
	if err != nil {
		return ids.UserID{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return userID, nil
}
