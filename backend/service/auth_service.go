package service

import (
	"errors"
	"fmt"
	"time"

	"pixvault/backend/common"
	"pixvault/backend/model"

	"github.com/golang-jwt/jwt/v5"
)

const jwtIssuer = "pixvault"

// JWTClaims is the JWT payload for both access and refresh tokens.
type JWTClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     int    `json:"role"`
	jwt.RegisteredClaims
}

func generateWithSecret(user *model.User, secret string, duration time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	now := time.Now()
	claims := JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func validateWithSecret(tokenString string, secret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GenerateToken creates a short-lived access token for the user.
func GenerateToken(user *model.User) (string, error) {
	return generateWithSecret(user, common.JWTSecret, common.JWTAccessTokenDuration)
}

// ValidateToken parses and verifies an access token.
func ValidateToken(tokenString string) (*JWTClaims, error) {
	return validateWithSecret(tokenString, common.JWTSecret)
}

// GenerateRefreshToken creates a long-lived refresh token for the user.
func GenerateRefreshToken(user *model.User) (string, error) {
	return generateWithSecret(user, common.JWTRefreshSecret, common.JWTRefreshTokenDuration)
}

// ValidateRefreshToken parses and verifies a refresh token.
func ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	return validateWithSecret(tokenString, common.JWTRefreshSecret)
}
