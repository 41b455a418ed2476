package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EnvOrDefault returns the trimmed environment value or def when unset.
func EnvOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

// JWTSecret resolves the signing secret. The default exists so local
// development works out of the box; production sets JWT_SECRET.
func JWTSecret() string {
	return EnvOrDefault("JWT_SECRET", "dev-secret-change-me")
}

// NewAccessToken signs an HS256 JWT carrying the user id and role.
func NewAccessToken(userID uint, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  uint64(userID),
		"role": role,
		"exp":  time.Now().UTC().Add(ttl).Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(JWTSecret()))
}

// ParseAccessToken validates a token string and returns the user id and role
// claims.
func ParseAccessToken(raw string) (uint, string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(JWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return 0, "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, "", errors.New("invalid subject")
	}
	role, _ := claims["role"].(string)
	return uint(sub), role, nil
}

// GenerateOTP returns a 6-digit verification code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenerateSecureToken returns a random hex string of 2*length characters.
func GenerateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
