package utils

import (
	"errors"
	"time"

	"beautypage/config"

	"github.com/golang-jwt/jwt"
)

const fallbackSecret = "beautypage-dev-secret"

// ErrMissingJWTSecret is returned by CheckJWTSecret when production runs without JWT_SECRET.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

// CheckJWTSecret refuses the development fallback secret in production.
func CheckJWTSecret() error {
	if config.IsProduction() && config.AppConfig.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func secretKey() []byte {
	if config.AppConfig.JWTSecret == "" {
		return []byte(fallbackSecret)
	}
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateToken creates a signed JWT token for a specialist.
// The token expires after the specified duration.
func GenerateToken(specialistID string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  specialistID,
		"role": "specialist",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractIDFromToken returns the subject of a valid token.
func ExtractIDFromToken(tokenString string) (string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}

	return sub, nil
}
