package utils

import (
	"time"

	"github.com/golang-jwt/jwt"

	"partysense/infrastructure/logger"
)

// GetCurrentTime is the single clock source for persisted timestamps; all
// stored times are UTC.
func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken signs a session JWT with the application secret.
func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(payload))
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Signing session token failed")
		return "", err
	}
	return signed, nil
}
