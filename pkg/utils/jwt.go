package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/banquethub/banquethub-backend/internal/models"
)

func GenerateToken(user *models.User, secret string, expiration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":        user.ID,
		"email":     user.Email,
		"role":      string(user.Role),
		"kycStatus": string(user.KycStatus),
		"exp":       time.Now().Add(expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(tokenString, secret string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
}

// PrincipalFromClaims extracts the request principal from verified
// token claims.
func PrincipalFromClaims(claims jwt.MapClaims) (models.Principal, error) {
	id, ok := claims["id"].(float64)
	if !ok {
		return models.Principal{}, fmt.Errorf("missing id claim")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return models.Principal{}, fmt.Errorf("missing role claim")
	}

	p := models.Principal{
		ID:   uint(id),
		Role: models.Role(role),
	}
	if kyc, ok := claims["kycStatus"].(string); ok {
		p.KycStatus = models.KycStatus(kyc)
	}
	return p, nil
}
