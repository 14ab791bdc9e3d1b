package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken - токен не прошёл проверку подписи, срока или содержимого
var ErrInvalidToken = errors.New("invalid token")

// TokenManager выпускает и проверяет bearer-токены
type TokenManager struct {
	secret       []byte
	expiryPeriod time.Duration
}

// NewTokenManager создаёт новый экземпляр менеджера токенов
func NewTokenManager(secret string, expiryPeriod time.Duration) *TokenManager {
	return &TokenManager{
		secret:       []byte(secret),
		expiryPeriod: expiryPeriod,
	}
}

// Claims - содержимое токена: пользователь и его организация
type Claims struct {
	UserID         int64 `json:"user_id"`
	OrganizationID int64 `json:"organization_id"`
	jwt.RegisteredClaims
}

func (tm *TokenManager) Generate(userID, organizationID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:         userID,
		OrganizationID: organizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiryPeriod)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

func (tm *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID <= 0 || claims.OrganizationID <= 0 {
		return nil, fmt.Errorf("%w: missing user or organization", ErrInvalidToken)
	}

	return claims, nil
}
