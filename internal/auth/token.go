package auth

import (
	"time"

	"github.com/and161185/ordertrack/internal/errs"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by an issued token. The token is
// self-contained: any holder with the secret can verify it without a lookup.
type Claims struct {
	Subject     string
	Role        string
	DisplayName string
}

type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
}

func NewTokenManager(secretKey string, ttl time.Duration) *TokenManager {
	return &TokenManager{secretKey: []byte(secretKey), ttl: ttl}
}

func (tm *TokenManager) GenerateToken(subject, role, displayName string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"name": displayName,
		"iat":  now.Unix(),
		"exp":  now.Add(tm.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

func (tm *TokenManager) ParseToken(tokenStr string) (Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errs.ErrInvalidToken
		}
		return tm.secretKey, nil
	})

	if err != nil || !token.Valid {
		return Claims{}, errs.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errs.ErrInvalidToken
	}

	subject, ok := mapClaims["sub"].(string)
	if !ok || subject == "" {
		return Claims{}, errs.ErrInvalidToken
	}

	role, _ := mapClaims["role"].(string)
	name, _ := mapClaims["name"].(string)

	return Claims{Subject: subject, Role: role, DisplayName: name}, nil
}
