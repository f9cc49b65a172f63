package utils

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenTTL bounds how long an operator token issued by the identity
// service stays valid here.
const AccessTokenTTL = 12 * time.Hour

var (
	jwtSecretOnce sync.Once
	jwtSecretKey  []byte
)

// jwtSecret resolves the signing key lazily so that a .env file loaded in
// main is picked up before the first token is validated.
func jwtSecret() []byte {
	jwtSecretOnce.Do(func() {
		jwtSecretKey = []byte(Getenv("JWT_SECRET", "hospoda-dev-secret-do-not-use-in-production"))
	})
	return jwtSecretKey
}

// Claims defines the JWT claims structure shared with the identity service.
// The operator identity carried here is used for audit only.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a signed access token for the given operator.
// Token issuance normally lives in the identity service; this mirror of its
// signing logic exists for local tooling and tests.
func GenerateAccessToken(userID int64, username string, role string) (string, error) {
	expirationTime := time.Now().Add(AccessTokenTTL)
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "hospoda-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string.
// It returns the claims if the token is valid, otherwise an error.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
