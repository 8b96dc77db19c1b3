package crypto

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ParentClaims represents JWT claims for parent authentication
type ParentClaims struct {
	ParentID string `json:"parent_id"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

const (
	// JWTIssuer is the issuer name
	JWTIssuer = "kidwell-api"

	// DefaultJWTExpiration is the default token expiration (30 days)
	DefaultJWTExpiration = 30 * 24 * time.Hour
)

// GenerateParentJWT generates an HS256 token for a parent account.
// Returns the token string and its expiration time.
func GenerateParentJWT(parentID, email, jwtSecretBase64 string, expiration time.Duration) (token string, expiresAt time.Time, err error) {
	if parentID == "" {
		return "", time.Time{}, fmt.Errorf("parent ID is required")
	}

	jwtSecret, err := decodeSecret(jwtSecretBase64)
	if err != nil {
		return "", time.Time{}, err
	}

	if expiration == 0 {
		expiration = DefaultJWTExpiration
	}

	now := time.Now().UTC()
	expiresAt = now.Add(expiration)

	claims := ParentClaims{
		ParentID: parentID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    JWTIssuer,
			Subject:   parentID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign JWT token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// VerifyParentJWT verifies a token and returns its claims.
// Fails if the token is expired, signed with another key or algorithm, or lacks a parent ID.
func VerifyParentJWT(tokenString, jwtSecretBase64 string) (*ParentClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token is required")
	}

	jwtSecret, err := decodeSecret(jwtSecretBase64)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &ParentClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	}, jwt.WithIssuer(JWTIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*ParentClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.ParentID == "" {
		return nil, fmt.Errorf("token has no parent ID")
	}

	return claims, nil
}

func decodeSecret(jwtSecretBase64 string) ([]byte, error) {
	if jwtSecretBase64 == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	secret, err := base64.StdEncoding.DecodeString(jwtSecretBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JWT secret: %w", err)
	}
	return secret, nil
}
