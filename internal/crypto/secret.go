package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// JWTSecretSize is the size of generated JWT secrets (32 bytes)
const JWTSecretSize = 32

// GenerateJWTSecret generates a cryptographically secure random JWT secret.
// Returns the secret base64-encoded, ready for AUTH_JWT_SECRET.
func GenerateJWTSecret() (string, error) {
	secret := make([]byte, JWTSecretSize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}

	return base64.StdEncoding.EncodeToString(secret), nil
}
