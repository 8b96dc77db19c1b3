package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/kidwell/api-backend/internal/crypto"
)

func main() {
	parentID := flag.String("parent", "", "parent ID to embed in the token (random UUID if empty)")
	email := flag.String("email", "", "optional parent email claim")
	ttl := flag.Duration("ttl", crypto.DefaultJWTExpiration, "token lifetime")
	flag.Parse()

	fmt.Println("KidWell - Parent Token Generator")
	fmt.Println("================================")
	fmt.Println()

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		generated, err := crypto.GenerateJWTSecret()
		if err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		secret = generated

		fmt.Println("AUTH_JWT_SECRET is not set, generated a new one.")
		fmt.Println("Add this to your .env file:")
		fmt.Println("----------------------------")
		fmt.Printf("AUTH_JWT_SECRET=%s\n", secret)
		fmt.Println()
		fmt.Println("SECURITY WARNING:")
		fmt.Println("   - Never commit this secret to version control")
		fmt.Println("   - Use different secrets for development/staging/production")
		fmt.Println()
	}

	if *parentID == "" {
		*parentID = uuid.New().String()
	}

	token, expiresAt, err := crypto.GenerateParentJWT(*parentID, *email, secret, *ttl)
	if err != nil {
		log.Fatalf("Failed to generate parent token: %v", err)
	}

	// round-trip before printing
	if _, err := crypto.VerifyParentJWT(token, secret); err != nil {
		log.Fatalf("Generated token does not verify: %v", err)
	}

	fmt.Printf("Parent ID:  %s\n", *parentID)
	fmt.Printf("Expires at: %s\n", expiresAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Use it as:")
	fmt.Printf("Authorization: Bearer %s\n", token)
}
