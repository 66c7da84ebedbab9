// Package main generates development bearer tokens for exercising the
// records API locally. The signing key matches the config default, so the
// output will NOT validate against a production deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	jwttoken "bigoffice/internal/jwt_token"
	id "bigoffice/pkg/domain"
)

const devSigningKey = "dev-secret-key-change-in-production"

type tokenOutput struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	ExpiresIn string `json:"expires_in"`
	Usage     string `json:"usage"`
}

func main() {
	role := flag.String("role", "user", "actor role: admin, hr, manager, or user")
	username := flag.String("username", "dev.tester", "username claim")
	userID := flag.String("user-id", "", "subject UUID (random when empty)")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	signingKey := flag.String("key", devSigningKey, "HMAC signing key")
	flag.Parse()

	if !id.Role(*role).IsValid() {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(1)
	}
	subject := *userID
	if subject == "" {
		subject = uuid.New().String()
	} else if _, err := uuid.Parse(subject); err != nil {
		fmt.Fprintf(os.Stderr, "user-id must be a UUID: %v\n", err)
		os.Exit(1)
	}

	svc := jwttoken.NewJWTService(*signingKey, "bigoffice", "bigoffice-api", *ttl)
	token, err := svc.GenerateActorToken(subject, *role, *username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}

	out := tokenOutput{
		Token:     token,
		UserID:    subject,
		Role:      *role,
		ExpiresIn: ttl.String(),
		Usage:     `curl -H "Authorization: Bearer <token>" http://localhost:8080/officers`,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		os.Exit(1)
	}
}
