// Command devtoken mints an access token for local testing against the API.
//
//	go run ./cmd/devtoken -company 0199... -role accountant
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/escopo/escopo-backend-go/internal/config"
	"github.com/escopo/escopo-backend-go/internal/domain/user"
	"github.com/escopo/escopo-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
)

func main() {
	companyID := flag.String("company", "", "company id carried by the token (required)")
	userID := flag.String("user", "", "user id; a random one is used when empty")
	role := flag.String("role", string(user.RoleAccountant), "owner, accountant, manager or employee")
	flag.Parse()

	if *companyID == "" {
		fmt.Fprintln(os.Stderr, "-company is required")
		os.Exit(2)
	}
	if !user.Role(*role).Valid() {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}
	if *userID == "" {
		*userID = uuid.NewString()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error loading config:", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(*userID, *companyID, user.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
