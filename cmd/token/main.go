// Command token mints a bearer token for the catalog's admin routes, signed
// with the JWT_SECRET from the environment or .env.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"catalog-api/internal/config"
	"catalog-api/internal/logger"
	"catalog-api/internal/middleware"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	subject := flag.String("subject", "", "token subject, usually the operator's user id")
	role := flag.String("role", middleware.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.NewWithDefaults()
	defer func() { _ = log.Sync() }()

	if *subject == "" {
		log.Fatal("-subject is required")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	token, err := middleware.IssueToken(cfg.JWT.Secret, *subject, *role, *ttl)
	if err != nil {
		log.Fatal("Failed to sign token", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, token)
}
