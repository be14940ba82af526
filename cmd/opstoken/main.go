// Command opstoken prints a bearer token for the operational cache endpoints.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"courtfinder/config"
	"courtfinder/internal/adapters/auth"
	"courtfinder/internal/domain"
)

func main() {
	subject := flag.String("sub", "", "token subject, e.g. the operator's handle")
	roles := flag.String("roles", domain.RoleOps, "comma separated roles")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.OpsJWTSecret == "" {
		log.Fatal("OPS_JWT_SECRET is not set")
	}
	if *subject == "" {
		log.Fatal("-sub is required")
	}

	token, err := auth.NewJWT(cfg.OpsJWTSecret).Issue(*subject, strings.Split(*roles, ","), *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}
