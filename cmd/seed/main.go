package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/lead-funnel/config"
	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	"github.com/oksasatya/lead-funnel/internal/domain/repository"
	pginfra "github.com/oksasatya/lead-funnel/internal/infrastructure/postgres"
	"github.com/oksasatya/lead-funnel/pkg/helpers"
)

// seed creates an admin user in PostgreSQL, or resets the password and
// admin flag of an existing one.
func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	username := flag.String("username", cfg.AdminUsername, "admin username")
	password := flag.String("password", cfg.AdminPassword, "admin password")
	flag.Parse()
	if *username == "" || *password == "" {
		log.Fatal("username and password are required (flags or ADMIN_USERNAME/ADMIN_PASSWORD)")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	store := pginfra.NewStore(pool)

	hash, err := helpers.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	u, err := store.CreateUser(ctx, entity.NewUser{Username: *username, Password: hash, IsAdmin: true})
	if errors.Is(err, repository.ErrDuplicate) {
		u, err = store.PromoteUser(ctx, *username, hash)
		if err != nil {
			log.Fatalf("failed to promote user: %v", err)
		}
		fmt.Printf("updated admin: id=%s username=%s\n", u.ID, u.Username)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded admin: id=%s username=%s\n", u.ID, u.Username)
}
