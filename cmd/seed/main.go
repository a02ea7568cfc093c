package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/adiprasetyo/evently-api/config"
	"github.com/adiprasetyo/evently-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@evently.local"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, provider)
		VALUES ($1, $2, $3, 'credentials')
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	addresses := [][5]string{
		{"1 Main St", "Springfield", "IL", "US", "62704"},
		{"42 Market Rd", "Portland", "OR", "US", "97201"},
	}
	for _, a := range addresses {
		var addrID string
		err = db.QueryRow(`
			INSERT INTO addresses (street, city, state, country, zip_code, user_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, a[0], a[1], a[2], a[3], a[4], id).Scan(&addrID)
		if err != nil {
			log.Fatalf("failed to seed address: %v", err)
		}
		fmt.Printf("seeded address: id=%s street=%s\n", addrID, a[0])
	}
}
