package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"invoice-studio/internal/db"
)

// Seeds demo customer and item master records. Safe to run repeatedly:
// existing names are left untouched.
func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	customers := []struct {
		name, contact, email string
	}{
		{"ABC Corp", "Kim Minji", "minji.kim@abccorp.example"},
		{"대한상사", "박준호", "junho.park@daehan.example"},
		{"Globex Trading", "Sarah Chen", "s.chen@globex.example"},
	}
	for _, c := range customers {
		_, err := pool.Exec(ctx, `
			INSERT INTO customers (name, contact_person, email)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING`,
			c.name, c.contact, c.email)
		if err != nil {
			log.Fatalf("Failed to seed customer %s: %v", c.name, err)
		}
	}

	items := []struct {
		name, unit string
		price      string
	}{
		{"Consulting (day)", "DAY", "800000.00"},
		{"서버 호스팅 (월)", "MO", "150000.00"},
		{"License seat", "EA", "55000.00"},
	}
	for _, it := range items {
		_, err := pool.Exec(ctx, `
			INSERT INTO items (name, unit, default_price)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING`,
			it.name, it.unit, it.price)
		if err != nil {
			log.Fatalf("Failed to seed item %s: %v", it.name, err)
		}
	}

	log.Println("Seed complete.")
}
