// Command seed-airports migrates the m_airports reference table and upserts
// the built-in airport→city mapping into it. Run it once against the
// PostgreSQL instance named by POSTGRES_DSN before pointing the service at it.
package main

import (
	"fmt"
	"log"
	"os"

	"flightquery-service/internal/interface/repository"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	godotenv.Load()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("connect to PostgreSQL: %v", err)
	}

	if err := repository.SeedAirports(db, repository.BuiltinAirportCities); err != nil {
		log.Fatalf("seed airports: %v", err)
	}

	fmt.Printf("Seeded %d airports\n", len(repository.BuiltinAirportCities))
}
