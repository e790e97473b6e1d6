package initializers

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads a local .env file if one exists. Variables already present in
// the process environment are not overridden.
func LoadEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}
}
