package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// AppName is used as the Postgres search_path schema and as a prefix for
// externally visible resources (queues, topics).
const AppName = "vmt"

// Load reads a .env file if one is present. Missing files are not an error;
// deployed environments configure through real environment variables.
func Load() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}
}

// Getenv returns the value of key, or fallback when the variable is unset or empty.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
