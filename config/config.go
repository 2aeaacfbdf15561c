package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var loaded = false

// Config reads an env var, loading .env once on first use.
func Config(key string) string {
	if !loaded {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("no .env file found, using process environment")
		}
		loaded = true
	}
	return os.Getenv(key)
}
