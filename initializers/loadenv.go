package initializers

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv pulls variables from a local .env file when one exists. The board
// also runs fine on plain process environment, so callers may treat a missing
// file as non-fatal.
func LoadEnv() error {
	log.Println("Loading env file")
	if err := godotenv.Load(); err != nil {
		log.Println("env not loading")
		return err
	}
	log.Println("Env loaded successfully")
	return nil
}
