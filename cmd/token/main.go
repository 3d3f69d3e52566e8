// Command token mints a bearer token for the API when SECRET_KEY is set.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/pkg/utils"
)

func main() {
	subject := flag.String("subject", "operator", "Subject claim of the token")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "How long the token stays valid")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	if cfg.SecretKey == "" {
		log.Fatal("SECRET_KEY is not set; the API accepts requests without a token")
	}

	token, err := utils.GenerateToken(cfg.SecretKey, *subject, *ttl)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(token)
}
