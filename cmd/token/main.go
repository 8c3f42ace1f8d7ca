package main

import (
	"context"
	"fmt"
	"log"

	"flight-history-collector/internal/infrastructure/config"
	"flight-history-collector/internal/infrastructure/fetch"
	"flight-history-collector/internal/infrastructure/session"
	"flight-history-collector/internal/interface/flightradar"
	"flight-history-collector/pkg/logger"
)

// Prints the subscription token for FR24_EMAIL / FR24_PASSWORD
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Email == "" || cfg.Password == "" {
		log.Fatal("FR24_EMAIL and FR24_PASSWORD must be set")
	}

	zl := logger.New(logger.Options{Level: "warn", Format: "console"})
	defer zl.Sync()

	fetcher := fetch.NewClient(zl, fetch.WithPolicy(fetch.Policy{MaxRetries: 1}))
	provider := flightradar.NewClient(fetcher, cfg.BaseURL, cfg.APIURL, zl)

	sessions := session.NewProvider(context.Background(), fetcher, provider.LoginURL(), cfg.Email, cfg.Password, zl)
	s, err := sessions.Session()
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	fmt.Printf("\nSubscription Token: %s\n\n", s.Token)
}
