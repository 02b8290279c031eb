package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	checkoutpostgres "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/postgres"
	deliverypostgres "github.com/agrikart/fulfillment/internal/domains/delivery/adapters/postgres"
	platformpostgres "github.com/agrikart/fulfillment/internal/platform/postgres"
)

const defaultSessionTTL = time.Hour

// Removes stale unconfirmed checkout sessions and expired delivery codes.
// Run from cron; Redis-backed session stores expire on their own.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge")
	}

	now := time.Now()

	sessions := checkoutpostgres.NewSessionStore(db)
	purgedSessions, err := sessions.PurgeStale(ctx, now.Add(-sessionTTLFromEnv()))
	if err != nil {
		log.Fatalf("failed to purge checkout sessions: %v", err)
	}

	otps := deliverypostgres.NewStore(db)
	purgedOtps, err := otps.PurgeExpired(ctx, now)
	if err != nil {
		log.Fatalf("failed to purge delivery codes: %v", err)
	}

	log.Printf("purge completed: %d sessions, %d delivery codes", purgedSessions, purgedOtps)
}

func sessionTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("SESSION_TTL_MINUTES"))
	if raw == "" {
		return defaultSessionTTL
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return defaultSessionTTL
	}
	return time.Duration(minutes) * time.Minute
}
