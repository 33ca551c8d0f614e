package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/artyokhov/seatbook-bot/internal/calendar"
	"github.com/artyokhov/seatbook-bot/internal/config"
	"github.com/artyokhov/seatbook-bot/internal/database"
	"github.com/artyokhov/seatbook-bot/internal/repository"
	"github.com/artyokhov/seatbook-bot/internal/service"
)

// sweeper deletes bookings older than the retention window. Run it
// from cron; it exits non-zero when the purge fails.
func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	if err := godotenv.Load(".env." + env); err != nil {
		log.Printf("no .env.%s file, using process environment", env)
	}

	cfg := config.Load()

	days := flag.Int("days", cfg.RetentionDays, "delete bookings older than this many days")
	flag.Parse()
	if *days <= 0 {
		log.Fatalf("days must be positive, got %d", *days)
	}

	cal, err := calendar.New(cfg.Timezone, cfg.PlanningDays)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	retention := service.NewRetentionService(repository.NewBookingRepo(db), cal)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, cutoff, err := retention.PurgeOlderThan(ctx, *days)
	if err != nil {
		log.Fatalf("purge failed: %v", err)
	}
	log.Printf("deleted %d bookings dated before %s", deleted, cutoff.Format(calendar.ISODate))
}
