package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/artyokhov/seatbook-bot/internal/calendar"
	"github.com/artyokhov/seatbook-bot/internal/config"
	"github.com/artyokhov/seatbook-bot/internal/database"
	"github.com/artyokhov/seatbook-bot/internal/handler"
	"github.com/artyokhov/seatbook-bot/internal/queue"
	"github.com/artyokhov/seatbook-bot/internal/repository"
	"github.com/artyokhov/seatbook-bot/internal/router"
	"github.com/artyokhov/seatbook-bot/internal/service"
)

func main() {
	// Load .env.<APP_ENV> when present; inside a container the variables
	// come from the environment directly and the file is absent.
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	if err := godotenv.Load(".env." + env); err != nil {
		log.Printf("no .env.%s file, using process environment", env)
	}

	cfg := config.Load()

	cal, err := calendar.New(cfg.Timezone, cfg.PlanningDays)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	employeeRepo := repository.NewEmployeeRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	directory := service.NewDirectoryService(employeeRepo, bookingRepo)
	availability := service.NewAvailabilityService(bookingRepo, cal, cfg.Seats)
	bookings := service.NewBookingService(bookingRepo, cal)
	retention := service.NewRetentionService(bookingRepo, cal)

	// Booking events end up in logs/booking.log via the broker; the
	// consumer keeps reconnecting on its own.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable, caching and rate limiting disabled")
	}

	e := echo.New()
	authHandler := handler.NewAuthHandler(directory, cfg)
	bookingHandler := handler.NewBookingHandler(availability, bookings, cal)
	adminHandler := handler.NewAdminHandler(directory, bookings, retention, cal)

	router.RegisterRoutes(e, authHandler)
	router.RegisterBooking(e, authHandler, bookingHandler, cfg, rdb)
	router.RegisterAdmin(e, adminHandler, cfg)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, seats=%d, window=%dd)", addr, cfg.Env, len(cfg.Seats), cfg.PlanningDays)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
