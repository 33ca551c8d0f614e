package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/artyokhov/seatbook-bot/internal/config"
	"github.com/artyokhov/seatbook-bot/internal/handler"
	"github.com/artyokhov/seatbook-bot/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check, the list of claimable names and the claim endpoint
// itself (a new employee has no token yet).
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/v1/auth")
	g.GET("/unclaimed", a.Unclaimed)
	g.POST("/claim", a.Claim)
}

// RegisterBooking registers the authenticated booking endpoints.  The
// JWT middleware resolves the caller; the rate limiter and the response
// cache sit in front of the read-heavy availability listings.  Both
// degrade to pass-throughs when rdb is nil.
func RegisterBooking(e *echo.Echo, a *handler.AuthHandler, b *handler.BookingHandler, cfg config.Config, rdb *redis.Client) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.Use(middleware.RequireRole(handler.RoleEmployee, handler.RoleAdmin))
	auth.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	auth.GET("/me", a.Me)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	auth.GET("/dates/personal", b.PersonalDates, cache)
	auth.GET("/dates/seatless", b.SeatlessDates, cache)
	auth.GET("/dates/guest", b.GuestDates, cache)
	auth.GET("/dates/:date/seats", b.FreeSeats)

	auth.POST("/bookings", b.Create)
	auth.DELETE("/bookings/:id", b.Delete)
	auth.GET("/bookings/my", b.My)
}

// RegisterAdmin registers the directory and office-overview endpoints
// behind the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, cfg config.Config) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(cfg.JWTSecret))
	g.Use(middleware.RequireRole(handler.RoleAdmin))

	g.GET("/bookings", h.AllBookings)
	g.GET("/visitors/dates", h.VisitorDates)
	g.GET("/visitors/:date", h.VisitorsOnDate)

	g.GET("/employees", h.Employees)
	g.POST("/employees", h.CreateEmployee)
	g.DELETE("/employees/:id", h.DeleteEmployee)
	g.POST("/employees/:id/unclaim", h.UnclaimEmployee)

	g.POST("/maintenance/purge", h.Purge)
}
