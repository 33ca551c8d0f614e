package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits the seat and admin lists
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The seat inventory and admin handle list
// come in as comma separated values and are split here once, at startup.
type Config struct {
	Env           string   // application environment (e.g. "dev", "prod")
	Port          string   // HTTP port to listen on
	DBUser        string   // database username
	DBPass        string   // database password (optional)
	DBHost        string   // database host address
	DBPort        string   // database port number
	DBName        string   // database name
	JWTSecret     string   // secret used to sign JWTs
	AccessTTLMin  int      // access token time-to-live in minutes
	Timezone      string   // office timezone name (e.g. "Europe/Moscow")
	PlanningDays  int      // length of the rolling booking window in days
	Seats         []string // ordered desk inventory, e.g. ["A1","A2",...]
	AdminHandles  []string // handles granted the ADMIN role on claim
	RetentionDays int      // bookings older than this many days are purged
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The seat list is
// required because every availability computation compares against it.
func Load() Config {
	cfg := Config{
		Env:           getenv("APP_ENV", "dev"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"), // empty allowed
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		AccessTTLMin:  intOr("ACCESS_TOKEN_TTL_MIN", 43200), // 30 days; registration is one-time
		Timezone:      getenv("TIMEZONE", "Europe/Moscow"),
		PlanningDays:  intOr("PLANNING_DAYS", 14),
		Seats:         splitCSV(must("EXISTING_SEATS_LIST")),
		AdminHandles:  normalizeHandles(splitCSV(os.Getenv("ADMIN_USERNAMES"))),
		RetentionDays: intOr("RETENTION_DAYS", 90),
	}
	if len(cfg.Seats) == 0 {
		log.Fatal("EXISTING_SEATS_LIST must name at least one seat")
	}
	return cfg
}

// IsAdminHandle reports whether the given handle belongs to an
// administrator.  Handles are compared lowercase without a leading "@".
func (c Config) IsAdminHandle(handle string) bool {
	h := strings.ToLower(strings.TrimPrefix(handle, "@"))
	for _, a := range c.AdminHandles {
		if a == h {
			return true
		}
	}
	return false
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr converts an optional environment variable to an integer, falling
// back to def when unset.  An unparsable value is fatal rather than
// silently defaulted.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeHandles(hs []string) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, strings.ToLower(strings.TrimPrefix(h, "@")))
	}
	return out
}
