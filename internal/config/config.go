package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	Secret          string
	DatabaseDriver  string
	DatabaseDSN     string
	HTTPPort        string
	AMQPURL         string
	LogLevel        string
	ShutdownTimeout time.Duration
	SeedSalesCSV    string
}

// Load reads configuration from an optional .env file and environment
// variables, falling back to reasonable defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("unable to read .env file: %v", err)
	}

	port := getenv("HTTP_PORT", "8080")
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	driver := getenv("DATABASE_DRIVER", DriverPostgres)
	if driver != DriverPostgres && driver != DriverSQLite {
		log.Printf("unknown DATABASE_DRIVER %q, defaulting to %s", driver, DriverPostgres)
		driver = DriverPostgres
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = defaultDSN(driver)
	}

	timeout, err := time.ParseDuration(getenv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		log.Printf("invalid SHUTDOWN_TIMEOUT value, defaulting to 10s: %v", err)
		timeout = 10 * time.Second
	}

	return Config{
		Secret:          getenv("SECRET", "dev_secret"),
		DatabaseDriver:  driver,
		DatabaseDSN:     dsn,
		HTTPPort:        port,
		AMQPURL:         os.Getenv("AMQP_URL"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		ShutdownTimeout: timeout,
		SeedSalesCSV:    os.Getenv("SEED_SALES_CSV"),
	}
}

const (
	// DriverPostgres selects the pgx stdlib driver.
	DriverPostgres = "pgx"
	// DriverSQLite selects the pure Go SQLite driver.
	DriverSQLite = "sqlite"
)

func defaultDSN(driver string) string {
	if driver == DriverSQLite {
		return "file:salesdesk.db?_pragma=foreign_keys(1)"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getenv("DB_USER", "postgres"),
		getenv("DB_PASSWORD", "postgres"),
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_NAME", "salesdesk"),
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
