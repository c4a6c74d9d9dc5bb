package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends the calendar can run against.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config captures environment driven configuration values for the calendar
// service.
type Config struct {
	HTTPPort  int
	Storage   string
	SQLiteDSN string
	Timezone  *time.Location
	LogLevel  string
}

// Load parses configuration values from the current process environment.
//
// A .env file in the working directory is layered in first, without
// overriding variables already set on the process. Defaults apply for every
// value, so an empty environment yields a working configuration; invalid
// values are accumulated and reported together.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:  8080,
		Storage:   StorageSQLite,
		SQLiteDSN: "file:calendar.db?_pragma=busy_timeout(5000)",
		LogLevel:  "info",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("CALENDAR_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "CALENDAR_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if storage := strings.TrimSpace(os.Getenv("CALENDAR_STORAGE")); storage != "" {
		switch storage {
		case StorageSQLite, StorageMemory:
			cfg.Storage = storage
		default:
			invalid = append(invalid, "CALENDAR_STORAGE")
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("CALENDAR_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	zoneName := "Asia/Kolkata"
	if zoneValue := strings.TrimSpace(os.Getenv("CALENDAR_TIMEZONE")); zoneValue != "" {
		zoneName = zoneValue
	}
	location, err := time.LoadLocation(zoneName)
	if err != nil {
		invalid = append(invalid, "CALENDAR_TIMEZONE")
	} else {
		cfg.Timezone = location
	}

	if levelValue := strings.TrimSpace(os.Getenv("CALENDAR_LOG_LEVEL")); levelValue != "" {
		switch levelValue {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = levelValue
		default:
			invalid = append(invalid, "CALENDAR_LOG_LEVEL")
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
