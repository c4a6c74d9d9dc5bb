package config

import (
	"os"
	"testing"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"CALENDAR_HTTP_PORT",
			"CALENDAR_STORAGE",
			"CALENDAR_SQLITE_DSN",
			"CALENDAR_TIMEZONE",
			"CALENDAR_LOG_LEVEL",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.Storage != StorageSQLite {
			t.Fatalf("expected default storage %q, got %q", StorageSQLite, cfg.Storage)
		}
		if cfg.SQLiteDSN != "file:calendar.db?_pragma=busy_timeout(5000)" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.Timezone == nil || cfg.Timezone.String() != "Asia/Kolkata" {
			t.Fatalf("expected default timezone Asia/Kolkata, got %v", cfg.Timezone)
		}
		if cfg.LogLevel != "info" {
			t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
		}
	})

	t.Run("parses overrides", func(t *testing.T) {
		t.Setenv("CALENDAR_HTTP_PORT", "9090")
		t.Setenv("CALENDAR_STORAGE", "memory")
		t.Setenv("CALENDAR_SQLITE_DSN", "file:/tmp/calendar.db")
		t.Setenv("CALENDAR_TIMEZONE", "UTC")
		t.Setenv("CALENDAR_LOG_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.Storage != StorageMemory {
			t.Fatalf("expected storage memory, got %q", cfg.Storage)
		}
		if cfg.SQLiteDSN != "file:/tmp/calendar.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.Timezone.String() != "UTC" {
			t.Fatalf("expected timezone UTC, got %v", cfg.Timezone)
		}
		if cfg.LogLevel != "debug" {
			t.Fatalf("expected log level debug, got %q", cfg.LogLevel)
		}
	})

	t.Run("accumulates invalid values", func(t *testing.T) {
		t.Setenv("CALENDAR_HTTP_PORT", "not-a-port")
		t.Setenv("CALENDAR_STORAGE", "postgres")
		t.Setenv("CALENDAR_LOG_LEVEL", "trace")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid environment variable values: CALENDAR_HTTP_PORT, CALENDAR_STORAGE, CALENDAR_LOG_LEVEL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
