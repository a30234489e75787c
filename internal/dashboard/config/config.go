package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sastro1825/monitoringsuhu/internal/logging"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	SpreadsheetID string
	SheetName     string

	// PollInterval is the archive refresh cadence: ~5s for near-real-time
	// dashboards, ~5m for archival ones.
	PollInterval time.Duration
	FetchTimeout time.Duration

	// CachePath is the sqlite snapshot file; empty disables the cache.
	CachePath string

	// SensorAPIURL is the ingest server's snapshot endpoint, proxied at
	// /api/realtime.
	SensorAPIURL string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, ok := logging.ParseLevel(strings.ToLower(logLevelStr))
	if !ok {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", logLevelStr)
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":8081"
	}

	spreadsheetID := strings.TrimSpace(os.Getenv("SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return Config{}, fmt.Errorf("SPREADSHEET_ID is required")
	}

	sheetName := strings.TrimSpace(os.Getenv("SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Sheet1"
	}

	pollIntervalStr := strings.TrimSpace(os.Getenv("POLL_INTERVAL"))
	if pollIntervalStr == "" {
		pollIntervalStr = "5s"
	}
	pollInterval, err := time.ParseDuration(pollIntervalStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid POLL_INTERVAL %q: %w", pollIntervalStr, err)
	}
	if pollInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be positive, got %v", pollInterval)
	}

	fetchTimeoutStr := strings.TrimSpace(os.Getenv("FETCH_TIMEOUT"))
	if fetchTimeoutStr == "" {
		fetchTimeoutStr = "10s"
	}
	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", fetchTimeoutStr, err)
	}

	cachePath := strings.TrimSpace(os.Getenv("CACHE_PATH"))
	if cachePath == "" {
		cachePath = "archive.db"
	}

	sensorAPIURL := strings.TrimSpace(os.Getenv("SENSOR_API_URL"))
	if sensorAPIURL == "" {
		sensorAPIURL = "http://localhost:8080/api/sensor"
	}

	return Config{
		AppEnv:        appEnv,
		LogLevel:      level,
		HTTPAddr:      httpAddr,
		SpreadsheetID: spreadsheetID,
		SheetName:     sheetName,
		PollInterval:  pollInterval,
		FetchTimeout:  fetchTimeout,
		CachePath:     cachePath,
		SensorAPIURL:  sensorAPIURL,
	}, nil
}
