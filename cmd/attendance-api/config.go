// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/campushq/attendance-service/internal/engine"
	"github.com/campushq/attendance-service/internal/infrastructure/zoom/api"
	"github.com/campushq/attendance-service/internal/logging"
	"github.com/campushq/attendance-service/pkg/constants"
)

// flags are the command line flags for the attendance service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the attendance service.
type environment struct {
	Port            string
	NatsURL         string
	BulkConcurrency int
	Detection       engine.Config
	Zoom            zoomConfig
}

// zoomConfig holds the Zoom server-to-server OAuth credentials.
type zoomConfig struct {
	AccountID    string
	ClientID     string
	ClientSecret string
}

// parseFlags parses command line flags for the attendance service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by
	// [logging.InitStructuredLogConfig].
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the attendance service
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	return environment{
		Port:            port,
		NatsURL:         natsURL,
		BulkConcurrency: envInt("DETECTION_BULK_CONCURRENCY", constants.DefaultBulkConcurrency),
		Detection:       parseDetectionConfig(),
		Zoom:            parseZoomConfig(),
	}
}

// parseDetectionConfig populates the pipeline thresholds from DETECTION_*
// environment variables, falling back to the package defaults. Thresholds
// are policy and belong to the deployment, not the code.
func parseDetectionConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.MergeGapMinutes = envFloat("DETECTION_MERGE_GAP_MINUTES", cfg.MergeGapMinutes)
	cfg.BucketWidthMinutes = envInt("DETECTION_BUCKET_WIDTH_MINUTES", cfg.BucketWidthMinutes)
	cfg.CliffWindowMinutes = envInt("DETECTION_CLIFF_WINDOW_MINUTES", cfg.CliffWindowMinutes)
	cfg.MinAbsoluteDepartures = envInt("DETECTION_MIN_ABSOLUTE_DEPARTURES", cfg.MinAbsoluteDepartures)
	cfg.MinDepartureFraction = envFloat("DETECTION_MIN_DEPARTURE_FRACTION", cfg.MinDepartureFraction)
	cfg.MinSpikeRatio = envFloat("DETECTION_MIN_SPIKE_RATIO", cfg.MinSpikeRatio)
	cfg.HighSpikeRatio = envFloat("DETECTION_HIGH_SPIKE_RATIO", cfg.HighSpikeRatio)
	cfg.HighDepartureFraction = envFloat("DETECTION_HIGH_DEPARTURE_FRACTION", cfg.HighDepartureFraction)
	cfg.MinParticipants = envInt("DETECTION_MIN_PARTICIPANTS", cfg.MinParticipants)
	return cfg
}

// parseZoomConfig parses the Zoom credentials from environment variables
func parseZoomConfig() zoomConfig {
	accountID := os.Getenv("ZOOM_ACCOUNT_ID")
	if accountID == "" {
		slog.Error("ZOOM_ACCOUNT_ID environment variable is required but not set")
		os.Exit(1)
	}

	clientID := os.Getenv("ZOOM_CLIENT_ID")
	if clientID == "" {
		slog.Error("ZOOM_CLIENT_ID environment variable is required but not set")
		os.Exit(1)
	}

	clientSecret := os.Getenv("ZOOM_CLIENT_SECRET")
	if clientSecret == "" {
		slog.Error("ZOOM_CLIENT_SECRET environment variable is required but not set")
		os.Exit(1)
	}

	return zoomConfig{
		AccountID:    accountID,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}
}

// apiConfig converts the Zoom credentials to the client configuration.
func (z zoomConfig) apiConfig() api.Config {
	return api.Config{
		AccountID:    z.AccountID,
		ClientID:     z.ClientID,
		ClientSecret: z.ClientSecret,
	}
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		slog.With(logging.ErrKey, err, "name", name, "value", raw).
			Error("invalid integer environment variable, using default")
		return fallback
	}
	return value
}

func envFloat(name string, fallback float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.With(logging.ErrKey, err, "name", name, "value", raw).
			Error("invalid float environment variable, using default")
		return fallback
	}
	return value
}
