// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

// Package main is the attendance service: it consumes NATS request/reply
// messages to run departure-cliff detection and attendance calculation for
// cohort sessions.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/campushq/attendance-service/internal/handlers"
	"github.com/campushq/attendance-service/internal/infrastructure/messaging"
	"github.com/campushq/attendance-service/internal/infrastructure/zoom"
	"github.com/campushq/attendance-service/internal/infrastructure/zoom/api"
	"github.com/campushq/attendance-service/internal/logging"
	"github.com/campushq/attendance-service/internal/service"
	"github.com/campushq/attendance-service/pkg/utils"
)

const httpShutdownTimeout = 10 * time.Second

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructuredLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, err := utils.SetupOTelSDK(ctx, utils.OTelConfigFromEnv())
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry")
		return
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.With(logging.ErrKey, err).Error("error shutting down OpenTelemetry")
		}
	}()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize services
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	meetingProvider := zoom.NewReportProvider(api.NewClient(env.Zoom.apiConfig()))
	scheduleService := service.NewScheduleService()
	attendanceService := service.NewAttendanceService(
		repos.Session,
		repos.Record,
		repos.User,
		repos.Event,
		meetingProvider,
		messageBuilder,
		scheduleService,
		service.ServiceConfig{
			Detection:       env.Detection,
			BulkConcurrency: env.BulkConcurrency,
		},
	)

	// Initialize handlers
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)

	httpServer := setupHealthServer(flags, attendanceHandler, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	err = createNatsSubcriptions(ctx, attendanceHandler, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)
}

// gracefulShutdown drains NATS subscriptions and stops the HTTP listener.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down attendance service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	if natsConn != nil && !natsConn.IsClosed() {
		// Drain lets in-flight handlers finish before the connection closes;
		// the ClosedHandler decrements the wait group.
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
			natsConn.Close()
		}
	}

	cancel()
	gracefulCloseWG.Wait()
	slog.Info("attendance service stopped")
}
