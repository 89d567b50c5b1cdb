// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/models"
	"github.com/campushq/attendance-service/internal/infrastructure/messaging"
	"github.com/campushq/attendance-service/internal/infrastructure/store"
	"github.com/campushq/attendance-service/internal/logging"
)

const natsShutdownDrainTimeout = 25 * time.Second

// natsQueueName is the queue group so horizontally scaled replicas split the
// request/reply load.
const natsQueueName = "attendance-service"

// repositories bundles the concrete KV-backed repositories.
type repositories struct {
	Session *store.NatsSessionRepository
	Record  *store.NatsAttendanceRecordRepository
	User    *store.NatsUserRepository
	Event   *store.NatsParticipantEventRepository
}

// setupNATS connects to the NATS server with graceful-drain close handling.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(natsShutdownDrainTimeout),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection established", "nats_url", env.NatsURL)
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.ErrorContext(ctx, "NATS async error",
					"subject", s.Subject, "queue", s.Queue, logging.ErrKey, err)
				return
			}
			slog.ErrorContext(ctx, "NATS async error outside subscription", logging.ErrKey, err)
		}),
		nats.ClosedHandler(func(conn *nats.Conn) {
			err := conn.LastError()
			if err != nil {
				slog.ErrorContext(ctx, "NATS connection closed with error", logging.ErrKey, err)
			} else {
				slog.InfoContext(ctx, "NATS connection closed")
			}
			gracefulCloseWG.Done()
			done <- os.Interrupt
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}
	return natsConn, nil
}

// getKeyValueStores creates (or binds to) the JetStream KV buckets and wraps
// them in the service repositories.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	buckets := map[string]jetstream.KeyValue{}
	for _, name := range []string{
		store.KVStoreNameSessions,
		store.KVStoreNameAttendanceRecords,
		store.KVStoreNameUsers,
		store.KVStoreNameParticipantEvents,
	} {
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: name})
		if err != nil {
			slog.ErrorContext(ctx, "error binding NATS KV bucket", "bucket", name, logging.ErrKey, err)
			return nil, err
		}
		buckets[name] = kv
	}

	return &repositories{
		Session: store.NewNatsSessionRepository(buckets[store.KVStoreNameSessions]),
		Record:  store.NewNatsAttendanceRecordRepository(buckets[store.KVStoreNameAttendanceRecords]),
		User:    store.NewNatsUserRepository(buckets[store.KVStoreNameUsers]),
		Event:   store.NewNatsParticipantEventRepository(buckets[store.KVStoreNameParticipantEvents]),
	}, nil
}

// createNatsSubcriptions subscribes the handler to every attendance subject.
func createNatsSubcriptions(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	subjects := []string{
		models.AttendanceDetectSubject,
		models.AttendanceDetectBulkSubject,
		models.AttendanceApplySubject,
		models.AttendanceDismissSubject,
		models.AttendanceCalculateSubject,
	}

	for _, subject := range subjects {
		_, err := natsConn.QueueSubscribe(subject, natsQueueName, func(msg *nats.Msg) {
			handler.HandleMessage(ctx, messaging.NewNatsMessage(msg))
		})
		if err != nil {
			slog.ErrorContext(ctx, "error subscribing to NATS subject",
				"subject", subject, logging.ErrKey, err)
			return err
		}
		slog.DebugContext(ctx, "subscribed to NATS subject", "subject", subject, "queue", natsQueueName)
	}

	return nil
}
