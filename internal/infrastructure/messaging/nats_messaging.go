// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

// Package messaging publishes attendance events to NATS for downstream
// consumers.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/models"
	"github.com/campushq/attendance-service/internal/logging"
)

// INatsConn is a NATS connection interface needed for the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// SendDetectionCompleted publishes the outcome of a detection run.
func (m *MessageBuilder) SendDetectionCompleted(ctx context.Context, data models.DetectionCompletedMessage) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.DetectionCompletedSubject, dataBytes)
}

// SendRecordsRecalculated publishes the outcome of an attendance recalculation.
func (m *MessageBuilder) SendRecordsRecalculated(ctx context.Context, data models.RecordsRecalculatedMessage) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.RecordsRecalculatedSubject, dataBytes)
}

// SendIndexSession sends a session document to the search indexer. The
// indexer expects the document as a map keyed by the JSON field names.
func (m *MessageBuilder) SendIndexSession(ctx context.Context, action models.MessageAction, data models.Session) error {
	var payload any
	config := mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &payload,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err != nil {
		slog.ErrorContext(ctx, "error creating decoder", logging.ErrKey, err)
		return err
	}
	if err := decoder.Decode(data); err != nil {
		slog.ErrorContext(ctx, "error decoding session data", logging.ErrKey, err)
		return err
	}

	message := models.SessionIndexerMessage{
		Action: action,
		Data:   payload,
		Tags:   data.Tags(),
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err)
		return err
	}

	slog.DebugContext(ctx, "constructed indexer message",
		"subject", models.IndexSessionSubject,
		"action", action,
		"tags_count", len(message.Tags),
	)

	return m.sendMessage(ctx, models.IndexSessionSubject, messageBytes)
}

// Ensure MessageBuilder implements domain.MessageBuilder
var _ domain.MessageBuilder = (*MessageBuilder)(nil)
