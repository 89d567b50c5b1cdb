// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/campushq/attendance-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// MessageBuilder publishes attendance events for downstream consumers
// (search indexer, notification composer).
type MessageBuilder interface {
	SendDetectionCompleted(ctx context.Context, data models.DetectionCompletedMessage) error
	SendRecordsRecalculated(ctx context.Context, data models.RecordsRecalculatedMessage) error
	SendIndexSession(ctx context.Context, action models.MessageAction, data models.Session) error
}
