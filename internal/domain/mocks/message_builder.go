// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/campushq/attendance-service/internal/domain/models"
)

// MockMessageBuilder implements MessageBuilder for testing
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) SendDetectionCompleted(ctx context.Context, data models.DetectionCompletedMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendRecordsRecalculated(ctx context.Context, data models.RecordsRecalculatedMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendIndexSession(ctx context.Context, action models.MessageAction, data models.Session) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}
