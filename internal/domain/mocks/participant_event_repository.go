// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/campushq/attendance-service/internal/domain/models"
)

// MockParticipantEventRepository implements ParticipantEventRepository for testing
type MockParticipantEventRepository struct {
	mock.Mock
}

func (m *MockParticipantEventRepository) Put(ctx context.Context, sessionUID string, events []models.RawEvent) error {
	args := m.Called(ctx, sessionUID, events)
	return args.Error(0)
}

func (m *MockParticipantEventRepository) Get(ctx context.Context, sessionUID string) ([]models.RawEvent, error) {
	args := m.Called(ctx, sessionUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawEvent), args.Error(1)
}

func (m *MockParticipantEventRepository) Exists(ctx context.Context, sessionUID string) (bool, error) {
	args := m.Called(ctx, sessionUID)
	return args.Bool(0), args.Error(1)
}
