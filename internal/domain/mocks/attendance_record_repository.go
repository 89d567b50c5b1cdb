// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/campushq/attendance-service/internal/domain/models"
)

// MockAttendanceRecordRepository implements AttendanceRecordRepository for testing
type MockAttendanceRecordRepository struct {
	mock.Mock
}

func (m *MockAttendanceRecordRepository) Put(ctx context.Context, record *models.AttendanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAttendanceRecordRepository) ListBySession(ctx context.Context, sessionUID string) ([]*models.AttendanceRecord, error) {
	args := m.Called(ctx, sessionUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRecordRepository) DeleteBySession(ctx context.Context, sessionUID string) error {
	args := m.Called(ctx, sessionUID)
	return args.Error(0)
}
