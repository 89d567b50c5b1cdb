// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/campushq/attendance-service/internal/domain/models"
)

// MockMeetingProvider implements MeetingProvider for testing
type MockMeetingProvider struct {
	mock.Mock
}

func (m *MockMeetingProvider) FetchMeetingReport(ctx context.Context, platformMeetingID string) (*models.MeetingReport, error) {
	args := m.Called(ctx, platformMeetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MeetingReport), args.Error(1)
}
