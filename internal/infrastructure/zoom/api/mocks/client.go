// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/campushq/attendance-service/internal/infrastructure/zoom/api"
)

// MockClientAPI implements api.ClientAPI for testing
type MockClientAPI struct {
	mock.Mock
}

func (m *MockClientAPI) GetPastMeeting(ctx context.Context, meetingID string) (*api.PastMeeting, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.PastMeeting), args.Error(1)
}

func (m *MockClientAPI) ListPastMeetingParticipants(ctx context.Context, meetingID string) ([]api.Participant, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.Participant), args.Error(1)
}
