// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package zoom

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/infrastructure/zoom/api"
	"github.com/campushq/attendance-service/internal/infrastructure/zoom/api/mocks"
)

func TestFetchMeetingReport(t *testing.T) {
	start := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	mockClient := &mocks.MockClientAPI{}
	mockClient.On("GetPastMeeting", mock.Anything, "987654321").Return(&api.PastMeeting{
		ID:        "987654321",
		StartTime: start,
		Duration:  60,
	}, nil)
	mockClient.On("ListPastMeetingParticipants", mock.Anything, "987654321").Return([]api.Participant{
		{ID: "p1", UserEmail: "ada@example.com", Name: "Ada", JoinTime: start, LeaveTime: start.Add(10 * time.Minute)},
		{ID: "", UserEmail: "", Name: "Phone Caller", JoinTime: start, LeaveTime: start.Add(30 * time.Minute)},
	}, nil)

	provider := NewReportProvider(mockClient)
	report, err := provider.FetchMeetingReport(context.Background(), "987654321")
	require.NoError(t, err)

	assert.Equal(t, "987654321", report.PlatformMeetingID)
	assert.Equal(t, 60, report.DurationMinutes)
	require.Len(t, report.Events, 2)
	assert.Equal(t, "p1", report.Events[0].ParticipantKey)
	assert.Equal(t, "|Phone Caller", report.Events[1].ParticipantKey)
	mockClient.AssertExpectations(t)
}

func TestFetchMeetingReport_DurationFallsBackToTimestamps(t *testing.T) {
	start := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	mockClient := &mocks.MockClientAPI{}
	mockClient.On("GetPastMeeting", mock.Anything, "987654321").Return(&api.PastMeeting{
		ID:        "987654321",
		StartTime: start,
		EndTime:   start.Add(75 * time.Minute),
	}, nil)
	mockClient.On("ListPastMeetingParticipants", mock.Anything, "987654321").Return([]api.Participant{}, nil)

	provider := NewReportProvider(mockClient)
	report, err := provider.FetchMeetingReport(context.Background(), "987654321")
	require.NoError(t, err)
	assert.Equal(t, 75, report.DurationMinutes)
}

func TestFetchMeetingReport_MeetingFetchError(t *testing.T) {
	mockClient := &mocks.MockClientAPI{}
	mockClient.On("GetPastMeeting", mock.Anything, "missing").Return(nil, assert.AnError)

	provider := NewReportProvider(mockClient)
	_, err := provider.FetchMeetingReport(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}

func TestFetchMeetingReport_ParticipantFetchError(t *testing.T) {
	mockClient := &mocks.MockClientAPI{}
	mockClient.On("GetPastMeeting", mock.Anything, "987654321").Return(&api.PastMeeting{ID: "987654321", Duration: 60}, nil)
	mockClient.On("ListPastMeetingParticipants", mock.Anything, "987654321").Return(nil, assert.AnError)

	provider := NewReportProvider(mockClient)
	_, err := provider.FetchMeetingReport(context.Background(), "987654321")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}
