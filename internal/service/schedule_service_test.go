// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/models"
)

func scheduledSession(start time.Time, durationMinutes int, rule string) *models.Session {
	return &models.Session{
		UID:                      "sess-1",
		ScheduledStartTime:       start,
		ScheduledDurationMinutes: durationMinutes,
		RecurrenceRule:           rule,
	}
}

func TestLatestOccurrenceStart_NonRecurring(t *testing.T) {
	svc := NewScheduleService()
	start := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	session := scheduledSession(start, 60, "")

	t.Run("already started", func(t *testing.T) {
		got, err := svc.LatestOccurrenceStart(session, start.Add(30*time.Minute))
		require.NoError(t, err)
		assert.True(t, got.Equal(start))
	})

	t.Run("not started yet", func(t *testing.T) {
		got, err := svc.LatestOccurrenceStart(session, start.Add(-time.Hour))
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})
}

func TestLatestOccurrenceStart_Weekly(t *testing.T) {
	svc := NewScheduleService()
	start := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) // a Tuesday
	session := scheduledSession(start, 60, "FREQ=WEEKLY;BYDAY=TU")

	// Two and a half weeks in: the latest occurrence is the third Tuesday.
	now := start.AddDate(0, 0, 17)
	got, err := svc.LatestOccurrenceStart(session, now)
	require.NoError(t, err)
	assert.True(t, got.Equal(start.AddDate(0, 0, 14)))
}

func TestLatestOccurrenceStart_InvalidRule(t *testing.T) {
	svc := NewScheduleService()
	start := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	session := scheduledSession(start, 60, "FREQ=SOMETIMES")

	_, err := svc.LatestOccurrenceStart(session, start.Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestHasEnded(t *testing.T) {
	svc := NewScheduleService()
	start := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rule string
		now  time.Time
		want bool
	}{
		{"before start", "", start.Add(-time.Minute), false},
		{"mid session", "", start.Add(30 * time.Minute), false},
		{"exactly at end", "", start.Add(60 * time.Minute), true},
		{"long after end", "", start.Add(48 * time.Hour), true},
		{"weekly mid occurrence", "FREQ=WEEKLY;BYDAY=TU", start.AddDate(0, 0, 7).Add(10 * time.Minute), false},
		{"weekly after occurrence", "FREQ=WEEKLY;BYDAY=TU", start.AddDate(0, 0, 7).Add(2 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := scheduledSession(start, 60, tt.rule)
			got, err := svc.HasEnded(session, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasEnded_UsesActualDuration(t *testing.T) {
	svc := NewScheduleService()
	start := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	session := scheduledSession(start, 60, "")
	actual := 90
	session.ActualDurationMinutes = &actual

	ended, err := svc.HasEnded(session, start.Add(75*time.Minute))
	require.NoError(t, err)
	assert.False(t, ended, "a session that ran long has not ended at its scheduled end")
}
