// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/attendance-service/internal/domain/models"
)

func TestTrimSegments(t *testing.T) {
	segments := []models.AttendanceSegment{
		{StartMinute: 0, EndMinute: 10},
		{StartMinute: 12, EndMinute: 60},
		{StartMinute: 70, EndMinute: 80},
	}

	trimmed := TrimSegments(segments, 45)
	require.Len(t, trimmed, 2)
	assert.InDelta(t, 10.0, trimmed[0].Length(), 1e-9)
	assert.InDelta(t, 33.0, trimmed[1].Length(), 1e-9) // 12..45
}

func TestTrimSegments_DropsSegmentAtBasisBoundary(t *testing.T) {
	segments := []models.AttendanceSegment{{StartMinute: 45, EndMinute: 60}}
	assert.Empty(t, TrimSegments(segments, 45))
}

func TestAttendedMinutes(t *testing.T) {
	segments := []models.AttendanceSegment{
		{StartMinute: 0, EndMinute: 10},
		{StartMinute: 12, EndMinute: 60},
	}
	assert.InDelta(t, 58.0, AttendedMinutes(segments, 60), 1e-9)
	assert.InDelta(t, 43.0, AttendedMinutes(segments, 45), 1e-9)
	assert.InDelta(t, 0.0, AttendedMinutes(nil, 60), 1e-9)
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		attended float64
		basis    int
		want     int
	}{
		{"full attendance", 60, 60, 100},
		{"rounds half up", 29.7, 60, 50},   // 49.5 -> 50
		{"rounds down below half", 29.6, 60, 49}, // 49.33 -> 49
		{"zero duration", 0, 60, 0},
		{"zero basis", 30, 0, 0},
		{"clamped to 100", 75, 60, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentage(tt.attended, tt.basis))
		})
	}
}

func TestComputeAttendance_BoundaryEquivalence(t *testing.T) {
	// A basis equal to the full meeting duration must reproduce the
	// no-cutoff attendance exactly.
	participant := models.NormalizedParticipant{
		Segments: []models.AttendanceSegment{
			{StartMinute: 0, EndMinute: 10},
			{StartMinute: 12, EndMinute: 60},
		},
		FinalDepartureMinute: 60,
	}

	attendedFull, pctFull := ComputeAttendance(participant, 60)
	assert.InDelta(t, 58.0, attendedFull, 1e-9)
	assert.Equal(t, 97, pctFull) // 96.67 rounds up

	// Idempotence: recomputation with the same basis is identical.
	attendedAgain, pctAgain := ComputeAttendance(participant, 60)
	assert.Equal(t, attendedFull, attendedAgain)
	assert.Equal(t, pctFull, pctAgain)
}

func TestComputeAttendance_WithCutoff(t *testing.T) {
	participant := models.NormalizedParticipant{
		Segments: []models.AttendanceSegment{
			{StartMinute: 0, EndMinute: 45},
			{StartMinute: 50, EndMinute: 60},
		},
		FinalDepartureMinute: 60,
	}

	attended, pct := ComputeAttendance(participant, 45)
	assert.InDelta(t, 45.0, attended, 1e-9)
	assert.Equal(t, 100, pct)
}

func TestComputeAttendance_ZeroDurationParticipant(t *testing.T) {
	attended, pct := ComputeAttendance(models.NormalizedParticipant{}, 60)
	assert.Zero(t, attended)
	assert.Zero(t, pct)
}
