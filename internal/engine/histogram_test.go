// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/attendance-service/internal/domain/models"
)

func participantsDepartingAt(minutes ...float64) []models.NormalizedParticipant {
	participants := make([]models.NormalizedParticipant, len(minutes))
	for i, m := range minutes {
		participants[i] = models.NormalizedParticipant{
			Segments:             []models.AttendanceSegment{{StartMinute: 0, EndMinute: m}},
			FinalDepartureMinute: m,
		}
	}
	return participants
}

func TestBuildHistogram_BucketAssignment(t *testing.T) {
	participants := participantsDepartingAt(0, 4.9, 5, 59.9, 60, 75)

	buckets := BuildHistogram(participants, 60, 5)
	require.Len(t, buckets, 12)

	assert.Equal(t, 2, buckets[0].Departures)  // 0 and 4.9
	assert.Equal(t, 1, buckets[1].Departures)  // 5
	assert.Equal(t, 3, buckets[11].Departures) // 59.9 plus two clamped stayers
	for i, b := range buckets {
		assert.Equal(t, i*5, b.Minute)
	}
}

func TestBuildHistogram_Conservation(t *testing.T) {
	tests := []struct {
		name       string
		departures []float64
		duration   int
		width      int
	}{
		{"even spread", []float64{3, 8, 14, 22, 31, 44, 52, 58}, 60, 5},
		{"all at end", []float64{60, 61, 90}, 60, 5},
		{"zero duration participants", []float64{0, 0, 0}, 30, 5},
		{"partial final bucket", []float64{1, 12, 27}, 28, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			participants := participantsDepartingAt(tt.departures...)
			buckets := BuildHistogram(participants, tt.duration, tt.width)

			sum := 0
			for _, b := range buckets {
				sum += b.Departures
			}
			assert.Equal(t, len(participants), sum, "bucket counts must sum to participant count")
		})
	}
}

func TestBuildHistogram_PartialFinalBucket(t *testing.T) {
	buckets := BuildHistogram(participantsDepartingAt(27), 28, 5)
	require.Len(t, buckets, 6)
	assert.Equal(t, 25, buckets[5].Minute)
	assert.Equal(t, 1, buckets[5].Departures)
}

func TestBuildHistogram_InvalidInputs(t *testing.T) {
	assert.Nil(t, BuildHistogram(nil, 0, 5))
	assert.Nil(t, BuildHistogram(nil, 60, 0))
}
