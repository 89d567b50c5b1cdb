// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package engine

import (
	"github.com/campushq/attendance-service/internal/domain/models"
)

// BuildHistogram buckets final-departure minutes into fixed-width buckets
// covering [0, meetingDurationMinutes). Departures at or beyond the meeting
// end clamp into the final bucket: those participants stayed to the natural
// end and are not a detected cliff. Conservation holds: the bucket counts
// sum to the number of participants.
func BuildHistogram(participants []models.NormalizedParticipant, meetingDurationMinutes, bucketWidthMinutes int) []models.HistogramBucket {
	if meetingDurationMinutes <= 0 || bucketWidthMinutes <= 0 {
		return nil
	}

	bucketCount := (meetingDurationMinutes + bucketWidthMinutes - 1) / bucketWidthMinutes
	buckets := make([]models.HistogramBucket, bucketCount)
	for i := range buckets {
		buckets[i].Minute = i * bucketWidthMinutes
	}

	for _, p := range participants {
		idx := int(p.FinalDepartureMinute) / bucketWidthMinutes
		if p.FinalDepartureMinute < 0 {
			idx = 0
		}
		if idx >= bucketCount {
			idx = bucketCount - 1
		}
		buckets[idx].Departures++
	}

	return buckets
}
