// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package engine

import (
	"math"

	"github.com/campushq/attendance-service/internal/domain/models"
)

// TrimSegments clips segments to [0, basisMinutes], dropping segments that
// start at or beyond the basis and truncating those that extend past it.
func TrimSegments(segments []models.AttendanceSegment, basisMinutes float64) []models.AttendanceSegment {
	var trimmed []models.AttendanceSegment
	for _, seg := range segments {
		start := seg.StartMinute
		end := seg.EndMinute
		if start < 0 {
			start = 0
		}
		if end > basisMinutes {
			end = basisMinutes
		}
		if end <= start {
			continue
		}
		trimmed = append(trimmed, models.AttendanceSegment{StartMinute: start, EndMinute: end})
	}
	return trimmed
}

// AttendedMinutes sums the trimmed segment lengths against the duration basis.
func AttendedMinutes(segments []models.AttendanceSegment, basisMinutes float64) float64 {
	total := 0.0
	for _, seg := range TrimSegments(segments, basisMinutes) {
		total += seg.Length()
	}
	return total
}

// Percentage computes the attendance percentage with deterministic
// round-half-up, clamped to [0, 100]. A zero or negative basis, or a
// zero-duration participant, yields 0.
func Percentage(attendedMinutes float64, basisMinutes int) int {
	if basisMinutes <= 0 || attendedMinutes <= 0 {
		return 0
	}
	pct := int(math.Floor(100*attendedMinutes/float64(basisMinutes) + 0.5))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ComputeAttendance computes one participant's attended minutes and
// percentage against the given duration basis. Recomputation with the same
// basis always reproduces the same result, and a basis equal to the full
// meeting duration reproduces the no-cutoff attendance exactly.
func ComputeAttendance(participant models.NormalizedParticipant, basisMinutes int) (float64, int) {
	attended := AttendedMinutes(participant.Segments, float64(basisMinutes))
	return attended, Percentage(attended, basisMinutes)
}
