// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package engine

import (
	"sort"
	"time"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/models"
)

// NormalizeResult is the outcome of segment normalization. Participants with
// malformed events are excluded from Participants and reported in Malformed;
// the rest of the session is unaffected.
type NormalizeResult struct {
	Participants []models.NormalizedParticipant
	Malformed    []*domain.MalformedEventError
}

// Normalize merges raw join/leave events per participant into non-overlapping
// attendance segments relative to meetingStart. Adjacent segments separated
// by less than mergeGapMinutes are merged. Normalization is idempotent:
// re-normalizing an already-merged segment list yields the same list.
func Normalize(events []models.RawEvent, meetingStart time.Time, mergeGapMinutes float64) NormalizeResult {
	type group struct {
		email    string
		name     string
		segments []models.AttendanceSegment
	}

	groups := make(map[string]*group)
	rejected := make(map[string]bool)
	var malformed []*domain.MalformedEventError

	for _, event := range events {
		joinMin := event.JoinTime.Sub(meetingStart).Minutes()
		leaveMin := event.LeaveTime.Sub(meetingStart).Minutes()

		if leaveMin <= joinMin {
			malformed = append(malformed, &domain.MalformedEventError{
				ParticipantKey: event.ParticipantKey,
				JoinMinute:     joinMin,
				LeaveMinute:    leaveMin,
			})
			rejected[event.ParticipantKey] = true
			continue
		}

		// Presence reported before the meeting start clamps to minute zero.
		if joinMin < 0 {
			joinMin = 0
		}

		g, ok := groups[event.ParticipantKey]
		if !ok {
			g = &group{}
			groups[event.ParticipantKey] = g
		}
		if g.email == "" {
			g.email = event.Email
		}
		if g.name == "" {
			g.name = event.Name
		}
		g.segments = append(g.segments, models.AttendanceSegment{
			StartMinute: joinMin,
			EndMinute:   leaveMin,
		})
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		if rejected[key] {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	participants := make([]models.NormalizedParticipant, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		segments := MergeSegments(g.segments, mergeGapMinutes)
		participants = append(participants, models.NormalizedParticipant{
			IdentityKey:          key,
			Email:                g.email,
			Name:                 g.name,
			Segments:             segments,
			FinalDepartureMinute: segments[len(segments)-1].EndMinute,
		})
	}

	return NormalizeResult{Participants: participants, Malformed: malformed}
}

// MergeSegments sorts segments by start minute and merges overlapping
// segments and those separated by less than mergeGapMinutes. The result is a
// minimal ordered list. Merging is idempotent.
func MergeSegments(segments []models.AttendanceSegment, mergeGapMinutes float64) []models.AttendanceSegment {
	if len(segments) == 0 {
		return nil
	}

	sorted := make([]models.AttendanceSegment, len(segments))
	copy(sorted, segments)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartMinute != sorted[j].StartMinute {
			return sorted[i].StartMinute < sorted[j].StartMinute
		}
		return sorted[i].EndMinute < sorted[j].EndMinute
	})

	merged := []models.AttendanceSegment{sorted[0]}
	for _, seg := range sorted[1:] {
		last := &merged[len(merged)-1]
		if seg.StartMinute-last.EndMinute < mergeGapMinutes {
			if seg.EndMinute > last.EndMinute {
				last.EndMinute = seg.EndMinute
			}
			continue
		}
		merged = append(merged, seg)
	}

	return merged
}
