// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// Session represents one scheduled cohort session backed by a meeting on the
// video-conferencing platform.
type Session struct {
	UID                      string                `json:"uid"`
	Title                    string                `json:"title"`
	CohortUID                string                `json:"cohort_uid"`
	PlatformMeetingID        string                `json:"platform_meeting_id"`
	ScheduledStartTime       time.Time             `json:"scheduled_start_time"`
	ScheduledDurationMinutes int                   `json:"scheduled_duration_minutes"`
	ActualStartTime          *time.Time            `json:"actual_start_time,omitempty"`
	ActualDurationMinutes    *int                  `json:"actual_duration_minutes,omitempty"`
	RecurrenceRule           string                `json:"recurrence_rule,omitempty"`
	FormalEndMinutes         *int                  `json:"formal_end_minutes,omitempty"`
	CliffDetection           *CliffDetectionResult `json:"cliff_detection,omitempty"`
	ReviewState              ReviewState           `json:"review_state"`
	CreatedAt                *time.Time            `json:"created_at,omitempty"`
	UpdatedAt                *time.Time            `json:"updated_at,omitempty"`
}

// DurationMinutes returns the meeting's observed duration, falling back to the
// scheduled duration when the provider did not report an actual one.
func (s *Session) DurationMinutes() int {
	if s == nil {
		return 0
	}
	if s.ActualDurationMinutes != nil && *s.ActualDurationMinutes > 0 {
		return *s.ActualDurationMinutes
	}
	return s.ScheduledDurationMinutes
}

// DurationBasisMinutes returns the denominator for attendance percentages:
// the applied effective end when the admin accepted a cliff, otherwise the
// full meeting duration. A dismissed cliff always falls back to the full
// duration.
func (s *Session) DurationBasisMinutes() int {
	if s == nil {
		return 0
	}
	if s.ReviewState.Status == ReviewStatusApplied && s.ReviewState.EffectiveEndMinutes != nil {
		return *s.ReviewState.EffectiveEndMinutes
	}
	return s.DurationMinutes()
}

// Tags generates a consistent set of tags for the session, used by downstream
// search indexing consumers.
func (s *Session) Tags() []string {
	if s == nil {
		return nil
	}

	tags := []string{}

	if s.UID != "" {
		tags = append(tags, s.UID)
		tags = append(tags, fmt.Sprintf("session_uid:%s", s.UID))
	}
	if s.CohortUID != "" {
		tags = append(tags, fmt.Sprintf("cohort_uid:%s", s.CohortUID))
	}
	if s.PlatformMeetingID != "" {
		tags = append(tags, fmt.Sprintf("platform_meeting_id:%s", s.PlatformMeetingID))
	}
	if s.Title != "" {
		tags = append(tags, fmt.Sprintf("title:%s", s.Title))
	}

	return tags
}
