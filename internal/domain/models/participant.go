// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// RawEvent is one raw presence interval of a participant as reported by the
// meeting provider. A participant who rejoins produces multiple events under
// the same participant key.
type RawEvent struct {
	ParticipantKey string    `json:"participant_key"`
	Email          string    `json:"email,omitempty"`
	Name           string    `json:"name,omitempty"`
	JoinTime       time.Time `json:"join_time"`
	LeaveTime      time.Time `json:"leave_time"`
}

// AttendanceSegment is a continuous presence interval in minute offsets from
// the meeting start.
type AttendanceSegment struct {
	StartMinute float64 `json:"start_minute"`
	EndMinute   float64 `json:"end_minute"`
}

// Length returns the segment duration in minutes.
func (s AttendanceSegment) Length() float64 {
	return s.EndMinute - s.StartMinute
}

// NormalizedParticipant is one participant's merged, ordered segment list.
// It is owned by a single pipeline run and never mutated after construction.
type NormalizedParticipant struct {
	IdentityKey          string              `json:"identity_key"`
	Email                string              `json:"email,omitempty"`
	Name                 string              `json:"name,omitempty"`
	Segments             []AttendanceSegment `json:"segments"`
	FinalDepartureMinute float64             `json:"final_departure_minute"`
}

// MatchedAttendee is a normalized participant resolved to a known user account.
type MatchedAttendee struct {
	Participant NormalizedParticipant `json:"participant"`
	UserUID     string                `json:"user_uid"`
}

// UnmatchedAttendee is a normalized participant with no matching user account.
// Its raw email and name are preserved for manual review.
type UnmatchedAttendee struct {
	Participant NormalizedParticipant `json:"participant"`
}

// MeetingReport is the closed meeting record fetched from the provider.
type MeetingReport struct {
	PlatformMeetingID string     `json:"platform_meeting_id"`
	StartTime         time.Time  `json:"start_time"`
	DurationMinutes   int        `json:"duration_minutes"`
	Events            []RawEvent `json:"events"`
}
