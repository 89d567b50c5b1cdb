// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// AttendanceRecord is one participant's computed attendance for a session.
// Records are fully recomputed on every calculation, never patched.
type AttendanceRecord struct {
	UID                     string     `json:"uid"`
	SessionUID              string     `json:"session_uid"`
	UserUID                 string     `json:"user_uid,omitempty"`
	Email                   string     `json:"email,omitempty"`
	Name                    string     `json:"name,omitempty"`
	Matched                 bool       `json:"matched"`
	DurationAttendedMinutes float64    `json:"duration_attended_minutes"`
	DurationBasisMinutes    int        `json:"duration_basis_minutes"`
	Percentage              int        `json:"percentage"`
	CreatedAt               *time.Time `json:"created_at,omitempty"`
	UpdatedAt               *time.Time `json:"updated_at,omitempty"`
}

// AttendanceCounts summarizes a recalculation: how many records were imported
// against known users and how many attendees remained unmatched.
type AttendanceCounts struct {
	Imported  int `json:"imported"`
	Unmatched int `json:"unmatched"`
}
