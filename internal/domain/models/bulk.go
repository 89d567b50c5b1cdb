// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package models

// PerSessionResult is the outcome of one session's detection inside a bulk run.
type PerSessionResult struct {
	SessionUID          string          `json:"session_uid"`
	Title               string          `json:"title,omitempty"`
	Status              DetectionStatus `json:"status"`
	Confidence          Confidence      `json:"confidence,omitempty"`
	EffectiveEndMinutes *int            `json:"effective_end_minutes,omitempty"`
	StudentsImpacted    *int            `json:"students_impacted,omitempty"`
	Error               string          `json:"error,omitempty"`
}

// BulkDetectionSummary aggregates a bulk detection run. A bulk run never
// fails wholesale: every session's outcome is classified independently.
type BulkDetectionSummary struct {
	Total                 int `json:"total"`
	Detected              int `json:"detected"`
	HighConfidence        int `json:"high_confidence"`
	MediumConfidence      int `json:"medium_confidence"`
	LowConfidence         int `json:"low_confidence"`
	NoCliff               int `json:"no_cliff"`
	Skipped               int `json:"skipped"`
	Errors                int `json:"errors"`
	TotalStudentsImpacted int `json:"total_students_impacted"`
}

// BulkDetectionReport is the full result of a bulk detection run.
type BulkDetectionReport struct {
	Summary BulkDetectionSummary `json:"summary"`
	Results []PerSessionResult   `json:"results"`
}
