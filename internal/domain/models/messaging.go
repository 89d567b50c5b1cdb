// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package models

// NATS subjects for the attendance service.
const (
	// AttendanceDetectSubject is the request/reply subject for running cliff
	// detection on one session.
	AttendanceDetectSubject = "campushq.attendance.detect"

	// AttendanceDetectBulkSubject is the request/reply subject for running
	// cliff detection across all eligible sessions.
	AttendanceDetectBulkSubject = "campushq.attendance.detect_bulk"

	// AttendanceApplySubject is the request/reply subject for applying an
	// effective end time to a session.
	AttendanceApplySubject = "campushq.attendance.apply"

	// AttendanceDismissSubject is the request/reply subject for dismissing a
	// detected cliff.
	AttendanceDismissSubject = "campushq.attendance.dismiss"

	// AttendanceCalculateSubject is the request/reply subject for recomputing
	// attendance records without touching review state.
	AttendanceCalculateSubject = "campushq.attendance.calculate"

	// DetectionCompletedSubject is published after each detection run.
	DetectionCompletedSubject = "campushq.attendance.detection.completed"

	// RecordsRecalculatedSubject is published after attendance records are
	// recomputed for a session.
	RecordsRecalculatedSubject = "campushq.attendance.records.recalculated"

	// IndexSessionSubject is the subject the search indexer consumes session
	// documents from.
	IndexSessionSubject = "campushq.index.session"
)

// MessageAction is the action the indexer should take on a document.
type MessageAction string

const (
	// ActionCreated indicates a resource was created.
	ActionCreated MessageAction = "created"
	// ActionUpdated indicates a resource was updated.
	ActionUpdated MessageAction = "updated"
	// ActionDeleted indicates a resource was deleted.
	ActionDeleted MessageAction = "deleted"
)

// SessionIndexerMessage is the envelope the search indexer expects.
type SessionIndexerMessage struct {
	Action MessageAction `json:"action"`
	Data   any           `json:"data"`
	Tags   []string      `json:"tags"`
}

// DetectRequest is the payload for AttendanceDetectSubject and, with its
// SessionUID empty, for AttendanceDetectBulkSubject.
type DetectRequest struct {
	SessionUID string `json:"session_uid,omitempty"`
	Force      bool   `json:"force,omitempty"`
}

// ApplyRequest is the payload for AttendanceApplySubject.
type ApplyRequest struct {
	SessionUID          string `json:"session_uid"`
	EffectiveEndMinutes int    `json:"effective_end_minutes"`
}

// SessionRequest is the payload for dismiss and calculate subjects.
type SessionRequest struct {
	SessionUID string `json:"session_uid"`
}

// DetectionCompletedMessage is the event published after a detection run.
type DetectionCompletedMessage struct {
	SessionUID          string          `json:"session_uid"`
	Status              DetectionStatus `json:"status"`
	Confidence          Confidence      `json:"confidence,omitempty"`
	EffectiveEndMinutes *int            `json:"effective_end_minutes,omitempty"`
	StudentsImpacted    int             `json:"students_impacted,omitempty"`
}

// RecordsRecalculatedMessage is the event published after a recalculation.
type RecordsRecalculatedMessage struct {
	SessionUID           string `json:"session_uid"`
	DurationBasisMinutes int    `json:"duration_basis_minutes"`
	Imported             int    `json:"imported"`
	Unmatched            int    `json:"unmatched"`
}
