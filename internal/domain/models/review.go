// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"time"

	"github.com/campushq/attendance-service/pkg/utils"
)

// ReviewStatus is the admin's decision state on a detected cliff.
type ReviewStatus string

const (
	// ReviewStatusNotReviewed means no admin has acted on the detection yet.
	ReviewStatusNotReviewed ReviewStatus = "not_reviewed"
	// ReviewStatusApplied means an admin accepted an effective end time.
	ReviewStatusApplied ReviewStatus = "applied"
	// ReviewStatusDismissed means an admin rejected the detected cliff.
	ReviewStatusDismissed ReviewStatus = "dismissed"
)

// ReviewState is the mutable human-review decision, kept separate from the
// immutable CliffDetectionResult it refers to. Exactly one variant is active:
// NotReviewed carries no fields, Applied carries the effective end and its
// timestamp, Dismissed carries its timestamp.
type ReviewState struct {
	Status              ReviewStatus `json:"status"`
	EffectiveEndMinutes *int         `json:"effective_end_minutes,omitempty"`
	AppliedAt           *time.Time   `json:"applied_at,omitempty"`
	DismissedAt         *time.Time   `json:"dismissed_at,omitempty"`
}

// NewNotReviewedState returns the initial review state.
func NewNotReviewedState() ReviewState {
	return ReviewState{Status: ReviewStatusNotReviewed}
}

// NewAppliedState returns the review state for an accepted effective end.
func NewAppliedState(effectiveEndMinutes int, appliedAt time.Time) ReviewState {
	return ReviewState{
		Status:              ReviewStatusApplied,
		EffectiveEndMinutes: utils.IntPtr(effectiveEndMinutes),
		AppliedAt:           utils.TimePtr(appliedAt),
	}
}

// NewDismissedState returns the review state for a rejected cliff.
func NewDismissedState(dismissedAt time.Time) ReviewState {
	return ReviewState{
		Status:      ReviewStatusDismissed,
		DismissedAt: utils.TimePtr(dismissedAt),
	}
}

// Decided reports whether an admin has already acted on the session's
// detection. Bulk re-detection skips decided sessions unless forced.
func (r ReviewState) Decided() bool {
	return r.Status == ReviewStatusApplied || r.Status == ReviewStatusDismissed
}
