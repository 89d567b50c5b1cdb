// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/campushq/attendance-service/internal/domain/models"
)

// MeetingProvider is the boundary to the external video-conferencing
// platform. It supplies the closed meeting's participant report: raw
// join/leave events plus the meeting's observed duration.
type MeetingProvider interface {
	// FetchMeetingReport retrieves the participant report for a closed meeting.
	FetchMeetingReport(ctx context.Context, platformMeetingID string) (*models.MeetingReport, error)
}
