// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

// Package zoom adapts the Zoom reports API to the meeting provider boundary.
package zoom

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/models"
	"github.com/campushq/attendance-service/internal/infrastructure/zoom/api"
	"github.com/campushq/attendance-service/internal/logging"
)

// ReportProvider fetches closed-meeting participant reports from Zoom.
type ReportProvider struct {
	client api.ClientAPI
}

// NewReportProvider creates a new Zoom-backed meeting provider.
func NewReportProvider(client api.ClientAPI) *ReportProvider {
	return &ReportProvider{client: client}
}

// FetchMeetingReport retrieves the participant report for a closed meeting.
func (p *ReportProvider) FetchMeetingReport(ctx context.Context, platformMeetingID string) (*models.MeetingReport, error) {
	meeting, err := p.client.GetPastMeeting(ctx, platformMeetingID)
	if err != nil {
		return nil, domain.NewUnavailableError(
			fmt.Sprintf("failed to fetch past meeting '%s'", platformMeetingID), err)
	}

	participants, err := p.client.ListPastMeetingParticipants(ctx, platformMeetingID)
	if err != nil {
		return nil, domain.NewUnavailableError(
			fmt.Sprintf("failed to fetch participant report for meeting '%s'", platformMeetingID), err)
	}

	events := make([]models.RawEvent, 0, len(participants))
	for _, participant := range participants {
		key := participant.ID
		if key == "" {
			// Dial-in and guest entries can lack an ID; fall back to the
			// display identity so rejoins still group together.
			key = participant.UserEmail + "|" + participant.Name
		}
		events = append(events, models.RawEvent{
			ParticipantKey: key,
			Email:          participant.UserEmail,
			Name:           participant.Name,
			JoinTime:       participant.JoinTime,
			LeaveTime:      participant.LeaveTime,
		})
	}

	duration := meeting.Duration
	if duration == 0 && meeting.EndTime.After(meeting.StartTime) {
		duration = int(meeting.EndTime.Sub(meeting.StartTime).Minutes())
	}

	slog.DebugContext(ctx, "fetched meeting report from Zoom",
		"platform_meeting_id", platformMeetingID,
		"duration_minutes", duration,
		"event_count", len(events),
	)
	if duration == 0 {
		slog.WarnContext(ctx, "Zoom reported a zero-length meeting",
			"platform_meeting_id", platformMeetingID,
			logging.PriorityCritical())
	}

	return &models.MeetingReport{
		PlatformMeetingID: platformMeetingID,
		StartTime:         meeting.StartTime,
		DurationMinutes:   duration,
		Events:            events,
	}, nil
}

// Ensure ReportProvider implements domain.MeetingProvider
var _ domain.MeetingProvider = (*ReportProvider)(nil)
