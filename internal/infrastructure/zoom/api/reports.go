// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

const participantsPageSize = 300

// PastMeeting is the closed meeting record from the Zoom reports API.
type PastMeeting struct {
	ID        string    `json:"id"`
	UUID      string    `json:"uuid"`
	Topic     string    `json:"topic"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  int       `json:"duration"`
}

// Participant is one raw join/leave interval from the participant report.
// A participant who rejoins appears multiple times under the same ID.
type Participant struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"user_email"`
	Name      string    `json:"name"`
	JoinTime  time.Time `json:"join_time"`
	LeaveTime time.Time `json:"leave_time"`
}

type participantsPage struct {
	NextPageToken string        `json:"next_page_token"`
	Participants  []Participant `json:"participants"`
}

// GetPastMeeting fetches the closed meeting's report record.
func (c *Client) GetPastMeeting(ctx context.Context, meetingID string) (*PastMeeting, error) {
	var meeting PastMeeting
	path := fmt.Sprintf("/past_meetings/%s", url.PathEscape(meetingID))
	if err := c.getJSON(ctx, path, nil, &meeting); err != nil {
		return nil, fmt.Errorf("failed to get past meeting %s: %w", meetingID, err)
	}
	return &meeting, nil
}

// ListPastMeetingParticipants fetches the full participant report, following
// pagination until the report is exhausted.
func (c *Client) ListPastMeetingParticipants(ctx context.Context, meetingID string) ([]Participant, error) {
	path := fmt.Sprintf("/report/meetings/%s/participants", url.PathEscape(meetingID))

	var participants []Participant
	pageToken := ""
	for {
		query := url.Values{"page_size": []string{fmt.Sprintf("%d", participantsPageSize)}}
		if pageToken != "" {
			query.Set("next_page_token", pageToken)
		}

		var page participantsPage
		if err := c.getJSON(ctx, path, query, &page); err != nil {
			return nil, fmt.Errorf("failed to list participants for meeting %s: %w", meetingID, err)
		}

		participants = append(participants, page.Participants...)
		if page.NextPageToken == "" {
			return participants, nil
		}
		pageToken = page.NextPageToken
	}
}
