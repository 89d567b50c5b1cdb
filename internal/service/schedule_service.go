// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/models"
)

// ScheduleService decides where a session sits in its schedule. Recurring
// sessions carry an RFC 5545 recurrence rule; the latest occurrence at or
// before now is the one a detection run analyzes.
type ScheduleService struct{}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService() *ScheduleService {
	return &ScheduleService{}
}

// LatestOccurrenceStart returns the start time of the session occurrence
// most recently started at or before now. For non-recurring sessions that is
// the scheduled start itself; a zero time means no occurrence has started yet.
func (s *ScheduleService) LatestOccurrenceStart(session *models.Session, now time.Time) (time.Time, error) {
	if session == nil {
		return time.Time{}, domain.NewValidationError("session is required")
	}

	if session.RecurrenceRule == "" {
		if session.ScheduledStartTime.After(now) {
			return time.Time{}, nil
		}
		return session.ScheduledStartTime, nil
	}

	option, err := rrule.StrToROption(session.RecurrenceRule)
	if err != nil {
		return time.Time{}, domain.NewValidationError("invalid recurrence rule", err)
	}
	option.Dtstart = session.ScheduledStartTime

	rule, err := rrule.NewRRule(*option)
	if err != nil {
		return time.Time{}, domain.NewValidationError("invalid recurrence rule", err)
	}

	return rule.Before(now, true), nil
}

// HasEnded reports whether the session's latest occurrence has already run
// to its scheduled end. Detection only makes sense for ended occurrences.
func (s *ScheduleService) HasEnded(session *models.Session, now time.Time) (bool, error) {
	start, err := s.LatestOccurrenceStart(session, now)
	if err != nil {
		return false, err
	}
	if start.IsZero() {
		return false, nil
	}

	end := start.Add(time.Duration(session.DurationMinutes()) * time.Minute)
	return !end.After(now), nil
}
