// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/models"
	"github.com/campushq/attendance-service/internal/engine"
	"github.com/campushq/attendance-service/internal/logging"
	"github.com/campushq/attendance-service/pkg/concurrent"
	"github.com/campushq/attendance-service/pkg/constants"
	"github.com/campushq/attendance-service/pkg/utils"
)

// AttendanceService is the session orchestrator: the only component external
// callers invoke. It wires the pure engine to storage, the meeting provider,
// and the message bus.
type AttendanceService struct {
	SessionRepository domain.SessionRepository
	RecordRepository  domain.AttendanceRecordRepository
	UserRepository    domain.UserRepository
	EventRepository   domain.ParticipantEventRepository
	MeetingProvider   domain.MeetingProvider
	MessageBuilder    domain.MessageBuilder
	ScheduleService   *ScheduleService
	Config            ServiceConfig
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	sessionRepository domain.SessionRepository,
	recordRepository domain.AttendanceRecordRepository,
	userRepository domain.UserRepository,
	eventRepository domain.ParticipantEventRepository,
	meetingProvider domain.MeetingProvider,
	messageBuilder domain.MessageBuilder,
	scheduleService *ScheduleService,
	config ServiceConfig,
) *AttendanceService {
	if config.BulkConcurrency <= 0 {
		config.BulkConcurrency = constants.DefaultBulkConcurrency
	}
	return &AttendanceService{
		SessionRepository: sessionRepository,
		RecordRepository:  recordRepository,
		UserRepository:    userRepository,
		EventRepository:   eventRepository,
		MeetingProvider:   meetingProvider,
		MessageBuilder:    messageBuilder,
		ScheduleService:   scheduleService,
		Config:            config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AttendanceService) ServiceReady() bool {
	return s.SessionRepository != nil &&
		s.RecordRepository != nil &&
		s.UserRepository != nil &&
		s.EventRepository != nil &&
		s.MeetingProvider != nil &&
		s.MessageBuilder != nil &&
		s.ScheduleService != nil
}

// loadEvents returns the session's raw participant events, fetching from the
// provider and caching on first use. Re-detection and recalculation always
// read the cache so their inputs stay identical across runs. The second
// return reports whether this call fetched the report: the caller must then
// make sure the report metadata set on the session reaches the store.
func (s *AttendanceService) loadEvents(ctx context.Context, session *models.Session) ([]models.RawEvent, bool, error) {
	cached, err := s.EventRepository.Exists(ctx, session.UID)
	if err != nil {
		return nil, false, err
	}
	if cached {
		events, err := s.EventRepository.Get(ctx, session.UID)
		return events, false, err
	}

	report, err := s.MeetingProvider.FetchMeetingReport(ctx, session.PlatformMeetingID)
	if err != nil {
		return nil, false, err
	}

	if !report.StartTime.IsZero() {
		session.ActualStartTime = utils.TimePtr(report.StartTime)
	}
	if report.DurationMinutes > 0 {
		session.ActualDurationMinutes = utils.IntPtr(min(report.DurationMinutes, constants.MaxSessionDurationMinutes))
	}

	if err := s.EventRepository.Put(ctx, session.UID, report.Events); err != nil {
		return nil, false, err
	}

	slog.DebugContext(ctx, "cached provider events",
		"platform_meeting_id", session.PlatformMeetingID,
		"event_count", len(report.Events),
	)

	return report.Events, true, nil
}

// persistReportMetadata stores the freshly fetched report start and duration
// on the session so every later run uses the same anchor and basis, whichever
// operation fetched first. Detect persists through its own session update;
// the recalculation paths go through here.
func (s *AttendanceService) persistReportMetadata(ctx context.Context, session *models.Session) error {
	stored, revision, err := s.SessionRepository.GetWithRevision(ctx, session.UID)
	if err != nil {
		return err
	}
	stored.ActualStartTime = session.ActualStartTime
	stored.ActualDurationMinutes = session.ActualDurationMinutes
	return s.SessionRepository.Update(ctx, stored, revision)
}

// eventAnchor is the instant raw event offsets are measured from: the
// provider-reported start when known, otherwise the start of the session's
// latest occurrence. A recurring session must never anchor on the series'
// first start.
func (s *AttendanceService) eventAnchor(session *models.Session) (time.Time, error) {
	if session.ActualStartTime != nil {
		return *session.ActualStartTime, nil
	}
	start, err := s.ScheduleService.LatestOccurrenceStart(session, time.Now())
	if err != nil {
		return time.Time{}, err
	}
	if start.IsZero() {
		return session.ScheduledStartTime, nil
	}
	return start, nil
}

// normalizeAndMatch runs the front half of the pipeline: raw events to the
// coalesced matched/unmatched attendee partition.
func (s *AttendanceService) normalizeAndMatch(ctx context.Context, session *models.Session, events []models.RawEvent) (engine.MatchResult, error) {
	anchor, err := s.eventAnchor(session)
	if err != nil {
		return engine.MatchResult{}, err
	}

	norm := engine.Normalize(events, anchor, s.Config.Detection.MergeGapMinutes)
	for _, malformed := range norm.Malformed {
		slog.WarnContext(ctx, "rejecting participant with malformed events",
			"participant_key", malformed.ParticipantKey,
			logging.ErrKey, malformed,
		)
	}

	users, err := s.UserRepository.ListAll(ctx)
	if err != nil {
		return engine.MatchResult{}, err
	}

	directory := engine.BuildDirectory(users)
	return engine.MatchIdentities(norm.Participants, directory, s.Config.Detection.MergeGapMinutes), nil
}

// attendees flattens the partition back into one participant list for the
// histogram; detection counts every attendee, matched or not.
func attendees(match engine.MatchResult) []models.NormalizedParticipant {
	participants := make([]models.NormalizedParticipant, 0, len(match.Matched)+len(match.Unmatched))
	for _, m := range match.Matched {
		participants = append(participants, m.Participant)
	}
	for _, u := range match.Unmatched {
		participants = append(participants, u.Participant)
	}
	return participants
}

// Detect runs cliff detection for one session and persists the fresh result.
// The session's review state is never modified: re-detection over a decided
// session requires force.
func (s *AttendanceService) Detect(ctx context.Context, sessionUID string, force bool) (*models.CliffDetectionResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("attendance service is not ready")
	}
	if sessionUID == "" {
		return nil, domain.NewValidationError("session UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("session_uid", sessionUID))

	session, revision, err := s.SessionRepository.GetWithRevision(ctx, sessionUID)
	if err != nil {
		return nil, err
	}

	if session.ReviewState.Decided() && !force {
		return nil, domain.NewConflictError(
			fmt.Sprintf("session '%s' has already been reviewed; use force to re-detect", sessionUID))
	}

	result, err := s.detect(ctx, session)
	if err != nil {
		return nil, err
	}

	session.CliffDetection = result
	if err := s.SessionRepository.Update(ctx, session, revision); err != nil {
		return nil, err
	}

	s.publishDetectionCompleted(ctx, session, result)

	return result, nil
}

// detect runs the pure pipeline for a session. Report metadata a first fetch
// sets on the session is persisted by the caller's session update.
func (s *AttendanceService) detect(ctx context.Context, session *models.Session) (*models.CliffDetectionResult, error) {
	events, _, err := s.loadEvents(ctx, session)
	if err != nil {
		return nil, err
	}

	match, err := s.normalizeAndMatch(ctx, session, events)
	if err != nil {
		return nil, err
	}

	participants := attendees(match)
	duration := session.DurationMinutes()
	histogram := engine.BuildHistogram(participants, duration, s.Config.Detection.BucketWidthMinutes)
	result := engine.DetectCliff(histogram, len(participants), duration, s.Config.Detection)

	slog.InfoContext(ctx, "cliff detection completed",
		"status", result.Status,
		"confidence", result.Confidence,
		"total_participants", result.TotalParticipants,
		"effective_end_minutes", result.EffectiveEndMinutes,
	)

	return &result, nil
}

func (s *AttendanceService) publishDetectionCompleted(ctx context.Context, session *models.Session, result *models.CliffDetectionResult) {
	message := models.DetectionCompletedMessage{
		SessionUID:       session.UID,
		Status:           result.Status,
		Confidence:       result.Confidence,
		StudentsImpacted: result.StudentsImpacted,
	}
	if result.Detected {
		message.EffectiveEndMinutes = utils.IntPtr(result.EffectiveEndMinutes)
	}

	// Downstream events are best effort: the detection result is already
	// durable on the session.
	if err := s.MessageBuilder.SendDetectionCompleted(ctx, message); err != nil {
		slog.ErrorContext(ctx, "failed to publish detection completed event", logging.ErrKey, err)
	}
	if err := s.MessageBuilder.SendIndexSession(ctx, models.ActionUpdated, *session); err != nil {
		slog.ErrorContext(ctx, "failed to publish session index event", logging.ErrKey, err)
	}
}

// DetectBulk runs detection across every eligible session: ended sessions
// whose cliff has not been decided yet (unless force). Sessions run in a
// bounded worker pool and fail independently; one bad session never aborts
// the run.
func (s *AttendanceService) DetectBulk(ctx context.Context, force bool) (*models.BulkDetectionReport, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("attendance service is not ready")
	}

	sessions, err := s.SessionRepository.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	eligible := make([]*models.Session, 0, len(sessions))
	skipped := make([]models.PerSessionResult, 0)
	for _, session := range sessions {
		ended, err := s.ScheduleService.HasEnded(session, now)
		if err != nil {
			slog.WarnContext(ctx, "skipping session with invalid schedule",
				"session_uid", session.UID, logging.ErrKey, err)
			skipped = append(skipped, models.PerSessionResult{
				SessionUID: session.UID,
				Title:      session.Title,
				Status:     models.DetectionStatusError,
				Error:      err.Error(),
			})
			continue
		}
		if !ended {
			continue
		}
		if session.ReviewState.Decided() && !force {
			skipped = append(skipped, models.PerSessionResult{
				SessionUID: session.UID,
				Title:      session.Title,
				Status:     models.DetectionStatusSkipped,
			})
			continue
		}
		eligible = append(eligible, session)
	}

	results := make([]models.PerSessionResult, len(eligible))
	functions := make([]func() error, len(eligible))
	for i, session := range eligible {
		functions[i] = func() error {
			results[i] = s.detectForBulk(ctx, session.UID, force)
			return nil
		}
	}

	pool := concurrent.NewWorkerPool(s.Config.BulkConcurrency)
	_ = pool.RunAll(ctx, functions...)

	results = append(results, skipped...)

	report := &models.BulkDetectionReport{Results: results}
	for _, result := range results {
		summarize(&report.Summary, result)
	}

	slog.InfoContext(ctx, "bulk detection completed",
		"total", report.Summary.Total,
		"detected", report.Summary.Detected,
		"no_cliff", report.Summary.NoCliff,
		"skipped", report.Summary.Skipped,
		"errors", report.Summary.Errors,
	)

	return report, nil
}

// detectForBulk wraps Detect so every failure collapses into a per-session
// error result.
func (s *AttendanceService) detectForBulk(ctx context.Context, sessionUID string, force bool) models.PerSessionResult {
	session, err := s.SessionRepository.Get(ctx, sessionUID)
	if err != nil {
		return models.PerSessionResult{
			SessionUID: sessionUID,
			Status:     models.DetectionStatusError,
			Error:      err.Error(),
		}
	}

	result, err := s.Detect(ctx, sessionUID, force)
	if err != nil {
		return models.PerSessionResult{
			SessionUID: sessionUID,
			Title:      session.Title,
			Status:     models.DetectionStatusError,
			Error:      err.Error(),
		}
	}

	perSession := models.PerSessionResult{
		SessionUID: sessionUID,
		Title:      session.Title,
		Status:     result.Status,
		Confidence: result.Confidence,
	}
	if result.Detected {
		perSession.EffectiveEndMinutes = utils.IntPtr(result.EffectiveEndMinutes)
		perSession.StudentsImpacted = utils.IntPtr(result.StudentsImpacted)
	}
	return perSession
}

func summarize(summary *models.BulkDetectionSummary, result models.PerSessionResult) {
	summary.Total++
	switch result.Status {
	case models.DetectionStatusDetected:
		summary.Detected++
		switch result.Confidence {
		case models.ConfidenceHigh:
			summary.HighConfidence++
		case models.ConfidenceMedium:
			summary.MediumConfidence++
		case models.ConfidenceLow:
			summary.LowConfidence++
		}
		if result.StudentsImpacted != nil {
			summary.TotalStudentsImpacted += *result.StudentsImpacted
		}
	case models.DetectionStatusNoCliff:
		summary.NoCliff++
	case models.DetectionStatusSkipped:
		summary.Skipped++
	case models.DetectionStatusError:
		summary.Errors++
	}
}

// Apply accepts a detected cliff: it sets the session's effective end,
// marks the review state Applied, and recalculates all attendance records
// against the shortened basis. The review decision is durable even when
// recalculation fails; callers retry with Calculate.
func (s *AttendanceService) Apply(ctx context.Context, sessionUID string, effectiveEndMinutes int) (*models.AttendanceCounts, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("attendance service is not ready")
	}
	if sessionUID == "" {
		return nil, domain.NewValidationError("session UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("session_uid", sessionUID))

	session, revision, err := s.SessionRepository.GetWithRevision(ctx, sessionUID)
	if err != nil {
		return nil, err
	}

	if effectiveEndMinutes <= 0 || effectiveEndMinutes > session.DurationMinutes() {
		return nil, domain.NewValidationError(
			fmt.Sprintf("effective end must be within (0, %d] minutes", session.DurationMinutes()))
	}

	session.ReviewState = models.NewAppliedState(effectiveEndMinutes, time.Now())
	session.FormalEndMinutes = utils.IntPtr(effectiveEndMinutes)
	if err := s.SessionRepository.Update(ctx, session, revision); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "applied effective end time",
		"effective_end_minutes", effectiveEndMinutes)

	counts, err := s.recalculate(ctx, session)
	if err != nil {
		return nil, &domain.RecalculationError{SessionUID: sessionUID, Err: err}
	}
	return counts, nil
}

// Dismiss rejects a detected cliff and restores the full-duration basis,
// recalculating all attendance records. Same durability contract as Apply.
func (s *AttendanceService) Dismiss(ctx context.Context, sessionUID string) (*models.AttendanceCounts, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("attendance service is not ready")
	}
	if sessionUID == "" {
		return nil, domain.NewValidationError("session UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("session_uid", sessionUID))

	session, revision, err := s.SessionRepository.GetWithRevision(ctx, sessionUID)
	if err != nil {
		return nil, err
	}

	session.ReviewState = models.NewDismissedState(time.Now())
	session.FormalEndMinutes = nil
	if err := s.SessionRepository.Update(ctx, session, revision); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "dismissed detected cliff")

	counts, err := s.recalculate(ctx, session)
	if err != nil {
		return nil, &domain.RecalculationError{SessionUID: sessionUID, Err: err}
	}
	return counts, nil
}

// Calculate recomputes the session's attendance records using the basis
// implied by its current review state, without touching that state.
func (s *AttendanceService) Calculate(ctx context.Context, sessionUID string) (*models.AttendanceCounts, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("attendance service is not ready")
	}
	if sessionUID == "" {
		return nil, domain.NewValidationError("session UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("session_uid", sessionUID))

	session, err := s.SessionRepository.Get(ctx, sessionUID)
	if err != nil {
		return nil, err
	}

	return s.recalculate(ctx, session)
}

// recalculate rebuilds the session's attendance records from scratch. Records
// are deleted and rewritten rather than patched so the stored set always
// reflects exactly one pipeline run.
func (s *AttendanceService) recalculate(ctx context.Context, session *models.Session) (*models.AttendanceCounts, error) {
	events, fetched, err := s.loadEvents(ctx, session)
	if err != nil {
		return nil, err
	}
	if fetched {
		if err := s.persistReportMetadata(ctx, session); err != nil {
			return nil, err
		}
	}

	match, err := s.normalizeAndMatch(ctx, session, events)
	if err != nil {
		return nil, err
	}

	basis := session.DurationBasisMinutes()

	if err := s.RecordRepository.DeleteBySession(ctx, session.UID); err != nil {
		return nil, err
	}

	counts := &models.AttendanceCounts{}
	for _, attendee := range match.Matched {
		attended, percentage := engine.ComputeAttendance(attendee.Participant, basis)
		record := &models.AttendanceRecord{
			SessionUID:              session.UID,
			UserUID:                 attendee.UserUID,
			Email:                   attendee.Participant.Email,
			Name:                    attendee.Participant.Name,
			Matched:                 true,
			DurationAttendedMinutes: attended,
			DurationBasisMinutes:    basis,
			Percentage:              percentage,
		}
		if err := s.RecordRepository.Put(ctx, record); err != nil {
			return nil, err
		}
		counts.Imported++
	}
	for _, attendee := range match.Unmatched {
		attended, percentage := engine.ComputeAttendance(attendee.Participant, basis)
		record := &models.AttendanceRecord{
			SessionUID:              session.UID,
			Email:                   attendee.Participant.Email,
			Name:                    attendee.Participant.Name,
			Matched:                 false,
			DurationAttendedMinutes: attended,
			DurationBasisMinutes:    basis,
			Percentage:              percentage,
		}
		if err := s.RecordRepository.Put(ctx, record); err != nil {
			return nil, err
		}
		counts.Unmatched++
	}

	slog.InfoContext(ctx, "recalculated attendance records",
		"duration_basis_minutes", basis,
		"imported", counts.Imported,
		"unmatched", counts.Unmatched,
	)

	if err := s.MessageBuilder.SendRecordsRecalculated(ctx, models.RecordsRecalculatedMessage{
		SessionUID:           session.UID,
		DurationBasisMinutes: basis,
		Imported:             counts.Imported,
		Unmatched:            counts.Unmatched,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish records recalculated event", logging.ErrKey, err)
	}

	return counts, nil
}
