// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/mocks"
	"github.com/campushq/attendance-service/internal/domain/models"
	"github.com/campushq/attendance-service/internal/engine"
)

type serviceMocks struct {
	sessions *mocks.MockSessionRepository
	records  *mocks.MockAttendanceRecordRepository
	users    *mocks.MockUserRepository
	events   *mocks.MockParticipantEventRepository
	provider *mocks.MockMeetingProvider
	builder  *mocks.MockMessageBuilder
}

func newTestService() (*AttendanceService, *serviceMocks) {
	m := &serviceMocks{
		sessions: &mocks.MockSessionRepository{},
		records:  &mocks.MockAttendanceRecordRepository{},
		users:    &mocks.MockUserRepository{},
		events:   &mocks.MockParticipantEventRepository{},
		provider: &mocks.MockMeetingProvider{},
		builder:  &mocks.MockMessageBuilder{},
	}
	svc := NewAttendanceService(
		m.sessions, m.records, m.users, m.events, m.provider, m.builder,
		NewScheduleService(),
		ServiceConfig{Detection: engine.DefaultConfig(), BulkConcurrency: 4},
	)
	return svc, m
}

var testStart = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func endedSession(uid string) *models.Session {
	actual := 60
	return &models.Session{
		UID:                      uid,
		Title:                    "Intro to Distributed Systems",
		PlatformMeetingID:        "987654321",
		ScheduledStartTime:       testStart,
		ScheduledDurationMinutes: 60,
		ActualDurationMinutes:    &actual,
		ReviewState:              models.NewNotReviewedState(),
	}
}

// cliffEvents builds a 10-participant session: scattered early departures,
// five leaving together in [45, 50), three staying to the end.
func cliffEvents() []models.RawEvent {
	departures := []float64{7, 22, 46, 47, 48, 49, 49.5, 60, 60, 60}
	events := make([]models.RawEvent, len(departures))
	for i, leave := range departures {
		events[i] = models.RawEvent{
			ParticipantKey: fmt.Sprintf("p%d", i),
			Email:          fmt.Sprintf("student%d@example.com", i),
			Name:           fmt.Sprintf("Student %d", i),
			JoinTime:       testStart,
			LeaveTime:      testStart.Add(time.Duration(leave * float64(time.Minute))),
		}
	}
	return events
}

func TestDetect(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	session := endedSession("sess-1")

	m.sessions.On("GetWithRevision", mock.Anything, "sess-1").Return(session, uint64(3), nil)
	m.events.On("Exists", mock.Anything, "sess-1").Return(true, nil)
	m.events.On("Get", mock.Anything, "sess-1").Return(cliffEvents(), nil)
	m.users.On("ListAll", mock.Anything).Return([]*models.User{}, nil)
	m.sessions.On("Update", mock.Anything, session, uint64(3)).Return(nil)
	m.builder.On("SendDetectionCompleted", mock.Anything, mock.Anything).Return(nil)
	m.builder.On("SendIndexSession", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

	result, err := svc.Detect(ctx, "sess-1", false)
	require.NoError(t, err)

	assert.Equal(t, models.DetectionStatusDetected, result.Status)
	assert.Equal(t, models.ConfidenceMedium, result.Confidence)
	assert.Equal(t, 45, result.CliffWindowStartMin)
	assert.Equal(t, 50, result.CliffWindowEndMin)
	assert.Equal(t, 5, result.DeparturesInCliff)
	assert.Equal(t, 3, result.MeetingEndStayers)
	assert.Equal(t, 45, result.EffectiveEndMinutes)

	// The fresh result lands on the session, review state untouched.
	assert.Equal(t, result, session.CliffDetection)
	assert.Equal(t, models.ReviewStatusNotReviewed, session.ReviewState.Status)
	m.sessions.AssertExpectations(t)
	m.builder.AssertExpectations(t)
}

func TestDetect_FetchesAndCachesEventsOnFirstRun(t *testing.T) {
	svc, m := newTestService()
	session := endedSession("sess-1")
	session.ActualDurationMinutes = nil

	report := &models.MeetingReport{
		PlatformMeetingID: "987654321",
		StartTime:         testStart,
		DurationMinutes:   60,
		Events:            cliffEvents(),
	}

	m.sessions.On("GetWithRevision", mock.Anything, "sess-1").Return(session, uint64(1), nil)
	m.events.On("Exists", mock.Anything, "sess-1").Return(false, nil)
	m.provider.On("FetchMeetingReport", mock.Anything, "987654321").Return(report, nil)
	m.events.On("Put", mock.Anything, "sess-1", report.Events).Return(nil)
	m.users.On("ListAll", mock.Anything).Return([]*models.User{}, nil)
	m.sessions.On("Update", mock.Anything, session, uint64(1)).Return(nil)
	m.builder.On("SendDetectionCompleted", mock.Anything, mock.Anything).Return(nil)
	m.builder.On("SendIndexSession", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

	result, err := svc.Detect(context.Background(), "sess-1", false)
	require.NoError(t, err)
	assert.True(t, result.Detected)

	// The provider-reported start and duration are persisted with the session.
	require.NotNil(t, session.ActualDurationMinutes)
	assert.Equal(t, 60, *session.ActualDurationMinutes)
	require.NotNil(t, session.ActualStartTime)
	assert.True(t, session.ActualStartTime.Equal(testStart))
	m.provider.AssertExpectations(t)
	m.events.AssertExpectations(t)
}

func TestDetect_DecidedSessionRequiresForce(t *testing.T) {
	svc, m := newTestService()
	session := endedSession("sess-1")
	session.ReviewState = models.NewDismissedState(testStart.Add(2 * time.Hour))

	m.sessions.On("GetWithRevision", mock.Anything, "sess-1").Return(session, uint64(1), nil)

	_, err := svc.Detect(context.Background(), "sess-1", false)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestDetect_ForceReDetectsDecidedSession(t *testing.T) {
	svc, m := newTestService()
	session := endedSession("sess-1")
	session.ReviewState = models.NewDismissedState(testStart.Add(2 * time.Hour))

	m.sessions.On("GetWithRevision", mock.Anything, "sess-1").Return(session, uint64(1), nil)
	m.events.On("Exists", mock.Anything, "sess-1").Return(true, nil)
	m.events.On("Get", mock.Anything, "sess-1").Return(cliffEvents(), nil)
	m.users.On("ListAll", mock.Anything).Return([]*models.User{}, nil)
	m.sessions.On("Update", mock.Anything, session, uint64(1)).Return(nil)
	m.builder.On("SendDetectionCompleted", mock.Anything, mock.Anything).Return(nil)
	m.builder.On("SendIndexSession", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

	_, err := svc.Detect(context.Background(), "sess-1", true)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusDismissed, session.ReviewState.Status, "force must not clear the review decision")
}

func TestDetect_ValidationAndReadiness(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Detect(context.Background(), "", false)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))

	notReady := &AttendanceService{}
	_, err = notReady.Detect(context.Background(), "sess-1", false)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}

func TestApply(t *testing.T) {
	svc, m := newTestService()
	session := endedSession("sess-1")

	m.sessions.On("GetWithRevision", mock.Anything, "sess-1").Return(session, uint64(2), nil)
	m.sessions.On("Update", mock.Anything, session, uint64(2)).Return(nil)
	m.events.On("Exists", mock.Anything, "sess-1").Return(true, nil)
	m.events.On("Get", mock.Anything, "sess-1").Return(cliffEvents(), nil)
	m.users.On("ListAll", mock.Anything).Return([]*models.User{
		{UID: "u0", Email: "student0@example.com"},
		{UID: "u1", Email: "student1@example.com"},
	}, nil)
	m.records.On("DeleteBySession", mock.Anything, "sess-1").Return(nil)

	var saved []*models.AttendanceRecord
	m.records.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*models.AttendanceRecord))
	}).Return(nil)
	m.builder.On("SendRecordsRecalculated", mock.Anything, mock.Anything).Return(nil)

	counts, err := svc.Apply(context.Background(), "sess-1", 45)
	require.NoError(t, err)

	assert.Equal(t, models.ReviewStatusApplied, session.ReviewState.Status)
	require.NotNil(t, session.ReviewState.EffectiveEndMinutes)
	assert.Equal(t, 45, *session.ReviewState.EffectiveEndMinutes)

	assert.Equal(t, 2, counts.Imported)
	assert.Equal(t, 8, counts.Unmatched)
	require.Len(t, saved, 10)
	for _, record := range saved {
		assert.Equal(t, 45, record.DurationBasisMinutes)
		assert.LessOrEqual(t, record.DurationAttendedMinutes, 45.0)
	}
}

func TestApply_RejectsOutOfRangeEffectiveEnd(t *testing.T) {
	svc, m := newTestService()
	session := endedSession("sess-1")
	m.sessions.On("GetWithRevision", mock.Anything, "sess-1").Return(session, uint64(1), nil)

	for _, invalid := range []int{0, -5, 61} {
		_, err := svc.Apply(context.Background(), "sess-1", invalid)
		require.Error(t, err, "effective end %d", invalid)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	}
	assert.Equal(t, models.ReviewStatusNotReviewed, session.ReviewState.Status)
}

func TestApply_RecalculationFailureKeepsDecision(t *testing.T) {
	svc, m := newTestService()
	session := endedSession("sess-1")

	m.sessions.On("GetWithRevision", mock.Anything, "sess-1").Return(session, uint64(1), nil)
	m.sessions.On("Update", mock.Anything, session, uint64(1)).Return(nil)
	m.events.On("Exists", mock.Anything, "sess-1").Return(false, nil)
	m.provider.On("FetchMeetingReport", mock.Anything, "987654321").
		Return(nil, errors.New("zoom unavailable"))

	_, err := svc.Apply(context.Background(), "sess-1", 45)
	require.Error(t, err)

	var recalcErr *domain.RecalculationError
	require.ErrorAs(t, err, &recalcErr)
	assert.Equal(t, "sess-1", recalcErr.SessionUID)

	// The review decision is already durable.
	assert.Equal(t, models.ReviewStatusApplied, session.ReviewState.Status)
	m.sessions.AssertExpectations(t)
}

func TestDismiss(t *testing.T) {
	svc, m := newTestService()
	session := endedSession("sess-1")
	session.ReviewState = models.NewAppliedState(45, testStart.Add(2*time.Hour))
	formalEnd := 45
	session.FormalEndMinutes = &formalEnd

	m.sessions.On("GetWithRevision", mock.Anything, "sess-1").Return(session, uint64(5), nil)
	m.sessions.On("Update", mock.Anything, session, uint64(5)).Return(nil)
	m.events.On("Exists", mock.Anything, "sess-1").Return(true, nil)
	m.events.On("Get", mock.Anything, "sess-1").Return(cliffEvents(), nil)
	m.users.On("ListAll", mock.Anything).Return([]*models.User{}, nil)
	m.records.On("DeleteBySession", mock.Anything, "sess-1").Return(nil)

	var saved []*models.AttendanceRecord
	m.records.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*models.AttendanceRecord))
	}).Return(nil)
	m.builder.On("SendRecordsRecalculated", mock.Anything, mock.Anything).Return(nil)

	counts, err := svc.Dismiss(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Equal(t, models.ReviewStatusDismissed, session.ReviewState.Status)
	assert.Nil(t, session.FormalEndMinutes)
	assert.Equal(t, 10, counts.Imported+counts.Unmatched)
	for _, record := range saved {
		assert.Equal(t, 60, record.DurationBasisMinutes, "dismiss must restore the full-duration basis")
	}
}

func TestCalculate_UsesCurrentBasisWithoutTouchingReviewState(t *testing.T) {
	svc, m := newTestService()
	session := endedSession("sess-1")
	session.ReviewState = models.NewAppliedState(45, testStart.Add(2*time.Hour))

	m.sessions.On("Get", mock.Anything, "sess-1").Return(session, nil)
	m.events.On("Exists", mock.Anything, "sess-1").Return(true, nil)
	m.events.On("Get", mock.Anything, "sess-1").Return(cliffEvents(), nil)
	m.users.On("ListAll", mock.Anything).Return([]*models.User{}, nil)
	m.records.On("DeleteBySession", mock.Anything, "sess-1").Return(nil)

	var saved []*models.AttendanceRecord
	m.records.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*models.AttendanceRecord))
	}).Return(nil)
	m.builder.On("SendRecordsRecalculated", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Calculate(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Equal(t, models.ReviewStatusApplied, session.ReviewState.Status)
	for _, record := range saved {
		assert.Equal(t, 45, record.DurationBasisMinutes)
	}
	// With cached events Calculate never writes the session.
	m.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDetectBulk(t *testing.T) {
	svc, m := newTestService()

	ended := endedSession("sess-ended")
	decided := endedSession("sess-decided")
	decided.ReviewState = models.NewAppliedState(45, testStart.Add(2*time.Hour))
	upcoming := endedSession("sess-upcoming")
	upcoming.ScheduledStartTime = time.Now().Add(24 * time.Hour)

	m.sessions.On("ListAll", mock.Anything).Return([]*models.Session{ended, decided, upcoming}, nil)
	m.sessions.On("Get", mock.Anything, "sess-ended").Return(ended, nil)
	m.sessions.On("GetWithRevision", mock.Anything, "sess-ended").Return(ended, uint64(1), nil)
	m.events.On("Exists", mock.Anything, "sess-ended").Return(true, nil)
	m.events.On("Get", mock.Anything, "sess-ended").Return(cliffEvents(), nil)
	m.users.On("ListAll", mock.Anything).Return([]*models.User{}, nil)
	m.sessions.On("Update", mock.Anything, ended, uint64(1)).Return(nil)
	m.builder.On("SendDetectionCompleted", mock.Anything, mock.Anything).Return(nil)
	m.builder.On("SendIndexSession", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

	report, err := svc.DetectBulk(context.Background(), false)
	require.NoError(t, err)

	// The upcoming session is not in the report at all; the decided one is
	// skipped; the ended one is analyzed.
	assert.Equal(t, 2, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Detected)
	assert.Equal(t, 1, report.Summary.MediumConfidence)
	assert.Equal(t, 1, report.Summary.Skipped)
	assert.Equal(t, 0, report.Summary.Errors)
	assert.Equal(t, 5, report.Summary.TotalStudentsImpacted)
}

func TestDetectBulk_SessionFailuresAreIsolated(t *testing.T) {
	svc, m := newTestService()

	healthy := endedSession("sess-ok")
	broken := endedSession("sess-broken")

	m.sessions.On("ListAll", mock.Anything).Return([]*models.Session{healthy, broken}, nil)

	m.sessions.On("Get", mock.Anything, "sess-ok").Return(healthy, nil)
	m.sessions.On("GetWithRevision", mock.Anything, "sess-ok").Return(healthy, uint64(1), nil)
	m.events.On("Exists", mock.Anything, "sess-ok").Return(true, nil)
	m.events.On("Get", mock.Anything, "sess-ok").Return(cliffEvents(), nil)
	m.users.On("ListAll", mock.Anything).Return([]*models.User{}, nil)
	m.sessions.On("Update", mock.Anything, healthy, uint64(1)).Return(nil)
	m.builder.On("SendDetectionCompleted", mock.Anything, mock.Anything).Return(nil)
	m.builder.On("SendIndexSession", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

	m.sessions.On("Get", mock.Anything, "sess-broken").Return(broken, nil)
	m.sessions.On("GetWithRevision", mock.Anything, "sess-broken").Return(broken, uint64(1), nil)
	m.events.On("Exists", mock.Anything, "sess-broken").Return(false, nil)
	m.provider.On("FetchMeetingReport", mock.Anything, "987654321").
		Return(nil, errors.New("zoom unavailable")).Maybe()

	report, err := svc.DetectBulk(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Detected)
	assert.Equal(t, 1, report.Summary.Errors)
}

func TestCalculate_RecurringSessionAnchorsOnLatestOccurrence(t *testing.T) {
	svc, m := newTestService()
	session := endedSession("sess-1")
	session.RecurrenceRule = "FREQ=WEEKLY;BYDAY=TU"

	// The series started months ago; events belong to the latest occurrence,
	// not the first one.
	anchor, err := svc.ScheduleService.LatestOccurrenceStart(session, time.Now())
	require.NoError(t, err)
	require.False(t, anchor.IsZero())
	require.True(t, anchor.After(testStart))

	events := []models.RawEvent{{
		ParticipantKey: "p0",
		Email:          "student0@example.com",
		Name:           "Student 0",
		JoinTime:       anchor,
		LeaveTime:      anchor.Add(60 * time.Minute),
	}}

	m.sessions.On("Get", mock.Anything, "sess-1").Return(session, nil)
	m.events.On("Exists", mock.Anything, "sess-1").Return(true, nil)
	m.events.On("Get", mock.Anything, "sess-1").Return(events, nil)
	m.users.On("ListAll", mock.Anything).Return([]*models.User{
		{UID: "u0", Email: "student0@example.com"},
	}, nil)
	m.records.On("DeleteBySession", mock.Anything, "sess-1").Return(nil)

	var saved []*models.AttendanceRecord
	m.records.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*models.AttendanceRecord))
	}).Return(nil)
	m.builder.On("SendRecordsRecalculated", mock.Anything, mock.Anything).Return(nil)

	counts, err := svc.Calculate(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Imported)

	require.Len(t, saved, 1)
	assert.Equal(t, 60.0, saved[0].DurationAttendedMinutes)
	assert.Equal(t, 100, saved[0].Percentage)
}

func TestCalculate_ProviderStartTimeAnchorsEvents(t *testing.T) {
	svc, m := newTestService()
	session := endedSession("sess-1")
	// The meeting started 14 days after the scheduled series start.
	reportStart := testStart.AddDate(0, 0, 14)
	session.ActualStartTime = &reportStart

	events := []models.RawEvent{{
		ParticipantKey: "p0",
		Email:          "student0@example.com",
		Name:           "Student 0",
		JoinTime:       reportStart,
		LeaveTime:      reportStart.Add(60 * time.Minute),
	}}

	m.sessions.On("Get", mock.Anything, "sess-1").Return(session, nil)
	m.events.On("Exists", mock.Anything, "sess-1").Return(true, nil)
	m.events.On("Get", mock.Anything, "sess-1").Return(events, nil)
	m.users.On("ListAll", mock.Anything).Return([]*models.User{}, nil)
	m.records.On("DeleteBySession", mock.Anything, "sess-1").Return(nil)

	var saved []*models.AttendanceRecord
	m.records.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*models.AttendanceRecord))
	}).Return(nil)
	m.builder.On("SendRecordsRecalculated", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Calculate(context.Background(), "sess-1")
	require.NoError(t, err)

	require.Len(t, saved, 1)
	assert.Equal(t, 100, saved[0].Percentage)
}

func TestCalculate_PersistsReportMetadataOnFirstFetch(t *testing.T) {
	svc, m := newTestService()
	session := endedSession("sess-1")
	session.ActualDurationMinutes = nil

	// Scheduled for 60 minutes, but the meeting only ran 30.
	report := &models.MeetingReport{
		PlatformMeetingID: "987654321",
		StartTime:         testStart,
		DurationMinutes:   30,
		Events: []models.RawEvent{{
			ParticipantKey: "p0",
			Email:          "student0@example.com",
			Name:           "Student 0",
			JoinTime:       testStart,
			LeaveTime:      testStart.Add(30 * time.Minute),
		}},
	}

	m.sessions.On("Get", mock.Anything, "sess-1").Return(session, nil)
	m.provider.On("FetchMeetingReport", mock.Anything, "987654321").Return(report, nil).Once()
	m.events.On("Exists", mock.Anything, "sess-1").Return(false, nil).Once()
	m.events.On("Put", mock.Anything, "sess-1", report.Events).Return(nil)
	m.events.On("Exists", mock.Anything, "sess-1").Return(true, nil)
	m.events.On("Get", mock.Anything, "sess-1").Return(report.Events, nil)
	m.sessions.On("GetWithRevision", mock.Anything, "sess-1").Return(session, uint64(4), nil)
	m.sessions.On("Update", mock.Anything, session, uint64(4)).Return(nil)
	m.users.On("ListAll", mock.Anything).Return([]*models.User{}, nil)
	m.records.On("DeleteBySession", mock.Anything, "sess-1").Return(nil)

	var saved []*models.AttendanceRecord
	m.records.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*models.AttendanceRecord))
	}).Return(nil)
	m.builder.On("SendRecordsRecalculated", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Calculate(context.Background(), "sess-1")
	require.NoError(t, err)

	// The actual duration is stored even though no detect ran first.
	require.NotNil(t, session.ActualDurationMinutes)
	assert.Equal(t, 30, *session.ActualDurationMinutes)
	m.sessions.AssertCalled(t, "Update", mock.Anything, session, uint64(4))

	// A second run reads the cache and lands on the same basis.
	_, err = svc.Calculate(context.Background(), "sess-1")
	require.NoError(t, err)

	require.Len(t, saved, 2)
	for _, record := range saved {
		assert.Equal(t, 30, record.DurationBasisMinutes)
		assert.Equal(t, 100, record.Percentage)
	}
}
