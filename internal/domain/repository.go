// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/campushq/attendance-service/internal/domain/models"
)

// SessionRepository defines the interface for session storage operations.
// This interface can be implemented by different storage backends (NATS, PostgreSQL, etc.)
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Exists(ctx context.Context, sessionUID string) (bool, error)
	Get(ctx context.Context, sessionUID string) (*models.Session, error)
	GetWithRevision(ctx context.Context, sessionUID string) (*models.Session, uint64, error)
	Update(ctx context.Context, session *models.Session, revision uint64) error
	Delete(ctx context.Context, sessionUID string, revision uint64) error
	ListAll(ctx context.Context) ([]*models.Session, error)
}

// AttendanceRecordRepository defines the interface for attendance record
// storage. Records are keyed by session and attendee so recalculation
// overwrites rather than accumulates.
type AttendanceRecordRepository interface {
	Put(ctx context.Context, record *models.AttendanceRecord) error
	ListBySession(ctx context.Context, sessionUID string) ([]*models.AttendanceRecord, error)
	DeleteBySession(ctx context.Context, sessionUID string) error
}

// UserRepository defines the interface for the known-user directory that
// attendees are matched against.
type UserRepository interface {
	Get(ctx context.Context, userUID string) (*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
}

// ParticipantEventRepository caches the provider's raw per-meeting events so
// recalculation does not re-fetch from the provider.
type ParticipantEventRepository interface {
	Put(ctx context.Context, sessionUID string, events []models.RawEvent) error
	Get(ctx context.Context, sessionUID string) ([]models.RawEvent, error)
	Exists(ctx context.Context, sessionUID string) (bool, error)
}
