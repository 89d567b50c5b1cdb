// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/models"
	"github.com/campushq/attendance-service/pkg/utils"
)

// NatsAttendanceRecordRepository is the NATS KV store repository for
// attendance records. Records are keyed by session and attendee so every
// recalculation overwrites the previous record instead of accumulating.
type NatsAttendanceRecordRepository struct {
	*NatsBaseRepository[models.AttendanceRecord]
	keyBuilder *KeyBuilder
}

// NewNatsAttendanceRecordRepository creates a new NATS KV store repository
// for attendance records.
func NewNatsAttendanceRecordRepository(kvStore INatsKeyValue) *NatsAttendanceRecordRepository {
	return &NatsAttendanceRecordRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.AttendanceRecord](kvStore, "attendance record"),
		keyBuilder:         NewKeyBuilder(),
	}
}

// recordKey derives the deterministic key for a record: the matched user UID
// when available, otherwise the encoded raw email or name.
func (r *NatsAttendanceRecordRepository) recordKey(record *models.AttendanceRecord) string {
	attendee := record.UserUID
	if attendee == "" {
		attendee = r.keyBuilder.EncodeSegment(record.Email + "|" + record.Name)
	}
	return r.keyBuilder.CompoundKey(KeyPrefixAttendance, record.SessionUID, attendee)
}

func (r *NatsAttendanceRecordRepository) Put(ctx context.Context, record *models.AttendanceRecord) error {
	if record.UID == "" {
		record.UID = uuid.New().String()
	}

	now := utils.TimePtr(time.Now())
	if record.CreatedAt == nil {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	return r.NatsBaseRepository.Create(ctx, r.recordKey(record), record)
}

func (r *NatsAttendanceRecordRepository) ListBySession(ctx context.Context, sessionUID string) ([]*models.AttendanceRecord, error) {
	prefix := r.keyBuilder.CompoundKey(KeyPrefixAttendance, sessionUID) + "/"
	return r.ListEntities(ctx, prefix)
}

func (r *NatsAttendanceRecordRepository) DeleteBySession(ctx context.Context, sessionUID string) error {
	keys, err := r.ListKeys(ctx)
	if err != nil {
		return err
	}

	prefix := r.keyBuilder.CompoundKey(KeyPrefixAttendance, sessionUID) + "/"
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if err := r.DeleteWithoutRevision(ctx, key); err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
				continue
			}
			return err
		}
	}

	return nil
}

// Ensure NatsAttendanceRecordRepository implements domain.AttendanceRecordRepository
var _ domain.AttendanceRecordRepository = (*NatsAttendanceRecordRepository)(nil)
