// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/models"
)

// NatsParticipantEventRepository caches the provider's raw per-meeting events
// per session. Event lists are large and recalculation-hot, so they are
// stored msgpack-encoded rather than as JSON.
type NatsParticipantEventRepository struct {
	base *NatsBaseRepository[[]models.RawEvent]
}

// NewNatsParticipantEventRepository creates a new NATS KV store repository
// for cached participant events.
func NewNatsParticipantEventRepository(kvStore INatsKeyValue) *NatsParticipantEventRepository {
	return &NatsParticipantEventRepository{
		base: NewNatsBaseRepository[[]models.RawEvent](kvStore, "participant events"),
	}
}

func (r *NatsParticipantEventRepository) Put(ctx context.Context, sessionUID string, events []models.RawEvent) error {
	data, err := msgpack.Marshal(events)
	if err != nil {
		return domain.NewInternalError("failed to encode participant events", err)
	}
	return r.base.PutBytes(ctx, sessionUID, data)
}

func (r *NatsParticipantEventRepository) Get(ctx context.Context, sessionUID string) ([]models.RawEvent, error) {
	entry, err := r.base.GetRaw(ctx, sessionUID)
	if err != nil {
		return nil, err
	}

	var events []models.RawEvent
	if err := msgpack.Unmarshal(entry.Value(), &events); err != nil {
		return nil, domain.NewInternalError(
			fmt.Sprintf("failed to decode participant events for session '%s'", sessionUID), err)
	}

	return events, nil
}

func (r *NatsParticipantEventRepository) Exists(ctx context.Context, sessionUID string) (bool, error) {
	_, err := r.base.GetRaw(ctx, sessionUID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Ensure NatsParticipantEventRepository implements domain.ParticipantEventRepository
var _ domain.ParticipantEventRepository = (*NatsParticipantEventRepository)(nil)
