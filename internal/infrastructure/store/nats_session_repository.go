// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/models"
	"github.com/campushq/attendance-service/pkg/utils"
)

// NatsSessionRepository is the NATS KV store repository for sessions.
type NatsSessionRepository struct {
	*NatsBaseRepository[models.Session]
}

// NewNatsSessionRepository creates a new NATS KV store repository for sessions.
func NewNatsSessionRepository(kvStore INatsKeyValue) *NatsSessionRepository {
	return &NatsSessionRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Session](kvStore, "session"),
	}
}

func (r *NatsSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.UID == "" {
		session.UID = uuid.New().String()
	}
	if session.ReviewState.Status == "" {
		session.ReviewState = models.NewNotReviewedState()
	}

	now := utils.TimePtr(time.Now())
	session.CreatedAt = now
	session.UpdatedAt = now

	return r.NatsBaseRepository.Create(ctx, session.UID, session)
}

func (r *NatsSessionRepository) Get(ctx context.Context, sessionUID string) (*models.Session, error) {
	return r.NatsBaseRepository.Get(ctx, sessionUID)
}

func (r *NatsSessionRepository) GetWithRevision(ctx context.Context, sessionUID string) (*models.Session, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, sessionUID)
}

func (r *NatsSessionRepository) Exists(ctx context.Context, sessionUID string) (bool, error) {
	return r.NatsBaseRepository.Exists(ctx, sessionUID)
}

func (r *NatsSessionRepository) Update(ctx context.Context, session *models.Session, revision uint64) error {
	session.UpdatedAt = utils.TimePtr(time.Now())

	return r.NatsBaseRepository.Update(ctx, session.UID, session, revision)
}

func (r *NatsSessionRepository) Delete(ctx context.Context, sessionUID string, revision uint64) error {
	return r.NatsBaseRepository.Delete(ctx, sessionUID, revision)
}

func (r *NatsSessionRepository) ListAll(ctx context.Context) ([]*models.Session, error) {
	return r.ListEntities(ctx, "")
}

// Ensure NatsSessionRepository implements domain.SessionRepository
var _ domain.SessionRepository = (*NatsSessionRepository)(nil)
