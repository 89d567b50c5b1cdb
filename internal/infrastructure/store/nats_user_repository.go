// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/campushq/attendance-service/internal/domain"
	"github.com/campushq/attendance-service/internal/domain/models"
)

// NatsUserRepository is the NATS KV store repository for the known-user
// directory.
type NatsUserRepository struct {
	*NatsBaseRepository[models.User]
}

// NewNatsUserRepository creates a new NATS KV store repository for users.
func NewNatsUserRepository(kvStore INatsKeyValue) *NatsUserRepository {
	return &NatsUserRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.User](kvStore, "user"),
	}
}

func (r *NatsUserRepository) Get(ctx context.Context, userUID string) (*models.User, error) {
	return r.NatsBaseRepository.Get(ctx, userUID)
}

func (r *NatsUserRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	return r.ListEntities(ctx, "")
}

// Ensure NatsUserRepository implements domain.UserRepository
var _ domain.UserRepository = (*NatsUserRepository)(nil)
