// Package library implements the borrow scheduling, member mutation and
// reference resolution rules on top of the storage adapters.
package library

import (
	"context"
	"time"

	"go.uber.org/zap"

	"librarium/internal/audit"
	"librarium/internal/models"
	"librarium/internal/storage"
)

// Oracle checks phone numbers and email addresses against the external
// validation service.
type Oracle interface {
	ValidPhone(ctx context.Context, phone string) (bool, error)
	ValidEmail(ctx context.Context, email string) (bool, error)
}

// Service carries the store handles, the validation oracle and the audit
// recorder used by every operation.
type Service struct {
	stores storage.Stores
	oracle Oracle
	audit  audit.Recorder
	logger *zap.Logger
}

// NewService creates the service with its injected collaborators.
func NewService(stores storage.Stores, oracle Oracle, recorder audit.Recorder, logger *zap.Logger) *Service {
	return &Service{
		stores: stores,
		oracle: oracle,
		audit:  recorder,
		logger: logger,
	}
}

// recordAudit appends a trail entry for a successful mutation. Audit
// failures are logged and never surfaced to the caller.
func (s *Service) recordAudit(ctx context.Context, entity string, id models.ID, action, detail string) {
	entry := audit.Entry{
		OccurredAt: time.Now().UTC(),
		Entity:     entity,
		EntityID:   id.String(),
		Action:     action,
		Detail:     detail,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("Failed to record audit entry",
			zap.Error(err),
			zap.String("entity", entity),
			zap.String("action", action),
		)
	}
}
