package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/platformteam/auth-service/internal/core/domain"
	"github.com/platformteam/auth-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService persisting events to the audit
// trail.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event. Failures are reported to the
// caller (the dispatcher logs them); the event is dropped, never retried —
// the audit trail is an observability aid, not a ledger.
func (s *auditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}

	s.log.Debug().
		Str("action", event.Action).
		Str("username", event.Username).
		Bool("success", event.Success).
		Msg("audit event recorded")
	return nil
}
