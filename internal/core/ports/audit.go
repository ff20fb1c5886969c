package ports

import (
	"context"

	"github.com/platformteam/auth-service/internal/core/domain"
)

// AuditRecorder is the non-blocking hot-path interface services use to emit
// audit events. Implementations enqueue; they never touch storage inline.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditService processes a single dequeued audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// AuditRepository persists audit events to the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
