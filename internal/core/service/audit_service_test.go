package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/platformteam/auth-service/internal/core/domain"
)

type stubAuditRepo struct {
	inserted []domain.AuditEvent
	err      error
}

func (r *stubAuditRepo) Insert(_ context.Context, event *domain.AuditEvent) error {
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, *event)
	return nil
}

func TestAuditService_Process(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	event := domain.AuditEvent{
		Username:  "alice",
		Action:    domain.AuditActionLogin,
		Success:   true,
		Timestamp: time.Now().UTC(),
	}
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Username != "alice" {
		t.Fatalf("event not persisted: %+v", repo.inserted)
	}
}

func TestAuditService_Process_InsertFailure(t *testing.T) {
	wantErr := errors.New("mongo down")
	svc := NewAuditService(&stubAuditRepo{err: wantErr}, zerolog.Nop())

	err := svc.Process(context.Background(), domain.AuditEvent{Action: domain.AuditActionRefresh})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}
