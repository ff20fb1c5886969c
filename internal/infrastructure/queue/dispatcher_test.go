package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/platformteam/auth-service/internal/core/domain"
)

type recordingAuditService struct {
	mu     sync.Mutex
	byUser map[string][]string
	seen   chan struct{}
}

func (s *recordingAuditService) Process(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	s.byUser[event.Username] = append(s.byUser[event.Username], event.Reason)
	s.mu.Unlock()
	s.seen <- struct{}{}
	return nil
}

func TestDispatcher_PreservesPerUserOrdering(t *testing.T) {
	svc := &recordingAuditService{
		byUser: make(map[string][]string),
		seen:   make(chan struct{}, 16),
	}
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	reasons := []string{"first", "second", "third"}
	for _, r := range reasons {
		d.Record(domain.AuditEvent{Username: "alice", Action: domain.AuditActionLogin, Reason: r})
	}

	for i := 0; i < len(reasons); i++ {
		select {
		case <-svc.seen:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	got := svc.byUser["alice"]
	if len(got) != 3 || got[0] != "first" || got[1] != "second" || got[2] != "third" {
		t.Fatalf("per-user ordering violated: %v", got)
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(8, nil, zerolog.Nop())
	a := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if d.shardIndex("alice") != a {
			t.Fatalf("shard index not stable")
		}
	}
}
