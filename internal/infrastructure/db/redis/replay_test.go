package redis

import (
	"strings"
	"testing"
)

func TestReplayGuard_KeyIsStableDigest(t *testing.T) {
	g := NewReplayGuard(nil)

	token := "eyJhbGciOiJIUzI1NiJ9.payload.signature"
	key := g.key(token)

	if !strings.HasPrefix(key, "rotated:") {
		t.Fatalf("expected rotated: prefix, got %q", key)
	}
	// Only a digest lands in the store, never the token itself.
	if strings.Contains(key, "payload") {
		t.Fatalf("raw token material leaked into key: %q", key)
	}
	if g.key(token) != key {
		t.Fatalf("key derivation must be deterministic")
	}
	if g.key("other-token") == key {
		t.Fatalf("distinct tokens must map to distinct keys")
	}
}
