package testutil

import (
	"testing"
	"time"
)

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("game.put_lineup", "success", 10*time.Millisecond)
	h.ObserveOperation("game.record_action", "conflict", time.Millisecond)
	h.ObserveOperation("game.put_lineup", "validation", time.Millisecond)
	h.IncConflict("game.record_action")

	got := h.Statuses("game.put_lineup")
	if len(got) != 2 || got[0] != "success" || got[1] != "validation" {
		t.Fatalf("unexpected statuses: %v", got)
	}
	if len(h.Conflicts) != 1 || h.Conflicts[0] != "game.record_action" {
		t.Fatalf("unexpected conflicts: %+v", h.Conflicts)
	}
	if len(h.Retries) != 0 {
		t.Fatalf("unexpected retries: %+v", h.Retries)
	}
}
