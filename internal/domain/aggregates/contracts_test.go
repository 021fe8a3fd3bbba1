package aggregates

import (
	"errors"
	"testing"
)

func TestGameAggregateContract(t *testing.T) {
	if !GameAggregateContract.RequiresAggregateOwnedTx() {
		t.Fatalf("game writes must own their transaction")
	}
	if GameAggregateContract.LockPolicy != LockPolicyOptimistic {
		t.Fatalf("lock policy: got %s", GameAggregateContract.LockPolicy)
	}
}

func TestErrorCodes(t *testing.T) {
	cause := errors.New("row missing")
	err := NewError(CodeValidation, "game.assemble_lineup", "player cannot be resolved", NotFound("roster.find_player", "gone"))
	if !IsCode(err, CodeValidation) {
		t.Fatalf("want validation, got %s", CodeOf(err))
	}
	if CodeOf(err) != CodeValidation {
		t.Fatalf("CodeOf should report the outermost code, got %s", CodeOf(err))
	}
	var inner *Error
	if !errors.As(errors.Unwrap(err), &inner) || inner.Code != CodeNotFound {
		t.Fatalf("cause should carry not_found, got %v", errors.Unwrap(err))
	}

	wrapped := Wrap(CodeInternal, "op", cause)
	if !errors.Is(wrapped, cause) {
		t.Fatalf("Wrap must keep the cause reachable")
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil) must be nil")
	}
	if CodeOf(cause) != "" {
		t.Fatalf("plain errors carry no code")
	}
}

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{&Error{Code: CodeConflict, Op: "game.complete", Message: "not in progress"}, "game.complete: not in progress (conflict)"},
		{&Error{Code: CodeConflict, Op: "game.complete"}, "game.complete (conflict)"},
		{&Error{Code: CodeConflict, Message: "stale"}, "stale (conflict)"},
		{&Error{Code: CodeConflict}, "conflict"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error(): want %q got %q", tc.want, got)
		}
	}
}
