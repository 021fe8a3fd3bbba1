package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/nedgladstone/cardball/internal/domain/aggregates"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"record not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), domainagg.CodeNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, domainagg.CodeConflict},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, domainagg.CodeReferential},
		{"canceled", context.Canceled, domainagg.CodeRetryable},
		{"deadline", context.DeadlineExceeded, domainagg.CodeRetryable},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"pg foreign key", &pgconn.PgError{Code: "23503"}, domainagg.CodeReferential},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, domainagg.CodeRetryable},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, domainagg.CodeRetryable},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: game_action.game_id, game_action.seq (2067)"), domainagg.CodeConflict},
		{"sqlite foreign key", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), domainagg.CodeReferential},
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), domainagg.CodeRetryable},
		{"unknown", errors.New("disk on fire"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("op", tc.err)
			if !domainagg.IsCode(got, tc.want) {
				t.Fatalf("want %s, got %q (%v)", tc.want, domainagg.CodeOf(got), got)
			}
			if !errors.Is(got, tc.err) {
				t.Fatalf("mapped error must wrap the original")
			}
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	if MapError("op", nil) != nil {
		t.Fatalf("expected nil")
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}
