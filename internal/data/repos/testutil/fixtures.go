package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/domain/game"
	"github.com/nedgladstone/cardball/internal/domain/roster"
)

func SeedTeam(tb testing.TB, ctx context.Context, tx *gorm.DB, city, name string) *roster.Team {
	tb.Helper()
	t := &roster.Team{
		ID:               uuid.New(),
		City:             city,
		Name:             name,
		ManagerFirstName: "Skip",
		ManagerLastName:  name,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed team: %v", err)
	}
	return t
}

func SeedPlayer(tb testing.TB, ctx context.Context, tx *gorm.DB, teamID uuid.UUID, last string, position int) *roster.Player {
	tb.Helper()
	p := &roster.Player{
		ID:             uuid.New(),
		TeamID:         teamID,
		FirstName:      "Card",
		LastName:       last,
		Year:           1977,
		Position:       position,
		Bats:           "R",
		Throws:         "R",
		BattingAverage: 275,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed player: %v", err)
	}
	return p
}

// SeedNine seeds nine players on a team and returns a full lineup for them.
func SeedNine(tb testing.TB, ctx context.Context, tx *gorm.DB, teamID uuid.UUID) []game.ParticipantDefinition {
	tb.Helper()
	defs := make([]game.ParticipantDefinition, 0, game.LineupSize)
	for slot := 0; slot < game.LineupSize; slot++ {
		p := SeedPlayer(tb, ctx, tx, teamID, fmt.Sprintf("Player%d", slot), slot+1)
		defs = append(defs, game.ParticipantDefinition{
			BattingOrder:     slot,
			FieldingPosition: slot,
			PlayerID:         p.ID,
		})
	}
	return defs
}
