package game

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/nedgladstone/cardball/internal/domain/aggregates"
	"github.com/nedgladstone/cardball/internal/domain/roster"
)

const (
	// LineupSize is the number of participants in a complete lineup.
	LineupSize = 9
	// MaxSlot is the highest batting order slot and fielding position.
	MaxSlot = LineupSize - 1
)

// Participant is a player's assignment within one side of one game.
type Participant struct {
	Side Side `json:"side"`
	// 0-8, 0 bats first.
	BattingOrder int `json:"numberInBattingOrder"`
	// 0-8; position+1 is the scorecard number.
	FieldingPosition int       `json:"fieldingPosition"`
	PlayerID         uuid.UUID `json:"playerId"`
}

// ScorecardPosition returns the conventional 1-9 position number.
func (p Participant) ScorecardPosition() int { return p.FieldingPosition + 1 }

// ParticipantDefinition is one raw lineup entry as submitted by a caller.
type ParticipantDefinition struct {
	BattingOrder     int       `json:"numberInBattingOrder"`
	FieldingPosition int       `json:"fieldingPosition"`
	PlayerID         uuid.UUID `json:"playerId"`
}

// Roster resolves team and player references owned outside the game.
type Roster interface {
	FindTeam(ctx context.Context, id uuid.UUID) (*roster.Team, error)
	FindPlayer(ctx context.Context, id uuid.UUID) (*roster.Player, error)
}

// Assemble validates a lineup submission for teamID's side and builds participants
// ordered by batting order. Every player must be on teamID's roster; a nil teamID skips
// that check. It never touches a Game.
func Assemble(ctx context.Context, side Side, teamID uuid.UUID, defs []ParticipantDefinition, players Roster) ([]Participant, error) {
	const op = "game.assemble_lineup"
	if !side.Valid() {
		return nil, aggregates.InvalidEnum(op, "unknown side %q", side)
	}
	if len(defs) > LineupSize {
		return nil, aggregates.Validation(op, "lineup has %d participants, at most %d allowed", len(defs), LineupSize)
	}
	out, err := buildParticipants(op, side, defs)
	if err != nil {
		return nil, err
	}
	if players != nil {
		for _, p := range out {
			card, err := players.FindPlayer(ctx, p.PlayerID)
			if err != nil {
				return nil, aggregates.NewError(aggregates.CodeValidation, op, "player "+p.PlayerID.String()+" cannot be resolved", err)
			}
			if teamID != uuid.Nil && card.TeamID != teamID {
				return nil, aggregates.Validation(op, "player %s does not play for team %s", p.PlayerID, teamID)
			}
		}
	}
	return out, nil
}

func buildParticipants(op string, side Side, defs []ParticipantDefinition) ([]Participant, error) {
	seen := make(map[int]bool, len(defs))
	out := make([]Participant, 0, len(defs))
	for i, d := range defs {
		if d.BattingOrder < 0 || d.BattingOrder > MaxSlot {
			return nil, aggregates.Validation(op, "participant %d: batting order %d outside 0-%d", i, d.BattingOrder, MaxSlot)
		}
		if d.FieldingPosition < 0 || d.FieldingPosition > MaxSlot {
			return nil, aggregates.Validation(op, "participant %d: fielding position %d outside 0-%d", i, d.FieldingPosition, MaxSlot)
		}
		if seen[d.BattingOrder] {
			return nil, aggregates.Validation(op, "participant %d: duplicate batting order %d", i, d.BattingOrder)
		}
		if d.PlayerID == uuid.Nil {
			return nil, aggregates.Validation(op, "participant %d: missing player id", i)
		}
		seen[d.BattingOrder] = true
		out = append(out, Participant{
			Side:             side,
			BattingOrder:     d.BattingOrder,
			FieldingPosition: d.FieldingPosition,
			PlayerID:         d.PlayerID,
		})
	}
	sortByBattingOrder(out)
	return out, nil
}

func sortByBattingOrder(ps []Participant) {
	slices.SortFunc(ps, func(a, b Participant) int { return a.BattingOrder - b.BattingOrder })
}

// lineupComplete reports whether ps fills every batting order slot.
func lineupComplete(ps []Participant) bool {
	if len(ps) != LineupSize {
		return false
	}
	var filled [LineupSize]bool
	for _, p := range ps {
		if p.BattingOrder < 0 || p.BattingOrder > MaxSlot || filled[p.BattingOrder] {
			return false
		}
		filled[p.BattingOrder] = true
	}
	return true
}
