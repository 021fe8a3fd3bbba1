package game

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nedgladstone/cardball/internal/domain/aggregates"
)

// Game is the aggregate root. The store owns ID assignment on save and Version.
type Game struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	// Version is the optimistic-lock counter maintained by the store.
	Version int

	visitingTeamID uuid.UUID
	homeTeamID     uuid.UUID

	visiting []Participant
	home     []Participant

	chain       *Chain
	strategies  *StrategyRegister
	completedAt *time.Time
	oracle      CompletionOracle
}

// New creates a game with empty lineups, no actions and no strategy.
func New(name string, visitingTeamID, homeTeamID uuid.UUID) (*Game, error) {
	const op = "game.create"
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, aggregates.InvalidArgument(op, "game name is required")
	}
	if visitingTeamID == uuid.Nil || homeTeamID == uuid.Nil {
		return nil, aggregates.InvalidArgument(op, "both teams are required")
	}
	if visitingTeamID == homeTeamID {
		return nil, aggregates.InvalidArgument(op, "visiting and home team must differ")
	}
	return &Game{
		ID:             uuid.New(),
		Name:           name,
		CreatedAt:      time.Now().UTC(),
		visitingTeamID: visitingTeamID,
		homeTeamID:     homeTeamID,
		chain:          NewChain(),
		strategies:     NewStrategyRegister(),
	}, nil
}

// WithOracle swaps the completion oracle used by Status.
func (g *Game) WithOracle(o CompletionOracle) *Game {
	g.oracle = o
	return g
}

func (g *Game) VisitingTeamID() uuid.UUID { return g.visitingTeamID }
func (g *Game) HomeTeamID() uuid.UUID     { return g.homeTeamID }

// TeamID returns the team playing on side.
func (g *Game) TeamID(side Side) uuid.UUID {
	if side == SideHome {
		return g.homeTeamID
	}
	return g.visitingTeamID
}

func (g *Game) CompletedAt() *time.Time {
	if g.completedAt == nil {
		return nil
	}
	t := *g.completedAt
	return &t
}

func (g *Game) Chain() *Chain                 { return g.chain }
func (g *Game) Strategies() *StrategyRegister { return g.strategies }

// Lineup returns a copy of side's participants in batting order.
func (g *Game) Lineup(side Side) []Participant {
	switch side {
	case SideVisiting:
		return slices.Clone(g.visiting)
	case SideHome:
		return slices.Clone(g.home)
	}
	return nil
}

func (g *Game) Status() Status { return DeriveStatus(g, g.oracle) }

// PutLineup assembles defs and replaces side's lineup wholesale. On any failure the
// previous lineup is left untouched.
func (g *Game) PutLineup(ctx context.Context, side Side, defs []ParticipantDefinition, players Roster) ([]Participant, error) {
	const op = "game.put_lineup"
	if !side.Valid() {
		return nil, aggregates.InvalidEnum(op, "unknown side %q", side)
	}
	if err := g.requireOpen(op); err != nil {
		return nil, err
	}
	lineup, err := Assemble(ctx, side, g.TeamID(side), defs, players)
	if err != nil {
		return nil, err
	}
	if err := g.install(side, lineup); err != nil {
		return nil, err
	}
	return slices.Clone(lineup), nil
}

func (g *Game) install(side Side, lineup []Participant) error {
	const op = "game.install_lineup"
	if len(lineup) > LineupSize {
		return aggregates.Validation(op, "lineup has %d participants, at most %d allowed", len(lineup), LineupSize)
	}
	seen := make(map[int]bool, len(lineup))
	for _, p := range lineup {
		if p.Side != side {
			return aggregates.Validation(op, "participant assigned to side %q installed on %q", p.Side, side)
		}
		if p.BattingOrder < 0 || p.BattingOrder > MaxSlot || p.FieldingPosition < 0 || p.FieldingPosition > MaxSlot {
			return aggregates.Validation(op, "participant slot out of range")
		}
		if seen[p.BattingOrder] {
			return aggregates.Validation(op, "duplicate batting order %d", p.BattingOrder)
		}
		seen[p.BattingOrder] = true
	}
	next := slices.Clone(lineup)
	sortByBattingOrder(next)
	if side == SideHome {
		g.home = next
	} else {
		g.visiting = next
	}
	return nil
}

// PostStrategy stores text as role's current strategy and returns the re-derived status.
func (g *Game) PostStrategy(role Role, text string, at time.Time) (Status, error) {
	if err := g.requireOpen("game.post_strategy"); err != nil {
		return "", err
	}
	if _, err := g.strategies.Post(role, text, at); err != nil {
		return "", err
	}
	return g.Status(), nil
}

// RecordAction appends data to the chain, as a root when parentID is nil.
func (g *Game) RecordAction(data ActionData, parentID *uuid.UUID) (Action, error) {
	if err := g.requireOpen("game.record_action"); err != nil {
		return Action{}, err
	}
	return g.chain.Append(parentID, data)
}

// Complete applies the external completion signal. Completing twice is a no-op.
func (g *Game) Complete(at time.Time) error {
	const op = "game.complete"
	if g.completedAt != nil {
		return nil
	}
	if st := g.Status(); st != StatusInProgress {
		return aggregates.Conflict(op, "game in status %s cannot be completed", st)
	}
	t := at.UTC()
	g.completedAt = &t
	return nil
}

func (g *Game) requireOpen(op string) error {
	if g.completedAt != nil {
		return aggregates.Conflict(op, "game %s is completed", g.ID)
	}
	return nil
}
