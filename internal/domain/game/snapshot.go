package game

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/nedgladstone/cardball/internal/domain/aggregates"
)

// Snapshot is the flat, storable form of a Game. Actions are in Seq order.
type Snapshot struct {
	ID             uuid.UUID
	Name           string
	VisitingTeamID uuid.UUID
	HomeTeamID     uuid.UUID
	Visiting       []Participant
	Home           []Participant
	Actions        []Action
	Strategies     []Strategy
	CompletedAt    *time.Time
	CreatedAt      time.Time
	Version        int
}

func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		ID:             g.ID,
		Name:           g.Name,
		VisitingTeamID: g.visitingTeamID,
		HomeTeamID:     g.homeTeamID,
		Visiting:       slices.Clone(g.visiting),
		Home:           slices.Clone(g.home),
		Actions:        slices.Collect(g.chain.InsertionOrder()),
		Strategies:     g.strategies.All(),
		CompletedAt:    g.CompletedAt(),
		CreatedAt:      g.CreatedAt,
		Version:        g.Version,
	}
}

// Restore rebuilds a Game from a snapshot, re-checking the lineup and chain invariants.
func Restore(s Snapshot) (*Game, error) {
	const op = "game.restore"
	if s.ID == uuid.Nil {
		return nil, aggregates.InvalidArgument(op, "snapshot has no id")
	}
	g := &Game{
		ID:             s.ID,
		Name:           s.Name,
		CreatedAt:      s.CreatedAt,
		Version:        s.Version,
		visitingTeamID: s.VisitingTeamID,
		homeTeamID:     s.HomeTeamID,
		strategies:     NewStrategyRegister(),
	}
	if err := g.install(SideVisiting, s.Visiting); err != nil {
		return nil, err
	}
	if err := g.install(SideHome, s.Home); err != nil {
		return nil, err
	}
	chain, err := RestoreChain(s.Actions)
	if err != nil {
		return nil, err
	}
	g.chain = chain
	for _, st := range s.Strategies {
		if _, err := g.strategies.Post(st.Role, st.Text, st.PostedAt); err != nil {
			return nil, err
		}
	}
	if s.CompletedAt != nil {
		t := s.CompletedAt.UTC()
		g.completedAt = &t
	}
	return g, nil
}
