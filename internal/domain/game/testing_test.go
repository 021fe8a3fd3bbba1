package game

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/nedgladstone/cardball/internal/domain/aggregates"
	"github.com/nedgladstone/cardball/internal/domain/roster"
)

type fakeRoster struct {
	players map[uuid.UUID]*roster.Player
}

func newFakeRoster() *fakeRoster {
	return &fakeRoster{players: make(map[uuid.UUID]*roster.Player)}
}

// add registers a card on team and returns its id.
func (f *fakeRoster) add(team uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.players[id] = &roster.Player{ID: id, TeamID: team, FirstName: "Test", LastName: id.String()[:8]}
	return id
}

func (f *fakeRoster) FindTeam(context.Context, uuid.UUID) (*roster.Team, error) {
	return nil, aggregates.NotFound("fake.find_team", "no teams")
}

func (f *fakeRoster) FindPlayer(_ context.Context, id uuid.UUID) (*roster.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, aggregates.NotFound("fake.find_player", "player %s not found", id)
	}
	return p, nil
}

// fullLineup registers nine players on team and returns definitions in reverse batting order.
func fullLineup(r *fakeRoster, team uuid.UUID) []ParticipantDefinition {
	defs := make([]ParticipantDefinition, 0, LineupSize)
	for slot := MaxSlot; slot >= 0; slot-- {
		defs = append(defs, ParticipantDefinition{
			BattingOrder:     slot,
			FieldingPosition: (slot + 3) % LineupSize,
			PlayerID:         r.add(team),
		})
	}
	return defs
}

func mustGame(t *testing.T) *Game {
	t.Helper()
	g, err := New("Opener", uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func requireCode(t *testing.T, err error, code aggregates.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !aggregates.IsCode(err, code) {
		t.Fatalf("expected %s code, got %q (%v)", code, aggregates.CodeOf(err), err)
	}
}
