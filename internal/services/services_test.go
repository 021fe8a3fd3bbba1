package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/data/aggregates"
	"github.com/nedgladstone/cardball/internal/data/repos"
	"github.com/nedgladstone/cardball/internal/data/repos/testutil"
	"github.com/nedgladstone/cardball/internal/domain/game"
	"github.com/nedgladstone/cardball/internal/realtime"
	"github.com/nedgladstone/cardball/internal/services"
)

type captureEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (c *captureEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *captureEmitter) events(channel string) []realtime.SSEEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []realtime.SSEEvent
	for _, m := range c.msgs {
		if m.Channel == channel {
			out = append(out, m.Event)
		}
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	emit     *captureEmitter
	games    services.GameService
	roster   services.RosterService
	visiting uuid.UUID
	home     uuid.UUID
	vDefs    []game.ParticipantDefinition
	hDefs    []game.ParticipantDefinition
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	f := &fixture{
		db:   db,
		emit: &captureEmitter{},
		now:  time.Date(1980, 10, 21, 20, 0, 0, 0, time.UTC),
	}
	gameRepo := repos.NewGameRepo(db, log)
	teams := repos.NewTeamRepo(db, log)
	players := repos.NewPlayerRepo(db, log)
	agg := aggregates.NewGameAggregate(aggregates.GameAggregateDeps{
		Base:    aggregates.BaseDeps{DB: db, Log: log},
		Games:   gameRepo,
		Teams:   teams,
		Players: players,
	})
	f.roster = services.NewRosterService(db, log, teams, players)
	f.games = services.NewGameService(services.GameServiceDeps{
		Log:       log,
		Games:     gameRepo,
		Aggregate: agg,
		Roster:    f.roster,
		Notifier:  services.NewGameNotifier(f.emit),
		Now:       func() time.Time { return f.now },
	})

	v := testutil.SeedTeam(t, ctx, db, "Philadelphia", "Phillies")
	h := testutil.SeedTeam(t, ctx, db, "Kansas City", "Royals")
	f.visiting, f.home = v.ID, h.ID
	f.vDefs = testutil.SeedNine(t, ctx, db, v.ID)
	f.hDefs = testutil.SeedNine(t, ctx, db, h.ID)
	return f
}

func (f *fixture) create(t *testing.T) *services.GameView {
	t.Helper()
	g, err := f.games.Create(context.Background(), services.CreateGameInput{
		Name:           "Game 6",
		VisitingTeamID: f.visiting,
		HomeTeamID:     f.home,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return g
}

// ready puts both full lineups on a new game.
func (f *fixture) ready(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	g := f.create(t)
	if _, err := f.games.PutLineup(ctx, g.ID, "visiting", f.vDefs); err != nil {
		t.Fatalf("PutLineup visiting: %v", err)
	}
	if _, err := f.games.PutLineup(ctx, g.ID, "home", f.hDefs); err != nil {
		t.Fatalf("PutLineup home: %v", err)
	}
	return g.ID
}
