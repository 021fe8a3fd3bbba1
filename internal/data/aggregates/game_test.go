package aggregates_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/data/aggregates"
	aggtest "github.com/nedgladstone/cardball/internal/data/aggregates/testutil"
	"github.com/nedgladstone/cardball/internal/data/repos"
	"github.com/nedgladstone/cardball/internal/data/repos/testutil"
	domainagg "github.com/nedgladstone/cardball/internal/domain/aggregates"
	"github.com/nedgladstone/cardball/internal/domain/game"
	"github.com/nedgladstone/cardball/internal/platform/dbctx"
)

type env struct {
	db       *gorm.DB
	games    repos.GameRepo
	hooks    *aggtest.HooksRecorder
	runner   *aggtest.InjectedTxRunner
	agg      aggregates.GameAggregate
	visiting uuid.UUID
	home     uuid.UUID
	vDefs    []game.ParticipantDefinition
	hDefs    []game.ParticipantDefinition
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	e := &env{
		db:     db,
		games:  repos.NewGameRepo(db, log),
		hooks:  &aggtest.HooksRecorder{},
		runner: &aggtest.InjectedTxRunner{Inner: aggregates.NewGormTxRunner(db)},
	}
	e.agg = aggregates.NewGameAggregate(aggregates.GameAggregateDeps{
		Base:    aggregates.BaseDeps{DB: db, Log: log, Runner: e.runner, Hooks: e.hooks},
		Games:   e.games,
		Teams:   repos.NewTeamRepo(db, log),
		Players: repos.NewPlayerRepo(db, log),
	})
	v := testutil.SeedTeam(t, ctx, db, "Detroit", "Tigers")
	h := testutil.SeedTeam(t, ctx, db, "Cleveland", "Guardians")
	e.visiting, e.home = v.ID, h.ID
	e.vDefs = testutil.SeedNine(t, ctx, db, v.ID)
	e.hDefs = testutil.SeedNine(t, ctx, db, h.ID)
	return e
}

func (e *env) create(t *testing.T, name string) *game.Game {
	t.Helper()
	g, err := game.New(name, e.visiting, e.home)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.agg.Create(context.Background(), g); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return g
}

func TestGameAggregate_Contract(t *testing.T) {
	e := newEnv(t)
	if !e.agg.Contract().RequiresAggregateOwnedTx() {
		t.Fatalf("game aggregate must own its transactions")
	}
}

func TestGameAggregate_CreateUnknownTeam(t *testing.T) {
	e := newEnv(t)
	g, _ := game.New("Phantom", e.visiting, uuid.New())
	err := e.agg.Create(context.Background(), g)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("want not_found, got %v", err)
	}
	if _, err := e.games.FindByID(dbctx.New(context.Background()), g.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("game must not be stored, got %v", err)
	}
}

func TestGameAggregate_MutatePersistsLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	g := e.create(t, "Opener")

	put := func(side game.Side, defs []game.ParticipantDefinition) {
		t.Helper()
		_, err := e.agg.Mutate(ctx, "game.put_lineup", g.ID, func(ctx context.Context, g *game.Game, players game.Roster) error {
			_, err := g.PutLineup(ctx, side, defs, players)
			return err
		})
		if err != nil {
			t.Fatalf("put lineup %s: %v", side, err)
		}
	}
	put(game.SideVisiting, e.vDefs)
	put(game.SideHome, e.hDefs)

	got, err := e.games.FindByID(dbctx.New(ctx), g.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Status() != game.StatusReady {
		t.Fatalf("status after lineups: want READY got %s", got.Status())
	}

	out, err := e.agg.Mutate(ctx, "game.record_action", g.ID, func(_ context.Context, g *game.Game, _ game.Roster) error {
		_, err := g.RecordAction(game.ActionData{Play: "KL"}, nil)
		return err
	})
	if err != nil {
		t.Fatalf("record action: %v", err)
	}
	if out.Status() != game.StatusInProgress || out.Version != 3 {
		t.Fatalf("after action: status=%s version=%d", out.Status(), out.Version)
	}
	if got := e.hooks.Statuses("game.record_action"); len(got) != 1 || got[0] != "success" {
		t.Fatalf("hook statuses: %v", got)
	}
}

func TestGameAggregate_UnresolvedPlayerLeavesLineup(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	g := e.create(t, "Typo")

	defs := append([]game.ParticipantDefinition(nil), e.vDefs...)
	defs[4].PlayerID = uuid.New()
	_, err := e.agg.Mutate(ctx, "game.put_lineup", g.ID, func(ctx context.Context, g *game.Game, players game.Roster) error {
		_, err := g.PutLineup(ctx, game.SideVisiting, defs, players)
		return err
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("want validation, got %v", err)
	}
	stored, _ := e.games.FindByID(dbctx.New(ctx), g.ID)
	if len(stored.Lineup(game.SideVisiting)) != 0 || stored.Version != 0 {
		t.Fatalf("failed mutation must not persist: lineup=%d version=%d", len(stored.Lineup(game.SideVisiting)), stored.Version)
	}
}

func TestGameAggregate_CommitFailureRollsBack(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	g := e.create(t, "Flaky")

	e.runner.FailCommit = errors.New("connection reset")
	e.runner.FailCommitTimes = e.runner.BeginCalls + 1
	_, err := e.agg.Mutate(ctx, "game.post_strategy", g.ID, func(_ context.Context, g *game.Game, _ game.Roster) error {
		_, err := g.PostStrategy(game.RoleHomeManager, "hit and run", time.Now())
		return err
	})
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("want internal, got %v", err)
	}
	stored, _ := e.games.FindByID(dbctx.New(ctx), g.ID)
	if stored.Strategies().Len() != 0 || stored.Version != 0 {
		t.Fatalf("rolled back write leaked: strategies=%d version=%d", stored.Strategies().Len(), stored.Version)
	}
}

// racingRepo bumps the stored version just before Update, as a competing writer would.
// The bump shares the transaction, so it rolls back with the lost attempt.
type racingRepo struct {
	repos.GameRepo
	races int
}

func (r *racingRepo) Update(dbc dbctx.Context, g *game.Game) error {
	if r.races > 0 {
		r.races--
		if err := dbc.Tx.Exec("UPDATE game SET version = version + 1 WHERE id = ?", g.ID).Error; err != nil {
			return err
		}
	}
	return r.GameRepo.Update(dbc, g)
}

func TestGameAggregate_StaleVersionIsReapplied(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	g := e.create(t, "Race")

	log := testutil.Logger(t)
	agg := aggregates.NewGameAggregate(aggregates.GameAggregateDeps{
		Base:    aggregates.BaseDeps{DB: e.db, Log: log, Hooks: e.hooks},
		Games:   &racingRepo{GameRepo: e.games, races: 1},
		Teams:   repos.NewTeamRepo(e.db, log),
		Players: repos.NewPlayerRepo(e.db, log),
	})

	attempts := 0
	out, err := agg.Mutate(ctx, "game.record_action", g.ID, func(_ context.Context, g *game.Game, _ game.Roster) error {
		attempts++
		_, err := g.RecordAction(game.ActionData{Play: "PB"}, nil)
		return err
	})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("want 2 attempts, got %d", attempts)
	}
	if out.Chain().Len() != 1 || out.Version != 1 {
		t.Fatalf("after reapply: actions=%d version=%d", out.Chain().Len(), out.Version)
	}
	if len(e.hooks.Conflicts) != 1 {
		t.Fatalf("want one recorded conflict, got %v", e.hooks.Conflicts)
	}
	if len(e.hooks.Reapplies) != 1 || e.hooks.Reapplies[0] != "game.record_action" {
		t.Fatalf("want one reapply, got %v", e.hooks.Reapplies)
	}
}

func TestGameAggregate_PersistentRaceGivesUp(t *testing.T) {
	e := newEnv(t)
	g := e.create(t, "Stampede")

	log := testutil.Logger(t)
	agg := aggregates.NewGameAggregate(aggregates.GameAggregateDeps{
		Base:        aggregates.BaseDeps{DB: e.db, Log: log},
		Games:       &racingRepo{GameRepo: e.games, races: 10},
		Teams:       repos.NewTeamRepo(e.db, log),
		Players:     repos.NewPlayerRepo(e.db, log),
		MaxAttempts: 2,
	})
	attempts := 0
	_, err := agg.Mutate(context.Background(), "game.record_action", g.ID, func(_ context.Context, g *game.Game, _ game.Roster) error {
		attempts++
		_, err := g.RecordAction(game.ActionData{Play: "BB"}, nil)
		return err
	})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("want 2 attempts, got %d", attempts)
	}
}

func TestGormTxRunner_RollsBackOnError(t *testing.T) {
	e := newEnv(t)
	boom := errors.New("boom")
	err := aggregates.NewGormTxRunner(e.db).InTx(context.Background(), func(dbc dbctx.Context) error {
		if err := dbc.Tx.Exec("UPDATE team SET name = 'Renamed' WHERE id = ?", e.home).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want body error, got %v", err)
	}
	var name string
	if err := e.db.Raw("SELECT name FROM team WHERE id = ?", e.home).Scan(&name).Error; err != nil {
		t.Fatalf("read team: %v", err)
	}
	if name != "Guardians" {
		t.Fatalf("update must roll back, got %q", name)
	}
	if err := aggregates.NewGormTxRunner(nil).InTx(context.Background(), func(dbctx.Context) error { return nil }); !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("nil db: want internal, got %v", err)
	}
}

func TestGameAggregate_CompletedGameConflictIsFinal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	g := e.create(t, "Final")

	calls := 0
	_, err := e.agg.Mutate(ctx, "game.complete", g.ID, func(_ context.Context, g *game.Game, _ game.Roster) error {
		calls++
		return g.Complete(time.Now())
	})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("completing a forming game: want conflict, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("domain conflicts must not be reapplied, got %d calls", calls)
	}
}

func TestGameAggregate_MissingGame(t *testing.T) {
	e := newEnv(t)
	_, err := e.agg.Mutate(context.Background(), "game.complete", uuid.New(), func(context.Context, *game.Game, game.Roster) error {
		t.Fatalf("mutation must not run")
		return nil
	})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("want not_found, got %v", err)
	}
}
