package aggregates

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nedgladstone/cardball/internal/data/repos"
	"github.com/nedgladstone/cardball/internal/data/repos/games"
	rosterrepo "github.com/nedgladstone/cardball/internal/data/repos/roster"
	domainagg "github.com/nedgladstone/cardball/internal/domain/aggregates"
	"github.com/nedgladstone/cardball/internal/domain/game"
	"github.com/nedgladstone/cardball/internal/platform/dbctx"
)

const defaultMaxAttempts = 3

// MutateFunc changes g in memory. players resolves roster references inside the same
// transaction. Returning an error aborts the write.
type MutateFunc func(ctx context.Context, g *game.Game, players game.Roster) error

// GameAggregate is the only write path for games.
type GameAggregate interface {
	domainagg.Aggregate
	// Create checks both teams exist and stores g.
	Create(ctx context.Context, g *game.Game) error
	// Mutate loads game id, applies fn and stores the result under a version check.
	// A lost race reloads and reapplies fn, up to the configured attempts.
	Mutate(ctx context.Context, op string, id uuid.UUID, fn MutateFunc) (*game.Game, error)
}

type GameAggregateDeps struct {
	Base BaseDeps

	Games   repos.GameRepo
	Teams   repos.TeamRepo
	Players repos.PlayerRepo

	// MaxAttempts bounds reload-and-reapply on version conflicts. Zero means 3.
	MaxAttempts int
}

type gameAggregate struct {
	deps GameAggregateDeps
}

func NewGameAggregate(deps GameAggregateDeps) GameAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.MaxAttempts <= 0 {
		deps.MaxAttempts = defaultMaxAttempts
	}
	return &gameAggregate{deps: deps}
}

func (a *gameAggregate) Contract() domainagg.Contract {
	return domainagg.GameAggregateContract
}

func (a *gameAggregate) Create(ctx context.Context, g *game.Game) error {
	const op = "game.create"
	if g == nil {
		return domainagg.InvalidArgument(op, "missing game")
	}
	if err := a.configured(op); err != nil {
		return err
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		players := a.resolver(dbc)
		for _, teamID := range []uuid.UUID{g.VisitingTeamID(), g.HomeTeamID()} {
			if _, err := players.FindTeam(dbc.Ctx, teamID); err != nil {
				return err
			}
		}
		return a.deps.Games.Save(dbc, g)
	})
}

func (a *gameAggregate) Mutate(ctx context.Context, op string, id uuid.UUID, fn MutateFunc) (*game.Game, error) {
	if id == uuid.Nil {
		return nil, domainagg.InvalidArgument(op, "missing game id")
	}
	if fn == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "missing mutation", nil)
	}
	if err := a.configured(op); err != nil {
		return nil, err
	}

	var out *game.Game
	var err error
	for attempt := 1; attempt <= a.deps.MaxAttempts; attempt++ {
		out = nil
		err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
			g, err := a.deps.Games.FindByID(dbc, id)
			if err != nil {
				return err
			}
			if err := fn(dbc.Ctx, g, a.resolver(dbc)); err != nil {
				return err
			}
			if err := a.deps.Games.Update(dbc, g); err != nil {
				return err
			}
			out = g
			return nil
		})
		// A domain conflict (e.g. a completed game) is final; only a lost race is reapplied.
		if !errors.Is(err, games.ErrStaleVersion) || ctx.Err() != nil || attempt == a.deps.MaxAttempts {
			break
		}
		a.deps.Base.Hooks.IncReapply(op)
		a.deps.Base.Log.Warn("game version conflict, reapplying", "op", op, "game_id", id, "attempt", attempt)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *gameAggregate) resolver(dbc dbctx.Context) game.Roster {
	return rosterrepo.NewResolver(a.deps.Teams, a.deps.Players, dbc.Tx)
}

func (a *gameAggregate) configured(op string) error {
	if a.deps.Games == nil || a.deps.Teams == nil || a.deps.Players == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "game aggregate repos not configured", nil)
	}
	return nil
}
