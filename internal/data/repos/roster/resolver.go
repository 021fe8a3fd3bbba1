package roster

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/domain/aggregates"
	"github.com/nedgladstone/cardball/internal/domain/roster"
	"github.com/nedgladstone/cardball/internal/platform/dbctx"
)

// Resolver answers the game package's team and player lookups. It is bound to one
// transaction (or none) so lookups share the caller's connection.
type Resolver struct {
	teams   TeamRepo
	players PlayerRepo
	tx      *gorm.DB
}

func NewResolver(teams TeamRepo, players PlayerRepo, tx *gorm.DB) *Resolver {
	return &Resolver{teams: teams, players: players, tx: tx}
}

func (r *Resolver) FindTeam(ctx context.Context, id uuid.UUID) (*roster.Team, error) {
	rows, err := r.teams.GetByIDs(dbctx.Context{Ctx: ctx, Tx: r.tx}, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, aggregates.NotFound("roster.find_team", "team %s does not exist", id)
	}
	return rows[0], nil
}

func (r *Resolver) FindPlayer(ctx context.Context, id uuid.UUID) (*roster.Player, error) {
	rows, err := r.players.GetByIDs(dbctx.Context{Ctx: ctx, Tx: r.tx}, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, aggregates.NotFound("roster.find_player", "player %s does not exist", id)
	}
	return rows[0], nil
}
