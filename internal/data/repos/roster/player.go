package roster

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/domain/roster"
	"github.com/nedgladstone/cardball/internal/platform/dbctx"
	"github.com/nedgladstone/cardball/internal/platform/logger"
)

type PlayerRepo interface {
	Create(dbc dbctx.Context, players []*roster.Player) ([]*roster.Player, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*roster.Player, error)
	ListByTeam(dbc dbctx.Context, teamID uuid.UUID) ([]*roster.Player, error)
}

type playerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlayerRepo(db *gorm.DB, baseLog *logger.Logger) PlayerRepo {
	return &playerRepo{db: db, log: baseLog.With("repo", "PlayerRepo")}
}

func (r *playerRepo) Create(dbc dbctx.Context, players []*roster.Player) ([]*roster.Player, error) {
	if len(players) == 0 {
		return []*roster.Player{}, nil
	}
	if err := dbc.DB(r.db).Create(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*roster.Player, error) {
	var results []*roster.Player
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *playerRepo) ListByTeam(dbc dbctx.Context, teamID uuid.UUID) ([]*roster.Player, error) {
	var results []*roster.Player
	if teamID == uuid.Nil {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("team_id = ?", teamID).
		Order("position ASC, last_name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
