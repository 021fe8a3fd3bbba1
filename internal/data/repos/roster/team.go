package roster

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/domain/roster"
	"github.com/nedgladstone/cardball/internal/platform/dbctx"
	"github.com/nedgladstone/cardball/internal/platform/logger"
)

type TeamRepo interface {
	Create(dbc dbctx.Context, teams []*roster.Team) ([]*roster.Team, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*roster.Team, error)
	GetByName(dbc dbctx.Context, city, name string) (*roster.Team, error)
	List(dbc dbctx.Context, limit int) ([]*roster.Team, error)
}

type teamRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeamRepo(db *gorm.DB, baseLog *logger.Logger) TeamRepo {
	return &teamRepo{db: db, log: baseLog.With("repo", "TeamRepo")}
}

func (r *teamRepo) Create(dbc dbctx.Context, teams []*roster.Team) ([]*roster.Team, error) {
	if len(teams) == 0 {
		return []*roster.Team{}, nil
	}
	if err := dbc.DB(r.db).Create(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *teamRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*roster.Team, error) {
	var results []*roster.Team
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByName returns nil, nil when no team matches.
func (r *teamRepo) GetByName(dbc dbctx.Context, city, name string) (*roster.Team, error) {
	var results []*roster.Team
	if err := dbc.DB(r.db).
		Where("city = ? AND name = ?", strings.TrimSpace(city), strings.TrimSpace(name)).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *teamRepo) List(dbc dbctx.Context, limit int) ([]*roster.Team, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var results []*roster.Team
	if err := dbc.DB(r.db).Order("city ASC, name ASC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
