package repos

import (
	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/data/repos/games"
	"github.com/nedgladstone/cardball/internal/data/repos/roster"
	"github.com/nedgladstone/cardball/internal/platform/logger"
)

type GameRepo = games.GameRepo

type TeamRepo = roster.TeamRepo
type PlayerRepo = roster.PlayerRepo

func NewGameRepo(db *gorm.DB, baseLog *logger.Logger) GameRepo { return games.NewGameRepo(db, baseLog) }

func NewTeamRepo(db *gorm.DB, baseLog *logger.Logger) TeamRepo { return roster.NewTeamRepo(db, baseLog) }
func NewPlayerRepo(db *gorm.DB, baseLog *logger.Logger) PlayerRepo {
	return roster.NewPlayerRepo(db, baseLog)
}
