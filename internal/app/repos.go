package app

import (
	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/data/repos"
	"github.com/nedgladstone/cardball/internal/platform/logger"
)

type Repos struct {
	Game   repos.GameRepo
	Team   repos.TeamRepo
	Player repos.PlayerRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Game:   repos.NewGameRepo(db, log),
		Team:   repos.NewTeamRepo(db, log),
		Player: repos.NewPlayerRepo(db, log),
	}
}
