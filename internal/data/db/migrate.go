package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/data/repos/games"
	"github.com/nedgladstone/cardball/internal/domain/roster"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// Roster
		&roster.Team{},
		&roster.Player{},

		// Games
		&games.GameRecord{},
		&games.ParticipantRecord{},
		&games.ActionRecord{},
		&games.StrategyRecord{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsureIndexes(db)
}

// EnsureIndexes creates the uniqueness guarantees the game aggregate and team
// seeding rely on.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_team_city_name ON team(city, name);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_game_participant_slot ON game_participant(game_id, side, batting_order);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_game_action_seq ON game_action(game_id, seq);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_game_strategy_role ON game_strategy(game_id, role);`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}
	return nil
}
