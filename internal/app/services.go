package app

import (
	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/data/aggregates"
	"github.com/nedgladstone/cardball/internal/observability"
	"github.com/nedgladstone/cardball/internal/platform/logger"
	"github.com/nedgladstone/cardball/internal/services"
)

type Services struct {
	Roster services.RosterService
	Game   services.GameService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, metrics *observability.Metrics, emit services.SSEEmitter) Services {
	log.Info("Wiring services...")
	agg := aggregates.NewGameAggregate(aggregates.GameAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:    db,
			Log:   log.With("aggregate", "GameAggregate"),
			Hooks: aggregates.NewObservabilityHooks(metrics),
		},
		Games:       reposet.Game,
		Teams:       reposet.Team,
		Players:     reposet.Player,
		MaxAttempts: cfg.GameMutationAttempts,
	})
	roster := services.NewRosterService(db, log, reposet.Team, reposet.Player)
	return Services{
		Roster: roster,
		Game: services.NewGameService(services.GameServiceDeps{
			Log:       log,
			Games:     reposet.Game,
			Aggregate: agg,
			Roster:    roster,
			Notifier:  services.NewGameNotifier(emit),
			Metrics:   metrics,
		}),
	}
}
