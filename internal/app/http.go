package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apphttp "github.com/nedgladstone/cardball/internal/http"
	httpH "github.com/nedgladstone/cardball/internal/http/handlers"
	"github.com/nedgladstone/cardball/internal/observability"
	"github.com/nedgladstone/cardball/internal/platform/logger"
	"github.com/nedgladstone/cardball/internal/realtime"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Game     *httpH.GameHandler
	Roster   *httpH.RosterHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db),
		Game:     httpH.NewGameHandler(services.Game),
		Roster:   httpH.NewRosterHandler(services.Roster),
		Realtime: httpH.NewRealtimeHandler(log, hub, services.Game),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers) *gin.Engine {
	traceService := ""
	if cfg.OtelEnabled {
		traceService = cfg.OtelServiceName
	}
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:             log.With("component", "http"),
		Metrics:         metrics,
		TraceService:    traceService,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		GameHandler:     handlers.Game,
		RosterHandler:   handlers.Roster,
		RealtimeHandler: handlers.Realtime,
		HealthHandler:   handlers.Health,
	})
}
