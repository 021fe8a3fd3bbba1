package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/nedgladstone/cardball/internal/http/handlers"
	httpMW "github.com/nedgladstone/cardball/internal/http/middleware"
	"github.com/nedgladstone/cardball/internal/observability"
	"github.com/nedgladstone/cardball/internal/platform/logger"
)

const (
	gameFeedRoute  = "/game/:id/feed"
	gamesFeedRoute = "/game/feed"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
	// TraceService enables otelgin request spans under this service name.
	TraceService string
	CORSOrigins  []string

	GameHandler     *httpH.GameHandler
	RosterHandler   *httpH.RosterHandler
	RealtimeHandler *httpH.RealtimeHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TraceService != "" {
		r.Use(otelgin.Middleware(cfg.TraceService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics, gameFeedRoute, gamesFeedRoute))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	games := r.Group("/game")
	{
		if cfg.GameHandler != nil {
			games.GET("/ping", cfg.GameHandler.Ping)
			games.GET("", cfg.GameHandler.List)
			games.POST("", cfg.GameHandler.Create)
			games.POST("/demo", cfg.GameHandler.CreateDemo)
			games.GET("/:id", cfg.GameHandler.Get)
			games.GET("/:id/status", cfg.GameHandler.Status)
			games.GET("/:id/lineup", cfg.GameHandler.Lineups)
			games.PUT("/:id/lineup/:side", cfg.GameHandler.PutLineup)
			games.POST("/:id/strategy/:role", cfg.GameHandler.PostStrategy)
			games.GET("/:id/strategy", cfg.GameHandler.Strategies)
			games.POST("/:id/action", cfg.GameHandler.RecordAction)
			games.GET("/:id/action", cfg.GameHandler.Actions)
			games.GET("/:id/action/tree", cfg.GameHandler.ActionForest)
			games.POST("/:id/complete", cfg.GameHandler.Complete)
		}
	}

	// Realtime (SSE)
	if cfg.RealtimeHandler != nil {
		r.GET(gamesFeedRoute, cfg.RealtimeHandler.GamesFeed)
		r.GET(gameFeedRoute, cfg.RealtimeHandler.GameFeed)
	}

	// Roster
	if cfg.RosterHandler != nil {
		r.GET("/team", cfg.RosterHandler.ListTeams)
		r.POST("/team", cfg.RosterHandler.CreateTeam)
		r.GET("/team/:id", cfg.RosterHandler.GetTeam)
		r.POST("/team/:id/player", cfg.RosterHandler.AddPlayer)
		r.GET("/team/:id/player", cfg.RosterHandler.ListPlayers)
		r.GET("/player/:id", cfg.RosterHandler.GetPlayer)
	}

	return r
}
