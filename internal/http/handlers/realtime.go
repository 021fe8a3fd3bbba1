package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nedgladstone/cardball/internal/http/response"
	"github.com/nedgladstone/cardball/internal/platform/logger"
	"github.com/nedgladstone/cardball/internal/realtime"
	"github.com/nedgladstone/cardball/internal/services"
)

// RealtimeHandler streams live game events over SSE.
type RealtimeHandler struct {
	Log   *logger.Logger
	Hub   *realtime.SSEHub
	games services.GameService
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, games services.GameService) *RealtimeHandler {
	return &RealtimeHandler{
		Log:   log.With("handler", "RealtimeHandler"),
		Hub:   hub,
		games: games,
	}
}

// GET /game/:id/feed
func (h *RealtimeHandler) GameFeed(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	if _, err := h.games.Status(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	h.stream(c, realtime.GameChannel(id))
}

// GET /game/feed
// Announces newly created games.
func (h *RealtimeHandler) GamesFeed(c *gin.Context) {
	h.stream(c, realtime.GamesChannel)
}

func (h *RealtimeHandler) stream(c *gin.Context, channel string) {
	client := h.Hub.NewSSEClient()
	h.Log.Info("SSE feed open", "client_id", client.ID, "channel", channel)
	h.Hub.AddChannel(client, channel)

	h.Hub.ServeHTTP(c.Writer, c.Request, client)

	h.Hub.CloseClient(client)
	h.Log.Info("SSE feed closed", "client_id", client.ID, "channel", channel)
}
