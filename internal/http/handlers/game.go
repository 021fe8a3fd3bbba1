package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nedgladstone/cardball/internal/domain/game"
	"github.com/nedgladstone/cardball/internal/http/response"
	"github.com/nedgladstone/cardball/internal/services"
)

const maxStrategyBytes = 16 << 10

type GameHandler struct {
	games services.GameService
}

func NewGameHandler(games services.GameService) *GameHandler {
	return &GameHandler{games: games}
}

// GET /game/ping?testParam=x
func (h *GameHandler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "Pong "+c.Query("testParam"))
}

// GET /game
func (h *GameHandler) List(c *gin.Context) {
	limit, err := limitQuery(c)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	games, err := h.games.List(c.Request.Context(), limit)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"games": games})
}

// POST /game
func (h *GameHandler) Create(c *gin.Context) {
	var req services.CreateGameInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondDomainError(c, bindError(err))
		return
	}
	g, err := h.games.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"game": g})
}

// POST /game/demo
func (h *GameHandler) CreateDemo(c *gin.Context) {
	g, err := h.games.CreateDemo(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"game": g})
}

// GET /game/:id
func (h *GameHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	g, err := h.games.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"game": g})
}

// GET /game/:id/status
func (h *GameHandler) Status(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	st, err := h.games.Status(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": st})
}

// GET /game/:id/lineup
func (h *GameHandler) Lineups(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	lineups, err := h.games.Lineups(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, lineups)
}

// PUT /game/:id/lineup/:side
func (h *GameHandler) PutLineup(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	var req struct {
		Participants []game.ParticipantDefinition `json:"participants"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondDomainError(c, bindError(err))
		return
	}
	lineup, err := h.games.PutLineup(c.Request.Context(), id, c.Param("side"), req.Participants)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lineup": lineup})
}

// POST /game/:id/strategy/:role
// The body is the strategy text itself.
func (h *GameHandler) PostStrategy(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	text, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxStrategyBytes))
	if err != nil {
		response.RespondDomainError(c, bindError(err))
		return
	}
	st, err := h.games.PostStrategy(c.Request.Context(), id, c.Param("role"), string(text))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": st})
}

// GET /game/:id/strategy
func (h *GameHandler) Strategies(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	strategies, err := h.games.Strategies(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"strategies": strategies})
}

// POST /game/:id/action
func (h *GameHandler) RecordAction(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	var req services.ActionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondDomainError(c, bindError(err))
		return
	}
	action, err := h.games.RecordAction(c.Request.Context(), id, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"action": action})
}

// GET /game/:id/action
func (h *GameHandler) Actions(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	actions, err := h.games.Actions(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"actions": actions})
}

// GET /game/:id/action/tree
func (h *GameHandler) ActionForest(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	forest, err := h.games.ActionForest(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"actions": forest})
}

// POST /game/:id/complete
func (h *GameHandler) Complete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	g, err := h.games.Complete(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"game": g})
}
