package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nedgladstone/cardball/internal/http/response"
	"github.com/nedgladstone/cardball/internal/services"
)

type RosterHandler struct {
	roster services.RosterService
}

func NewRosterHandler(roster services.RosterService) *RosterHandler {
	return &RosterHandler{roster: roster}
}

// GET /team
func (h *RosterHandler) ListTeams(c *gin.Context) {
	teams, err := h.roster.ListTeams(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"teams": teams})
}

// POST /team
func (h *RosterHandler) CreateTeam(c *gin.Context) {
	var req services.TeamInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondDomainError(c, bindError(err))
		return
	}
	team, err := h.roster.CreateTeam(c.Request.Context(), req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"team": team})
}

// GET /team/:id
func (h *RosterHandler) GetTeam(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	team, err := h.roster.GetTeam(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"team": team})
}

// POST /team/:id/player
func (h *RosterHandler) AddPlayer(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	var req services.PlayerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondDomainError(c, bindError(err))
		return
	}
	player, err := h.roster.AddPlayer(c.Request.Context(), id, req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"player": player})
}

// GET /team/:id/player
func (h *RosterHandler) ListPlayers(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	players, err := h.roster.ListPlayers(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"players": players})
}

// GET /player/:id
func (h *RosterHandler) GetPlayer(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	player, err := h.roster.GetPlayer(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"player": player})
}
