package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/nedgladstone/cardball/internal/domain/game"
)

// GameView is the read model returned to callers. Strategy text is served separately.
type GameView struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	VisitingTeamID uuid.UUID          `json:"visitingTeamId"`
	HomeTeamID     uuid.UUID          `json:"homeTeamId"`
	Status         game.Status        `json:"status"`
	Visiting       []game.Participant `json:"visitingLineup"`
	Home           []game.Participant `json:"homeLineup"`
	StrategyRoles  []game.Role        `json:"strategyRoles"`
	ActionCount    int                `json:"actionCount"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	Version        int                `json:"version"`
}

// LineupsView holds both sides' lineups in batting order.
type LineupsView struct {
	Visiting []game.Participant `json:"visiting"`
	Home     []game.Participant `json:"home"`
}

func newGameView(g *game.Game) *GameView {
	if g == nil {
		return nil
	}
	roles := make([]game.Role, 0, len(game.Roles()))
	for _, s := range g.Strategies().All() {
		roles = append(roles, s.Role)
	}
	return &GameView{
		ID:             g.ID,
		Name:           g.Name,
		VisitingTeamID: g.VisitingTeamID(),
		HomeTeamID:     g.HomeTeamID(),
		Status:         g.Status(),
		Visiting:       nonNil(g.Lineup(game.SideVisiting)),
		Home:           nonNil(g.Lineup(game.SideHome)),
		StrategyRoles:  roles,
		ActionCount:    g.Chain().Len(),
		CompletedAt:    g.CompletedAt(),
		CreatedAt:      g.CreatedAt,
		Version:        g.Version,
	}
}

func nonNil(ps []game.Participant) []game.Participant {
	if ps == nil {
		return []game.Participant{}
	}
	return ps
}

// ActionTree is an action with its results nested beneath it. The action's own fields
// are inlined in JSON.
type ActionTree struct {
	game.Action
	Results []*ActionTree `json:"results,omitempty"`
}

func newActionTree(c *game.Chain, a game.Action) *ActionTree {
	node := &ActionTree{Action: a}
	for child := range c.Results(a.ID) {
		node.Results = append(node.Results, newActionTree(c, child))
	}
	return node
}

// flatten lists the subtree depth-first, root first.
func (t *ActionTree) flatten() []game.Action {
	out := []game.Action{t.Action}
	for _, r := range t.Results {
		out = append(out, r.flatten()...)
	}
	return out
}
