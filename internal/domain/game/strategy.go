package game

import (
	"strings"
	"time"

	"github.com/nedgladstone/cardball/internal/domain/aggregates"
)

// Strategy is the latest directive posted for a role.
type Strategy struct {
	Role     Role      `json:"role"`
	Text     string    `json:"text"`
	PostedAt time.Time `json:"postedAt"`
}

// StrategyRegister keeps only the current strategy per role.
type StrategyRegister struct {
	current map[Role]Strategy
}

func NewStrategyRegister() *StrategyRegister {
	return &StrategyRegister{current: make(map[Role]Strategy)}
}

// Post overwrites the strategy for role.
func (r *StrategyRegister) Post(role Role, text string, at time.Time) (Strategy, error) {
	const op = "game.post_strategy"
	if !role.Valid() {
		return Strategy{}, aggregates.InvalidEnum(op, "unknown role %q", role)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Strategy{}, aggregates.InvalidArgument(op, "strategy text is empty")
	}
	s := Strategy{Role: role, Text: text, PostedAt: at.UTC()}
	r.current[role] = s
	return s, nil
}

func (r *StrategyRegister) Get(role Role) (Strategy, bool) {
	s, ok := r.current[role]
	return s, ok
}

// All returns the posted strategies in role order.
func (r *StrategyRegister) All() []Strategy {
	out := make([]Strategy, 0, len(r.current))
	for _, role := range Roles() {
		if s, ok := r.current[role]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (r *StrategyRegister) Len() int { return len(r.current) }
