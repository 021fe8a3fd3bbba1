package game

import (
	"encoding/json"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/nedgladstone/cardball/internal/domain/aggregates"
)

// ActionData is the caller-supplied content of one recorded play. Counts are trusted
// as given; the chain logs, it does not officiate.
type ActionData struct {
	// Opaque game-state snapshots (e.g. base runners) around the play.
	Before json.RawMessage `json:"before,omitempty"`
	While  json.RawMessage `json:"while,omitempty"`
	After  json.RawMessage `json:"after,omitempty"`

	Outs    int `json:"outs"`
	Balls   int `json:"balls"`
	Strikes int `json:"strikes"`

	BatterID  uuid.UUID `json:"batterId"`
	Timestamp time.Time `json:"timestamp"`

	Runs int `json:"runs"`
	RBI  int `json:"rbi"`

	// Play is the scorer's code, e.g. "KL" (strikeout looking) or "PB" (passed ball).
	Play          string `json:"play"`
	Modifier      string `json:"modifier"`
	BasesAdvanced int    `json:"basesAdvanced"`

	Scoring             bool `json:"scoring"`
	EndsPlateAppearance bool `json:"endsPlateAppearance"`
}

// Action is one node of the action forest.
type Action struct {
	ID uuid.UUID `json:"id"`
	// ParentID is uuid.Nil for a root action.
	ParentID uuid.UUID `json:"parentId"`
	// Seq is the insertion position across the whole game, starting at 0.
	Seq int `json:"seq"`
	ActionData

	results []int
}

// Chain is an append-only arena of actions. Records address their results by arena
// index; identifiers resolve to indices through byID.
type Chain struct {
	arena []*Action
	roots []int
	byID  map[uuid.UUID]int
}

func NewChain() *Chain {
	return &Chain{byID: make(map[uuid.UUID]int)}
}

// Append records data as a new root (parentID nil) or as the last result of parentID.
func (c *Chain) Append(parentID *uuid.UUID, data ActionData) (Action, error) {
	return c.append(uuid.New(), parentID, data)
}

func (c *Chain) append(id uuid.UUID, parentID *uuid.UUID, data ActionData) (Action, error) {
	const op = "game.append_action"
	parentIdx := -1
	if parentID != nil {
		idx, ok := c.byID[*parentID]
		if !ok {
			return Action{}, aggregates.Referential(op, "parent action %s is not in this game", parentID.String())
		}
		parentIdx = idx
	}
	if _, dup := c.byID[id]; dup || id == uuid.Nil {
		return Action{}, aggregates.InvalidArgument(op, "action id %s is not usable", id.String())
	}

	a := &Action{ID: id, Seq: len(c.arena), ActionData: data}
	idx := len(c.arena)
	c.arena = append(c.arena, a)
	c.byID[id] = idx
	if parentIdx < 0 {
		c.roots = append(c.roots, idx)
	} else {
		parent := c.arena[parentIdx]
		a.ParentID = parent.ID
		parent.results = append(parent.results, idx)
	}
	return *a, nil
}

func (c *Chain) Len() int { return len(c.arena) }

func (c *Chain) Contains(id uuid.UUID) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *Chain) Get(id uuid.UUID) (Action, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Action{}, false
	}
	return *c.arena[idx], true
}

// Roots yields the top-level actions in insertion order.
func (c *Chain) Roots() iter.Seq[Action] {
	return func(yield func(Action) bool) {
		for _, idx := range c.roots {
			if !yield(*c.arena[idx]) {
				return
			}
		}
	}
}

// Results yields the direct results of id in insertion order.
func (c *Chain) Results(id uuid.UUID) iter.Seq[Action] {
	return func(yield func(Action) bool) {
		idx, ok := c.byID[id]
		if !ok {
			return
		}
		for _, child := range c.arena[idx].results {
			if !yield(*c.arena[child]) {
				return
			}
		}
	}
}

// Flatten yields every action depth-first: each root, then its results (recursively),
// then the next root. The sequence is lazy and can be ranged over any number of times.
func (c *Chain) Flatten() iter.Seq[Action] {
	return func(yield func(Action) bool) {
		var walk func(idx int) bool
		walk = func(idx int) bool {
			a := c.arena[idx]
			if !yield(*a) {
				return false
			}
			for _, child := range a.results {
				if !walk(child) {
					return false
				}
			}
			return true
		}
		for _, idx := range c.roots {
			if !walk(idx) {
				return
			}
		}
	}
}

// InsertionOrder yields every action by Seq.
func (c *Chain) InsertionOrder() iter.Seq[Action] {
	return func(yield func(Action) bool) {
		for _, a := range c.arena {
			if !yield(*a) {
				return
			}
		}
	}
}

// RestoreChain rebuilds a chain from stored actions. Actions must be ordered by Seq and
// every parent must precede its results.
func RestoreChain(actions []Action) (*Chain, error) {
	c := NewChain()
	for i, a := range actions {
		if a.Seq != i {
			return nil, aggregates.NewError(aggregates.CodeInternal, "game.restore_chain", "action sequence gap", nil)
		}
		var parent *uuid.UUID
		if a.ParentID != uuid.Nil {
			p := a.ParentID
			parent = &p
		}
		if _, err := c.append(a.ID, parent, a.ActionData); err != nil {
			return nil, err
		}
	}
	return c, nil
}
