package game

// Status is the derived lifecycle stage of a game. It is never stored.
type Status string

const (
	StatusForming    Status = "FORMING"
	StatusReady      Status = "READY"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// CompletionOracle decides whether a game has finished. The recorded action
// vocabulary cannot express full-game completion, so the decision lives outside.
type CompletionOracle interface {
	Completed(g *Game) bool
}

// MarkerOracle reports completion once the game carries an explicit completion marker.
type MarkerOracle struct{}

func (MarkerOracle) Completed(g *Game) bool { return g != nil && g.completedAt != nil }

// DeriveStatus is a pure function of the game's lineups, chain and the oracle.
func DeriveStatus(g *Game, oracle CompletionOracle) Status {
	if oracle == nil {
		oracle = MarkerOracle{}
	}
	if !lineupComplete(g.visiting) || !lineupComplete(g.home) {
		return StatusForming
	}
	if g.chain.Len() == 0 {
		return StatusReady
	}
	if oracle.Completed(g) {
		return StatusCompleted
	}
	return StatusInProgress
}
