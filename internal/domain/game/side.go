package game

import (
	"strings"

	"github.com/nedgladstone/cardball/internal/domain/aggregates"
)

// Side identifies which team's lineup an operation targets.
type Side string

const (
	SideVisiting Side = "visiting"
	SideHome     Side = "home"
)

var sideAliases = map[string]Side{
	"visiting": SideVisiting,
	"visitor":  SideVisiting,
	"visitors": SideVisiting,
	"away":     SideVisiting,
	"home":     SideHome,
}

// ParseSide maps a transport token onto a Side.
func ParseSide(s string) (Side, error) {
	side, ok := sideAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", aggregates.InvalidEnum("game.parse_side", "unknown side %q", s)
	}
	return side, nil
}

func (s Side) Valid() bool { return s == SideVisiting || s == SideHome }

func (s Side) String() string { return string(s) }
