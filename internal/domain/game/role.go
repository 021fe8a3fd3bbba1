package game

import (
	"strings"

	"github.com/nedgladstone/cardball/internal/domain/aggregates"
)

// Role is a managerial position a strategy directive is attached to.
type Role string

const (
	RoleVisitingManager Role = "visiting-manager"
	RoleHomeManager     Role = "home-manager"
)

// Roles lists every role in a stable order.
func Roles() []Role { return []Role{RoleVisitingManager, RoleHomeManager} }

func ParseRole(s string) (Role, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for _, r := range Roles() {
		if norm == string(r) {
			return r, nil
		}
	}
	return "", aggregates.InvalidEnum("game.parse_role", "unknown role %q", s)
}

func (r Role) Valid() bool { return r == RoleVisitingManager || r == RoleHomeManager }

func (r Role) String() string { return string(r) }
