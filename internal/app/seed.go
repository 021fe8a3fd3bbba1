package app

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nedgladstone/cardball/internal/services"
)

// RosterFile is the YAML document read by the seed command.
type RosterFile struct {
	Teams []RosterTeam `yaml:"teams"`
}

type RosterTeam struct {
	services.TeamInput `yaml:",inline"`
	Players            []services.PlayerInput `yaml:"players"`
}

func LoadRosterFile(path string) (RosterFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RosterFile{}, err
	}
	return ParseRoster(raw)
}

func ParseRoster(raw []byte) (RosterFile, error) {
	var rf RosterFile
	if err := yaml.Unmarshal(raw, &rf); err != nil {
		return RosterFile{}, fmt.Errorf("parse roster: %w", err)
	}
	if len(rf.Teams) == 0 {
		return RosterFile{}, fmt.Errorf("parse roster: no teams")
	}
	return rf, nil
}

// SeedRoster ensures every team in rf exists and returns how many were processed.
func (a *App) SeedRoster(ctx context.Context, rf RosterFile) (int, error) {
	for i, t := range rf.Teams {
		team, err := a.Services.Roster.EnsureTeam(ctx, t.TeamInput, t.Players)
		if err != nil {
			return i, fmt.Errorf("team %s %s: %w", t.City, t.Name, err)
		}
		a.Log.Info("Team ready", "team_id", team.ID, "team", team.DisplayName(), "players", len(team.Players))
	}
	return len(rf.Teams), nil
}
