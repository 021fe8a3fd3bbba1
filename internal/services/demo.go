package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	domainagg "github.com/nedgladstone/cardball/internal/domain/aggregates"
	"github.com/nedgladstone/cardball/internal/domain/game"
	"github.com/nedgladstone/cardball/internal/domain/roster"
)

const demoGameName = "Sneaky little game"

type demoTeam struct {
	team    TeamInput
	players []PlayerInput
}

var (
	demoRockies = demoTeam{
		team: TeamInput{City: "Colorado", Name: "Rockies", ManagerFirstName: "Ned", ManagerLastName: "Gladstone"},
		players: []PlayerInput{
			{FirstName: "Todd", LastName: "Helton", Year: 2003, Position: 3, Bats: "R", Throws: "R", BattingAverage: 308},
			{FirstName: "Larry", LastName: "Walker", Year: 1998, Position: 9, Bats: "L", Throws: "L", BattingAverage: 297},
		},
	}
	demoPhillies = demoTeam{
		team: TeamInput{City: "Philadelphia", Name: "Phillies", ManagerFirstName: "Ed", ManagerLastName: "Gladstone"},
		players: []PlayerInput{
			{FirstName: "Greg", LastName: "Luzinski", Year: 1978, Position: 7, Bats: "R", Throws: "R", BattingAverage: 276},
			{FirstName: "Larry", LastName: "Bowa", Year: 1980, Position: 6, Bats: "R", Throws: "R", BattingAverage: 266},
		},
	}
)

func (s *gameService) CreateDemo(ctx context.Context) (_ *GameView, err error) {
	ctx, span := startSpan(ctx, "GameService.CreateDemo")
	defer func() { endSpan(span, err) }()

	if s.roster == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, "game.create_demo", "roster service not configured", nil)
	}
	home, err := s.roster.EnsureTeam(ctx, demoRockies.team, demoRockies.players)
	if err != nil {
		return nil, err
	}
	visiting, err := s.roster.EnsureTeam(ctx, demoPhillies.team, demoPhillies.players)
	if err != nil {
		return nil, err
	}

	created, err := s.Create(ctx, CreateGameInput{Name: demoGameName, VisitingTeamID: visiting.ID, HomeTeamID: home.ID})
	if err != nil {
		return nil, err
	}
	for side, t := range map[string]*roster.Team{"visiting": visiting, "home": home} {
		if _, err := s.PutLineup(ctx, created.ID, side, demoLineup(t)); err != nil {
			return nil, err
		}
	}

	luzinski, bowa := playerByLastName(visiting, "Luzinski"), playerByLastName(visiting, "Bowa")
	if _, err := s.RecordAction(ctx, created.ID, ActionInput{
		ActionData: game.ActionData{
			Before:              json.RawMessage(`{"runners":[]}`),
			Outs:                1,
			Strikes:             3,
			BatterID:            luzinski,
			Play:                "KL",
			EndsPlateAppearance: true,
		},
		Results: []ActionInput{{ActionData: game.ActionData{
			BatterID:      bowa,
			Runs:          1,
			RBI:           2,
			Play:          "PB",
			BasesAdvanced: 2,
			Scoring:       true,
		}}},
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

// demoLineup bats the team's cards in roster order at their card positions.
func demoLineup(t *roster.Team) []game.ParticipantDefinition {
	defs := make([]game.ParticipantDefinition, 0, len(t.Players))
	for i, p := range t.Players {
		defs = append(defs, game.ParticipantDefinition{
			BattingOrder:     i,
			FieldingPosition: p.Position - 1,
			PlayerID:         p.ID,
		})
	}
	return defs
}

func playerByLastName(t *roster.Team, last string) uuid.UUID {
	for _, p := range t.Players {
		if p.LastName == last {
			return p.ID
		}
	}
	return uuid.Nil
}
