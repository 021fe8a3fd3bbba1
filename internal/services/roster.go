package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/data/aggregates"
	"github.com/nedgladstone/cardball/internal/data/repos"
	domainagg "github.com/nedgladstone/cardball/internal/domain/aggregates"
	"github.com/nedgladstone/cardball/internal/domain/roster"
	"github.com/nedgladstone/cardball/internal/platform/ctxutil"
	"github.com/nedgladstone/cardball/internal/platform/dbctx"
	"github.com/nedgladstone/cardball/internal/platform/logger"
)

type TeamInput struct {
	City             string `json:"city" yaml:"city"`
	Name             string `json:"name" yaml:"name"`
	ManagerFirstName string `json:"managerFirstName" yaml:"managerFirstName"`
	ManagerLastName  string `json:"managerLastName" yaml:"managerLastName"`
}

type PlayerInput struct {
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Year      int    `json:"year" yaml:"year"`
	Position  int    `json:"position" yaml:"position"`
	Bats      string `json:"bats" yaml:"bats"`
	Throws    string `json:"throws" yaml:"throws"`
	// Thousandths: .308 is 308.
	BattingAverage int `json:"battingAverage" yaml:"battingAverage"`
}

// RosterService manages teams and their player cards.
type RosterService interface {
	CreateTeam(ctx context.Context, in TeamInput) (*roster.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*roster.Team, error)
	ListTeams(ctx context.Context) ([]*roster.Team, error)
	AddPlayer(ctx context.Context, teamID uuid.UUID, in PlayerInput) (*roster.Player, error)
	GetPlayer(ctx context.Context, id uuid.UUID) (*roster.Player, error)
	ListPlayers(ctx context.Context, teamID uuid.UUID) ([]*roster.Player, error)
	// EnsureTeam returns the team matching city+name, creating it with players when absent.
	// Creation is all-or-nothing; losing a race to another creator returns the winner's team.
	EnsureTeam(ctx context.Context, in TeamInput, players []PlayerInput) (*roster.Team, error)
}

type rosterService struct {
	db      *gorm.DB
	log     *logger.Logger
	teams   repos.TeamRepo
	players repos.PlayerRepo
}

func NewRosterService(db *gorm.DB, log *logger.Logger, teams repos.TeamRepo, players repos.PlayerRepo) RosterService {
	return &rosterService{
		db:      db,
		log:     log.With("service", "RosterService"),
		teams:   teams,
		players: players,
	}
}

func (s *rosterService) CreateTeam(ctx context.Context, in TeamInput) (*roster.Team, error) {
	t, err := buildTeam(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.teams.Create(dbctx.New(ctx), []*roster.Team{t}); err != nil {
		return nil, aggregates.MapError("roster.create_team", err)
	}
	s.log.Info("team created", append(ctxutil.LogFields(ctx), "team_id", t.ID, "team", t.DisplayName())...)
	return t, nil
}

func (s *rosterService) GetTeam(ctx context.Context, id uuid.UUID) (*roster.Team, error) {
	dbc := dbctx.New(ctx)
	rows, err := s.teams.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domainagg.NotFound("roster.get_team", "team %s does not exist", id)
	}
	t := rows[0]
	players, err := s.players.ListByTeam(dbc, t.ID)
	if err != nil {
		return nil, err
	}
	t.Players = make([]roster.Player, 0, len(players))
	for _, p := range players {
		t.Players = append(t.Players, *p)
	}
	return t, nil
}

func (s *rosterService) ListTeams(ctx context.Context) ([]*roster.Team, error) {
	return s.teams.List(dbctx.New(ctx), 0)
}

func (s *rosterService) AddPlayer(ctx context.Context, teamID uuid.UUID, in PlayerInput) (*roster.Player, error) {
	dbc := dbctx.New(ctx)
	rows, err := s.teams.GetByIDs(dbc, []uuid.UUID{teamID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domainagg.NotFound("roster.add_player", "team %s does not exist", teamID)
	}
	p, err := buildPlayer(teamID, in)
	if err != nil {
		return nil, err
	}
	if _, err := s.players.Create(dbc, []*roster.Player{p}); err != nil {
		return nil, err
	}
	s.log.Info("player added", append(ctxutil.LogFields(ctx), "team_id", teamID, "player_id", p.ID, "player", p.FullName())...)
	return p, nil
}

func (s *rosterService) GetPlayer(ctx context.Context, id uuid.UUID) (*roster.Player, error) {
	rows, err := s.players.GetByIDs(dbctx.New(ctx), []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domainagg.NotFound("roster.get_player", "player %s does not exist", id)
	}
	return rows[0], nil
}

func (s *rosterService) ListPlayers(ctx context.Context, teamID uuid.UUID) ([]*roster.Player, error) {
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	return s.players.ListByTeam(dbctx.New(ctx), teamID)
}

func (s *rosterService) EnsureTeam(ctx context.Context, in TeamInput, players []PlayerInput) (*roster.Team, error) {
	const op = "roster.ensure_team"
	t, err := buildTeam(in)
	if err != nil {
		return nil, err
	}
	cards := make([]*roster.Player, 0, len(players))
	for _, pin := range players {
		p, err := buildPlayer(t.ID, pin)
		if err != nil {
			return nil, err
		}
		cards = append(cards, p)
	}

	teamID := t.ID
	created := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.teams.GetByName(inner, t.City, t.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			teamID = existing.ID
			return nil
		}
		if _, err := s.teams.Create(inner, []*roster.Team{t}); err != nil {
			return err
		}
		if _, err := s.players.Create(inner, cards); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		err = aggregates.MapError(op, err)
		if !domainagg.IsCode(err, domainagg.CodeConflict) {
			return nil, err
		}
		// Another caller created the same team between our lookup and insert.
		existing, lookupErr := s.teams.GetByName(dbctx.New(ctx), t.City, t.Name)
		if lookupErr != nil || existing == nil {
			return nil, err
		}
		teamID = existing.ID
	}
	if created {
		s.log.Info("team ensured", append(ctxutil.LogFields(ctx), "team_id", t.ID, "team", t.DisplayName(), "players", len(cards))...)
	}
	return s.GetTeam(ctx, teamID)
}

func buildTeam(in TeamInput) (*roster.Team, error) {
	const op = "roster.create_team"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domainagg.InvalidArgument(op, "team name is required")
	}
	return &roster.Team{
		ID:               uuid.New(),
		City:             strings.TrimSpace(in.City),
		Name:             name,
		ManagerFirstName: strings.TrimSpace(in.ManagerFirstName),
		ManagerLastName:  strings.TrimSpace(in.ManagerLastName),
	}, nil
}

func buildPlayer(teamID uuid.UUID, in PlayerInput) (*roster.Player, error) {
	const op = "roster.add_player"
	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return nil, domainagg.InvalidArgument(op, "player first and last name are required")
	}
	if in.Position < 1 || in.Position > 9 {
		return nil, domainagg.InvalidArgument(op, "position %d outside 1-9", in.Position)
	}
	if in.BattingAverage < 0 || in.BattingAverage > 1000 {
		return nil, domainagg.InvalidArgument(op, "batting average %d outside 0-1000", in.BattingAverage)
	}
	bats, err := handedness(op, "bats", in.Bats)
	if err != nil {
		return nil, err
	}
	throws, err := handedness(op, "throws", in.Throws)
	if err != nil {
		return nil, err
	}
	return &roster.Player{
		ID:             uuid.New(),
		TeamID:         teamID,
		FirstName:      first,
		LastName:       last,
		Year:           in.Year,
		Position:       in.Position,
		Bats:           bats,
		Throws:         throws,
		BattingAverage: in.BattingAverage,
	}, nil
}

// handedness accepts L, R or S (switch), defaulting to R.
func handedness(op, field, v string) (string, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	switch v {
	case "":
		return "R", nil
	case "L", "R", "S":
		return v, nil
	}
	return "", domainagg.InvalidEnum(op, "%s must be L, R or S, got %q", field, v)
}
