package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nedgladstone/cardball/internal/data/aggregates"
	"github.com/nedgladstone/cardball/internal/data/repos"
	domainagg "github.com/nedgladstone/cardball/internal/domain/aggregates"
	"github.com/nedgladstone/cardball/internal/domain/game"
	"github.com/nedgladstone/cardball/internal/observability"
	"github.com/nedgladstone/cardball/internal/platform/ctxutil"
	"github.com/nedgladstone/cardball/internal/platform/dbctx"
	"github.com/nedgladstone/cardball/internal/platform/logger"
)

type CreateGameInput struct {
	Name           string    `json:"name"`
	VisitingTeamID uuid.UUID `json:"visitingTeamId"`
	HomeTeamID     uuid.UUID `json:"homeTeamId"`
}

// ActionInput is one play to record; a nil ParentID records a new root action.
// Results are recorded beneath it depth-first in the same write; they take their
// parent from the nesting and must not set ParentID.
type ActionInput struct {
	ParentID *uuid.UUID `json:"parentId,omitempty"`
	game.ActionData
	Results []ActionInput `json:"results,omitempty"`
}

type GameService interface {
	Create(ctx context.Context, in CreateGameInput) (*GameView, error)
	Get(ctx context.Context, id uuid.UUID) (*GameView, error)
	List(ctx context.Context, limit int) ([]*GameView, error)
	Status(ctx context.Context, id uuid.UUID) (game.Status, error)
	Lineups(ctx context.Context, id uuid.UUID) (*LineupsView, error)
	PutLineup(ctx context.Context, id uuid.UUID, side string, defs []game.ParticipantDefinition) ([]game.Participant, error)
	PostStrategy(ctx context.Context, id uuid.UUID, role string, text string) (game.Status, error)
	Strategies(ctx context.Context, id uuid.UUID) ([]game.Strategy, error)
	// RecordAction appends in and its nested results atomically and returns the new subtree.
	RecordAction(ctx context.Context, id uuid.UUID, in ActionInput) (*ActionTree, error)
	// Actions returns the action forest flattened depth-first in insertion order.
	Actions(ctx context.Context, id uuid.UUID) ([]game.Action, error)
	// ActionForest returns the root actions with their results nested.
	ActionForest(ctx context.Context, id uuid.UUID) ([]*ActionTree, error)
	Complete(ctx context.Context, id uuid.UUID) (*GameView, error)
	// CreateDemo seeds two teams and a short game with a root play and one result.
	CreateDemo(ctx context.Context) (*GameView, error)
}

type GameServiceDeps struct {
	Log       *logger.Logger
	Games     repos.GameRepo
	Aggregate aggregates.GameAggregate
	Roster    RosterService
	Notifier  GameNotifier
	Metrics   *observability.Metrics
	// Now defaults to time.Now.
	Now func() time.Time
}

type gameService struct {
	log     *logger.Logger
	games   repos.GameRepo
	agg     aggregates.GameAggregate
	roster  RosterService
	notify  GameNotifier
	metrics *observability.Metrics
	now     func() time.Time
}

func NewGameService(deps GameServiceDeps) GameService {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	notify := deps.Notifier
	if notify == nil {
		notify = NewGameNotifier(nil)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &gameService{
		log:     log.With("service", "GameService"),
		games:   deps.Games,
		agg:     deps.Aggregate,
		roster:  deps.Roster,
		notify:  notify,
		metrics: deps.Metrics,
		now:     now,
	}
}

func gameAttr(id uuid.UUID) attribute.KeyValue {
	return attribute.String("game.id", id.String())
}

func (s *gameService) logFields(ctx context.Context, kv ...any) []any {
	return append(ctxutil.LogFields(ctx), kv...)
}

func (s *gameService) Create(ctx context.Context, in CreateGameInput) (_ *GameView, err error) {
	ctx, span := startSpan(ctx, "GameService.Create")
	defer func() { endSpan(span, err) }()

	g, err := game.New(in.Name, in.VisitingTeamID, in.HomeTeamID)
	if err != nil {
		return nil, err
	}
	if err := s.agg.Create(ctx, g); err != nil {
		return nil, err
	}
	span.SetAttributes(gameAttr(g.ID))
	s.metrics.IncGameMutation("create")
	s.log.Info("game created", s.logFields(ctx, "game_id", g.ID, "name", g.Name)...)

	view := newGameView(g)
	s.notify.GameCreated(ctx, view)
	return view, nil
}

func (s *gameService) load(ctx context.Context, id uuid.UUID) (*game.Game, error) {
	if id == uuid.Nil {
		return nil, domainagg.InvalidArgument("games.find", "missing game id")
	}
	return s.games.FindByID(dbctx.New(ctx), id)
}

func (s *gameService) Get(ctx context.Context, id uuid.UUID) (_ *GameView, err error) {
	ctx, span := startSpan(ctx, "GameService.Get", gameAttr(id))
	defer func() { endSpan(span, err) }()

	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return newGameView(g), nil
}

func (s *gameService) List(ctx context.Context, limit int) (_ []*GameView, err error) {
	ctx, span := startSpan(ctx, "GameService.List")
	defer func() { endSpan(span, err) }()

	gs, err := s.games.FindAll(dbctx.New(ctx), limit)
	if err != nil {
		return nil, err
	}
	out := make([]*GameView, 0, len(gs))
	for _, g := range gs {
		out = append(out, newGameView(g))
	}
	return out, nil
}

func (s *gameService) Status(ctx context.Context, id uuid.UUID) (_ game.Status, err error) {
	ctx, span := startSpan(ctx, "GameService.Status", gameAttr(id))
	defer func() { endSpan(span, err) }()

	g, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	return g.Status(), nil
}

func (s *gameService) Lineups(ctx context.Context, id uuid.UUID) (_ *LineupsView, err error) {
	ctx, span := startSpan(ctx, "GameService.Lineups", gameAttr(id))
	defer func() { endSpan(span, err) }()

	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LineupsView{
		Visiting: nonNil(g.Lineup(game.SideVisiting)),
		Home:     nonNil(g.Lineup(game.SideHome)),
	}, nil
}

func (s *gameService) PutLineup(ctx context.Context, id uuid.UUID, sideToken string, defs []game.ParticipantDefinition) (_ []game.Participant, err error) {
	ctx, span := startSpan(ctx, "GameService.PutLineup", gameAttr(id), attribute.String("game.side", sideToken))
	defer func() { endSpan(span, err) }()

	side, err := game.ParseSide(sideToken)
	if err != nil {
		return nil, err
	}
	var lineup []game.Participant
	g, err := s.agg.Mutate(ctx, "game.put_lineup", id, func(ctx context.Context, g *game.Game, players game.Roster) error {
		installed, err := g.PutLineup(ctx, side, defs, players)
		if err != nil {
			return err
		}
		lineup = installed
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncGameMutation("lineup")
	s.log.Info("lineup put", s.logFields(ctx, "game_id", id, "side", side, "participants", len(lineup))...)
	s.notify.LineupPut(ctx, id, side, lineup, g.Status())
	return nonNil(lineup), nil
}

func (s *gameService) PostStrategy(ctx context.Context, id uuid.UUID, roleToken string, text string) (_ game.Status, err error) {
	ctx, span := startSpan(ctx, "GameService.PostStrategy", gameAttr(id), attribute.String("game.role", roleToken))
	defer func() { endSpan(span, err) }()

	role, err := game.ParseRole(roleToken)
	if err != nil {
		return "", err
	}
	at := s.now().UTC()
	var status game.Status
	g, err := s.agg.Mutate(ctx, "game.post_strategy", id, func(_ context.Context, g *game.Game, _ game.Roster) error {
		st, err := g.PostStrategy(role, text, at)
		if err != nil {
			return err
		}
		status = st
		return nil
	})
	if err != nil {
		return "", err
	}
	posted, _ := g.Strategies().Get(role)
	s.metrics.IncGameMutation("strategy")
	s.log.Info("strategy posted", s.logFields(ctx, "game_id", id, "role", role, "status", status)...)
	s.notify.StrategyPosted(ctx, id, posted, status)
	return status, nil
}

func (s *gameService) Strategies(ctx context.Context, id uuid.UUID) (_ []game.Strategy, err error) {
	ctx, span := startSpan(ctx, "GameService.Strategies", gameAttr(id))
	defer func() { endSpan(span, err) }()

	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := g.Strategies().All()
	if out == nil {
		out = []game.Strategy{}
	}
	return out, nil
}

func (s *gameService) RecordAction(ctx context.Context, id uuid.UUID, in ActionInput) (_ *ActionTree, err error) {
	ctx, span := startSpan(ctx, "GameService.RecordAction", gameAttr(id))
	defer func() { endSpan(span, err) }()

	at := s.now().UTC()
	var recorded *ActionTree
	g, err := s.agg.Mutate(ctx, "game.record_action", id, func(_ context.Context, g *game.Game, _ game.Roster) error {
		tree, err := recordTree(g, in.ParentID, in, at)
		if err != nil {
			return err
		}
		recorded = tree
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncGameMutation("action")
	status := g.Status()
	for _, a := range recorded.flatten() {
		s.log.Info("action recorded", s.logFields(ctx,
			"game_id", id,
			"action_id", a.ID,
			"parent_id", a.ParentID,
			"play", a.Play,
		)...)
		s.notify.ActionRecorded(ctx, id, a, status)
	}
	return recorded, nil
}

// recordTree appends in under parentID, then each of its results beneath it.
func recordTree(g *game.Game, parentID *uuid.UUID, in ActionInput, at time.Time) (*ActionTree, error) {
	data := in.ActionData
	if data.Timestamp.IsZero() {
		data.Timestamp = at
	}
	a, err := g.RecordAction(data, parentID)
	if err != nil {
		return nil, err
	}
	node := &ActionTree{Action: a}
	for _, child := range in.Results {
		if child.ParentID != nil {
			return nil, domainagg.InvalidArgument("game.record_action", "nested result must not set parentId")
		}
		sub, err := recordTree(g, &a.ID, child, at)
		if err != nil {
			return nil, err
		}
		node.Results = append(node.Results, sub)
	}
	return node, nil
}

func (s *gameService) Actions(ctx context.Context, id uuid.UUID) (_ []game.Action, err error) {
	ctx, span := startSpan(ctx, "GameService.Actions", gameAttr(id))
	defer func() { endSpan(span, err) }()

	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]game.Action, 0, g.Chain().Len())
	for a := range g.Chain().Flatten() {
		out = append(out, a)
	}
	return out, nil
}

func (s *gameService) ActionForest(ctx context.Context, id uuid.UUID) (_ []*ActionTree, err error) {
	ctx, span := startSpan(ctx, "GameService.ActionForest", gameAttr(id))
	defer func() { endSpan(span, err) }()

	g, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := []*ActionTree{}
	for root := range g.Chain().Roots() {
		out = append(out, newActionTree(g.Chain(), root))
	}
	return out, nil
}

func (s *gameService) Complete(ctx context.Context, id uuid.UUID) (_ *GameView, err error) {
	ctx, span := startSpan(ctx, "GameService.Complete", gameAttr(id))
	defer func() { endSpan(span, err) }()

	at := s.now().UTC()
	already := false
	g, err := s.agg.Mutate(ctx, "game.complete", id, func(_ context.Context, g *game.Game, _ game.Roster) error {
		already = g.CompletedAt() != nil
		return g.Complete(at)
	})
	if err != nil {
		return nil, err
	}
	view := newGameView(g)
	if already {
		return view, nil
	}
	s.metrics.IncGameMutation("complete")
	s.log.Info("game completed", s.logFields(ctx, "game_id", id, "actions", view.ActionCount)...)
	s.notify.GameCompleted(ctx, view)
	return view, nil
}
