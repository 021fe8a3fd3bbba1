package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/nedgladstone/cardball/internal/domain/game"
	"github.com/nedgladstone/cardball/internal/realtime"
)

// GameNotifier announces committed game mutations to live feed subscribers.
type GameNotifier interface {
	GameCreated(ctx context.Context, g *GameView)
	LineupPut(ctx context.Context, gameID uuid.UUID, side game.Side, lineup []game.Participant, status game.Status)
	StrategyPosted(ctx context.Context, gameID uuid.UUID, strategy game.Strategy, status game.Status)
	ActionRecorded(ctx context.Context, gameID uuid.UUID, action game.Action, status game.Status)
	GameCompleted(ctx context.Context, g *GameView)
}

type gameNotifier struct {
	emit SSEEmitter
}

func NewGameNotifier(emit SSEEmitter) GameNotifier {
	return &gameNotifier{emit: emit}
}

func (n *gameNotifier) send(ctx context.Context, channel string, event realtime.SSEEvent, data any) {
	if n == nil || n.emit == nil {
		return
	}
	n.emit.Emit(context.WithoutCancel(ctx), realtime.SSEMessage{Channel: channel, Event: event, Data: data})
}

func (n *gameNotifier) GameCreated(ctx context.Context, g *GameView) {
	if g == nil {
		return
	}
	n.send(ctx, realtime.GameChannel(g.ID), realtime.SSEEventGameCreated, map[string]any{"game": g})
	n.send(ctx, realtime.GamesChannel, realtime.SSEEventGameCreated, map[string]any{"game": g})
}

func (n *gameNotifier) LineupPut(ctx context.Context, gameID uuid.UUID, side game.Side, lineup []game.Participant, status game.Status) {
	n.send(ctx, realtime.GameChannel(gameID), realtime.SSEEventLineupPut, map[string]any{
		"game_id": gameID,
		"side":    side,
		"lineup":  lineup,
		"status":  status,
	})
}

func (n *gameNotifier) StrategyPosted(ctx context.Context, gameID uuid.UUID, strategy game.Strategy, status game.Status) {
	n.send(ctx, realtime.GameChannel(gameID), realtime.SSEEventStrategyPosted, map[string]any{
		"game_id":  gameID,
		"strategy": strategy,
		"status":   status,
	})
}

func (n *gameNotifier) ActionRecorded(ctx context.Context, gameID uuid.UUID, action game.Action, status game.Status) {
	n.send(ctx, realtime.GameChannel(gameID), realtime.SSEEventActionRecorded, map[string]any{
		"game_id": gameID,
		"action":  action,
		"status":  status,
	})
}

func (n *gameNotifier) GameCompleted(ctx context.Context, g *GameView) {
	if g == nil {
		return
	}
	n.send(ctx, realtime.GameChannel(g.ID), realtime.SSEEventGameCompleted, map[string]any{"game": g})
}
