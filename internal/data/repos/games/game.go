package games

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nedgladstone/cardball/internal/domain/aggregates"
	"github.com/nedgladstone/cardball/internal/domain/game"
	"github.com/nedgladstone/cardball/internal/platform/dbctx"
	"github.com/nedgladstone/cardball/internal/platform/logger"
)

// ErrStaleVersion is the cause of the conflict Update returns when another writer won.
var ErrStaleVersion = errors.New("stale game version")

// GameRepo persists whole game aggregates.
type GameRepo interface {
	Save(dbc dbctx.Context, g *game.Game) error
	FindByID(dbc dbctx.Context, id uuid.UUID) (*game.Game, error)
	FindAll(dbc dbctx.Context, limit int) ([]*game.Game, error)
	// Update writes g if the stored version still equals g.Version, then bumps it.
	// Action rows are append-only: only actions beyond the stored count are inserted.
	Update(dbc dbctx.Context, g *game.Game) error
}

type gameRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGameRepo(db *gorm.DB, log *logger.Logger) GameRepo {
	return &gameRepo{db: db, log: log.With("repo", "GameRepo")}
}

func (r *gameRepo) Save(dbc dbctx.Context, g *game.Game) error {
	if g == nil {
		return aggregates.InvalidArgument("games.save", "missing game")
	}
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	snap := g.Snapshot()
	txx := dbc.DB(r.db)
	now := time.Now().UTC()
	rec := &GameRecord{
		ID:             snap.ID,
		Name:           snap.Name,
		VisitingTeamID: snap.VisitingTeamID,
		HomeTeamID:     snap.HomeTeamID,
		CompletedAt:    snap.CompletedAt,
		Version:        snap.Version,
		CreatedAt:      snap.CreatedAt,
		UpdatedAt:      now,
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if err := txx.Create(rec).Error; err != nil {
		return err
	}
	if err := r.writeLineups(txx, snap); err != nil {
		return err
	}
	if err := r.writeStrategies(txx, snap); err != nil {
		return err
	}
	return r.appendActions(txx, snap.ID, snap.Actions, 0)
}

func (r *gameRepo) FindByID(dbc dbctx.Context, id uuid.UUID) (*game.Game, error) {
	if id == uuid.Nil {
		return nil, aggregates.InvalidArgument("games.find", "missing game id")
	}
	txx := dbc.DB(r.db)
	var rec GameRecord
	if err := txx.Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, aggregates.NotFound("games.find", "game %s does not exist", id)
		}
		return nil, err
	}
	out, err := r.hydrate(txx, []*GameRecord{&rec})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *gameRepo) FindAll(dbc dbctx.Context, limit int) ([]*game.Game, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	txx := dbc.DB(r.db)
	var recs []*GameRecord
	if err := txx.Order("created_at ASC").Limit(limit).Find(&recs).Error; err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return []*game.Game{}, nil
	}
	return r.hydrate(txx, recs)
}

func (r *gameRepo) Update(dbc dbctx.Context, g *game.Game) error {
	if g == nil || g.ID == uuid.Nil {
		return aggregates.InvalidArgument("games.update", "missing game")
	}
	snap := g.Snapshot()
	txx := dbc.DB(r.db)

	ok, err := updateByVersion(txx, snap.ID, snap.Version, map[string]any{
		"name":         snap.Name,
		"completed_at": snap.CompletedAt,
	})
	if err != nil {
		return err
	}
	if !ok {
		var n int64
		if err := txx.Model(&GameRecord{}).Where("id = ?", snap.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return aggregates.NotFound("games.update", "game %s does not exist", snap.ID)
		}
		return aggregates.NewError(aggregates.CodeConflict, "games.update",
			fmt.Sprintf("game %s was modified concurrently (version %d)", snap.ID, snap.Version), ErrStaleVersion)
	}

	if err := txx.Where("game_id = ?", snap.ID).Delete(&ParticipantRecord{}).Error; err != nil {
		return err
	}
	if err := r.writeLineups(txx, snap); err != nil {
		return err
	}
	if err := txx.Where("game_id = ?", snap.ID).Delete(&StrategyRecord{}).Error; err != nil {
		return err
	}
	if err := r.writeStrategies(txx, snap); err != nil {
		return err
	}

	var stored int64
	if err := txx.Model(&ActionRecord{}).Where("game_id = ?", snap.ID).Count(&stored).Error; err != nil {
		return err
	}
	if int(stored) > len(snap.Actions) {
		return aggregates.NewError(aggregates.CodeConflict, "games.update",
			fmt.Sprintf("game %s has %d stored actions, aggregate holds %d", snap.ID, stored, len(snap.Actions)), ErrStaleVersion)
	}
	if err := r.appendActions(txx, snap.ID, snap.Actions, int(stored)); err != nil {
		return err
	}
	g.Version = snap.Version + 1
	return nil
}

func (r *gameRepo) writeLineups(txx *gorm.DB, snap game.Snapshot) error {
	rows := append(participantRecords(snap.ID, snap.Visiting), participantRecords(snap.ID, snap.Home)...)
	if len(rows) == 0 {
		return nil
	}
	return txx.Create(&rows).Error
}

func (r *gameRepo) writeStrategies(txx *gorm.DB, snap game.Snapshot) error {
	rows := strategyRecords(snap.ID, snap.Strategies)
	if len(rows) == 0 {
		return nil
	}
	return txx.Create(&rows).Error
}

func (r *gameRepo) appendActions(txx *gorm.DB, gameID uuid.UUID, actions []game.Action, from int) error {
	if from >= len(actions) {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]*ActionRecord, 0, len(actions)-from)
	for _, a := range actions[from:] {
		rec := actionRecord(gameID, a)
		rec.CreatedAt = now
		rows = append(rows, rec)
	}
	return txx.Create(&rows).Error
}

// hydrate loads child rows for recs in bulk and restores each aggregate.
func (r *gameRepo) hydrate(txx *gorm.DB, recs []*GameRecord) ([]*game.Game, error) {
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}

	var parts []*ParticipantRecord
	if err := txx.Where("game_id IN ?", ids).Order("batting_order ASC").Find(&parts).Error; err != nil {
		return nil, err
	}
	var acts []*ActionRecord
	if err := txx.Where("game_id IN ?", ids).Order("seq ASC").Find(&acts).Error; err != nil {
		return nil, err
	}
	var strats []*StrategyRecord
	if err := txx.Where("game_id IN ?", ids).Find(&strats).Error; err != nil {
		return nil, err
	}

	snaps := make(map[uuid.UUID]*game.Snapshot, len(recs))
	for _, rec := range recs {
		snaps[rec.ID] = &game.Snapshot{
			ID:             rec.ID,
			Name:           rec.Name,
			VisitingTeamID: rec.VisitingTeamID,
			HomeTeamID:     rec.HomeTeamID,
			CompletedAt:    rec.CompletedAt,
			CreatedAt:      rec.CreatedAt.UTC(),
			Version:        rec.Version,
		}
	}
	for _, p := range parts {
		s := snaps[p.GameID]
		if s == nil {
			continue
		}
		part := game.Participant{
			Side:             game.Side(p.Side),
			BattingOrder:     p.BattingOrder,
			FieldingPosition: p.FieldingPosition,
			PlayerID:         p.PlayerID,
		}
		if part.Side == game.SideHome {
			s.Home = append(s.Home, part)
		} else {
			s.Visiting = append(s.Visiting, part)
		}
	}
	for _, a := range acts {
		if s := snaps[a.GameID]; s != nil {
			s.Actions = append(s.Actions, a.toDomain())
		}
	}
	for _, st := range strats {
		if s := snaps[st.GameID]; s != nil {
			s.Strategies = append(s.Strategies, game.Strategy{Role: game.Role(st.Role), Text: st.Text, PostedAt: st.PostedAt})
		}
	}

	out := make([]*game.Game, 0, len(recs))
	for _, rec := range recs {
		g, err := game.Restore(*snaps[rec.ID])
		if err != nil {
			r.log.Error("stored game failed to restore", "game_id", rec.ID, "error", err)
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
