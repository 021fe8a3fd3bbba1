package games

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/nedgladstone/cardball/internal/domain/game"
)

type GameRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	VisitingTeamID uuid.UUID `gorm:"type:uuid;column:visiting_team_id;not null;index"`
	HomeTeamID     uuid.UUID `gorm:"type:uuid;column:home_team_id;not null;index"`

	// Set by the external completion signal.
	CompletedAt *time.Time `gorm:"column:completed_at"`
	Version     int        `gorm:"column:version;not null;default:0"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (GameRecord) TableName() string { return "game" }

type ParticipantRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	GameID           uuid.UUID `gorm:"type:uuid;column:game_id;not null;index"`
	Side             string    `gorm:"column:side;not null"`
	BattingOrder     int       `gorm:"column:batting_order;not null"`
	FieldingPosition int       `gorm:"column:fielding_position;not null"`
	PlayerID         uuid.UUID `gorm:"type:uuid;column:player_id;not null;index"`
}

func (ParticipantRecord) TableName() string { return "game_participant" }

// ActionRecord is one node of a game's action forest. Rows are insert-only.
type ActionRecord struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	GameID   uuid.UUID  `gorm:"type:uuid;column:game_id;not null;index"`
	ParentID *uuid.UUID `gorm:"type:uuid;column:parent_id;index"`
	Seq      int        `gorm:"column:seq;not null"`

	BeforeState datatypes.JSON `gorm:"column:before_state"`
	WhileState  datatypes.JSON `gorm:"column:while_state"`
	AfterState  datatypes.JSON `gorm:"column:after_state"`

	Outs    int `gorm:"column:outs;not null;default:0"`
	Balls   int `gorm:"column:balls;not null;default:0"`
	Strikes int `gorm:"column:strikes;not null;default:0"`

	BatterID  *uuid.UUID `gorm:"type:uuid;column:batter_id"`
	Timestamp time.Time  `gorm:"column:timestamp;not null"`

	Runs int `gorm:"column:runs;not null;default:0"`
	RBI  int `gorm:"column:rbi;not null;default:0"`

	Play                string `gorm:"column:play;not null;default:''"`
	Modifier            string `gorm:"column:modifier;not null;default:''"`
	BasesAdvanced       int    `gorm:"column:bases_advanced;not null;default:0"`
	Scoring             bool   `gorm:"column:scoring;not null;default:false"`
	EndsPlateAppearance bool   `gorm:"column:ends_plate_appearance;not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
}

func (ActionRecord) TableName() string { return "game_action" }

type StrategyRecord struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	GameID   uuid.UUID `gorm:"type:uuid;column:game_id;not null;index"`
	Role     string    `gorm:"column:role;not null"`
	Text     string    `gorm:"column:text;type:text;not null"`
	PostedAt time.Time `gorm:"column:posted_at;not null"`
}

func (StrategyRecord) TableName() string { return "game_strategy" }

func participantRecords(gameID uuid.UUID, ps []game.Participant) []*ParticipantRecord {
	out := make([]*ParticipantRecord, 0, len(ps))
	for _, p := range ps {
		out = append(out, &ParticipantRecord{
			ID:               uuid.New(),
			GameID:           gameID,
			Side:             string(p.Side),
			BattingOrder:     p.BattingOrder,
			FieldingPosition: p.FieldingPosition,
			PlayerID:         p.PlayerID,
		})
	}
	return out
}

func strategyRecords(gameID uuid.UUID, ss []game.Strategy) []*StrategyRecord {
	out := make([]*StrategyRecord, 0, len(ss))
	for _, s := range ss {
		out = append(out, &StrategyRecord{
			ID:       uuid.New(),
			GameID:   gameID,
			Role:     string(s.Role),
			Text:     s.Text,
			PostedAt: s.PostedAt,
		})
	}
	return out
}

func actionRecord(gameID uuid.UUID, a game.Action) *ActionRecord {
	rec := &ActionRecord{
		ID:                  a.ID,
		GameID:              gameID,
		Seq:                 a.Seq,
		BeforeState:         jsonColumn(a.Before),
		WhileState:          jsonColumn(a.While),
		AfterState:          jsonColumn(a.After),
		Outs:                a.Outs,
		Balls:               a.Balls,
		Strikes:             a.Strikes,
		Timestamp:           a.Timestamp.UTC(),
		Runs:                a.Runs,
		RBI:                 a.RBI,
		Play:                a.Play,
		Modifier:            a.Modifier,
		BasesAdvanced:       a.BasesAdvanced,
		Scoring:             a.Scoring,
		EndsPlateAppearance: a.EndsPlateAppearance,
	}
	if a.ParentID != uuid.Nil {
		p := a.ParentID
		rec.ParentID = &p
	}
	if a.BatterID != uuid.Nil {
		b := a.BatterID
		rec.BatterID = &b
	}
	return rec
}

func (r *ActionRecord) toDomain() game.Action {
	a := game.Action{
		ID:  r.ID,
		Seq: r.Seq,
		ActionData: game.ActionData{
			Before:              rawJSON(r.BeforeState),
			While:               rawJSON(r.WhileState),
			After:               rawJSON(r.AfterState),
			Outs:                r.Outs,
			Balls:               r.Balls,
			Strikes:             r.Strikes,
			Timestamp:           r.Timestamp.UTC(),
			Runs:                r.Runs,
			RBI:                 r.RBI,
			Play:                r.Play,
			Modifier:            r.Modifier,
			BasesAdvanced:       r.BasesAdvanced,
			Scoring:             r.Scoring,
			EndsPlateAppearance: r.EndsPlateAppearance,
		},
	}
	if r.ParentID != nil {
		a.ParentID = *r.ParentID
	}
	if r.BatterID != nil {
		a.BatterID = *r.BatterID
	}
	return a
}

func jsonColumn(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 {
		return nil
	}
	return datatypes.JSON(raw)
}

func rawJSON(col datatypes.JSON) json.RawMessage {
	if len(col) == 0 {
		return nil
	}
	return json.RawMessage(col)
}
