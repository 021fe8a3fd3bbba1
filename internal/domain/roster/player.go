package roster

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Player is a card: a real player's season line. Position uses scorecard numbering (1-9).
type Player struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID uuid.UUID `gorm:"type:uuid;not null;index" json:"teamId"`

	FirstName string `gorm:"column:first_name;not null" json:"firstName"`
	LastName  string `gorm:"column:last_name;not null;index" json:"lastName"`
	Year      int    `gorm:"column:year;not null;default:0" json:"year"`
	Position  int    `gorm:"column:position;not null;default:0" json:"position"`
	Bats      string `gorm:"column:bats;size:1;not null;default:'R'" json:"bats"`
	Throws    string `gorm:"column:throws;size:1;not null;default:'R'" json:"throws"`
	// Batting average in thousandths (.308 -> 308).
	BattingAverage int `gorm:"column:batting_average;not null;default:0" json:"battingAverage"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Player) TableName() string { return "player" }

func (p *Player) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p Player) FullName() string { return p.FirstName + " " + p.LastName }
