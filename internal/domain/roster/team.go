package roster

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Team struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	City             string `gorm:"column:city;not null;default:''" json:"city"`
	Name             string `gorm:"column:name;not null;index" json:"name"`
	ManagerFirstName string `gorm:"column:manager_first_name;not null;default:''" json:"managerFirstName"`
	ManagerLastName  string `gorm:"column:manager_last_name;not null;default:''" json:"managerLastName"`

	Players []Player `gorm:"foreignKey:TeamID" json:"players,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Team) TableName() string { return "team" }

func (t *Team) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// DisplayName is "City Name", or just the name when no city is set.
func (t Team) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(t.City) + " " + strings.TrimSpace(t.Name))
}
