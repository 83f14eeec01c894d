package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlayerSeason is one player's line for one season, synced from the stats
// provider. Metrics holds the full raw payload so new model features do
// not need schema migrations.
type PlayerSeason struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PlayerName     string    `gorm:"not null" json:"player_name"`
	NormalizedName string    `gorm:"uniqueIndex:idx_player_season;not null" json:"normalized_name"`
	Season         int       `gorm:"uniqueIndex:idx_player_season;index;not null" json:"season"`
	Position       string    `gorm:"size:10" json:"position"`
	Age            int       `json:"age"`
	WAR            float64   `json:"war"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Raw provider metrics stored as JSON
	Metrics datatypes.JSON `json:"metrics"`
}

// TableName specifies the table name for GORM
func (PlayerSeason) TableName() string {
	return "player_seasons"
}
