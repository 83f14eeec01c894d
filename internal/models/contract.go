package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/jstittsworth/contract-advisor/internal/valuation"
)

// Contract is one historical free-agent signing or extension. AAV and
// TotalValue are in millions of dollars. StatsAtSigning holds the player's
// three-year line as of the signing date; WAR3yr is denormalized out of it
// for indexed comparable queries.
type Contract struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PlayerName     string    `gorm:"not null" json:"player_name"`
	NormalizedName string    `gorm:"index;not null" json:"normalized_name"`
	Position       string    `gorm:"size:10;not null" json:"position"`
	YearSigned     int       `gorm:"index;not null" json:"year_signed"`
	AgeAtSigning   int       `gorm:"not null" json:"age_at_signing"`
	AAV            float64   `gorm:"not null" json:"aav"`
	TotalValue     float64   `json:"total_value"`
	Length         int       `gorm:"not null" json:"length"`
	WAR3yr         float64   `gorm:"column:war_3yr" json:"war_3yr"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Stat line at signing, stored as JSON
	StatsAtSigning datatypes.JSON `json:"stats_at_signing"`
}

// TableName specifies the table name for GORM
func (Contract) TableName() string {
	return "contracts"
}

// ToRecord converts a stored contract into the valuation engine's record
// shape. A malformed stats blob degrades to an empty line; WAR3yr still
// carries the ranking signal.
func (c Contract) ToRecord() valuation.ContractRecord {
	var stats valuation.StatLine
	if len(c.StatsAtSigning) > 0 {
		_ = json.Unmarshal(c.StatsAtSigning, &stats)
	}
	return valuation.ContractRecord{
		PlayerName:     c.PlayerName,
		NormalizedName: c.NormalizedName,
		Position:       c.Position,
		YearSigned:     c.YearSigned,
		AgeAtSigning:   c.AgeAtSigning,
		AAV:            c.AAV,
		TotalValue:     c.TotalValue,
		Length:         c.Length,
		WAR3yr:         c.WAR3yr,
		Stats:          stats,
	}
}

// ContractRecords converts a query result set in table order.
func ContractRecords(contracts []Contract) []valuation.ContractRecord {
	out := make([]valuation.ContractRecord, len(contracts))
	for i, c := range contracts {
		out[i] = c.ToRecord()
	}
	return out
}
