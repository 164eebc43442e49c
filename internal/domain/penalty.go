package domain

import "github.com/google/uuid"

// Side identifies which team a penalty was charged to.
// SideUnknown covers reports where the penalty table header could not be
// matched to either team name.
type Side string

const (
	SideHome    Side = "home"
	SideAway    Side = "away"
	SideUnknown Side = ""
)

// Penalty is one infraction from a game report's penalty table.
// Offence is the free-text description exactly as scraped; classification
// into categories happens at read time (stats.Classify), never at ingestion.
type Penalty struct {
	ID      uuid.UUID `json:"id"`
	GameID  uuid.UUID `json:"gameId"`
	Period  string    `json:"period"` // "1st", "2nd", "3rd", "OT", ...
	Minutes int       `json:"minutes"`
	Offence string    `json:"offence"`
	Side    Side      `json:"side,omitempty"`
}
