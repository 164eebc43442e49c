package domain

import (
	"time"

	"github.com/google/uuid"
)

// Game is one played game as parsed from an official game report.
//
// Season is derived from Date at ingestion time (September through August,
// labeled "YYYY-YY"). StartTime and EndTime are the raw wall-clock strings
// from the report ("7:02 PM"); Duration is derived from them in minutes and
// is nil when either endpoint is missing or unparseable.
type Game struct {
	ID         uuid.UUID `json:"id"`
	ExternalID int64     `json:"externalId"`
	Date       time.Time `json:"date"`
	Season     string    `json:"season"`
	Location   string    `json:"location"`
	StartTime  *string   `json:"startTime,omitempty"`
	EndTime    *string   `json:"endTime,omitempty"`
	Duration   *int      `json:"duration,omitempty"` // minutes
	HomeTeamID uuid.UUID `json:"-"`
	AwayTeamID uuid.UUID `json:"-"`
	HomeTeam   string    `json:"homeTeam"`
	AwayTeam   string    `json:"awayTeam"`
	CreatedAt  time.Time `json:"created_at"`
}

// Assignment links one official to one game in one role.
// An official holds at most one assignment per game per role.
type Assignment struct {
	ID         uuid.UUID `json:"id"`
	GameID     uuid.UUID `json:"gameId"`
	OfficialID uuid.UUID `json:"officialId"`
	Role       Role      `json:"role"`
}

// OfficialGame is an assignment joined with its game and team names, as
// consumed by the aggregation engine. One row per assignment of one official.
type OfficialGame struct {
	GameID     uuid.UUID `json:"id"`
	ExternalID int64     `json:"externalId"`
	Date       time.Time `json:"date"`
	Season     string    `json:"season"`
	Location   string    `json:"location"`
	Duration   *int      `json:"duration,omitempty"`
	HomeTeam   string    `json:"homeTeam"`
	AwayTeam   string    `json:"awayTeam"`
	Role       Role      `json:"role"`
}

// AssignmentRow is a flat assignment record joined with the official's name
// and the game's season and date. Used for population-wide ranking and for
// co-official (chemistry) analysis.
type AssignmentRow struct {
	OfficialID   uuid.UUID
	OfficialName string
	Role         Role
	GameID       uuid.UUID
	Season       string
	Date         time.Time
}
