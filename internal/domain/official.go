// Package domain contains the core data types for the officiating stats API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, stats, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the capacity in which an official worked a game.
type Role string

const (
	RoleReferee     Role = "referee"
	RoleLinesperson Role = "linesperson"
)

// Official is a referee or linesperson. One record exists per distinct name
// encountered during ingestion; officials are never deleted.
//
// The recognition flags (Original57 and the pro-league crossover flags) are
// set by out-of-band administrative updates, never by the scraper or the
// aggregation engine.
type Official struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Original57 bool      `json:"original57"`
	AHL        bool      `json:"ahl"`
	ECHL       bool      `json:"echl"`
	PWHL       bool      `json:"pwhl"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OfficialSummary is the officials-list row: identity plus role-partitioned
// career game counts.
type OfficialSummary struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	TotalGames       int       `json:"totalGames"`
	RefereeGames     int       `json:"refereeGames"`
	LinespersonGames int       `json:"linespersonGames"`
}
