package domain

import (
	"time"

	"github.com/google/uuid"
)

// Team is a club that appears in game reports. One record exists per distinct
// name encountered during ingestion.
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
