package stats

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mkoivu/stripes/backend/internal/domain"
)

// GameRef identifies one game in a duration extreme, with enough detail to
// link back to the source report.
type GameRef struct {
	GameID     uuid.UUID `json:"id"`
	ExternalID int64     `json:"externalId"`
	Date       time.Time `json:"date"`
	HomeTeam   string    `json:"homeTeam"`
	AwayTeam   string    `json:"awayTeam"`
	Minutes    int       `json:"minutes"`
}

// DurationStats summarizes wall-clock game length across games with a known
// duration.
type DurationStats struct {
	AverageMinutes int     `json:"averageMinutes"`
	Longest        GameRef `json:"longest"`
	Shortest       GameRef `json:"shortest"`
}

// Durations computes the average (rounded to the nearest minute), longest,
// and shortest game over the games whose duration is known. Games with nil
// duration never participate; when every duration is unknown the result is
// nil, not zeroes.
//
// Equal-duration extremes resolve to the earlier game by date, then by
// external id, so the result is stable across map-order runs.
func Durations(games []domain.OfficialGame) *DurationStats {
	var (
		sum      int
		count    int
		longest  *domain.OfficialGame
		shortest *domain.OfficialGame
	)

	for i := range games {
		g := &games[i]
		if g.Duration == nil {
			continue
		}
		sum += *g.Duration
		count++
		if longest == nil || *g.Duration > *longest.Duration ||
			(*g.Duration == *longest.Duration && beforeGame(g, longest)) {
			longest = g
		}
		if shortest == nil || *g.Duration < *shortest.Duration ||
			(*g.Duration == *shortest.Duration && beforeGame(g, shortest)) {
			shortest = g
		}
	}

	if count == 0 {
		return nil
	}

	return &DurationStats{
		AverageMinutes: int(math.Round(float64(sum) / float64(count))),
		Longest:        gameRef(longest),
		Shortest:       gameRef(shortest),
	}
}

func gameRef(g *domain.OfficialGame) GameRef {
	return GameRef{
		GameID:     g.GameID,
		ExternalID: g.ExternalID,
		Date:       g.Date,
		HomeTeam:   g.HomeTeam,
		AwayTeam:   g.AwayTeam,
		Minutes:    *g.Duration,
	}
}

func beforeGame(a, b *domain.OfficialGame) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.ExternalID < b.ExternalID
}
