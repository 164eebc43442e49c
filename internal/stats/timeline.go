package stats

import (
	"sort"
	"time"

	"github.com/mkoivu/stripes/backend/internal/domain"
)

// TimelineEvent is one game appearance feeding a games-over-time series.
type TimelineEvent struct {
	Date time.Time
	Role domain.Role
}

// TimelineBucket is one period of a games-over-time series with
// role-partitioned counts. Periods with no games carry all-zero counts.
type TimelineBucket struct {
	Period      string `json:"period"`
	Total       int    `json:"total"`
	Referee     int    `json:"referee"`
	Linesperson int    `json:"linesperson"`
}

// BuildTimeline buckets events by period at the given granularity and returns
// a contiguous, gap-filled series from the first observed period to the last.
// The output depends only on the event set, not on its order.
func BuildTimeline(events []TimelineEvent, g Granularity) []TimelineBucket {
	if len(events) == 0 {
		return []TimelineBucket{}
	}

	byPeriod := make(map[string]*TimelineBucket)
	for _, e := range events {
		period := PeriodLabel(e.Date, g)
		b := byPeriod[period]
		if b == nil {
			b = &TimelineBucket{Period: period}
			byPeriod[period] = b
		}
		b.Total++
		if e.Role == domain.RoleReferee {
			b.Referee++
		} else {
			b.Linesperson++
		}
	}

	observed := make([]string, 0, len(byPeriod))
	for period := range byPeriod {
		observed = append(observed, period)
	}
	sort.Strings(observed)

	axis := FillGaps(observed, g)
	series := make([]TimelineBucket, len(axis))
	for i, period := range axis {
		if b := byPeriod[period]; b != nil {
			series[i] = *b
		} else {
			series[i] = TimelineBucket{Period: period}
		}
	}
	return series
}
