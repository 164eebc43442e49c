package stats

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mkoivu/stripes/backend/internal/domain"
)

// topCoOfficials caps each chemistry list to the strongest pairings.
const topCoOfficials = 5

// SharedAssignment is one co-official's appearance on a game the subject also
// worked. Callers supply every assignment row on the subject's games except
// the subject's own.
type SharedAssignment struct {
	OfficialID uuid.UUID
	Name       string
	Role       domain.Role
	Date       time.Time
}

// ChemistryEntry is one co-official with shared-game totals and a per-period
// series aligned to Chemistry.Periods.
type ChemistryEntry struct {
	OfficialID  uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	SharedGames int       `json:"sharedGames"`
	Timeline    []int     `json:"timeline"`
}

// Chemistry holds the subject's strongest on-ice pairings, partitioned by the
// co-official's role. All selected entries share the single gap-filled Periods
// axis so their timelines plot on one aligned chart.
type Chemistry struct {
	Periods        []string         `json:"periods"`
	TopReferees    []ChemistryEntry `json:"topReferees"`
	TopLinespeople []ChemistryEntry `json:"topLinespeople"`
}

// BuildChemistry counts shared games per co-official per role and selects the
// top co-officials of each role by total shared games. Ties at the cut are
// broken alphabetically by name, a stable tiebreak; the cut is
// otherwise arbitrary when totals are equal.
//
// The granularity is Weekly when a single season is in scope and Seasonal for
// all-time scope (coarser than the monthly game timeline on purpose: pairings
// are read across seasons, individual workloads across months).
func BuildChemistry(shared []SharedAssignment, g Granularity) Chemistry {
	type key struct {
		id   uuid.UUID
		role domain.Role
	}
	type acc struct {
		entry    ChemistryEntry
		byPeriod map[string]int
	}

	accs := make(map[key]*acc)
	for _, s := range shared {
		k := key{id: s.OfficialID, role: s.Role}
		a := accs[k]
		if a == nil {
			a = &acc{
				entry:    ChemistryEntry{OfficialID: s.OfficialID, Name: s.Name},
				byPeriod: make(map[string]int),
			}
			accs[k] = a
		}
		a.entry.SharedGames++
		a.byPeriod[PeriodLabel(s.Date, g)]++
	}

	pick := func(role domain.Role) []*acc {
		var list []*acc
		for k, a := range accs {
			if k.role == role {
				list = append(list, a)
			}
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].entry.SharedGames != list[j].entry.SharedGames {
				return list[i].entry.SharedGames > list[j].entry.SharedGames
			}
			return list[i].entry.Name < list[j].entry.Name
		})
		if len(list) > topCoOfficials {
			list = list[:topCoOfficials]
		}
		return list
	}

	refs := pick(domain.RoleReferee)
	lines := pick(domain.RoleLinesperson)

	// One axis across both lists: every selected co-official's timeline must
	// line up against the same periods.
	seen := make(map[string]bool)
	var observed []string
	for _, a := range append(append([]*acc{}, refs...), lines...) {
		for period := range a.byPeriod {
			if !seen[period] {
				seen[period] = true
				observed = append(observed, period)
			}
		}
	}
	sort.Strings(observed)
	axis := FillGaps(observed, g)

	align := func(list []*acc) []ChemistryEntry {
		out := make([]ChemistryEntry, len(list))
		for i, a := range list {
			series := make([]int, len(axis))
			for j, period := range axis {
				series[j] = a.byPeriod[period]
			}
			e := a.entry
			e.Timeline = series
			out[i] = e
		}
		return out
	}

	if axis == nil {
		axis = []string{}
	}
	return Chemistry{
		Periods:        axis,
		TopReferees:    align(refs),
		TopLinespeople: align(lines),
	}
}
