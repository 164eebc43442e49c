// Package stats implements the statistics aggregation core: calendar period
// bucketing, penalty classification, ranking, games-over-time timelines, and
// co-official chemistry analysis. Everything in this package is a pure
// in-memory derivation over records supplied by the caller; there is no I/O
// and no shared state, so all functions are safe for concurrent use.
package stats

import (
	"fmt"
	"strconv"
	"time"
)

// Granularity selects the period labeling scheme for timelines.
type Granularity int

const (
	// Weekly buckets ("YYYY-Wnn") are used when a single season is in scope.
	Weekly Granularity = iota
	// Monthly buckets ("YYYY-MM") are used for all-time game timelines.
	Monthly
	// Seasonal buckets ("YYYY-YY") are used for all-time chemistry timelines.
	Seasonal
)

// SeasonLabel returns the season a date belongs to, formatted "YYYY-YY".
// The sport calendar runs September through August: dates from September
// onward start a new season, dates from January through August belong to the
// season started the previous September.
func SeasonLabel(d time.Time) string {
	year := d.Year()
	if d.Month() >= time.September {
		return seasonLabelForYear(year)
	}
	return seasonLabelForYear(year - 1)
}

// seasonLabelForYear formats the season starting in September of startYear.
func seasonLabelForYear(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// WeekLabel returns the week-of-year bucket for a date, formatted "YYYY-Wnn".
//
// The week number is anchored on January 4 of the date's own calendar year:
//
//	dayNum  = days(d - jan4) + weekday(jan4) + 1
//	weekNum = ceil(dayNum / 7)
//
// This approximates ISO-8601 week numbering but deliberately applies no
// year-boundary correction, so the first days of January can land in week 0
// and late December can land in week 53. Historical output depends on these
// exact labels; do not replace this with strict ISO week numbering.
func WeekLabel(d time.Time) string {
	jan4 := time.Date(d.Year(), time.January, 4, 0, 0, 0, 0, time.UTC)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	days := int(day.Sub(jan4) / (24 * time.Hour))
	dayNum := days + int(jan4.Weekday()) + 1
	week := ceilDiv(dayNum, 7)

	return fmt.Sprintf("%d-W%02d", d.Year(), week)
}

// MonthLabel returns the month bucket for a date, formatted "YYYY-MM".
func MonthLabel(d time.Time) string {
	return fmt.Sprintf("%d-%02d", d.Year(), int(d.Month()))
}

// PeriodLabel returns the bucket label for a date at the given granularity.
func PeriodLabel(d time.Time, g Granularity) string {
	switch g {
	case Weekly:
		return WeekLabel(d)
	case Monthly:
		return MonthLabel(d)
	default:
		return SeasonLabel(d)
	}
}

// NextPeriod returns the label of the period immediately following the given
// one. Weeks roll to week 1 of the next year after week 52, months roll after
// month 12, and seasons advance their start year by one.
//
// Labels that do not parse are returned unchanged; gap filling then stops
// making progress and FillGaps bails out rather than looping forever.
func NextPeriod(label string, g Granularity) string {
	switch g {
	case Weekly:
		year, week, ok := splitPeriod(label, "-W")
		if !ok {
			return label
		}
		week++
		if week > 52 {
			year++
			week = 1
		}
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		year, month, ok := splitPeriod(label, "-")
		if !ok {
			return label
		}
		month++
		if month > 12 {
			year++
			month = 1
		}
		return fmt.Sprintf("%d-%02d", year, month)
	default:
		year, _, ok := splitPeriod(label, "-")
		if !ok {
			return label
		}
		return seasonLabelForYear(year + 1)
	}
}

// FillGaps expands a sorted list of observed period labels into a contiguous
// axis from the first to the last label, inserting the missing intermediate
// periods. Every observed label stays on the axis even when the increment
// rule cannot reach it: the week formula can emit a "Wnn" past 52 for late
// December, while NextPeriod rolls week 52 straight to week 1 of the next
// year. Dropping such a label would silently drop its games from the series.
// Lists with fewer than two elements are returned unchanged; there is nothing
// to interpolate between.
//
// All label schemes are fixed-width with zero-padded numbers, so lexicographic
// string order matches chronological order within a granularity.
func FillGaps(observed []string, g Granularity) []string {
	if len(observed) < 2 {
		return observed
	}

	// Guard against unsorted or mixed-granularity input where the next
	// observed label is never reached by stepping forward.
	const maxPeriods = 10000

	filled := []string{observed[0]}
	for _, target := range observed[1:] {
		cur := filled[len(filled)-1]
		for cur < target {
			next := NextPeriod(cur, g)
			if next == cur || len(filled) > maxPeriods {
				// Axis cannot advance; fall back to the observed labels.
				return observed
			}
			if next > target {
				// The increment rule skips the observed label (a week past
				// 52); stop stepping and splice the label in below.
				break
			}
			filled = append(filled, next)
			cur = next
		}
		if filled[len(filled)-1] != target {
			filled = append(filled, target)
		}
	}
	return filled
}

// splitPeriod parses "<year><sep><n>" labels like "2025-W07" or "2025-07".
func splitPeriod(label, sep string) (year, n int, ok bool) {
	if len(label) < 4 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(label[:4])
	if err != nil {
		return 0, 0, false
	}
	rest := label[4:]
	if len(rest) < len(sep) || rest[:len(sep)] != sep {
		return 0, 0, false
	}
	n, err = strconv.Atoi(rest[len(sep):])
	if err != nil {
		return 0, 0, false
	}
	return year, n, true
}

// ceilDiv is integer division rounding toward positive infinity, matching
// ceil() in the week formula for both positive and negative numerators.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a > 0) == (b > 0) {
		q++
	}
	return q
}
