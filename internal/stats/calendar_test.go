package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mkoivu/stripes/backend/internal/stats"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ---- season labels ----------------------------------------------------------

func TestSeasonLabel(t *testing.T) {
	cases := []struct {
		date time.Time
		want string
	}{
		{date(2025, time.September, 1), "2025-26"},
		{date(2025, time.November, 20), "2025-26"},
		{date(2026, time.March, 15), "2025-26"},
		{date(2025, time.August, 31), "2024-25"},
		{date(2026, time.January, 1), "2025-26"},
		{date(2024, time.December, 31), "2024-25"},
		// Century wrap in the short end year.
		{date(2099, time.October, 1), "2099-00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, stats.SeasonLabel(c.date), "date %s", c.date)
	}
}

// ---- week labels ------------------------------------------------------------

func TestWeekLabel(t *testing.T) {
	cases := []struct {
		date time.Time
		want string
	}{
		// Jan 4 2025 is a Saturday: dayNum = 0 + 6 + 1 = 7 → week 1.
		{date(2025, time.January, 4), "2025-W01"},
		{date(2025, time.January, 5), "2025-W02"},
		{date(2025, time.September, 1), "2025-W36"},
		// Late December runs past week 52 in this scheme.
		{date(2025, time.December, 31), "2025-W53"},
		// Jan 4 2027 is a Monday, so Jan 1-3 compute as week 0.
		{date(2027, time.January, 1), "2027-W00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, stats.WeekLabel(c.date), "date %s", c.date)
	}
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "2025-09", stats.MonthLabel(date(2025, time.September, 7)))
	assert.Equal(t, "2026-01", stats.MonthLabel(date(2026, time.January, 31)))
}

// ---- period stepping --------------------------------------------------------

func TestNextPeriod(t *testing.T) {
	assert.Equal(t, "2025-W08", stats.NextPeriod("2025-W07", stats.Weekly))
	assert.Equal(t, "2026-W01", stats.NextPeriod("2025-W52", stats.Weekly))
	assert.Equal(t, "2026-W01", stats.NextPeriod("2025-W53", stats.Weekly))

	assert.Equal(t, "2025-10", stats.NextPeriod("2025-09", stats.Monthly))
	assert.Equal(t, "2026-01", stats.NextPeriod("2025-12", stats.Monthly))

	assert.Equal(t, "2025-26", stats.NextPeriod("2024-25", stats.Seasonal))
	assert.Equal(t, "2000-01", stats.NextPeriod("1999-00", stats.Seasonal))
}

// ---- gap filling ------------------------------------------------------------

func TestFillGaps_Weekly(t *testing.T) {
	got := stats.FillGaps([]string{"2025-W51", "2026-W02"}, stats.Weekly)
	assert.Equal(t, []string{"2025-W51", "2025-W52", "2026-W01", "2026-W02"}, got)
}

func TestFillGaps_Monthly(t *testing.T) {
	got := stats.FillGaps([]string{"2025-11", "2026-02"}, stats.Monthly)
	assert.Equal(t, []string{"2025-11", "2025-12", "2026-01", "2026-02"}, got)
}

func TestFillGaps_Seasonal(t *testing.T) {
	got := stats.FillGaps([]string{"2022-23", "2025-26"}, stats.Seasonal)
	assert.Equal(t, []string{"2022-23", "2023-24", "2024-25", "2025-26"}, got)
}

func TestFillGaps_RetainsWeekBeyondFiftyTwo(t *testing.T) {
	// A late-December date labels as week 53, but stepping rolls week 52
	// straight to week 1 of the next year. The observed label must be
	// spliced into the axis, not lost.
	got := stats.FillGaps([]string{"2025-W51", "2025-W53", "2026-W02"}, stats.Weekly)
	assert.Equal(t, []string{"2025-W51", "2025-W52", "2025-W53", "2026-W01", "2026-W02"}, got)
}

func TestFillGaps_EndsOnWeekBeyondFiftyTwo(t *testing.T) {
	got := stats.FillGaps([]string{"2025-W52", "2025-W53"}, stats.Weekly)
	assert.Equal(t, []string{"2025-W52", "2025-W53"}, got)
}

func TestFillGaps_AlreadyContiguous(t *testing.T) {
	in := []string{"2025-09", "2025-10", "2025-11"}
	assert.Equal(t, in, stats.FillGaps(in, stats.Monthly))
}

func TestFillGaps_ShortInputsUnchanged(t *testing.T) {
	assert.Empty(t, stats.FillGaps(nil, stats.Weekly))
	assert.Equal(t, []string{"2025-W10"}, stats.FillGaps([]string{"2025-W10"}, stats.Weekly))
}
