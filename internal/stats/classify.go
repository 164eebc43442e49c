package stats

import "strings"

// Class is the classification of one penalty record. At most one of the
// exclusive fields is set; the additive tags are independent of the exclusive
// bucket and of each other (a fighting penalty can also carry an instigator
// tag).
type Class struct {
	Fight          bool
	Match          bool
	GameMisconduct bool
	Misconduct     bool
	Major          bool
	Minor          bool

	Instigator       bool
	Aggressor        bool
	FaceoffViolation bool
}

// Classify buckets a raw penalty by its free-text offence description and
// minutes value. Matching is case-insensitive against the stored text; the
// offence descriptions are unstructured prose from scraped reports, and the
// exact matching rules below must not change or historical category counts
// drift.
//
// Exclusive bucket, first hit wins: fighting, match ("match" exactly or a
// "match " prefix), game misconduct, misconduct, then 5 minutes = major and
// 2 minutes = minor. Other minute values with no text match land in no
// exclusive bucket at all; that is expected, not an error.
func Classify(offence string, minutes int) Class {
	off := strings.ToLower(offence)

	var c Class
	switch {
	case strings.Contains(off, "fighting"):
		c.Fight = true
	case off == "match" || strings.HasPrefix(off, "match "):
		c.Match = true
	case strings.Contains(off, "game misconduct"):
		c.GameMisconduct = true
	case strings.Contains(off, "misconduct"):
		c.Misconduct = true
	case minutes == 5:
		c.Major = true
	case minutes == 2:
		c.Minor = true
	}

	c.Instigator = strings.Contains(off, "instigator")
	c.Aggressor = strings.Contains(off, "aggressor")
	c.FaceoffViolation = strings.Contains(off, "face-off violation") ||
		strings.Contains(off, "faceoff violation")

	return c
}

// PenaltyBreakdown accumulates per-category penalty counts and total PIM
// across a set of penalty records.
type PenaltyBreakdown struct {
	TotalPIM          int `json:"totalPIM"`
	Minors            int `json:"minors"`
	Majors            int `json:"majors"`
	Matches           int `json:"matches"`
	Misconducts       int `json:"misconducts"`
	GameMisconducts   int `json:"gameMisconducts"`
	Fights            int `json:"fights"`
	Instigators       int `json:"instigators"`
	Aggressors        int `json:"aggressors"`
	FaceoffViolations int `json:"faceoffViolations"`
}

// Add classifies one penalty and folds it into the breakdown.
func (b *PenaltyBreakdown) Add(offence string, minutes int) {
	b.TotalPIM += minutes

	c := Classify(offence, minutes)
	switch {
	case c.Fight:
		b.Fights++
	case c.Match:
		b.Matches++
	case c.GameMisconduct:
		b.GameMisconducts++
	case c.Misconduct:
		b.Misconducts++
	case c.Major:
		b.Majors++
	case c.Minor:
		b.Minors++
	}
	if c.Instigator {
		b.Instigators++
	}
	if c.Aggressor {
		b.Aggressors++
	}
	if c.FaceoffViolation {
		b.FaceoffViolations++
	}
}

// OffenceCount is one row of the literal offence-description distribution.
type OffenceCount struct {
	Offence string `json:"offence"`
	Count   int    `json:"count"`
}
