package stats

// Rank computes a subject's rank for one metric: 1 plus the number of
// population values strictly greater than the subject's. Tied values share a
// rank, so two subjects tied for best both rank 1 and the next distinct value
// ranks 3.
//
// A zero-valued subject is not ranked at all: nil is returned, never rank N.
// An official with no fights has no fights rank, regardless of how everyone
// else fought.
//
// The population must be the other subjects' values for the same metric under
// the same scope (all-time vs. one season); callers must never mix scopes.
func Rank(value int, population []int) *int {
	if value == 0 {
		return nil
	}
	rank := 1
	for _, v := range population {
		if v > value {
			rank++
		}
	}
	return &rank
}
