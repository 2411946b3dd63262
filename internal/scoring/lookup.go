// internal/scoring/lookup.go
package scoring

import "sort"

// Lookup returns the highest tier whose MinScore is <= score. Tiers must be
// sorted by MinScore. Scores past the last tier land in it; scores below the
// first tier (only possible for negative input) land in the first.
func Lookup(tiers []Tier, score int) Tier {
	if len(tiers) == 0 {
		return Tier{}
	}
	// first tier with MinScore > score, minus one
	i := sort.Search(len(tiers), func(i int) bool { return tiers[i].MinScore > score }) - 1
	if i < 0 {
		i = 0
	}
	return tiers[i]
}

// Rank is the index of the tier Lookup would return. Higher rank means a
// higher-risk tier.
func Rank(tiers []Tier, score int) int {
	i := sort.Search(len(tiers), func(i int) bool { return tiers[i].MinScore > score }) - 1
	if i < 0 {
		return 0
	}
	return i
}

// clone copies the slice and pointer fields so the result shares nothing
// with the table it came from.
func (t Tier) clone() Tier {
	if t.Considerations != nil {
		t.Considerations = append([]string(nil), t.Considerations...)
	}
	if t.RiskPercent != nil {
		v := *t.RiskPercent
		t.RiskPercent = &v
	}
	return t
}
