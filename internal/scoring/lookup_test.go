package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup_SparseTable(t *testing.T) {
	tiers := []Tier{
		{MinScore: 0, Label: "zero", RiskPercent: floatPtr(0.5)},
		{MinScore: 2, Label: "two", RiskPercent: floatPtr(2.0)},
		{MinScore: 5, Label: "five", RiskPercent: floatPtr(1.1)},
	}

	tests := []struct {
		score    int
		expected string
	}{
		{-4, "zero"},
		{0, "zero"},
		{1, "zero"},
		{2, "two"},
		{3, "two"},
		{4, "two"},
		{5, "five"},
		{6, "five"},
		{100, "five"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Lookup(tiers, tt.score).Label, "score %d", tt.score)
		})
	}
}

func TestLookup_PreservesLiteralEstimates(t *testing.T) {
	// published tables need not be monotonic in the estimate
	tiers := []Tier{
		{MinScore: 0, Label: "a", RiskPercent: floatPtr(9.8)},
		{MinScore: 1, Label: "b", RiskPercent: floatPtr(9.6)},
		{MinScore: 2, Label: "c", RiskPercent: floatPtr(6.7)},
	}
	assert.Equal(t, 9.6, *Lookup(tiers, 1).RiskPercent)
	assert.Equal(t, 6.7, *Lookup(tiers, 2).RiskPercent)
	assert.Equal(t, 2, Rank(tiers, 2))
}

func TestLookup_EmptyTable(t *testing.T) {
	assert.Equal(t, Tier{}, Lookup(nil, 3))
	assert.Equal(t, 0, Rank(nil, 3))
}
