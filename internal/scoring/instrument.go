// internal/scoring/instrument.go
package scoring

import (
	"errors"
	"fmt"
)

// FactorID identifies a risk factor within one instrument.
type FactorID string

// RiskFactor is a boolean clinical condition worth a fixed number of points.
// Factors sharing a non-empty Group are mutually exclusive.
type RiskFactor struct {
	ID     FactorID `json:"id"`
	Label  string   `json:"label"`
	Points int      `json:"points"`
	Group  string   `json:"group,omitempty"`
}

// Tier is one row of an ordered threshold table. A tier applies to every
// score from MinScore up to (but excluding) the next tier's MinScore.
type Tier struct {
	MinScore       int      `json:"minScore"`
	Label          string   `json:"label"`
	Recommendation string   `json:"recommendation"`
	Considerations []string `json:"considerations,omitempty"`
	RiskPercent    *float64 `json:"riskPercent,omitempty"`
}

// Instrument is the declarative definition of a score: its factors and the
// tier table used to interpret the total.
type Instrument struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Factors     []RiskFactor `json:"factors"`
	Tiers       []Tier       `json:"tiers"`
}

// MaxScore returns the highest attainable total: every ungrouped factor plus
// the best-scoring member of each exclusivity group.
func (in *Instrument) MaxScore() int {
	total := 0
	best := make(map[string]int)
	for _, f := range in.Factors {
		if f.Group == "" {
			total += f.Points
			continue
		}
		if p, ok := best[f.Group]; !ok || f.Points > p {
			best[f.Group] = f.Points
		}
	}
	for _, p := range best {
		total += p
	}
	return total
}

// Validate reports every configuration error in the instrument. A nil result
// means the factor set is closed and the tier table covers 0..MaxScore with
// no gaps or overlaps.
func (in *Instrument) Validate() error {
	var errs []error
	if in.ID == "" {
		errs = append(errs, errors.New("instrument id is required"))
	}
	if in.Name == "" {
		errs = append(errs, fmt.Errorf("instrument %q: name is required", in.ID))
	}

	errs = append(errs, in.validateFactors()...)
	errs = append(errs, in.validateTiers()...)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInstrument, errors.Join(errs...))
}

func (in *Instrument) validateFactors() []error {
	if len(in.Factors) == 0 {
		return []error{fmt.Errorf("instrument %q: at least one factor is required", in.ID)}
	}

	var errs []error
	seen := make(map[FactorID]bool, len(in.Factors))
	groups := make(map[string]int)
	for i, f := range in.Factors {
		if f.ID == "" {
			errs = append(errs, fmt.Errorf("instrument %q: factor %d has no id", in.ID, i))
			continue
		}
		if seen[f.ID] {
			errs = append(errs, fmt.Errorf("instrument %q: duplicate factor %q", in.ID, f.ID))
		}
		seen[f.ID] = true
		if f.Label == "" {
			errs = append(errs, fmt.Errorf("instrument %q: factor %q has no label", in.ID, f.ID))
		}
		if f.Points < 0 {
			errs = append(errs, fmt.Errorf("instrument %q: factor %q has negative points %d", in.ID, f.ID, f.Points))
		}
		if f.Group != "" {
			groups[f.Group]++
		}
	}

	for g, n := range groups {
		if n < 2 {
			errs = append(errs, fmt.Errorf("instrument %q: exclusivity group %q has a single member", in.ID, g))
		}
	}
	return errs
}

func (in *Instrument) validateTiers() []error {
	if len(in.Tiers) == 0 {
		return []error{fmt.Errorf("instrument %q: at least one tier is required", in.ID)}
	}

	var errs []error
	if in.Tiers[0].MinScore != 0 {
		errs = append(errs, fmt.Errorf("instrument %q: first tier starts at %d, scores 0..%d are uncovered",
			in.ID, in.Tiers[0].MinScore, in.Tiers[0].MinScore-1))
	}

	max := in.MaxScore()
	for i, t := range in.Tiers {
		if t.Label == "" {
			errs = append(errs, fmt.Errorf("instrument %q: tier %d has no label", in.ID, i))
		}
		if i > 0 && t.MinScore <= in.Tiers[i-1].MinScore {
			errs = append(errs, fmt.Errorf("instrument %q: tier %q (min %d) does not follow tier %q (min %d)",
				in.ID, t.Label, t.MinScore, in.Tiers[i-1].Label, in.Tiers[i-1].MinScore))
		}
		if t.MinScore > max {
			errs = append(errs, fmt.Errorf("instrument %q: tier %q (min %d) is unreachable, max score is %d",
				in.ID, t.Label, t.MinScore, max))
		}
	}
	return errs
}
