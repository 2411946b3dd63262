// internal/scoring/evaluator.go
package scoring

import "fmt"

// Result is the interpretation of one selection.
type Result struct {
	InstrumentID string     `json:"instrumentId"`
	Score        int        `json:"score"`
	MaxScore     int        `json:"maxScore"`
	Tier         Tier       `json:"tier"`
	Selected     []FactorID `json:"selectedFactors"`
}

// Evaluator scores selections against a validated instrument. It holds no
// mutable state and is safe for concurrent use.
type Evaluator struct {
	instrument Instrument
	index      map[FactorID]int
	maxScore   int
}

// NewEvaluator validates the instrument and returns an evaluator for it.
// Configuration errors are returned, never corrected.
func NewEvaluator(in Instrument) (*Evaluator, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	// copy slices so later edits to the caller's definition cannot leak in
	cp := in
	cp.Factors = append([]RiskFactor(nil), in.Factors...)
	cp.Tiers = cloneTiers(in.Tiers)

	index := make(map[FactorID]int, len(cp.Factors))
	for i, f := range cp.Factors {
		index[f.ID] = i
	}

	return &Evaluator{
		instrument: cp,
		index:      index,
		maxScore:   cp.MaxScore(),
	}, nil
}

// MustEvaluator is NewEvaluator for static tables known to be valid.
func MustEvaluator(in Instrument) *Evaluator {
	e, err := NewEvaluator(in)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Evaluator) ID() string   { return e.instrument.ID }
func (e *Evaluator) Name() string { return e.instrument.Name }
func (e *Evaluator) MaxScore() int {
	return e.maxScore
}

// Instrument returns a copy of the definition.
func (e *Evaluator) Instrument() Instrument {
	cp := e.instrument
	cp.Factors = append([]RiskFactor(nil), e.instrument.Factors...)
	cp.Tiers = cloneTiers(e.instrument.Tiers)
	return cp
}

// Factor looks up a factor by id.
func (e *Evaluator) Factor(id FactorID) (RiskFactor, bool) {
	i, ok := e.index[id]
	if !ok {
		return RiskFactor{}, false
	}
	return e.instrument.Factors[i], true
}

// Reset returns the all-unselected selection.
func (e *Evaluator) Reset() Selection {
	return Selection{selected: map[FactorID]bool{}}
}

// Toggle flips id. Turning on a grouped factor turns off every sibling in
// the same returned selection.
func (e *Evaluator) Toggle(sel Selection, id FactorID) (Selection, error) {
	return e.Set(sel, id, !sel.IsSelected(id))
}

// Set forces id to the given state, applying group exclusivity when on.
func (e *Evaluator) Set(sel Selection, id FactorID, on bool) (Selection, error) {
	f, ok := e.Factor(id)
	if !ok {
		return sel, fmt.Errorf("%w: %q is not a factor of %s", ErrUnknownFactor, id, e.instrument.ID)
	}

	next := sel.clone()
	if !on {
		delete(next.selected, id)
		return next, nil
	}
	if f.Group != "" {
		for _, sib := range e.instrument.Factors {
			if sib.Group == f.Group {
				delete(next.selected, sib.ID)
			}
		}
	}
	next.selected[id] = true
	return next, nil
}

// Select builds a selection from ids, switching each on in order. When two
// members of a group are listed the later one wins.
func (e *Evaluator) Select(ids ...FactorID) (Selection, error) {
	sel := e.Reset()
	for _, id := range ids {
		var err error
		if sel, err = e.Set(sel, id, true); err != nil {
			return e.Reset(), err
		}
	}
	return sel, nil
}

// ComputeScore sums the points of every selected factor. Ids in sel that are
// not factors of this instrument contribute nothing.
func (e *Evaluator) ComputeScore(sel Selection) int {
	score := 0
	for _, f := range e.instrument.Factors {
		if sel.IsSelected(f.ID) {
			score += f.Points
		}
	}
	return score
}

// Classify maps a score onto the tier table. The returned tier is a copy.
func (e *Evaluator) Classify(score int) Tier {
	return Lookup(e.instrument.Tiers, score).clone()
}

// Evaluate scores and classifies sel in one call.
func (e *Evaluator) Evaluate(sel Selection) Result {
	score := e.ComputeScore(sel)
	selected := make([]FactorID, 0, sel.Len())
	for _, id := range sel.IDs() {
		if _, ok := e.index[id]; ok {
			selected = append(selected, id)
		}
	}
	return Result{
		InstrumentID: e.instrument.ID,
		Score:        score,
		MaxScore:     e.maxScore,
		Tier:         e.Classify(score),
		Selected:     selected,
	}
}

func cloneTiers(tiers []Tier) []Tier {
	out := make([]Tier, len(tiers))
	for i, t := range tiers {
		out[i] = t.clone()
	}
	return out
}
