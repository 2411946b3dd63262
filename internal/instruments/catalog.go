// internal/instruments/catalog.go
package instruments

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"clinical-score-workers/internal/scoring"
	"clinical-score-workers/pkg/registry"
)

//go:embed catalog.json
var builtinRegistry []byte

var ErrUnknownInstrument = errors.New("UNKNOWN_INSTRUMENT")

// Catalog is an immutable set of validated instruments keyed by id.
type Catalog struct {
	version     string
	evaluators  map[string]*scoring.Evaluator
	definitions map[string]registry.InstrumentDefinition
	order       []string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog built into the binary. It panics if the
// embedded registry is invalid, which only a broken build can cause.
func Default() *Catalog {
	defaultOnce.Do(func() {
		var reg *registry.InstrumentRegistry
		reg, defaultErr = registry.Parse(builtinRegistry)
		if defaultErr == nil {
			defaultCatalog, defaultErr = FromRegistry(reg)
		}
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("embedded instrument catalog: %v", defaultErr))
	}
	return defaultCatalog
}

// Load builds a catalog from a registry file on disk.
func Load(path string) (*Catalog, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	c, err := FromRegistry(reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Open loads path, or returns the built-in catalog when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// FromRegistry converts and validates every definition in reg. All invalid
// instruments are reported together.
func FromRegistry(reg *registry.InstrumentRegistry) (*Catalog, error) {
	c := &Catalog{
		version:     reg.Version,
		evaluators:  make(map[string]*scoring.Evaluator, len(reg.Instruments)),
		definitions: make(map[string]registry.InstrumentDefinition, len(reg.Instruments)),
	}

	var errs []error
	for _, def := range reg.Instruments {
		if _, dup := c.evaluators[def.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate instrument %q", def.ID))
			continue
		}
		e, err := scoring.NewEvaluator(ToInstrument(def))
		if err != nil {
			errs = append(errs, fmt.Errorf("instrument %q: %w", def.ID, err))
			continue
		}
		c.evaluators[def.ID] = e
		c.definitions[def.ID] = def
		c.order = append(c.order, def.ID)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// ToInstrument maps a registry definition onto the scoring model.
func ToInstrument(def registry.InstrumentDefinition) scoring.Instrument {
	in := scoring.Instrument{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Factors:     make([]scoring.RiskFactor, 0, len(def.Factors)),
		Tiers:       make([]scoring.Tier, 0, len(def.Tiers)),
	}
	for _, f := range def.Factors {
		in.Factors = append(in.Factors, scoring.RiskFactor{
			ID:     scoring.FactorID(f.ID),
			Label:  f.Label,
			Points: f.Points,
			Group:  f.Group,
		})
	}
	for _, t := range def.Tiers {
		in.Tiers = append(in.Tiers, scoring.Tier{
			MinScore:       t.MinScore,
			Label:          t.Label,
			Recommendation: t.Recommendation,
			Considerations: t.Considerations,
			RiskPercent:    t.RiskPercent,
		})
	}
	return in
}

func (c *Catalog) Get(id string) (*scoring.Evaluator, error) {
	e, ok := c.evaluators[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstrument, id)
	}
	return e, nil
}

// Definition returns the registry metadata (category, reference, tags) for id.
func (c *Catalog) Definition(id string) (registry.InstrumentDefinition, bool) {
	def, ok := c.definitions[id]
	return def, ok
}

// List returns evaluators in registry order.
func (c *Catalog) List() []*scoring.Evaluator {
	out := make([]*scoring.Evaluator, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.evaluators[id])
	}
	return out
}

func (c *Catalog) Len() int        { return len(c.order) }
func (c *Catalog) Version() string { return c.version }

// BuiltinRegistry returns a copy of the embedded registry document, a
// starting point for operator-maintained files.
func BuiltinRegistry() []byte {
	return append([]byte(nil), builtinRegistry...)
}
