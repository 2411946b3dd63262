// internal/scoring/selection.go
package scoring

import "sort"

// Selection is the set of currently selected factors. It is a value: every
// update returns a new Selection and never mutates the receiver, so a
// selection shared between callers cannot change underneath them.
type Selection struct {
	selected map[FactorID]bool
}

// IsSelected reports whether id is selected.
func (s Selection) IsSelected(id FactorID) bool {
	return s.selected[id]
}

// Len returns the number of selected factors.
func (s Selection) Len() int {
	return len(s.selected)
}

// IDs returns the selected factor ids in sorted order.
func (s Selection) IDs() []FactorID {
	ids := make([]FactorID, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Strings is IDs as plain strings, for process variables and JSON output.
func (s Selection) Strings() []string {
	ids := s.IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func (s Selection) clone() Selection {
	next := make(map[FactorID]bool, len(s.selected)+1)
	for id := range s.selected {
		next[id] = true
	}
	return Selection{selected: next}
}
