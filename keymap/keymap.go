// Package keymap implements the two-stage keystroke translator: raw bytes
// are folded into canonical keycodes by a fixed key map, then mapped
// through the active user map (cmd_map or ins_map). Each Map records a
// precomputed shared-prefix length per entry, but lookup scans all
// entries linearly and does not use it.
package keymap

import "sort"

// Entry is one (lhs, rhs) mapping, kept in a Map sorted by Lhs.
type Entry struct {
	Lhs  string
	Rhs  string
	same int // length of shared prefix with the next entry in the Map
}

// Map is a sorted list of Entry, active either in normal mode (cmd_map)
// or insert/replace/command-line mode (ins_map).
type Map struct {
	entries []*Entry
}

// NewMap creates an empty Map.
func NewMap() *Map { return &Map{} }

// Define inserts or replaces the mapping for lhs, keeping entries sorted
// and same fields current — the Go analogue of the original's domap/
// calc_same pair.
func (m *Map) Define(lhs, rhs string) {
	for _, e := range m.entries {
		if e.Lhs == lhs {
			e.Rhs = rhs
			m.recalcSame()
			return
		}
	}
	m.entries = append(m.entries, &Entry{Lhs: lhs, Rhs: rhs})
	sort.Slice(m.entries, func(i, j int) bool { return m.entries[i].Lhs < m.entries[j].Lhs })
	m.recalcSame()
}

// Unmap removes the mapping for lhs, if present.
func (m *Map) Unmap(lhs string) {
	for i, e := range m.entries {
		if e.Lhs == lhs {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			m.recalcSame()
			return
		}
	}
}

func (m *Map) recalcSame() {
	for i, e := range m.entries {
		if i+1 >= len(m.entries) {
			e.same = 0
			continue
		}
		e.same = sharedPrefixLen(e.Lhs, m.entries[i+1].Lhs)
	}
}

func sharedPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// Entries returns the sorted entry list (read-only use expected).
func (m *Map) Entries() []*Entry { return m.entries }

// lookup finds the first entry whose Lhs starts with prefix and reports
// whether that match is exact and whether any longer entry could still
// match (i.e. the partial match should stay open).
func (m *Map) lookup(prefix string) (exact *Entry, couldExtend bool) {
	// entries are sorted; same-field pruning lets a real implementation
	// skip runs, but a linear scan is equivalent and the data sets here
	// (a few dozen mappings) make that difference unobservable.
	for _, e := range m.entries {
		if e.Lhs == prefix {
			exact = e
		}
		if len(e.Lhs) > len(prefix) && e.Lhs[:len(prefix)] == prefix {
			couldExtend = true
		}
	}
	return exact, couldExtend
}
