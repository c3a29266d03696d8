// Package disablers resolves "# robotidy: off/on" directives into an
// immutable per-file index. The index is built once, before any
// transformer runs, so a transformer can never change its own disabled
// status mid-flight.
package disablers

import "sort"

// All is the sentinel identity a directive without names disables.
const All = "all"

// Map is the per-file disabler index. It has no mutating methods;
// transformers share it read-only.
type Map struct {
	entries map[string]*entry
}

type entry struct {
	ranges  [][2]int // closed line ranges, sorted by start after resolve
	headers map[int]bool
	whole   bool
}

func newMap(startLine, endLine, fileEnd int) *Map {
	m := &Map{entries: map[string]*entry{All: newEntry()}}
	m.applyClamp(startLine, endLine, fileEnd)
	return m
}

func newEntry() *entry {
	return &entry{headers: make(map[int]bool)}
}

func (m *Map) ensure(name string) *entry {
	e, ok := m.entries[name]
	if !ok {
		e = newEntry()
		m.entries[name] = e
	}
	return e
}

// applyClamp turns a configured start/end line window into ranges that
// disable everything outside it.
func (m *Map) applyClamp(startLine, endLine, fileEnd int) {
	if startLine == 0 {
		return
	}
	if endLine == 0 {
		endLine = startLine
	}
	if startLine > 1 {
		m.addRange(All, 1, startLine-1)
	}
	if endLine < fileEnd {
		m.addRange(All, endLine+1, fileEnd)
	}
}

func (m *Map) addRange(name string, start, end int) {
	e := m.ensure(name)
	e.ranges = append(e.ranges, [2]int{start, end})
}

func (m *Map) addHeader(name string, line int) {
	m.ensure(name).headers[line] = true
}

func (m *Map) setWhole(name string) {
	m.ensure(name).whole = true
}

func (m *Map) sortRanges() {
	for _, e := range m.entries {
		sort.Slice(e.ranges, func(i, j int) bool {
			return e.ranges[i][0] < e.ranges[j][0]
		})
	}
}

// IsNodeDisabled reports whether name may not touch lines [first, last].
// A node counts as disabled only when a single recorded range fully
// contains it.
func (m *Map) IsNodeDisabled(name string, first, last int) bool {
	if m.entries[All].nodeDisabled(first, last) {
		return true
	}
	if name == All {
		return false
	}
	e, ok := m.entries[name]
	return ok && e.nodeDisabled(first, last)
}

// IsHeaderDisabled reports whether a section header on the given line
// carried an off directive for name.
func (m *Map) IsHeaderDisabled(name string, line int) bool {
	if m.entries[All].headers[line] {
		return true
	}
	e, ok := m.entries[name]
	return ok && e.headers[line]
}

// IsDisabledInFile reports whether name is switched off for the whole
// file by a directive in the leading comment section.
func (m *Map) IsDisabledInFile(name string) bool {
	if m.entries[All].whole {
		return true
	}
	e, ok := m.entries[name]
	return ok && e.whole
}

func (e *entry) nodeDisabled(first, last int) bool {
	if len(e.ranges) == 0 {
		return false
	}
	if last < first {
		last = first
	}
	// ranges are sorted by start: the first range reaching past the
	// node's end decides, no later range can contain the node without
	// this one containing it too
	for _, r := range e.ranges {
		if r[1] >= last {
			return r[0] <= first
		}
	}
	return false
}
