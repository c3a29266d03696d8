package diag

import (
	"fmt"
	"sort"
)

// Bag accumulates diagnostics for one file task. It is not safe for
// concurrent use; every file task owns its own bag and the driver
// merges them after the parallel stage.
type Bag struct {
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Addf builds and appends a diagnostic in one call.
func (b *Bag) Addf(sev Severity, code Code, path string, line int, transformer, format string, args ...any) {
	b.Add(Diagnostic{
		Severity:    sev,
		Code:        code,
		Path:        path,
		Line:        line,
		Transformer: transformer,
		Message:     fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any diagnostic reached error severity.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the collected diagnostics. The slice aliases the bag's
// storage; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic from other.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, line, severity (descending), then
// code, for deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
