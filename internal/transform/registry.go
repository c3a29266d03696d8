package transform

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog returns the full transformer set in default execution order.
// The order is a contract: ReplaceWithVAR runs before RenameVariables
// so fabricated declarations get renamed like hand-written ones, and
// RenameVariables runs before SplitTooLongLine so splitting measures
// final variable text.
func Catalog() []Transformer {
	return []Transformer{
		NewNormalizeSectionHeaders(),
		NewNormalizeSettingName(),
		NewNormalizeTags(),
		NewDiscardEmptySections(),
		NewReplaceWithVAR(),
		NewRenameVariables(),
		NewSplitTooLongLine(),
	}
}

// Selection is one CLI entry: a transformer name plus inline parameter
// assignments, "Name:param=value:param2=value2".
type Selection struct {
	Name   string
	Params []Param
}

// Param is a single key=value assignment.
type Param struct {
	Key   string
	Value string
}

// ParseSelection splits a --transform / --configure argument.
func ParseSelection(spec string) (Selection, error) {
	parts := strings.Split(spec, ":")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return Selection{}, fmt.Errorf("empty transformer name in %q", spec)
	}
	sel := Selection{Name: name}
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return Selection{}, fmt.Errorf("parameter %q of transformer %s is not in param=value form", part, name)
		}
		sel.Params = append(sel.Params, Param{Key: strings.TrimSpace(key), Value: value})
	}
	return sel, nil
}

// Registry resolves transformer identities once per run.
type Registry struct {
	ordered []Transformer
	byName  map[string]Transformer
	rank    map[string]int
}

// NewRegistry builds a registry over a fresh catalog.
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]Transformer),
		rank:   make(map[string]int),
	}
	for i, t := range Catalog() {
		r.ordered = append(r.ordered, t)
		r.byName[t.Name()] = t
		r.rank[t.Name()] = i
	}
	return r
}

// Get returns the transformer registered under name.
func (r *Registry) Get(name string) (Transformer, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names lists the catalog in default order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.ordered))
	for _, t := range r.ordered {
		out = append(out, t.Name())
	}
	return out
}

// All returns the catalog in default order.
func (r *Registry) All() []Transformer {
	return append([]Transformer(nil), r.ordered...)
}

// Plan resolves the run's transformer list. Configuration is applied
// first, selections second; an unknown transformer or parameter name
// fails the whole run before any file is touched. Transformers above
// the target version are left out silently, matching how the VAR
// rewriter only exists from language version 7 on. With forceOrder the
// selected transformers keep their command-line order instead of the
// catalog order.
func (r *Registry) Plan(selected, configured []Selection, targetVersion int, forceOrder bool) ([]Transformer, error) {
	for _, c := range configured {
		t, ok := r.byName[c.Name]
		if !ok {
			return nil, fmt.Errorf("unknown transformer %q in --configure", c.Name)
		}
		if err := applyParams(t, c.Params); err != nil {
			return nil, err
		}
	}

	if len(selected) == 0 {
		var out []Transformer
		for _, t := range r.ordered {
			if t.MinVersion() <= targetVersion {
				out = append(out, t)
			}
		}
		return out, nil
	}

	seen := make(map[string]bool)
	var out []Transformer
	for _, s := range selected {
		t, ok := r.byName[s.Name]
		if !ok {
			return nil, fmt.Errorf("unknown transformer %q in --transform", s.Name)
		}
		if err := applyParams(t, s.Params); err != nil {
			return nil, err
		}
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		if t.MinVersion() > targetVersion {
			continue
		}
		out = append(out, t)
	}
	if !forceOrder {
		sort.SliceStable(out, func(i, j int) bool {
			return r.rank[out[i].Name()] < r.rank[out[j].Name()]
		})
	}
	return out, nil
}

func applyParams(t Transformer, params []Param) error {
	for _, p := range params {
		if err := t.Configure(p.Key, p.Value); err != nil {
			return fmt.Errorf("%s: %w", t.Name(), err)
		}
	}
	return nil
}

func errUnknownParam(param string) error {
	return fmt.Errorf("unknown parameter %q", param)
}

func errBadValue(param, value, expected string) error {
	return fmt.Errorf("parameter %s got %q, expected %s", param, value, expected)
}

func parseBool(param, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, errBadValue(param, value, "true or false")
}

func parseEnum(param, value string, allowed ...string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", errBadValue(param, value, "one of: "+strings.Join(allowed, ", "))
}
