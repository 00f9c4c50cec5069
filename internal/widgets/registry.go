package widgets

import (
	"errors"
	"fmt"
)

// Registry is the compiled catalog of every widget the dashboard can show.
// It is read-only after construction.
type Registry struct {
	defs []Definition
	byID map[string]int
}

func NewRegistry(defs []Definition) *Registry {
	r := &Registry{
		defs: make([]Definition, len(defs)),
		byID: make(map[string]int, len(defs)),
	}
	copy(r.defs, defs)
	for i, d := range r.defs {
		if _, dup := r.byID[d.ID]; !dup {
			r.byID[d.ID] = i
		}
	}
	return r
}

func (r *Registry) Get(id string) (Definition, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// All returns every definition in registry order.
func (r *Registry) All() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// VisibleTo returns the definitions role may see, in registry order.
func (r *Registry) VisibleTo(role Role) []Definition {
	var out []Definition
	for _, d := range r.defs {
		if HasPermission(role, d.MinRole) {
			out = append(out, d)
		}
	}
	return out
}

// Validate checks every definition, rejects duplicate ids, and requires a
// registered handler for each custom widget. hasCustom may be nil when no
// custom renderers exist.
func (r *Registry) Validate(hasCustom func(id string) bool) error {
	var problems []error
	seen := make(map[string]bool, len(r.defs))
	for _, d := range r.defs {
		if err := d.Validate(); err != nil {
			problems = append(problems, err)
		}
		if seen[d.ID] {
			problems = append(problems, fmt.Errorf("duplicate widget id %q", d.ID))
		}
		seen[d.ID] = true
		if d.RendererType == RendererCustom && (hasCustom == nil || !hasCustom(d.ID)) {
			problems = append(problems, fmt.Errorf("widget %q: no custom renderer registered", d.ID))
		}
	}
	return errors.Join(problems...)
}
