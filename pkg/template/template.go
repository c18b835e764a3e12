// Package template defines badge templates and the registry of
// selectable designs. A template's window geometry is authored in the
// fixed 980×980 baseline space; the artwork asset supplies the native
// pixel resolution at decode time.
package template

import (
	"fmt"
	"sort"

	"github.com/badgeforge/badge-composer/pkg/geometry"
)

// Template describes one selectable badge design. Templates are
// immutable once registered.
type Template struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Asset       string          `json:"asset"`
	PhotoWindow geometry.Region `json:"photo_window"`
	NameWindow  geometry.Region `json:"name_window"`
}

// Validate checks that the template is well formed: non-empty identity
// and both windows inside the baseline space. Windows inside the
// baseline stay inside any template at least baseline-sized once mapped.
func (t Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template has no id")
	}
	if t.Title == "" {
		return fmt.Errorf("template %s has no title", t.ID)
	}
	for name, r := range map[string]geometry.Region{"photo_window": t.PhotoWindow, "name_window": t.NameWindow} {
		if r.W <= 0 || r.H <= 0 {
			return fmt.Errorf("template %s: %s has non-positive size %dx%d", t.ID, name, r.W, r.H)
		}
		if r.X < 0 || r.Y < 0 || r.X+r.W > geometry.BaselineSize || r.Y+r.H > geometry.BaselineSize {
			return fmt.Errorf("template %s: %s exceeds the %d baseline space", t.ID, name, geometry.BaselineSize)
		}
	}
	return nil
}

// Registry holds the set of selectable templates, keyed by ID.
type Registry struct {
	byID  map[string]Template
	order []string
}

// NewRegistry builds a registry from the given templates.
func NewRegistry(templates ...Template) (*Registry, error) {
	r := &Registry{byID: make(map[string]Template, len(templates))}
	for _, t := range templates {
		if err := r.Add(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a template after validation. Duplicate IDs are rejected.
func (r *Registry) Add(t Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, exists := r.byID[t.ID]; exists {
		return fmt.Errorf("duplicate template id %s", t.ID)
	}
	r.byID[t.ID] = t
	r.order = append(r.order, t.ID)
	return nil
}

// Get looks up a template by ID.
func (r *Registry) Get(id string) (Template, error) {
	t, ok := r.byID[id]
	if !ok {
		return Template{}, fmt.Errorf("unknown template %q", id)
	}
	return t, nil
}

// List returns all templates in registration order.
func (r *Registry) List() []Template {
	out := make([]Template, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IDs returns the sorted template identifiers.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	return len(r.byID)
}

// Builtin returns the two stock designs. They share window geometry and
// differ only in artwork.
func Builtin() []Template {
	photo := geometry.Region{X: 602, Y: 443, W: 230, H: 250}
	name := geometry.Region{X: 340, Y: 723, W: 300, H: 95}
	return []Template{
		{
			ID:          "speaking",
			Title:       "I am speaking",
			Asset:       "assets/speaking.png",
			PhotoWindow: photo,
			NameWindow:  name,
		},
		{
			ID:          "attending",
			Title:       "I am attending",
			Asset:       "assets/attending.png",
			PhotoWindow: photo,
			NameWindow:  name,
		},
	}
}
