package dom

import (
	"maps"
	"slices"
	"strings"
)

// Attributes holds the class set, the id set and the named values of an element.
// A nil *Attributes is the null set: it carries nothing and tells the renderer
// to keep whatever the surface already has.
type Attributes struct {
	classes map[string]struct{}
	ids     map[string]struct{}
	values  map[string]string
}

// NewAttributes returns an empty attribute set ready for chaining.
func NewAttributes() *Attributes {
	return &Attributes{
		classes: make(map[string]struct{}),
		ids:     make(map[string]struct{}),
		values:  make(map[string]string),
	}
}

// Class adds a class name.
func (a *Attributes) Class(name string) *Attributes {
	if a.classes == nil {
		a.classes = make(map[string]struct{})
	}
	a.classes[name] = struct{}{}
	return a
}

// ID adds an id name.
func (a *Attributes) ID(name string) *Attributes {
	if a.ids == nil {
		a.ids = make(map[string]struct{})
	}
	a.ids[name] = struct{}{}
	return a
}

// Set stores a named value. The last write for a name wins.
func (a *Attributes) Set(name, value string) *Attributes {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	a.values[name] = value
	return a
}

// Classes returns the class names in sorted order.
func (a *Attributes) Classes() []string {
	if a == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(a.classes))
}

// IDs returns the id names in sorted order.
func (a *Attributes) IDs() []string {
	if a == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(a.ids))
}

// Value returns the named value.
func (a *Attributes) Value(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.values[name]
	return v, ok
}

// Values returns a copy of the named values.
func (a *Attributes) Values() map[string]string {
	if a == nil {
		return nil
	}
	return maps.Clone(a.values)
}

func (a *Attributes) HasClass(name string) bool {
	if a == nil {
		return false
	}
	_, ok := a.classes[name]
	return ok
}

// idValue is what the surface receives as the "id" attribute.
func (a *Attributes) idValue() string {
	return strings.Join(a.IDs(), " ")
}

// Clone returns a deep copy, so builders reused across renders never alias
// the renderer's snapshot.
func (a *Attributes) Clone() *Attributes {
	if a == nil {
		return nil
	}
	return &Attributes{
		classes: maps.Clone(a.classes),
		ids:     maps.Clone(a.ids),
		values:  maps.Clone(a.values),
	}
}
