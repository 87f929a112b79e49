package ui

import "github.com/google/uuid"

// ID identifies a component instance for its whole lifetime. IDs are random
// 128-bit values; two live components colliding is possible in principle and
// ignored in practice.
type ID uuid.UUID

func newID() ID { return ID(uuid.New()) }

func (id ID) String() string { return uuid.UUID(id).String() }

// Target selects how a render pass treats existing children.
type Target struct {
	id   ID
	lazy bool
}

// Force re-renders everything, discarding existing children.
func Force() Target { return Target{} }

// Lazy re-renders only the path from the root down to the component id.
func Lazy(id ID) Target { return Target{id: id, lazy: true} }

// forces reports whether the component self must render in force mode.
func (t Target) forces(self ID) bool { return !t.lazy || t.id == self }

func (t Target) String() string {
	if !t.lazy {
		return "force"
	}
	return "lazy:" + t.id.String()
}
