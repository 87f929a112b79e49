package dom

import "slices"

// Handle is an opaque reference to a node living on a Surface.
type Handle any

// Surface is the set of mutation primitives a rendering backend provides.
// Failures are not modeled: a well-formed host always succeeds.
type Surface interface {
	CreateElement(tag string) Handle
	CreateText(text string) Handle
	SetText(h Handle, text string)
	SetAttribute(h Handle, name, value string)
	RemoveAttribute(h Handle, name string)
	AddClass(h Handle, name string)
	RemoveClass(h Handle, name string)
	// SetListener binds fn to the named event, replacing any earlier binding.
	SetListener(h Handle, event string, fn func(Event))
	RemoveListener(h Handle, event string)
	AppendChild(parent, child Handle)
	RemoveChild(parent, child Handle)
	ReplaceChild(parent, newChild, oldChild Handle)
}

// Renderer keeps the last applied native tree and turns every new tree into
// the minimal surface mutations.
type Renderer struct {
	surface Surface
	mount   Handle
	prev    *Node
}

// NewRenderer returns a renderer that mounts under mount on first Update.
func NewRenderer(surface Surface, mount Handle) *Renderer {
	return &Renderer{surface: surface, mount: mount}
}

// Tree returns the snapshot that currently mirrors the surface.
func (r *Renderer) Tree() *Node { return r.prev }

// Update applies next to the surface.
func (r *Renderer) Update(next *Node) {
	r.prev = r.patch(r.mount, r.prev, next)
}

// patch reconciles old against next under parent and returns the snapshot
// that now mirrors the surface at that position.
func (r *Renderer) patch(parent Handle, old, next *Node) *Node {
	if next == old {
		// a subtree handed back unchanged by its owner
		return next
	}
	if next != nil && next.handle != nil {
		// applied before at another position; diff a copy so the previous
		// snapshot keeps its handles
		next = next.clone()
	}

	switch {
	case next == nil:
		if old != nil {
			r.surface.RemoveChild(parent, old.handle)
		}
		return nil
	case old == nil:
		r.surface.AppendChild(parent, r.create(next))
		return next
	case old.Kind != next.Kind || old.Tag != next.Tag:
		r.surface.ReplaceChild(parent, r.create(next), old.handle)
		return next
	}

	next.handle = old.handle
	if next.Kind == TextNode {
		switch {
		case !next.Rerender:
			next.Text = old.Text
		case next.Text != old.Text:
			r.surface.SetText(next.handle, next.Text)
		}
		return next
	}

	if next.Rerender {
		r.patchAttributes(next.handle, old.Attrs, next.Attrs)
		r.patchEvents(next.handle, old.Events, next.Events)
	} else {
		next.Attrs, next.Events = old.Attrs, old.Events
	}
	r.patchChildren(next.handle, old.Children, next.Children)
	return next
}

func (r *Renderer) patchChildren(parent Handle, old, next []*Node) {
	for i, n := range next {
		var o *Node
		if i < len(old) {
			o = old[i]
		}
		next[i] = r.patch(parent, o, n)
	}
	for _, o := range old[min(len(next), len(old)):] {
		r.surface.RemoveChild(parent, o.handle)
	}
}

func (r *Renderer) patchAttributes(h Handle, old, next *Attributes) {
	if ov, nv := old.idValue(), next.idValue(); ov != nv {
		if nv == "" {
			r.surface.RemoveAttribute(h, "id")
		} else {
			r.surface.SetAttribute(h, "id", nv)
		}
	}

	oc, nc := old.Classes(), next.Classes()
	for _, c := range oc {
		if !slices.Contains(nc, c) {
			r.surface.RemoveClass(h, c)
		}
	}
	for _, c := range nc {
		if !slices.Contains(oc, c) {
			r.surface.AddClass(h, c)
		}
	}

	ovals, nvals := old.Values(), next.Values()
	for name := range ovals {
		if _, ok := nvals[name]; !ok {
			r.surface.RemoveAttribute(h, name)
		}
	}
	for name, v := range nvals {
		if ov, ok := ovals[name]; !ok || ov != v {
			r.surface.SetAttribute(h, name, v)
		}
	}
}

// patchEvents rebinds every listener of next: closures cannot be compared,
// and a fresh closure may capture a different component identity.
func (r *Renderer) patchEvents(h Handle, old, next Events) {
	for name := range old {
		if _, ok := next[name]; !ok {
			r.surface.RemoveListener(h, name)
		}
	}
	for name, fn := range next {
		r.surface.SetListener(h, name, fn)
	}
}

// create materializes n and its subtree and binds the handles.
func (r *Renderer) create(n *Node) Handle {
	if n.Kind == TextNode {
		n.handle = r.surface.CreateText(n.Text)
		return n.handle
	}

	h := r.surface.CreateElement(n.Tag)
	if ids := n.Attrs.idValue(); ids != "" {
		r.surface.SetAttribute(h, "id", ids)
	}
	for _, c := range n.Attrs.Classes() {
		r.surface.AddClass(h, c)
	}
	for name, v := range n.Attrs.Values() {
		r.surface.SetAttribute(h, name, v)
	}
	for name, fn := range n.Events {
		r.surface.SetListener(h, name, fn)
	}
	for _, c := range n.Children {
		r.surface.AppendChild(h, r.create(c))
	}
	n.handle = h
	return h
}
