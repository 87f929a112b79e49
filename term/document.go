package term

import (
	"maps"
	"slices"
	"strings"

	"github.com/cansyan/mvu/dom"
)

// Box is one node of the retained terminal document.
type Box struct {
	Tag  string // empty for text
	Text string

	attrs     map[string]string
	classes   map[string]struct{}
	listeners map[string]func(dom.Event)

	Parent   *Box
	Children []*Box
}

func (b *Box) IsText() bool { return b.Tag == "" }

func (b *Box) Attr(name string) (string, bool) {
	v, ok := b.attrs[name]
	return v, ok
}

func (b *Box) HasClass(name string) bool {
	_, ok := b.classes[name]
	return ok
}

// Classes returns the class names in sorted order.
func (b *Box) Classes() []string { return slices.Sorted(maps.Keys(b.classes)) }

func (b *Box) Listener(event string) func(dom.Event) { return b.listeners[event] }

// TextContent concatenates the text of b and all its descendants.
func (b *Box) TextContent() string {
	var sb strings.Builder
	b.walk(func(n *Box) {
		if n.IsText() {
			sb.WriteString(n.Text)
		}
	})
	return sb.String()
}

func (b *Box) walk(fn func(*Box)) {
	fn(b)
	for _, c := range b.Children {
		c.walk(fn)
	}
}

func (b *Box) indexOf(child *Box) int { return slices.Index(b.Children, child) }

// Document is an in-memory retained tree implementing dom.Surface.
type Document struct {
	Body *Box
}

var _ dom.Surface = (*Document)(nil)

// NewDocument returns a document whose body holds one empty div with the
// given id, ready to serve as a mount point.
func NewDocument(mount string) *Document {
	d := &Document{Body: newElement("body")}
	if mount != "" {
		m := newElement("div")
		m.attrs["id"] = mount
		d.AppendChild(d.Body, m)
	}
	return d
}

func newElement(tag string) *Box {
	return &Box{
		Tag:       tag,
		attrs:     make(map[string]string),
		classes:   make(map[string]struct{}),
		listeners: make(map[string]func(dom.Event)),
	}
}

// ElementByID returns the first element, in document order, whose id
// attribute contains id.
func (d *Document) ElementByID(id string) *Box {
	var found *Box
	d.Body.walk(func(b *Box) {
		if found != nil || b.IsText() {
			return
		}
		if v, ok := b.attrs["id"]; ok && slices.Contains(strings.Fields(v), id) {
			found = b
		}
	})
	return found
}

func box(h dom.Handle) *Box { return h.(*Box) }

func (d *Document) CreateElement(tag string) dom.Handle { return newElement(tag) }
func (d *Document) CreateText(text string) dom.Handle   { return &Box{Text: text} }
func (d *Document) SetText(h dom.Handle, text string)   { box(h).Text = text }

func (d *Document) SetAttribute(h dom.Handle, name, value string) { box(h).attrs[name] = value }
func (d *Document) RemoveAttribute(h dom.Handle, name string)     { delete(box(h).attrs, name) }
func (d *Document) AddClass(h dom.Handle, name string)            { box(h).classes[name] = struct{}{} }
func (d *Document) RemoveClass(h dom.Handle, name string)         { delete(box(h).classes, name) }

func (d *Document) SetListener(h dom.Handle, event string, fn func(dom.Event)) {
	box(h).listeners[event] = fn
}

func (d *Document) RemoveListener(h dom.Handle, event string) { delete(box(h).listeners, event) }

func (d *Document) AppendChild(parent, child dom.Handle) {
	p, c := box(parent), box(child)
	if c.Parent != nil {
		c.Parent.remove(c)
	}
	c.Parent = p
	p.Children = append(p.Children, c)
}

func (d *Document) RemoveChild(parent, child dom.Handle) {
	box(parent).remove(box(child))
}

func (d *Document) ReplaceChild(parent, newChild, oldChild dom.Handle) {
	p, n, o := box(parent), box(newChild), box(oldChild)
	i := p.indexOf(o)
	if i < 0 {
		d.AppendChild(parent, newChild)
		return
	}
	if n.Parent != nil {
		n.Parent.remove(n)
		i = p.indexOf(o)
	}
	p.Children[i] = n
	n.Parent = p
	o.Parent = nil
}

func (b *Box) remove(child *Box) {
	if i := b.indexOf(child); i >= 0 {
		b.Children = slices.Delete(b.Children, i, i+1)
		child.Parent = nil
	}
}

// String renders the document as compact markup, for tests and debugging.
func (d *Document) String() string {
	var sb strings.Builder
	writeBox(&sb, d.Body)
	return sb.String()
}

func writeBox(sb *strings.Builder, b *Box) {
	if b.IsText() {
		sb.WriteString(b.Text)
		return
	}
	sb.WriteString("<" + b.Tag)
	for _, name := range slices.Sorted(maps.Keys(b.attrs)) {
		sb.WriteString(" " + name + `="` + b.attrs[name] + `"`)
	}
	if len(b.classes) > 0 {
		sb.WriteString(` class="` + strings.Join(b.Classes(), " ") + `"`)
	}
	sb.WriteString(">")
	for _, c := range b.Children {
		writeBox(sb, c)
	}
	sb.WriteString("</" + b.Tag + ">")
}
