// Package dom describes the native tree a render pass produces and applies it
// to a concrete rendering surface with as few mutations as it can.
package dom

import "strings"

type Kind uint8

const (
	ElementNode Kind = iota
	TextNode
)

func (k Kind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// Event is the payload a surface hands to a listener.
type Event struct {
	Type string // "click", "keydown", ...
	X, Y int    // relative to the target for pointer events
	Key  string // key name for keyboard events, e.g. "Enter", "Ctrl+A"
	Rune rune
}

// Events maps an event name to its listener.
type Events map[string]func(Event)

// Node is one node of the native tree. Attrs and Events are materialized;
// Rerender reports whether the node was computed fresh in this pass. A node
// with Rerender unset is a reused position: the renderer keeps what the surface
// already shows for it and only walks its children.
type Node struct {
	Kind     Kind
	Tag      string
	Attrs    *Attributes
	Events   Events
	Children []*Node
	Text     string
	Rerender bool

	handle Handle
}

// NewElement returns an element node.
func NewElement(tag string, attrs *Attributes, events Events, children []*Node, rerender bool) *Node {
	return &Node{
		Kind:     ElementNode,
		Tag:      tag,
		Attrs:    attrs,
		Events:   events,
		Children: children,
		Rerender: rerender,
	}
}

// NewText returns a text node.
func NewText(text string, rerender bool) *Node {
	return &Node{Kind: TextNode, Text: text, Rerender: rerender}
}

// Handle returns the surface handle bound to n by the last Renderer.Update,
// or nil if n has not been applied.
func (n *Node) Handle() Handle { return n.handle }

// clone deep-copies n without its surface handles.
func (n *Node) clone() *Node {
	c := *n
	c.handle = nil
	c.Children = make([]*Node, len(n.Children))
	for i, ch := range n.Children {
		c.Children[i] = ch.clone()
	}
	return &c
}

// String renders n as compact markup, for logs and tests.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		return
	}
	if n.Kind == TextNode {
		b.WriteString(n.Text)
		return
	}
	b.WriteString("<" + n.Tag)
	if ids := n.Attrs.idValue(); ids != "" {
		b.WriteString(` id="` + ids + `"`)
	}
	if cs := n.Attrs.Classes(); len(cs) > 0 {
		b.WriteString(` class="` + strings.Join(cs, " ") + `"`)
	}
	b.WriteString(">")
	for _, c := range n.Children {
		c.write(b)
	}
	b.WriteString("</" + n.Tag + ">")
}
