package ui

import "github.com/cansyan/mvu/dom"

type Attributes = dom.Attributes

// NewAttributes returns an empty attribute builder.
func NewAttributes() *Attributes { return dom.NewAttributes() }

type handler[M any] struct {
	name string
	fn   func(dom.Event) M
}

// Events collects the event handlers of one element. Each handler turns the
// native event payload into a message of the component's type.
type Events[M any] struct {
	handlers []handler[M]
}

func NewEvents[M any]() *Events[M] { return &Events[M]{} }

// On registers fn for the named event. A later registration for the same
// name replaces the earlier one.
func (e *Events[M]) On(name string, fn func(dom.Event) M) *Events[M] {
	for i, h := range e.handlers {
		if h.name == name {
			e.handlers[i].fn = fn
			return e
		}
	}
	e.handlers = append(e.handlers, handler[M]{name: name, fn: fn})
	return e
}

func (e *Events[M]) OnClick(fn func(dom.Event) M) *Events[M] { return e.On("click", fn) }

func (e *Events[M]) list() []handler[M] {
	if e == nil {
		return nil
	}
	return e.handlers
}

type htmlKind uint8

const (
	elementKind htmlKind = iota
	textKind
	componentKind
)

// Html is the declarative output of one render call. It is built fresh on
// every render and never compared against another Html; identity comes only
// from matching component placeholders against the owner's child list.
type Html[M any] struct {
	kind      htmlKind
	tag       string
	attrs     *Attributes
	events    *Events[M]
	children  []Html[M]
	text      string
	component Composable
}

// Element returns an element node. Nil attrs or events mean none.
func Element[M any](tag string, attrs *Attributes, events *Events[M], children ...Html[M]) Html[M] {
	return Html[M]{kind: elementKind, tag: tag, attrs: attrs, events: events, children: children}
}

func Text[M any](s string) Html[M] { return Html[M]{kind: textKind, text: s} }

// Embed places the child component c. If the owner already has a child at
// this position, c is discarded and the existing child keeps rendering.
func Embed[M any](c Composable) Html[M] { return Html[M]{kind: componentKind, component: c} }

func Div[M any](attrs *Attributes, events *Events[M], children ...Html[M]) Html[M] {
	return Element("div", attrs, events, children...)
}

func Span[M any](attrs *Attributes, events *Events[M], children ...Html[M]) Html[M] {
	return Element("span", attrs, events, children...)
}

func P[M any](attrs *Attributes, events *Events[M], children ...Html[M]) Html[M] {
	return Element("p", attrs, events, children...)
}

func H1[M any](attrs *Attributes, events *Events[M], children ...Html[M]) Html[M] {
	return Element("h1", attrs, events, children...)
}

func H2[M any](attrs *Attributes, events *Events[M], children ...Html[M]) Html[M] {
	return Element("h2", attrs, events, children...)
}

func Button[M any](attrs *Attributes, events *Events[M], children ...Html[M]) Html[M] {
	return Element("button", attrs, events, children...)
}

func Ul[M any](attrs *Attributes, events *Events[M], children ...Html[M]) Html[M] {
	return Element("ul", attrs, events, children...)
}

func Li[M any](attrs *Attributes, events *Events[M], children ...Html[M]) Html[M] {
	return Element("li", attrs, events, children...)
}
