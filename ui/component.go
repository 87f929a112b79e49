package ui

import "github.com/cansyan/mvu/dom"

// Dispatcher accepts messages addressed to a component identity.
type Dispatcher interface {
	Dispatch(target ID, msg any)
	// Defer schedules task to run after the current message has been
	// rendered.
	Defer(task func())
}

// Envelope is a message on its way to the component identified by Target.
type Envelope struct {
	Target ID
	Msg    any
}

// Composable is the type-erased surface of a component, so that components
// with different message, state and notification types can be stored in one
// child list and driven the same way.
type Composable interface {
	ID() ID
	ParentID() (ID, bool)
	// Contains reports whether id is this component or one of its descendants.
	Contains(id ID) bool
	// SetParentID records the owner. Only the first call has an effect.
	SetParentID(id ID)
	// Update delivers msg if target is this component or one of its
	// descendants. found reports whether target was located. A non-nil
	// forward means the owner turned a notification into a message for its
	// parent; the caller must deliver it and must not render the owner.
	// Tasks returned by the update are handed to d.Defer.
	Update(target ID, msg any, d Dispatcher) (forward *Envelope, found bool)
	// Render produces the native subtree of this component for target.
	// Event handlers bound in the pass dispatch through d.
	Render(target Target, d Dispatcher) *dom.Node
}

// Component is a self-contained state machine: update folds messages of type
// M into state S and may emit a notification B for the parent; render turns
// the state into a virtual tree.
type Component[M, S, B any] struct {
	state     S
	update    func(*S, M) Cmd[M, B]
	render    func(S) Html[M]
	subscribe func(B) any
	children  []Composable
	id        ID
	parentID  *ID
	last      *dom.Node // native subtree of the last render
}

var _ Composable = (*Component[struct{}, struct{}, struct{}])(nil)

// New creates a component from its initial state, update and render.
//
//	func update(s *State, m Msg) (Sub, bool) { s.n++; return Sub{}, false }
//	func render(s State) ui.Html[Msg] { return ui.Text[Msg](strconv.Itoa(s.n)) }
//
//	c := ui.New(State{}, update, render)
func New[M, S, B any](state S, update func(*S, M) (B, bool), render func(S) Html[M]) *Component[M, S, B] {
	return NewWithCmd(state, func(s *S, m M) Cmd[M, B] {
		if sub, ok := update(s, m); ok {
			return Notify[M](sub)
		}
		return None[M, B]()
	}, render)
}

// NewWithCmd is New for updates that return a Cmd, so they can schedule
// tasks as well as notify the parent.
func NewWithCmd[M, S, B any](state S, update func(*S, M) Cmd[M, B], render func(S) Html[M]) *Component[M, S, B] {
	return &Component[M, S, B]{
		state:  state,
		update: update,
		render: render,
		id:     newID(),
	}
}

// Subscribe registers fn to translate this component's notifications into
// messages for its parent. A later call replaces the earlier handler.
//
//	counter.New(5).Subscribe(func(s counter.Sub) any { return Msg{Done: s.Value} })
func (c *Component[M, S, B]) Subscribe(fn func(B) any) *Component[M, S, B] {
	c.subscribe = fn
	return c
}

func (c *Component[M, S, B]) ID() ID { return c.id }

func (c *Component[M, S, B]) ParentID() (ID, bool) {
	if c.parentID == nil {
		return ID{}, false
	}
	return *c.parentID, true
}

func (c *Component[M, S, B]) Contains(id ID) bool {
	if id == c.id {
		return true
	}
	for _, child := range c.children {
		if child.Contains(id) {
			return true
		}
	}
	return false
}

func (c *Component[M, S, B]) SetParentID(id ID) {
	if c.parentID != nil {
		return
	}
	c.parentID = &id
}

// State returns a copy of the current state.
func (c *Component[M, S, B]) State() S { return c.state }

// Children returns the owned children in first-appearance order.
func (c *Component[M, S, B]) Children() []Composable { return c.children }

func (c *Component[M, S, B]) Update(target ID, msg any, d Dispatcher) (*Envelope, bool) {
	if target != c.id {
		for _, child := range c.children {
			if fwd, found := child.Update(target, msg, d); found {
				return fwd, true
			}
		}
		return nil, false
	}

	m, ok := msg.(M)
	if !ok {
		// addressed here but of another message type
		return nil, true
	}
	cmd := c.update(&c.state, m)
	if cmd.isNone() {
		return nil, true
	}
	if task := cmd.task; task != nil {
		id := c.id
		d.Defer(func() {
			task(func(m M) { d.Dispatch(id, m) })
		})
	}
	if cmd.sub == nil || c.parentID == nil || c.subscribe == nil {
		return nil, true
	}
	return &Envelope{Target: *c.parentID, Msg: c.subscribe(*cmd.sub)}, true
}

func (c *Component[M, S, B]) Render(target Target, d Dispatcher) *dom.Node {
	if target.forces(c.id) {
		c.children = nil
		c.last = c.adaptForce(c.render(c.state), d)
		return c.last
	}
	if c.last != nil && !c.Contains(target.id) {
		// off the path to the target: the surface already shows this subtree
		return c.last
	}

	cursor := 0
	c.last = c.adaptLazy(c.render(c.state), &cursor, target, d)
	// children past the cursor are no longer referenced by the tree
	clear(c.children[cursor:])
	c.children = c.children[:cursor]
	return c.last
}

func (c *Component[M, S, B]) adopt(child Composable) {
	child.SetParentID(c.id)
	c.children = append(c.children, child)
}

func (c *Component[M, S, B]) adaptForce(html Html[M], d Dispatcher) *dom.Node {
	switch html.kind {
	case textKind:
		return dom.NewText(html.text, true)
	case componentKind:
		node := html.component.Render(Force(), d)
		c.adopt(html.component)
		return node
	}

	children := make([]*dom.Node, 0, len(html.children))
	for _, child := range html.children {
		children = append(children, c.adaptForce(child, d))
	}

	var events dom.Events
	if hs := html.events.list(); len(hs) > 0 {
		events = make(dom.Events, len(hs))
		id := c.id
		for _, h := range hs {
			fn := h.fn
			events[h.name] = func(e dom.Event) { d.Dispatch(id, fn(e)) }
		}
	}
	return dom.NewElement(html.tag, html.attrs.Clone(), events, children, true)
}

// adaptLazy walks html only to find component placeholders. Elements and text
// on the way keep their current native content.
func (c *Component[M, S, B]) adaptLazy(html Html[M], cursor *int, target Target, d Dispatcher) *dom.Node {
	switch html.kind {
	case textKind:
		return dom.NewText(html.text, false)
	case componentKind:
		if *cursor < len(c.children) {
			child := c.children[*cursor]
			*cursor++
			return child.Render(target, d)
		}
		node := html.component.Render(Force(), d)
		c.adopt(html.component)
		*cursor++
		return node
	}

	children := make([]*dom.Node, 0, len(html.children))
	for _, child := range html.children {
		children = append(children, c.adaptLazy(child, cursor, target, d))
	}
	return dom.NewElement(html.tag, nil, nil, children, false)
}
