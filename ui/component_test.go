package ui

import (
	"strconv"
	"testing"

	"github.com/cansyan/mvu/dom"
)

type leafMsg int

const (
	bump leafMsg = iota
	finish
)

type leafSub struct{ value int }

type leafState struct{ n int }

// tracker counts update and render calls per component name.
type tracker struct {
	updates map[string]int
	renders map[string]int
}

func newTracker() *tracker {
	return &tracker{updates: map[string]int{}, renders: map[string]int{}}
}

func (p *tracker) leaf(name string) *Component[leafMsg, leafState, leafSub] {
	update := func(s *leafState, m leafMsg) (leafSub, bool) {
		p.updates[name]++
		switch m {
		case bump:
			s.n++
		case finish:
			return leafSub{value: 42}, true
		}
		return leafSub{}, false
	}
	render := func(s leafState) Html[leafMsg] {
		p.renders[name]++
		return Span(nil, NewEvents[leafMsg]().OnClick(func(dom.Event) leafMsg { return bump }),
			Text[leafMsg](name+"="+strconv.Itoa(s.n)))
	}
	return New(leafState{}, update, render)
}

type parentMsg struct {
	finished int
	grow     int
}

type parentState struct {
	children int
	finished []int
}

// parent renders a text node "x" followed by `children` placeholders, each a
// freshly built component from mk.
func (p *tracker) parent(name string, children int, mk func(i int) Composable) *Component[parentMsg, parentState, struct{}] {
	update := func(s *parentState, m parentMsg) (struct{}, bool) {
		p.updates[name]++
		s.children += m.grow
		if m.finished != 0 {
			s.finished = append(s.finished, m.finished)
		}
		return struct{}{}, false
	}
	render := func(s parentState) Html[parentMsg] {
		p.renders[name]++
		kids := []Html[parentMsg]{Text[parentMsg]("x")}
		for i := range s.children {
			kids = append(kids, Embed[parentMsg](mk(i)))
		}
		return Div(NewAttributes().Class(name), NewEvents[parentMsg]().OnClick(func(dom.Event) parentMsg { return parentMsg{grow: 1} }), kids...)
	}
	return New(parentState{children: children}, update, render)
}

type recorder struct {
	sent  []Envelope
	tasks []func()
}

func (r *recorder) Dispatch(target ID, msg any) {
	r.sent = append(r.sent, Envelope{Target: target, Msg: msg})
}

func (r *recorder) Defer(task func()) { r.tasks = append(r.tasks, task) }

func TestNew(t *testing.T) {
	p := newTracker()
	a, b := p.leaf("a"), p.leaf("b")
	if a.ID() == b.ID() {
		t.Fatal("two components share an ID")
	}
	if _, ok := a.ParentID(); ok {
		t.Error("new component has a parent")
	}
	if len(a.Children()) != 0 {
		t.Errorf("len(Children()) = %d, want 0", len(a.Children()))
	}
}

func TestSetParentID_Once(t *testing.T) {
	c := newTracker().leaf("a")
	first, second := newID(), newID()
	c.SetParentID(first)
	c.SetParentID(second)
	if got, _ := c.ParentID(); got != first {
		t.Errorf("ParentID() = %v, want %v", got, first)
	}
}

func TestSubscribe_ReplacesHandler(t *testing.T) {
	p := newTracker()
	child := p.leaf("c").
		Subscribe(func(s leafSub) any { return "first" }).
		Subscribe(func(s leafSub) any { return parentMsg{finished: s.value} })
	root := p.parent("root", 1, func(int) Composable { return child })
	root.Render(Force(), &recorder{})

	fwd, found := root.Update(child.ID(), finish, &recorder{})
	if !found || fwd == nil {
		t.Fatalf("Update() = %v, %v, want forward", fwd, found)
	}
	if fwd.Msg != (parentMsg{finished: 42}) {
		t.Errorf("forwarded msg = %#v, want the second handler's", fwd.Msg)
	}
}

func TestRender_ForceAdoptsChildren(t *testing.T) {
	p := newTracker()
	root := p.parent("root", 2, func(i int) Composable { return p.leaf("leaf" + strconv.Itoa(i)) })

	node := root.Render(Force(), &recorder{})

	if got, want := node.String(), `<div class="root">x<span>leaf0=0</span><span>leaf1=0</span></div>`; got != want {
		t.Errorf("Render() = %s, want %s", got, want)
	}
	if len(root.Children()) != 2 {
		t.Fatalf("len(Children()) = %d, want 2", len(root.Children()))
	}
	for i, c := range root.Children() {
		if pid, ok := c.ParentID(); !ok || pid != root.ID() {
			t.Errorf("child %d ParentID() = %v, %v, want %v", i, pid, ok, root.ID())
		}
	}
	if !node.Rerender || !node.Children[1].Rerender {
		t.Error("force render produced nodes without Rerender")
	}
}

func TestRender_ForceDiscardsChildren(t *testing.T) {
	p := newTracker()
	root := p.parent("root", 1, func(int) Composable { return p.leaf("a") })
	root.Render(Force(), &recorder{})
	before := root.Children()[0].ID()

	root.Render(Lazy(root.ID()), &recorder{})

	if after := root.Children()[0].ID(); after == before {
		t.Error("forced render kept the old child")
	}
	if len(root.Children()) != 1 {
		t.Errorf("len(Children()) = %d, want 1", len(root.Children()))
	}
}

func TestRender_EventsDispatchToOwner(t *testing.T) {
	p := newTracker()
	root := p.parent("root", 1, func(int) Composable { return p.leaf("a") })
	rec := &recorder{}
	node := root.Render(Force(), rec)

	node.Events["click"](dom.Event{Type: "click"})
	node.Children[1].Events["click"](dom.Event{Type: "click"})

	if len(rec.sent) != 2 {
		t.Fatalf("dispatched %d messages, want 2", len(rec.sent))
	}
	if rec.sent[0].Target != root.ID() || rec.sent[0].Msg != (parentMsg{grow: 1}) {
		t.Errorf("root click sent %+v", rec.sent[0])
	}
	if rec.sent[1].Target != root.Children()[0].ID() || rec.sent[1].Msg != bump {
		t.Errorf("leaf click sent %+v", rec.sent[1])
	}
}

func TestRender_LazyKeepsIdentityAndState(t *testing.T) {
	p := newTracker()
	root := p.parent("root", 2, func(i int) Composable { return p.leaf("leaf" + strconv.Itoa(i)) })
	root.Render(Force(), &recorder{})
	kept := root.Children()[0]

	for i := range 5 {
		if _, found := root.Update(kept.ID(), bump, &recorder{}); !found {
			t.Fatal("child not found")
		}
		root.Render(Lazy(kept.ID()), &recorder{})

		if got := root.Children()[0]; got != kept {
			t.Fatalf("render %d replaced the child", i)
		}
		if n := kept.(*Component[leafMsg, leafState, leafSub]).State().n; n != i+1 {
			t.Errorf("render %d: state n = %d, want %d", i, n, i+1)
		}
	}
}

func TestRender_LazyAppendsNewChild(t *testing.T) {
	p := newTracker()
	created := 0
	root := p.parent("root", 1, func(i int) Composable {
		created++
		return p.leaf("leaf" + strconv.Itoa(i))
	})
	root.Render(Force(), &recorder{})
	first := root.Children()[0]

	root.Update(root.ID(), parentMsg{grow: 1}, &recorder{})
	created = 0
	node := root.Render(Lazy(first.ID()), &recorder{})

	if created != 2 {
		t.Errorf("render built %d placeholders, want 2", created)
	}
	if len(root.Children()) != 2 || root.Children()[0] != first {
		t.Fatalf("Children() = %v, want the old child followed by one new", root.Children())
	}
	if pid, ok := root.Children()[1].ParentID(); !ok || pid != root.ID() {
		t.Errorf("new child ParentID() = %v, %v, want %v", pid, ok, root.ID())
	}
	if got := node.Children[2]; !got.Rerender || got.Events == nil {
		t.Error("new child was not force rendered")
	}
}

func TestRender_LazyDropsUnreferencedChildren(t *testing.T) {
	p := newTracker()
	root := p.parent("root", 3, func(i int) Composable { return p.leaf("leaf" + strconv.Itoa(i)) })
	root.Render(Force(), &recorder{})
	first := root.Children()[0]

	root.Update(root.ID(), parentMsg{grow: -2}, &recorder{})
	root.Render(Lazy(first.ID()), &recorder{})

	if len(root.Children()) != 1 || root.Children()[0] != first {
		t.Errorf("Children() = %v, want only the first child", root.Children())
	}
}

func TestRender_LazyRetainsNativeContent(t *testing.T) {
	p := newTracker()
	root := p.parent("root", 1, func(int) Composable { return p.leaf("a") })
	root.Render(Force(), &recorder{})
	leaf := root.Children()[0]

	node := root.Render(Lazy(leaf.ID()), &recorder{})

	if node.Rerender || node.Attrs != nil || node.Events != nil {
		t.Errorf("root on the lazy path = %+v, want a bare reused node", node)
	}
	if node.Children[0].Rerender {
		t.Error("text on the lazy path is marked for rerender")
	}
	if !node.Children[1].Rerender {
		t.Error("target was not rerendered")
	}
}

func TestUpdate_RoutesToNestedComponent(t *testing.T) {
	p := newTracker()
	deep := p.leaf("deep")
	mid := p.parent("mid", 1, func(int) Composable { return deep })
	root := p.parent("root", 2, func(i int) Composable {
		if i == 0 {
			return p.leaf("sibling")
		}
		return mid
	})
	root.Render(Force(), &recorder{})

	fwd, found := root.Update(deep.ID(), bump, &recorder{})

	if !found || fwd != nil {
		t.Fatalf("Update() = %v, %v, want nil, true", fwd, found)
	}
	if p.updates["deep"] != 1 {
		t.Errorf("deep updates = %d, want 1", p.updates["deep"])
	}
	for _, name := range []string{"root", "mid", "sibling"} {
		if p.updates[name] != 0 {
			t.Errorf("%s updates = %d, want 0", name, p.updates[name])
		}
	}
	if deep.State().n != 1 {
		t.Errorf("deep n = %d, want 1", deep.State().n)
	}
}

func TestUpdate_UnknownTarget(t *testing.T) {
	p := newTracker()
	root := p.parent("root", 1, func(int) Composable { return p.leaf("a") })
	root.Render(Force(), &recorder{})

	if fwd, found := root.Update(newID(), bump, &recorder{}); found || fwd != nil {
		t.Errorf("Update() = %v, %v, want nil, false", fwd, found)
	}
}

func TestUpdate_TypeMismatchIsDropped(t *testing.T) {
	p := newTracker()
	leaf := p.leaf("a")
	root := p.parent("root", 1, func(int) Composable { return leaf })
	root.Render(Force(), &recorder{})

	fwd, found := root.Update(leaf.ID(), parentMsg{grow: 1}, &recorder{})

	if !found || fwd != nil {
		t.Errorf("Update() = %v, %v, want nil, true", fwd, found)
	}
	if p.updates["a"] != 0 || p.updates["root"] != 0 {
		t.Errorf("updates = %v, want none", p.updates)
	}
}

func TestUpdate_Notification(t *testing.T) {
	tests := []struct {
		name      string
		subscribe bool
		attach    bool
		wantFwd   bool
	}{
		{"parent and handler", true, true, true},
		{"no handler", false, true, false},
		{"no parent", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTracker()
			child := p.leaf("c")
			if tt.subscribe {
				child.Subscribe(func(s leafSub) any { return parentMsg{finished: s.value} })
			}
			var top Composable = child
			if tt.attach {
				root := p.parent("root", 1, func(int) Composable { return child })
				root.Render(Force(), &recorder{})
				top = root
			}

			fwd, found := top.Update(child.ID(), finish, &recorder{})

			if !found {
				t.Fatal("child not found")
			}
			if (fwd != nil) != tt.wantFwd {
				t.Fatalf("forward = %v, want forward %v", fwd, tt.wantFwd)
			}
			if tt.wantFwd && (fwd.Target != top.ID() || fwd.Msg != (parentMsg{finished: 42})) {
				t.Errorf("forward = %+v, want finished 42 to %v", fwd, top.ID())
			}
		})
	}
}

func TestRender_LazyScope(t *testing.T) {
	p := newTracker()
	ga, gb := p.leaf("ga"), p.leaf("gb")
	a := p.parent("a", 1, func(int) Composable { return ga })
	b := p.parent("b", 1, func(int) Composable { return gb })
	root := p.parent("root", 2, func(i int) Composable {
		if i == 0 {
			return a
		}
		return b
	})
	root.Render(Force(), &recorder{})
	clear(p.renders)

	root.Render(Lazy(ga.ID()), &recorder{})

	want := map[string]int{"root": 1, "a": 1, "ga": 1}
	for _, name := range []string{"root", "a", "ga", "b", "gb"} {
		if p.renders[name] != want[name] {
			t.Errorf("%s renders = %d, want %d", name, p.renders[name], want[name])
		}
	}
}

type loadMsg struct {
	start  bool
	result string
}

type loadState struct{ status string }

// loader starts a task on start and records the result it resolves with;
// a result of "done" also notifies the parent.
func loader() *Component[loadMsg, loadState, string] {
	update := func(s *loadState, m loadMsg) Cmd[loadMsg, string] {
		switch {
		case m.start:
			s.status = "loading"
			return Task[loadMsg, string](func(resolve func(loadMsg)) {
				resolve(loadMsg{result: "ok"})
			})
		case m.result == "done":
			s.status = m.result
			return Notify[loadMsg](m.result)
		case m.result != "":
			s.status = m.result
		}
		return None[loadMsg, string]()
	}
	render := func(s loadState) Html[loadMsg] { return Span(nil, nil, Text[loadMsg](s.status)) }
	return NewWithCmd(loadState{}, update, render)
}

func TestUpdate_TaskIsDeferred(t *testing.T) {
	c := loader()
	rec := &recorder{}

	if _, found := c.Update(c.ID(), loadMsg{start: true}, rec); !found {
		t.Fatal("component not found")
	}
	if len(rec.tasks) != 1 {
		t.Fatalf("deferred %d tasks, want 1", len(rec.tasks))
	}
	if len(rec.sent) != 0 {
		t.Fatalf("task ran during update: sent %v", rec.sent)
	}

	rec.tasks[0]()

	if len(rec.sent) != 1 || rec.sent[0] != (Envelope{Target: c.ID(), Msg: loadMsg{result: "ok"}}) {
		t.Errorf("sent = %+v, want the result addressed to the component", rec.sent)
	}
}

func TestUpdate_CmdNotify(t *testing.T) {
	c := loader().Subscribe(func(s string) any { return parentMsg{finished: len(s)} })
	c.SetParentID(newID())
	rec := &recorder{}

	fwd, found := c.Update(c.ID(), loadMsg{result: "done"}, rec)

	if !found || fwd == nil || fwd.Msg != (parentMsg{finished: 4}) {
		t.Errorf("Update() = %+v, %v, want the notification forwarded", fwd, found)
	}
	if len(rec.tasks) != 0 {
		t.Errorf("deferred %d tasks, want 0", len(rec.tasks))
	}
}

func TestCmd_WithTask(t *testing.T) {
	ran := false
	cmd := Notify[leafMsg]("x").WithTask(func(func(leafMsg)) { ran = true })
	if cmd.sub == nil || *cmd.sub != "x" || cmd.task == nil {
		t.Fatalf("cmd = %+v, want a notification and a task", cmd)
	}
	cmd.task(nil)
	if !ran {
		t.Error("task not kept")
	}
	if !None[leafMsg, string]().isNone() || Notify[leafMsg]("").isNone() {
		t.Error("isNone() mismatch")
	}
}
