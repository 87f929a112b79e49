// Package ui composes components following State→Update→Render and routes
// messages to the component that owns them.
//
// A component owns typed state, an update function and a render function.
// Components nest by embedding a child in the rendered tree; the parent keeps
// the child (and its state) across renders for as long as the child's
// placeholder stays in the same position.
//
//	root := ui.New(State{}, update, render)
//	app, err := ui.Run(root, host, "app")
//
// Every event handler bound in a render pass sends its message through the
// App, which updates the owning component, follows notifications upward,
// re-renders only the path to the settled component and patches the surface.
// Tasks returned by updates built with NewWithCmd run after that render.
package ui

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/cansyan/mvu/dom"
)

// ErrMountNotFound is returned by Run when the host has no node by the
// requested mount name.
var ErrMountNotFound = errors.New("mount point not found")

// Host is the rendering backend an App runs on.
type Host interface {
	dom.Surface
	FindMount(name string) (dom.Handle, bool)
}

// App is the message router of one live component tree. It is not safe for
// concurrent use: the host delivers every event on a single goroutine.
type App struct {
	root     Composable
	renderer *dom.Renderer
	logger   *log.Logger

	queue       []Envelope
	tasks       []func()
	dispatching bool
}

var _ Dispatcher = (*App)(nil)

type Option func(*App)

func WithLogger(l *log.Logger) Option {
	return func(a *App) { a.logger = l }
}

// Run force-renders root into the host node named mount and returns the App
// routing its messages from then on.
func Run(root Composable, host Host, mount string, opts ...Option) (*App, error) {
	handle, ok := host.FindMount(mount)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMountNotFound, mount)
	}

	a := &App{
		root:     root,
		renderer: dom.NewRenderer(host, handle),
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.renderer.Update(root.Render(Force(), a))
	a.logger.Printf("mounted %s at %q", root.ID(), mount)
	return a, nil
}

// Root returns the root component.
func (a *App) Root() Composable { return a.root }

// Tree returns the native tree currently applied to the host.
func (a *App) Tree() *dom.Node { return a.renderer.Tree() }

// Dispatch delivers msg to the component target. A call made while another
// dispatch is in flight (from an update, a render, a task, or a listener
// fired by the surface) is queued and handled after the current one settles.
//
// If an update or render panics, the messages and tasks still pending are
// discarded.
func (a *App) Dispatch(target ID, msg any) {
	a.queue = append(a.queue, Envelope{Target: target, Msg: msg})
	if a.dispatching {
		return
	}

	a.dispatching = true
	defer func() {
		a.dispatching = false
		a.queue = nil
		a.tasks = nil
	}()
	for len(a.queue) > 0 {
		env := a.queue[0]
		a.queue = a.queue[1:]
		a.settle(env)
		a.runTasks()
	}
}

// Defer schedules task to run once the message being handled is rendered.
func (a *App) Defer(task func()) {
	a.tasks = append(a.tasks, task)
}

func (a *App) runTasks() {
	for len(a.tasks) > 0 {
		task := a.tasks[0]
		a.tasks = a.tasks[1:]
		task()
	}
}

// settle delivers env, follows forwarded notifications, and re-renders the
// path to the last component that handled a message.
func (a *App) settle(env Envelope) {
	var settled *ID
	for {
		fwd, found := a.root.Update(env.Target, env.Msg, a)
		if !found {
			a.logger.Printf("dropped %T: no component %s", env.Msg, env.Target)
			break
		}
		id := env.Target
		settled = &id
		if fwd == nil {
			break
		}
		a.logger.Printf("forwarded notification %s -> %s", env.Target, fwd.Target)
		env = *fwd
	}
	if settled == nil {
		return
	}

	target := Lazy(*settled)
	a.renderer.Update(a.root.Render(target, a))
	a.logger.Printf("rendered %s", target)
}
