// Package term hosts a component tree in a terminal. It keeps a retained
// document the renderer mutates, paints it with tcell, and turns mouse and
// keyboard input into native events delivered to the bound listeners.
package term

import (
	"io"
	"log"
	"strings"

	"github.com/cansyan/mvu/config"
	"github.com/cansyan/mvu/dom"
	"github.com/gdamore/tcell/v2"
)

// Host owns the screen and the document. All its methods, and every listener
// it fires, run on the goroutine that calls Run.
type Host struct {
	*Document

	screen    tcell.Screen
	theme     Theme
	quitKey   tcell.Key
	mouse     bool
	clipboard Clipboard
	logger    *log.Logger

	regions []region
	focused *Box
	done    chan struct{}
}

type Option func(*Host)

func WithLogger(l *log.Logger) Option { return func(h *Host) { h.logger = l } }

func WithClipboard(c Clipboard) Option { return func(h *Host) { h.clipboard = c } }

// NewHost returns a host drawing on s. The document starts with a mount node
// whose id is cfg.Mount.
func NewHost(s tcell.Screen, cfg *config.Config, opts ...Option) *Host {
	h := &Host{
		Document: NewDocument(cfg.Mount),
		screen:   s,
		theme:    NewTheme(cfg),
		quitKey:  parseKey(cfg.QuitKey),
		mouse:    cfg.MouseEnabled(),
		logger:   log.New(io.Discard, "", 0),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.clipboard == nil {
		h.clipboard = &systemClipboard{logger: h.logger}
	}
	return h
}

// FindMount resolves a mount name to the document node with that id.
func (h *Host) FindMount(name string) (dom.Handle, bool) {
	b := h.ElementByID(name)
	if b == nil {
		return nil, false
	}
	return b, true
}

// Focused returns the box that receives key events.
func (h *Host) Focused() *Box { return h.focused }

// Draw repaints the whole document.
func (h *Host) Draw() {
	h.screen.Clear()
	if h.focused != nil && !h.attached(h.focused) {
		h.focused = nil
	}
	h.regions = paint(h.screen, h.Document, h.theme, h.focused)
	h.screen.Show()
}

func (h *Host) attached(b *Box) bool {
	for ; b != nil; b = b.Parent {
		if b == h.Body {
			return true
		}
	}
	return false
}

// Run initializes the screen and processes events until the quit key is
// pressed or Stop is called.
func (h *Host) Run() error {
	if err := h.screen.Init(); err != nil {
		return err
	}
	defer h.screen.Fini()
	if h.mouse {
		h.screen.EnableMouse()
	}
	h.Draw()

	for {
		select {
		case <-h.done:
			return nil
		default:
		}

		ev := h.screen.PollEvent()
		if ev == nil {
			// screen finalized
			return nil
		}
		if h.HandleEvent(ev) {
			return nil
		}
	}
}

// Post runs fn on the event goroutine and redraws. It is safe to call from
// any goroutine, and is how work finished elsewhere dispatches its result.
func (h *Host) Post(fn func()) {
	if err := h.screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		h.logger.Printf("dropped posted func: %v", err)
	}
}

// Stop makes Run return after the event in progress.
func (h *Host) Stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
		h.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// HandleEvent applies one terminal event and reports whether the host should quit.
func (h *Host) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == h.quitKey {
			return true
		}
		h.handleKey(ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.ButtonPrimary == 0 {
			return false
		}
		h.handleClick(ev.Position())
	case *tcell.EventInterrupt:
		fn, ok := ev.Data().(func())
		if !ok {
			return false
		}
		fn()
	default:
		return false
	}
	// redrawing after every event is efficient enough for a terminal
	h.Draw()
	return false
}

func (h *Host) handleClick(x, y int) {
	b, _ := hitTest(h.regions, x, y)
	for ; b != nil; b = b.Parent {
		fn := b.Listener("click")
		if fn == nil {
			continue
		}
		h.focused = b
		r := h.boxRect(b)
		h.logger.Printf("click <%s> at %d,%d", b.Tag, x, y)
		fn(dom.Event{Type: "click", X: x - r.X, Y: y - r.Y})
		return
	}
}

func (h *Host) boxRect(b *Box) Rect {
	for _, r := range h.regions {
		if r.Box == b {
			return r.Rect
		}
	}
	return Rect{}
}

func (h *Host) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		src := h.focused
		if src == nil {
			src = h.Body
		}
		h.clipboard.Write(src.TextContent())
		return
	}

	for b := h.focused; b != nil; b = b.Parent {
		if fn := b.Listener("keydown"); fn != nil {
			fn(dom.Event{Type: "keydown", Key: keyName(ev), Rune: ev.Rune()})
			return
		}
	}
}

// keyName is the event's key name, e.g. "Enter", "Ctrl+A" or "x".
func keyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		return string(ev.Rune())
	}
	name := ev.Name()
	return strings.ReplaceAll(name, "-", "+")
}

// parseKey looks up a key by name. Unknown names, which Validate rejects,
// fall back to Escape.
func parseKey(name string) tcell.Key {
	if k, ok := config.LookupKey(name); ok {
		return k
	}
	return tcell.KeyEscape
}
