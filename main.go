package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/cansyan/mvu/config"
	"github.com/cansyan/mvu/dom"
	"github.com/cansyan/mvu/term"
	"github.com/cansyan/mvu/ui"
	"github.com/gdamore/tcell/v2"
)

// counter is a child component. It notifies its parent when it hits its goal.

type counterMsg int

const (
	increment counterMsg = iota
	decrement
)

type counterState struct {
	label string
	value int
	goal  int
}

type goalReached struct {
	label string
	value int
}

func updateCounter(s *counterState, m counterMsg) (goalReached, bool) {
	switch m {
	case increment:
		s.value++
	case decrement:
		s.value--
	}
	if s.value == s.goal {
		return goalReached{label: s.label, value: s.value}, true
	}
	return goalReached{}, false
}

func renderCounter(s counterState) ui.Html[counterMsg] {
	cls := ui.NewAttributes().Class("counter")
	if s.value >= s.goal {
		cls.Class("success")
	}
	return ui.Li(cls, nil,
		ui.Text[counterMsg](fmt.Sprintf("%s: %d / %d ", s.label, s.value, s.goal)),
		ui.Button(nil, ui.NewEvents[counterMsg]().OnClick(func(dom.Event) counterMsg { return decrement }),
			ui.Text[counterMsg]("-")),
		ui.Text[counterMsg](" "),
		ui.Button(nil, ui.NewEvents[counterMsg]().OnClick(func(dom.Event) counterMsg { return increment }),
			ui.Text[counterMsg]("+")),
	)
}

func newCounter(label string, goal int) *ui.Component[counterMsg, counterState, goalReached] {
	return ui.New(counterState{label: label, goal: goal}, updateCounter, renderCounter)
}

// board is the root component. It keeps its counters in state so they
// survive the board's own re-renders. The newest log line stays highlighted
// for highlightFor.

const highlightFor = 2 * time.Second

type boardMsg struct {
	reached *goalReached
	add     bool
	fade    int // highlight generation to clear
}

type boardState struct {
	counters  []ui.Composable
	log       []string
	highlight bool
	gen       int
}

// afterFunc calls fn on the event goroutine once d has passed.
type afterFunc func(d time.Duration, fn func())

func (s *boardState) addCounter() {
	n := len(s.counters) + 1
	c := newCounter("counter "+strconv.Itoa(n), n+2).Subscribe(func(g goalReached) any {
		return boardMsg{reached: &g}
	})
	s.counters = append(s.counters, c)
}

func updateBoard(after afterFunc) func(*boardState, boardMsg) ui.Cmd[boardMsg, struct{}] {
	return func(s *boardState, m boardMsg) ui.Cmd[boardMsg, struct{}] {
		if m.add {
			s.addCounter()
		}
		if m.fade != 0 && m.fade == s.gen {
			s.highlight = false
		}
		if m.reached == nil {
			return ui.None[boardMsg, struct{}]()
		}

		s.log = append(s.log, fmt.Sprintf("%s reached %d", m.reached.label, m.reached.value))
		s.gen++
		s.highlight = true
		gen := s.gen
		return ui.Task[boardMsg, struct{}](func(resolve func(boardMsg)) {
			after(highlightFor, func() { resolve(boardMsg{fade: gen}) })
		})
	}
}

func renderBoard(s boardState) ui.Html[boardMsg] {
	items := make([]ui.Html[boardMsg], 0, len(s.counters))
	for _, c := range s.counters {
		items = append(items, ui.Embed[boardMsg](c))
	}

	logLines := make([]ui.Html[boardMsg], 0, len(s.log))
	for i, l := range s.log {
		cls := "muted"
		if s.highlight && i == len(s.log)-1 {
			cls = "success"
		}
		logLines = append(logLines, ui.Div(ui.NewAttributes().Class(cls), nil, ui.Text[boardMsg](l)))
	}

	return ui.Div(ui.NewAttributes().ID("board"), nil,
		ui.H1(nil, nil, ui.Text[boardMsg]("mvu counters")),
		ui.Ul(nil, nil, items...),
		ui.Div(nil, nil,
			ui.Button(ui.NewAttributes().Class("accent"),
				ui.NewEvents[boardMsg]().OnClick(func(dom.Event) boardMsg { return boardMsg{add: true} }),
				ui.Text[boardMsg]("add counter")),
		),
		ui.Div(nil, nil, logLines...),
		ui.P(ui.NewAttributes().Class("muted"), nil, ui.Text[boardMsg]("click buttons, Ctrl+C copies, Esc quits")),
	)
}

func newBoard(after afterFunc) *ui.Component[boardMsg, boardState, struct{}] {
	var s boardState
	s.addCounter()
	s.addCounter()
	return ui.NewWithCmd(s, updateBoard(after), renderBoard)
}

// newLogger opens the configured log file. Without one, logs are discarded:
// the terminal belongs to the UI.
func newLogger(cfg *config.Config) (*log.Logger, io.Closer, error) {
	if cfg.Log.File == "" {
		return log.New(io.Discard, "", 0), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	flags := log.LstdFlags
	if cfg.Log.Source {
		flags |= log.Lshortfile
	}
	return log.New(f, "", flags), f, nil
}

func main() {
	cfg, err := config.LoadOptional(".")
	if err != nil {
		log.Fatal(err)
	}
	logger, closer, err := newLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	host := term.NewHost(screen, cfg, term.WithLogger(logger))
	after := func(d time.Duration, fn func()) {
		time.AfterFunc(d, func() { host.Post(fn) })
	}
	if _, err := ui.Run(newBoard(after), host, cfg.Mount, ui.WithLogger(logger)); err != nil {
		log.Fatal(err)
	}
	if err := host.Run(); err != nil {
		log.Fatal(err)
	}
}
