package term

import (
	"os"
	"strings"

	"github.com/cansyan/mvu/config"
	"github.com/gdamore/tcell/v2"
)

type Style struct {
	FG        tcell.Color
	BG        tcell.Color
	Reversed  bool
	Bold      bool
	Italic    bool
	Underline bool
}

var DefaultStyle = Style{FG: tcell.ColorDefault, BG: tcell.ColorDefault}

func (s Style) Apply() tcell.Style {
	st := tcell.StyleDefault
	if s.FG != tcell.ColorDefault {
		st = st.Foreground(s.FG)
	}
	if s.BG != tcell.ColorDefault {
		st = st.Background(s.BG)
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	if s.Underline {
		st = st.Underline(true)
	}
	if s.Reversed {
		st = st.Reverse(true)
	}
	return st
}

// Merge returns a new Style by applying the child style's non-default attributes
// over the receiver (parent) style.
func (s Style) Merge(child Style) Style {
	if child.FG == tcell.ColorDefault {
		child.FG = s.FG
	}
	if child.BG == tcell.ColorDefault {
		child.BG = s.BG
	}
	child.Bold = child.Bold || s.Bold
	child.Italic = child.Italic || s.Italic
	child.Underline = child.Underline || s.Underline
	child.Reversed = child.Reversed || s.Reversed
	return child
}

// Theme maps tags and classes to styles.
type Theme struct {
	Base    Style
	Button  Style
	Focus   Style
	Classes map[string]Style
}

func DarkTheme() Theme {
	return Theme{
		Base:   Style{FG: tcell.GetColor("#d8dee9"), BG: tcell.ColorDefault},
		Button: Style{FG: tcell.GetColor("#6699cc"), BG: tcell.ColorDefault, Bold: true},
		Focus:  Style{FG: tcell.ColorDefault, BG: tcell.GetColor("#4e5a65")},
		Classes: map[string]Style{
			"muted":   {FG: tcell.GetColor("#a7adba"), BG: tcell.ColorDefault},
			"accent":  {FG: tcell.GetColor("#fac863"), BG: tcell.ColorDefault},
			"success": {FG: tcell.GetColor("#99c794"), BG: tcell.ColorDefault},
			"danger":  {FG: tcell.GetColor("#F97B58"), BG: tcell.ColorDefault},
		},
	}
}

func LightTheme() Theme {
	return Theme{
		Base:   Style{FG: tcell.GetColor("#303841"), BG: tcell.ColorDefault},
		Button: Style{FG: tcell.GetColor("#1f5fa0"), BG: tcell.ColorDefault, Bold: true},
		Focus:  Style{FG: tcell.ColorDefault, BG: tcell.GetColor("#dadada")},
		Classes: map[string]Style{
			"muted":   {FG: tcell.GetColor("#7a7a7a"), BG: tcell.ColorDefault},
			"accent":  {FG: tcell.GetColor("#b8860b"), BG: tcell.ColorDefault},
			"success": {FG: tcell.GetColor("#2e7d32"), BG: tcell.ColorDefault},
			"danger":  {FG: tcell.GetColor("#c62828"), BG: tcell.ColorDefault},
		},
	}
}

// NewTheme picks the palette named by cfg ("auto" follows the terminal) and
// lays the configured class styles over it.
func NewTheme(cfg *config.Config) Theme {
	var t Theme
	switch cfg.Theme {
	case "light":
		t = LightTheme()
	case "dark":
		t = DarkTheme()
	default:
		if detectLightTerminal() {
			t = LightTheme()
		} else {
			t = DarkTheme()
		}
	}
	for name, cs := range cfg.Classes {
		t.Classes[name] = Style{
			FG:        color(cs.FG),
			BG:        color(cs.BG),
			Bold:      cs.Bold,
			Italic:    cs.Italic,
			Underline: cs.Underline,
			Reversed:  cs.Reverse,
		}
	}
	return t
}

func color(name string) tcell.Color {
	c, _ := config.LookupColor(name)
	return c
}

// detectLightTerminal detects if terminal has a light background via COLORFGBG.
// iTerm2 and other terminals set this as "foreground;background".
// Background 7 or 15 indicates light, 0-6 and 8 indicate dark.
func detectLightTerminal() bool {
	colorfgbg := os.Getenv("COLORFGBG")
	if colorfgbg == "" {
		return false
	}
	parts := strings.Split(colorfgbg, ";")
	if len(parts) != 2 {
		return false
	}
	bg := parts[1]
	return bg == "7" || bg == "15"
}

// tagStyle is the built-in look of a tag before classes apply.
func tagStyle(tag string) Style {
	st := DefaultStyle
	switch tag {
	case "h1", "h2", "h3", "b", "strong", "th":
		st.Bold = true
	case "i", "em":
		st.Italic = true
	case "u", "a":
		st.Underline = true
	}
	return st
}

// styleFor resolves the style of b on top of the inherited parent style.
func (t Theme) styleFor(b *Box, parent Style) Style {
	st := parent.Merge(tagStyle(b.Tag))
	if b.Tag == "button" {
		st = st.Merge(t.Button)
	}
	for _, c := range b.Classes() {
		if cs, ok := t.Classes[c]; ok {
			st = st.Merge(cs)
		}
	}
	return st
}
