package term

import (
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// region is the screen area covered by an element, recorded while painting.
type region struct {
	Rect Rect
	Box  *Box
}

var inlineTags = map[string]bool{
	"span": true, "a": true, "b": true, "strong": true, "i": true, "em": true,
	"u": true, "code": true, "label": true, "button": true, "input": true,
}

func isBlock(b *Box) bool { return !b.IsText() && !inlineTags[b.Tag] }

// painter flows the document onto the screen: blocks start on a new row,
// inline content and text wrap at the screen width.
type painter struct {
	screen  tcell.Screen
	theme   Theme
	focused *Box
	width   int
	x, y    int
	regions []region
}

// paint draws the document and returns the hit regions, parents before children.
func paint(s tcell.Screen, doc *Document, theme Theme, focused *Box) []region {
	w, _ := s.Size()
	p := &painter{screen: s, theme: theme, focused: focused, width: w}
	p.block(doc.Body, theme.Base)
	return p.regions
}

func (p *painter) newline() {
	if p.x > 0 {
		p.x = 0
		p.y++
	}
}

func (p *painter) block(b *Box, parent Style) {
	st := p.theme.styleFor(b, parent)
	if b == p.focused {
		st = st.Merge(p.theme.Focus)
	}
	p.newline()
	i := len(p.regions)
	p.regions = append(p.regions, region{Box: b})
	startY := p.y

	if b.Tag == "li" {
		p.write("• ", st)
	}
	for _, c := range b.Children {
		p.node(c, st)
	}
	p.newline()
	if b.Tag == "p" || b.Tag == "h1" {
		p.y++
	}
	p.regions[i].Rect = Rect{X: 0, Y: startY, W: p.width, H: max(p.y-startY, 1)}
}

func (p *painter) node(b *Box, parent Style) {
	switch {
	case b.IsText():
		p.write(b.Text, parent)
	case isBlock(b):
		p.block(b, parent)
	default:
		p.inline(b, parent)
	}
}

func (p *painter) inline(b *Box, parent Style) {
	st := p.theme.styleFor(b, parent)
	if b == p.focused {
		st = st.Merge(p.theme.Focus)
	}
	i := len(p.regions)
	p.regions = append(p.regions, region{Box: b})
	startX, startY := p.x, p.y

	if b.Tag == "button" {
		p.write("[", st)
	}
	for _, c := range b.Children {
		if c.IsText() {
			p.write(c.Text, st)
		} else {
			p.inline(c, st)
		}
	}
	if b.Tag == "button" {
		p.write("]", st)
	}

	rows := rowRects(startX, startY, p.x, p.y, p.width)
	p.regions[i].Rect = rows[0]
	extra := make([]region, 0, len(rows)-1)
	for _, r := range rows[1:] {
		extra = append(extra, region{Rect: r, Box: b})
	}
	// before the children, so they still win the hit test
	p.regions = slices.Insert(p.regions, i+1, extra...)
}

// rowRects returns the cells covered by inline content running from
// (x0, y0) to just before (x1, y1): the rest of the first row, the full rows
// in between and the start of the last row.
func rowRects(x0, y0, x1, y1, width int) []Rect {
	if x0 >= width && y1 > y0 {
		x0, y0 = 0, y0+1
	}
	if y1 == y0 {
		return []Rect{{X: x0, Y: y0, W: x1 - x0, H: 1}}
	}
	rects := []Rect{{X: x0, Y: y0, W: width - x0, H: 1}}
	if y1-y0 > 1 {
		rects = append(rects, Rect{X: 0, Y: y0 + 1, W: width, H: y1 - y0 - 1})
	}
	if x1 > 0 {
		rects = append(rects, Rect{X: 0, Y: y1, W: x1, H: 1})
	}
	return rects
}

func (p *painter) write(s string, st Style) {
	ts := st.Apply()
	for _, r := range s {
		if r == '\n' {
			p.x = 0
			p.y++
			continue
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if p.x+w > p.width && p.x > 0 {
			p.x = 0
			p.y++
		}
		p.screen.SetContent(p.x, p.y, r, nil, ts)
		p.x += w
	}
}

// hitTest returns the deepest box whose region contains (x, y).
func hitTest(regions []region, x, y int) (*Box, Rect) {
	for i := len(regions) - 1; i >= 0; i-- {
		if regions[i].Rect.Contains(x, y) {
			return regions[i].Box, regions[i].Rect
		}
	}
	return nil, Rect{}
}
