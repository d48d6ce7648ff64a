package monospace

import (
	"fmt"

	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
)

// Mode selects the width of character cells.
type Mode int8

const (
	ByWidth Mode = iota // half-width cells for narrow graphemes, full-width cells otherwise
	Full                // every cell is full-width
	Half                // every cell is half-width
)

func (m Mode) String() string {
	switch m {
	case ByWidth:
		return "auto"
	case Full:
		return "full"
	case Half:
		return "half"
	}
	return fmt.Sprintf("Mode(%d)", int8(m))
}

// ParseMode reads a mode from its name, as returned by String.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ByWidth, Full, Half} {
		if m.String() == s {
			return m, nil
		}
	}
	return ByWidth, fmt.Errorf("unknown cell mode %q", s)
}

// Cell is a grapheme placed into a character cell.
type Cell struct {
	Grapheme string
	X        int // left edge, relative to the start of the line
	Width    int
}

// Runes returns the code-points of the cell's grapheme.
func (c Cell) Runes() []rune {
	return []rune(c.Grapheme)
}

func (c Cell) String() string {
	return fmt.Sprintf("[%q %d+%d]", c.Grapheme, c.X, c.Width)
}

// Layouter places graphemes into cells of a fixed height.
type Layouter struct {
	height  int
	mode    Mode
	context *uax11.Context
}

// NewLayouter creates a layouter for cells of a given height. context tells
// how to treat characters of ambiguous width; if it is nil, these will be
// narrow.
func NewLayouter(height int, mode Mode, context *uax11.Context) *Layouter {
	l := &Layouter{height: height, mode: mode, context: context}
	if l.context == nil {
		l.context = uax11.LatinContext
	}
	grapheme.SetupGraphemeClasses()
	return l
}

// Height returns the height of cells.
func (l *Layouter) Height() int {
	return l.height
}

// Layout splits text into graphemes and places each into a cell, left to right.
// It returns the cells and the total width of the line. Graphemes without
// width, e.g. control characters, are dropped.
func (l *Layouter) Layout(text string) ([]Cell, int) {
	if text == "" {
		return nil, 0
	}
	gstr := grapheme.StringFromString(text)
	if gstr.Len() == 0 {
		return nil, 0
	}
	cells := make([]Cell, 0, gstr.Len())
	x := 0
	for i := 0; i < gstr.Len(); i++ {
		grphm := gstr.Nth(i)
		w := uax11.Width([]byte(grphm), l.context)
		if w == 0 {
			tracer().Debugf("dropping grapheme %q without width", grphm)
			continue
		}
		cell := Cell{Grapheme: grphm, X: x, Width: l.cellWidth(w)}
		cells = append(cells, cell)
		x += cell.Width
	}
	tracer().Debugf("layout of %q is %v", text, cells)
	return cells, x
}

// cellWidth returns the width of a cell for a grapheme spanning w columns.
func (l *Layouter) cellWidth(w int) int {
	switch {
	case l.mode == Half:
		return l.height / 2
	case l.mode == Full:
		return l.height
	case w > 1:
		return l.height
	}
	return l.height / 2
}
