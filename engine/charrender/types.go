package charrender

import (
	"fmt"
	"image/color"
)

// Status is the outcome of drawing a character.
type Status int8

const (
	StatusOK                Status = iota // character has been drawn, or is whitespace
	StatusCodePointNotFound               // no usable font has a glyph for the character
	StatusOtherError                      // fonts could not be located or loaded, or rendering failed
)

func (st Status) String() string {
	switch st {
	case StatusOK:
		return "OK"
	case StatusCodePointNotFound:
		return "CodePointNotFound"
	case StatusOtherError:
		return "OtherError"
	}
	return fmt.Sprintf("Status(%d)", int8(st))
}

// FallbackPolicy tells the renderer what to do if the main face does not
// contain a glyph for a character.
type FallbackPolicy int8

const (
	FallbackAuto            FallbackPolicy = iota // try the remaining font families
	FailOnCodePointNotFound                       // report StatusCodePointNotFound
)

// Style is a set of style flags for drawing characters.
type Style uint8

const (
	StyleDefault   Style = 0
	StyleStroke    Style = 1 << iota // edge the glyph with the stroke color
	StyleUnderline                   // underline the character
)

// Cell is the box a character is drawn into, in pixels.
type Cell struct {
	Width, Height int
}

// UnderlineInfo is the horizontal extent of an underline. Underlines often
// span more than the character's cell, e.g. to include letter spacing.
type UnderlineInfo struct {
	StartX int
	Width  int
}

// Pen describes how a character is to be drawn.
//
// StrokeWidth is the width of the edge in pixels. It is effective only if
// Style contains StyleStroke. Underline is used only if Style contains
// StyleUnderline.
type Pen struct {
	Style       Style
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
	Underline   *UnderlineInfo
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFontFamily sets the initial list of font families.
func WithFontFamily(families ...string) Option {
	return func(r *Renderer) {
		r.SetFontFamily(families)
	}
}

// WithLanguage sets the initial language, as an ISO 639-2 code.
func WithLanguage(iso6392 uint32) Option {
	return func(r *Renderer) {
		r.SetLanguage(iso6392)
	}
}

// isWhitespace is true for code-points which are drawn as blank cells.
func isWhitespace(cp rune) bool {
	switch cp {
	case 0x0009, 0x0020, 0x00a0, 0x1680, 0x3000, 0x202f, 0x205f:
		return true
	}
	return cp >= 0x2000 && cp <= 0x200a
}
