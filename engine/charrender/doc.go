/*
Package charrender draws single characters of subtitle text into bitmaps.

A Renderer is configured with a list of font families, in order of
preference. Drawing a character first looks for a glyph in the main face,
i.e. the face of the first family a font source is able to locate. If the
main face lacks a glyph for the character, the renderer escalates to the
remaining families, keeping the face found as a fallback face for subsequent
characters.

Characters are drawn into a cell of a given width and height. If the cell is
exactly half as wide as it is high, the renderer will switch Kana glyphs to
their half-width forms, as defined by the font's 'hwid' feature.
Glyphs may be stroked (edged) and underlined.

A Renderer is not safe for concurrent use. Clients rendering on more than
one goroutine should create one Renderer per goroutine.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package charrender

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'captext.render'.
func tracer() tracing.Trace {
	return tracing.Select("captext.render")
}
