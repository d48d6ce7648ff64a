/*
Package monospace lays out lines of caption text in character cells.

Caption text is set in a grid of cells of equal height. Every grapheme
occupies one cell, which is either full-width (as wide as high) or
half-width. Cell widths may be fixed for a line, or follow the East Asian
Width property of the graphemes (Unicode UAX#11).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package monospace

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'captext.render'.
func tracer() tracing.Trace {
	return tracing.Select("captext.render")
}
