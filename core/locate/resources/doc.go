/*
Package resources locates fonts for an application.

Fonts are located by a font.Source, given a family name and, optionally,
a code-point which the font has to contain. This package provides sources for

▪︎ fonts held in memory, among them the Go fonts which are always present
(PackagedSource)

▪︎ fonts installed on the system, found by file name (SystemSource)

▪︎ fonts known to fontconfig, queried by calling the `fc-match` binary
(FontConfigSource)

▪︎ fonts of the Google webfont service, downloaded into the user's cache
directory (GoogleSource)

Sources may be chained; NewSource will create a chain from the
application's configuration.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resources

import (
	"fmt"

	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'captext.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("captext.fonts")
}

// NotFound returns an application error for a missing font.
// codepoint is optional; 0 means the font has not been searched for a glyph.
func NotFound(family string, codepoint rune) error {
	e := fmt.Errorf("resource missing: %v", family)
	if codepoint != 0 {
		return core.WrapError(e, core.EMISSING, "font not found: %s with glyph for U+%04X", family, codepoint)
	}
	return core.WrapError(e, core.EMISSING, "font not found: %s", family)
}
