/*
Package ot provides byte-level access to OpenType font tables.

Intended audience for this package are glyph rasterizers and renderers which
need a small number of facts from a font's binary data, and which have to
read them from fonts of unknown quality:

▪︎ raw table access by tag, for single fonts as well as for font
collections (*.ttc, *.otc), see ReadTable

▪︎ records of the 'name' table, decoded from their platform encoding,
see NameRecords

▪︎ single glyph substitutions of the 'GSUB' table, selected by feature,
script and language system, see LoadSingleSubstitutions

Package `ot` will not interpret more of a font than necessary, and it is not a
text shaper. For example, it will extract the half-width forms of Kana glyphs
('hwid' feature for script 'kana' and language system 'JAN '), but it will not
apply contextual or ligature substitutions.

# Bounds Safety

Font files in the wild are not always well-formed, and some of them are
downright adversarial. Every multi-byte read from font data goes through a
bounds-checked view of a byte segment (see binarySegm.view) before any
dereferencing happens. Offsets are never trusted. If a structure turns out to
be truncated or inconsistent, the functions of this package degrade gracefully:
the GSUB parser will return an empty substitution map, never panic.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/schuko/tracing"
)

// Valuable resource:
// https://docs.microsoft.com/en-us/typography/opentype/spec/gsub

// tracer writes to trace with key 'captext.fonts'
func tracer() tracing.Trace {
	return tracing.Select("captext.fonts")
}

// errFontFormat produces user level errors for font parsing.
func errFontFormat(x string) error {
	return core.Error(core.EINVALID, "OpenType font format: %s", x)
}
