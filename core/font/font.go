/*
Package font defines the collaborators of the character renderer for
locating and rasterizing fonts.

There is a certain confusion in the nomenclature of font handling. We will
stick to the following definitions:

* A "font file" is a container of one or more fonts. TrueType collections
(*.ttc) contain more than one font, e.g. /System/Library/Fonts/Helvetica.ttc.

* A "face" is a single font loaded from a font file, identified by its
index within the container. A face may be set to a pixel size and will
hand out glyph outlines.

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

Fonts are found by a Source, given a family name and, optionally, a code-point
the font should contain. Faces are loaded and rasterized by an Engine.
Concrete sources live in package locate/resources, a rasterization engine in
package backend/raster.

Utility to view a character map of a font: http://torinak.com/font/lsfont.html

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"image"
	"strings"
	"sync"

	"github.com/npillmayer/captext/core/font/opentype/ot"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// tracer writes to trace with key 'captext.fonts'
func tracer() tracing.Trace {
	return tracing.Select("captext.fonts")
}

// FaceInfo describes where to find a face. Either Data or Path is set.
// If Data is set, the face is read from memory, otherwise it is loaded
// from the file at Path.
//
// Index selects a face within a font collection. A negative index means that
// the source did not know the index; in this case Family and PostScriptName
// are the metadata for identifying the face.
type FaceInfo struct {
	Data           []byte
	Path           string
	Index          int
	Family         string
	PostScriptName string
}

// HasMetadata is true if the face info carries a name to identify a face by.
func (fi FaceInfo) HasMetadata() bool {
	return fi.Family != "" || fi.PostScriptName != ""
}

// Source locates fonts by family name. If codepoint is not 0, the source
// should return a font of the family containing a glyph for it.
//
// If no font can be found, Lookup returns an error with code core.EMISSING.
type Source interface {
	Lookup(family string, codepoint rune) (FaceInfo, error)
}

// Engine loads faces, either from data in memory or from a file path.
// The engine does not copy data; it has to stay valid until the face is closed.
//
// index is the face index within a font collection. If index is negative,
// the first face is loaded; the caller may then check NumFaces.
type Engine interface {
	LoadFace(data []byte, path string, index int) (Face, error)
}

// Metrics are the vertical metrics of a face at its current pixel size,
// rounded to pixels. Descender is negative for fonts extending below the
// baseline. UnderlinePosition is the offset of the underline's center from
// the baseline, negative if below.
type Metrics struct {
	Ascender           int
	Descender          int
	UnderlinePosition  int
	UnderlineThickness int
}

// Face is a font face loaded by an Engine.
type Face interface {
	ot.TableSource
	NumFaces() int                            // number of faces in the face's container
	GlyphIndex(r rune) ot.GlyphIndex          // 0 if the face has no glyph for r
	SetPixelSize(width, height int) error     // scale for all subsequent calls
	Metrics() Metrics                         // metrics at the current pixel size
	LoadOutline(g ot.GlyphIndex) (Outline, error)
	Names() []ot.NameRecord                   // records of the 'name' table
	PostScriptName() string
	Close() error
}

// Outline is a scaled glyph outline, ready to be rasterized.
//
// Rasterization results in a coverage mask. The bounds of the mask are
// relative to the glyph's origin on the baseline, with y pointing down.
// An outline without contours results in an empty mask.
type Outline interface {
	RasterizeFill() (*image.Alpha, error)
	RasterizeStroke(radius fixed.Int26_6) (*image.Alpha, error)
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() FaceInfo {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
var fallbackFont FaceInfo

func loadFallbackFont() FaceInfo {
	gofont := FaceInfo{
		Data:   goregular.TTF,
		Family: "Go",
	}
	f, err := sfnt.Parse(gofont.Data)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil {
		gofont.Family = name
	}
	gofont.PostScriptName, _ = f.Name(nil, sfnt.NameIDPostScript)
	tracer().Debugf("fallback font is %s (%s)", gofont.Family, gofont.PostScriptName)
	return gofont
}

// NormalizeFontname returns a canonical form of a font name, suitable as a key.
// File extensions are stripped.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		switch strings.ToLower(fname[dot:]) {
		case ".ttf", ".otf", ".ttc", ".otc":
			fname = fname[:dot]
		}
	}
	fname = strings.ToLower(fname)
	return fname
}
