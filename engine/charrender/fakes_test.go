package charrender

import (
	"image"
	"slices"

	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/captext/core/font"
	"github.com/npillmayer/captext/core/font/opentype/ot"
	"golang.org/x/image/math/fixed"
)

// --- Font source -----------------------------------------------------------

type lookup struct {
	family    string
	codepoint rune
}

// fakeSource knows a set of families. Families mapped to an error fail
// with that error. If covers lists the code-points of a family, lookups for
// other code-points fail.
type fakeSource struct {
	fonts   map[string]font.FaceInfo
	errors  map[string]error
	covers  map[string][]rune
	lookups []lookup
}

func (src *fakeSource) Lookup(family string, codepoint rune) (font.FaceInfo, error) {
	src.lookups = append(src.lookups, lookup{family, codepoint})
	if err, ok := src.errors[family]; ok {
		return font.FaceInfo{}, err
	}
	if cps, ok := src.covers[family]; ok && codepoint != 0 && !slices.Contains(cps, codepoint) {
		return font.FaceInfo{}, core.Error(core.EMISSING, "family %q has no U+%04X", family, codepoint)
	}
	if fi, ok := src.fonts[family]; ok {
		return fi, nil
	}
	return font.FaceInfo{}, core.Error(core.EMISSING, "no font for family %q", family)
}

// --- Font engine -----------------------------------------------------------

// fakeFont is the content of a fake font file. A font file contains one or
// more faces.
type fakeFont struct {
	faces []fakeFaceData
}

type fakeFaceData struct {
	family   string
	psName   string
	glyphs   map[rune]ot.GlyphIndex
	gsub     []byte
	metrics  font.Metrics
	canScale bool // if false, SetPixelSize fails
}

type drawing struct {
	glyph         ot.GlyphIndex
	width, height int
	radius        fixed.Int26_6
}

// fakeEngine loads fake fonts by path.
type fakeEngine struct {
	fonts     map[string]fakeFont
	opened    int
	closed    int
	gsubReads int
	drawn     []drawing
}

func (e *fakeEngine) LoadFace(data []byte, path string, index int) (font.Face, error) {
	f, ok := e.fonts[path]
	if !ok {
		return nil, core.Error(core.EMISSING, "no font file %q", path)
	}
	if index < 0 {
		index = 0
	}
	if index >= len(f.faces) {
		return nil, core.Error(core.EMISSING, "font %q has no face %d", path, index)
	}
	e.opened++
	return &fakeFace{engine: e, font: f, index: index, data: f.faces[index]}, nil
}

func (e *fakeEngine) open() int {
	return e.opened - e.closed
}

func (e *fakeEngine) last() drawing {
	if len(e.drawn) == 0 {
		return drawing{}
	}
	return e.drawn[len(e.drawn)-1]
}

type fakeFace struct {
	engine        *fakeEngine
	font          fakeFont
	index         int
	data          fakeFaceData
	width, height int
	closed        bool
}

func (f *fakeFace) RawTable(tag ot.Tag) ([]byte, error) {
	if tag == ot.T("GSUB") && f.data.gsub != nil {
		f.engine.gsubReads++
		return f.data.gsub, nil
	}
	return nil, core.Error(core.EMISSING, "no table %s", tag)
}

func (f *fakeFace) NumFaces() int {
	return len(f.font.faces)
}

func (f *fakeFace) GlyphIndex(r rune) ot.GlyphIndex {
	return f.data.glyphs[r]
}

func (f *fakeFace) SetPixelSize(width, height int) error {
	if !f.data.canScale {
		return core.Error(core.EINVALID, "face cannot be scaled")
	}
	f.width, f.height = width, height
	return nil
}

func (f *fakeFace) Metrics() font.Metrics {
	return f.data.metrics
}

func (f *fakeFace) LoadOutline(g ot.GlyphIndex) (font.Outline, error) {
	f.engine.drawn = append(f.engine.drawn, drawing{glyph: g, width: f.width, height: f.height})
	return &fakeOutline{engine: f.engine, width: f.width}, nil
}

func (f *fakeFace) Names() []ot.NameRecord {
	return []ot.NameRecord{
		{PlatformID: ot.PlatformMicrosoft, EncodingID: 1, LanguageID: 0x409,
			NameID: ot.NameIDFamily, Bytes: utf16be(f.data.family)},
	}
}

func (f *fakeFace) PostScriptName() string {
	return f.data.psName
}

func (f *fakeFace) Close() error {
	if !f.closed {
		f.closed = true
		f.engine.closed++
	}
	return nil
}

// fakeOutline is a box 10 pixels high, standing on the baseline, as wide as
// the pixel width of the face. Its stroke extends the box by 1 pixel on
// every side.
type fakeOutline struct {
	engine *fakeEngine
	width  int
}

func (o *fakeOutline) RasterizeFill() (*image.Alpha, error) {
	return opaque(image.Rect(0, -10, o.width, 0)), nil
}

func (o *fakeOutline) RasterizeStroke(radius fixed.Int26_6) (*image.Alpha, error) {
	o.engine.drawn[len(o.engine.drawn)-1].radius = radius
	return opaque(image.Rect(-1, -11, o.width+1, 1)), nil
}

func opaque(r image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(r)
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	return mask
}

func utf16be(s string) []byte {
	var b []byte
	for _, r := range s {
		b = append(b, byte(r>>8), byte(r))
	}
	return b
}

// --- GSUB ------------------------------------------------------------------

// halfWidthGSUB encodes a 'GSUB' table with a single 'hwid' feature for
// script 'kana' and language system 'JAN ', substituting glyph from by
// glyph to.
func halfWidthGSUB(from, to ot.GlyphIndex) []byte {
	words := []uint16{
		1, 0, 10, 36, 50, // header: version, script list, feature list, lookup list
		// script list
		1, 'k'<<8 | 'a', 'n'<<8 | 'a', 8,
		0, 1, 'J'<<8 | 'A', 'N'<<8 | ' ', 10, // script: no default, one language system
		0, 0xffff, 1, 0, // language system: no required feature, feature 0
		// feature list
		1, 'h'<<8 | 'w', 'i'<<8 | 'd', 8,
		0, 1, 0, // feature: lookup 0
		// lookup list
		1, 4,
		1, 0, 1, 8, // lookup: single substitution, one subtable
		2, 8, 1, uint16(to), // format 2, coverage at +8
		1, 1, uint16(from), // coverage format 1
	}
	b := make([]byte, 2*len(words))
	for i, w := range words {
		b[2*i], b[2*i+1] = byte(w>>8), byte(w)
	}
	return b
}
