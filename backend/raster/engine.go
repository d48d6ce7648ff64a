package raster

import (
	"bytes"
	"io"
	"math"
	"os"

	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/captext/core/font"
	"github.com/npillmayer/captext/core/font/opentype/ot"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Engine loads faces from memory or from font files.
type Engine struct{}

var _ font.Engine = Engine{}

// NewEngine creates a font engine.
func NewEngine() Engine {
	return Engine{}
}

// LoadFace loads a face from data, if non-empty, or from the file at path.
// For font files, the file stays open until the face is closed.
// A negative index loads the first face of a collection.
func (e Engine) LoadFace(data []byte, path string, index int) (font.Face, error) {
	face := &Face{index: index}
	if face.index < 0 {
		face.index = 0
	}
	var err error
	if len(data) > 0 {
		face.src = bytes.NewReader(data)
		face.coll, err = sfnt.ParseCollection(data)
	} else {
		if face.file, err = os.Open(path); err != nil {
			return nil, core.WrapError(err, core.EMISSING, "cannot open font file %s", path)
		}
		face.src = face.file
		face.coll, err = sfnt.ParseCollectionReaderAt(face.file)
	}
	if err != nil {
		face.Close()
		return nil, core.WrapError(err, core.EINVALID, "cannot parse font %s", path)
	}
	if face.index >= face.coll.NumFonts() {
		face.Close()
		return nil, core.Error(core.EMISSING, "font %s has %d faces, face %d requested",
			path, face.coll.NumFonts(), index)
	}
	if face.font, err = face.coll.Font(face.index); err != nil {
		face.Close()
		return nil, core.WrapError(err, core.EINVALID, "cannot parse face %d of font %s", index, path)
	}
	tracer().Debugf("loaded face %d of %d from %q", face.index, face.coll.NumFonts(), path)
	return face, nil
}

// Face is a font face loaded by an Engine. Faces are not safe for
// concurrent use.
type Face struct {
	coll          *sfnt.Collection
	font          *sfnt.Font
	file          *os.File
	src           io.ReaderAt // raw font data for table access
	index         int
	buf           sfnt.Buffer
	width, height int
}

var _ font.Face = &Face{}

// NumFaces returns the number of faces in the face's font file.
func (face *Face) NumFaces() int {
	return face.coll.NumFonts()
}

// GlyphIndex returns the glyph for a code-point, or 0 if the face does not
// contain a glyph for r.
func (face *Face) GlyphIndex(r rune) ot.GlyphIndex {
	g, err := face.font.GlyphIndex(&face.buf, r)
	if err != nil {
		return 0
	}
	return ot.GlyphIndex(g)
}

// SetPixelSize sets the size of the em square in pixels. Width and height
// may differ; outlines are then scaled horizontally by width/height.
func (face *Face) SetPixelSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return core.Error(core.EINVALID, "invalid pixel size %d x %d", width, height)
	}
	face.width, face.height = width, height
	return nil
}

// Metrics returns ascender, descender and the underline properties of the
// face at its current pixel size. Vertical metrics are rounded outwards to
// full pixels. Underline position and thickness are taken from the 'post'
// table, scaled by the pixel width and truncated to pixels.
func (face *Face) Metrics() font.Metrics {
	var m font.Metrics
	if face.height == 0 {
		return m
	}
	xm, err := face.font.Metrics(&face.buf, fixed.I(face.height), xfont.HintingNone)
	if err != nil {
		tracer().Errorf("cannot read metrics of face: %v", err)
		return m
	}
	m.Ascender = xm.Ascent.Ceil()
	m.Descender = -xm.Descent.Ceil()
	post, err := face.RawTable(ot.T("post"))
	if err != nil || len(post) < 12 {
		tracer().Debugf("face has no usable 'post' table, no underline metrics")
		return m
	}
	upem := int(face.font.UnitsPerEm())
	m.UnderlinePosition = scaleToPixels(int16(u16(post[8:])), face.width, upem)
	m.UnderlineThickness = scaleToPixels(int16(u16(post[10:])), face.width, upem)
	return m
}

// scaleToPixels scales a value in font units to 26.6 pixels, rounding to the
// nearest 1/64, and truncates the result towards negative infinity.
func scaleToPixels(v int16, ppem, upem int) int {
	if upem <= 0 {
		return 0
	}
	f := fixed.Int26_6(math.Round(float64(v) * float64(ppem) * 64 / float64(upem)))
	return f.Floor()
}

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// LoadOutline loads the outline of a glyph, scaled to the current pixel size.
func (face *Face) LoadOutline(g ot.GlyphIndex) (font.Outline, error) {
	if face.height == 0 {
		return nil, core.Error(core.EINVALID, "pixel size not set")
	}
	segs, err := face.font.LoadGlyph(&face.buf, sfnt.GlyphIndex(g), fixed.I(face.height), nil)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot load outline of glyph %d", g)
	}
	outline := &Outline{segments: make([]sfnt.Segment, len(segs))}
	copy(outline.segments, segs) // segs is owned by face.buf
	if face.width != face.height {
		outline.scaleX(face.width, face.height)
	}
	return outline, nil
}

// RawTable returns the bytes of a font table. If the face does not contain
// a table for tag, an error with code core.EMISSING is returned.
func (face *Face) RawTable(tag ot.Tag) ([]byte, error) {
	return ot.ReadTable(face.src, face.index, tag)
}

// Names returns the records of the face's 'name' table.
func (face *Face) Names() []ot.NameRecord {
	name, err := face.RawTable(ot.T("name"))
	if err != nil {
		return nil
	}
	records, err := ot.NameRecords(name)
	if err != nil {
		tracer().Debugf("cannot read name records: %v", err)
	}
	return records
}

// PostScriptName returns the PostScript name of the face, if present.
func (face *Face) PostScriptName() string {
	n, _ := face.font.Name(&face.buf, sfnt.NameIDPostScript)
	return n
}

// Close releases the font file, if any. Close may be called more than once.
func (face *Face) Close() error {
	if face.file == nil {
		return nil
	}
	err := face.file.Close()
	face.file = nil
	return err
}
