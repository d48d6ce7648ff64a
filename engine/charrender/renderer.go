package charrender

import (
	"image"
	"math"
	"slices"

	"github.com/npillmayer/captext/backend/gfx"
	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/captext/core/font"
	"golang.org/x/image/math/fixed"
)

// Renderer draws characters, using fonts located by a font source and
// loaded by a font engine. A renderer keeps up to two faces loaded: the
// main face and the most recent fallback face.
type Renderer struct {
	source   font.Source
	engine   font.Engine
	families []string
	language uint32
	main     faceSlot
	fallback faceSlot
	err      error // error of the most recent failing call to DrawChar
}

// New creates a renderer. Before drawing, clients have to set a list of font
// families, either with option WithFontFamily or by calling SetFontFamily.
func New(source font.Source, engine font.Engine, opts ...Option) *Renderer {
	r := &Renderer{source: source, engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetFontFamily sets the list of font families, in order of preference.
// An empty list is rejected and false is returned. If the list differs from
// the current one, faces loaded so far are released.
func (r *Renderer) SetFontFamily(families []string) bool {
	if len(families) == 0 {
		return false
	}
	if len(r.families) > 0 && !slices.Equal(r.families, families) {
		tracer().Debugf("font families changed to %v, releasing faces", families)
		r.main.reset()
		r.fallback.reset()
	}
	r.families = slices.Clone(families)
	return true
}

// SetLanguage sets the language of the text, as an ISO 639-2 code.
// Currently it does not influence rendering.
func (r *Renderer) SetLanguage(iso6392 uint32) {
	r.language = iso6392
}

// Err returns the error which made the most recent call to DrawChar fail,
// or nil.
func (r *Renderer) Err() error {
	return r.err
}

// Close releases all faces. The renderer may be used again afterwards,
// faces will then be loaded anew.
func (r *Renderer) Close() error {
	r.main.reset()
	r.fallback.reset()
	return nil
}

// DrawChar draws a character into target, with the top left corner of its
// cell at (x, y).
//
// The glyph is scaled to the height of the cell and centered vertically.
// Whitespace characters are not drawn at all. If the main face does not have
// a glyph for cp, policy decides whether other font families are tried.
func (r *Renderer) DrawChar(target *gfx.Bitmap, x, y int, cp rune, cell Cell, pen Pen,
	policy FallbackPolicy) Status {
	//
	r.err = nil
	if isWhitespace(cp) {
		return StatusOK
	}
	if target == nil || cell.Width <= 0 || cell.Height <= 0 {
		return r.fail(core.Error(core.EINVALID, "cannot draw U+%04X into cell %d x %d",
			cp, cell.Width, cell.Height))
	}
	if pen.StrokeWidth < 0 {
		pen.StrokeWidth = 0
	}
	if !r.main.loaded() {
		if _, _, err := r.resolveFace(&r.main, 0, 0); err != nil {
			return r.fail(err)
		}
	}
	slot := &r.main
	glyph := slot.face.GlyphIndex(cp)
	if glyph == 0 {
		tracer().Infof("main font %q has no glyph for U+%04X", r.families[r.main.family], cp)
		if policy == FailOnCodePointNotFound {
			return r.notFound(cp)
		}
		if r.fallback.loaded() {
			glyph = r.fallback.face.GlyphIndex(cp)
		}
		if glyph != 0 {
			slot = &r.fallback
		} else if r.main.family+1 >= len(r.families) {
			return r.notFound(cp)
		} else {
			face, _, err := r.resolveFace(&r.fallback, cp, r.main.family+1)
			if err != nil {
				return r.fail(err)
			}
			slot = &r.fallback
			if glyph = face.GlyphIndex(cp); glyph == 0 {
				return r.notFound(cp)
			}
		}
	}
	width := cell.Width
	if cell.Width == cell.Height/2 {
		if hw, ok := slot.substitutions()[glyph]; ok {
			tracer().Debugf("half-width substitution for U+%04X: %d -> %d", cp, glyph, hw)
			glyph, width = hw, cell.Height
		}
	}
	face := slot.face
	if err := face.SetPixelSize(width, cell.Height); err != nil {
		return r.fail(err)
	}
	m := face.Metrics()
	baseline := y + m.Ascender + (cell.Height-(m.Ascender+abs(m.Descender)))/2
	outline, err := face.LoadOutline(glyph)
	if err != nil {
		return r.fail(err)
	}
	fill, err := outline.RasterizeFill()
	if err != nil {
		return r.fail(err)
	}
	var edge *image.Alpha
	if radius := fixed.Int26_6(math.Round(pen.StrokeWidth * 64)); pen.Style&StyleStroke != 0 && radius > 0 {
		if edge, err = outline.RasterizeStroke(radius); err != nil {
			return r.fail(err)
		}
	}
	if pen.Style&StyleUnderline != 0 && pen.Underline != nil && m.UnderlineThickness > 0 {
		band := underlineBand(baseline+abs(m.UnderlinePosition), m.UnderlineThickness, *pen.Underline)
		target.FillRect(pen.Fill, band)
	}
	if edge != nil {
		target.BlitCoverage(edge, pen.Stroke, x, baseline)
	}
	target.BlitCoverage(fill, pen.Fill, x, baseline)
	return StatusOK
}

// underlineBand returns the rows of an underline centered at row center.
// For even thicknesses the extra row goes below the center.
func underlineBand(center, thickness int, u UnderlineInfo) image.Rectangle {
	half := thickness / 2
	top, bottom := center-half, center+1+half
	if thickness%2 == 0 {
		top = center - (half - 1)
	}
	return image.Rect(u.StartX, top, u.StartX+u.Width, bottom)
}

func (r *Renderer) fail(err error) Status {
	r.err = err
	tracer().Errorf("cannot draw character: %v", err)
	return statusForResolveError(err)
}

func (r *Renderer) notFound(cp rune) Status {
	r.err = core.Error(core.EMISSING, "no font has a glyph for U+%04X", cp)
	tracer().Infof("no font has a glyph for U+%04X", cp)
	return StatusCodePointNotFound
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
