package resources

import (
	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/captext/core/font"
	"github.com/npillmayer/captext/core/font/fontregistry"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/sfnt"
)

// PackagedSource is a font source for fonts held in memory. It is
// pre-populated with the Go fonts. Clients may add fonts with Store.
type PackagedSource struct {
	registry *fontregistry.Registry
}

var _ font.Source = PackagedSource{}
var _ FontLister = PackagedSource{}

// NewPackagedSource creates a font source backed by a registry. If registry
// is nil, the application-wide registry is used.
func NewPackagedSource(registry *fontregistry.Registry) PackagedSource {
	if registry == nil {
		registry = fontregistry.GlobalRegistry()
	}
	src := PackagedSource{registry: registry}
	registry.StoreFont("Go", font.FallbackFont())
	for name, ttf := range map[string][]byte{
		"Go Regular":   goregular.TTF,
		"Go Bold":      gobold.TTF,
		"Go Italic":    goitalic.TTF,
		"Go Medium":    gomedium.TTF,
		"Go Mono":      gomono.TTF,
		"Go Smallcaps": gosmallcaps.TTF,
	} {
		if err := src.Store(name, ttf); err != nil {
			tracer().Errorf("cannot store packaged font %s: %v", name, err)
		}
	}
	return src
}

// Store adds a font to the source, to be found by name. data may be a
// single font or a font collection. For collections, the first font is used.
func (src PackagedSource) Store(name string, data []byte) error {
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot parse font %s", name)
	}
	f, err := coll.Font(0)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot parse font %s", name)
	}
	fi := font.FaceInfo{Data: data, Index: 0}
	fi.Family, _ = f.Name(nil, sfnt.NameIDFamily)
	fi.PostScriptName, _ = f.Name(nil, sfnt.NameIDPostScript)
	src.registry.StoreFont(name, fi)
	return nil
}

// Lookup finds a font by the name it has been stored with.
func (src PackagedSource) Lookup(family string, codepoint rune) (font.FaceInfo, error) {
	fi, err := src.registry.Font(family)
	if err != nil {
		return font.FaceInfo{}, NotFound(family, codepoint)
	}
	if codepoint != 0 && !covers(fi, codepoint) {
		tracer().Debugf("packaged font %s has no glyph for U+%04X", family, codepoint)
		return font.FaceInfo{}, NotFound(family, codepoint)
	}
	return fi, nil
}

// ListFonts lists the fonts held in memory. All fonts are listed,
// regardless of pattern.
func (src PackagedSource) ListFonts(pattern string) {
	src.registry.LogFontList()
}
