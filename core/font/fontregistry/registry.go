package fontregistry

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/captext/core/font"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
)

// Registry is a type for holding fonts held in memory, i.e. fonts packaged
// with an application or loaded by a client in advance.
type Registry struct {
	sync.Mutex
	fonts map[string]font.FaceInfo
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold information about
// fonts loaded into memory.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

func NewRegistry() *Registry {
	fr := &Registry{
		fonts: make(map[string]font.FaceInfo),
	}
	return fr
}

// StoreFont pushes a font into the registry if it isn't contained yet.
//
// The font will be stored using the normalized font name as a key. If this
// key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(name string, f font.FaceInfo) {
	if len(f.Data) == 0 {
		tracer().Errorf("registry cannot store font %s without data", name)
		return
	}
	normalizedName := font.NormalizeFontname(name)
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[normalizedName]; !ok {
		tracer().Debugf("registry stores font %s as %s", name, normalizedName)
		fr.fonts[normalizedName] = f
	}
}

// Font returns the font stored for a name. If no such font is present,
// an error with code core.EMISSING is returned.
func (fr *Registry) Font(name string) (font.FaceInfo, error) {
	normalizedName := font.NormalizeFontname(name)
	fr.Lock()
	defer fr.Unlock()
	if f, ok := fr.fonts[normalizedName]; ok {
		tracer().Debugf("registry found font %s", normalizedName)
		return f, nil
	}
	return font.FaceInfo{}, core.Error(core.EMISSING, "font %s not found in registry", name)
}

// Names returns the normalized names of all fonts in the registry, sorted.
func (fr *Registry) Names() []string {
	fr.Lock()
	defer fr.Unlock()
	names := make([]string, 0, len(fr.fonts))
	for k := range fr.fonts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LogFontList is a helper function to dump the list of known fonts
// in a registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for _, k := range fr.Names() {
		f, _ := fr.Font(k)
		tracer().Infof("font [%s] = %s (%s)", k, f.Family, f.PostScriptName)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

// ---------------------------------------------------------------------------

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "xbold", "black":
			return xfont.StyleNormal, xfont.WeightExtraBold
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontfilename, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontfilename, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}

// Matches returns true if a font's filename contains pattern and indicators
// for a given style and weight. Spaces in pattern match optional spaces,
// hyphens or underscores in the filename.
func Matches(fontfilename, pattern string, style xfont.Style, weight xfont.Weight) bool {
	basename := path.Base(fontfilename)
	basename = basename[:len(basename)-len(path.Ext(basename))]
	basename = strings.ToLower(basename)
	if !strings.Contains(squeeze(basename), squeeze(strings.ToLower(pattern))) {
		return false
	}
	tracer().Debugf("font file %s matches %s", basename, pattern)
	s, w := GuessStyleAndWeight(basename)
	return s == style && w == weight
}

func squeeze(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
