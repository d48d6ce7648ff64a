package resources

import (
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/captext/core/font"
	"github.com/npillmayer/captext/core/font/fontregistry"
	xfont "golang.org/x/image/font"
)

// SystemSource is a font source for fonts installed in the usual
// system font directories. Fonts are found by file name.
//
// Font collections (*.ttc, *.otc) are reported with face index -1 and the
// requested family as metadata, leaving it to the client to select the
// face within the collection.
type SystemSource struct {
	list func() []string
	find func(string) (string, error)
}

var _ font.Source = SystemSource{}

// NewSystemSource creates a source for system fonts.
func NewSystemSource() SystemSource {
	return SystemSource{
		list: findfont.List,
		find: findfont.Find,
	}
}

// Lookup searches the system font directories for a font file matching
// family. Files guessed to contain the regular variant are preferred.
func (src SystemSource) Lookup(family string, codepoint rune) (font.FaceInfo, error) {
	for _, path := range src.candidates(family) {
		fi := font.FaceInfo{Path: path, Family: family}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ttc", ".otc":
			fi.Index = -1
		}
		if codepoint != 0 && !covers(fi, codepoint) {
			tracer().Debugf("system font %s has no glyph for U+%04X", path, codepoint)
			continue
		}
		tracer().Debugf("%s is a system font at %s", family, path)
		return fi, nil
	}
	return font.FaceInfo{}, NotFound(family, codepoint)
}

func (src SystemSource) candidates(family string) []string {
	var paths []string
	if src.list != nil {
		for _, p := range src.list() {
			if fontregistry.Matches(p, family, xfont.StyleNormal, xfont.WeightNormal) {
				paths = append(paths, p)
			}
		}
	}
	if src.find != nil {
		if p, err := src.find(family); err == nil && p != "" {
			paths = appendUnique(paths, p)
		}
	}
	return paths
}

func appendUnique(paths []string, p string) []string {
	for _, q := range paths {
		if q == p {
			return paths
		}
	}
	return append(paths, p)
}
