package resources

import (
	"strings"

	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/captext/core/font"
	"github.com/npillmayer/schuko"
)

// DefaultSources is the order of font sources if the configuration does
// not specify 'font-sources'.
const DefaultSources = "packaged,fontconfig,system"

// ChainSource tries a list of sources in order. The first source to find
// a font wins.
type ChainSource []font.Source

var _ font.Source = ChainSource{}
var _ FontLister = ChainSource{}

// Lookup returns the first font found by any of the sources. It reports
// core.EMISSING only if every source reports it; otherwise the first error
// other than core.EMISSING is returned.
func (chain ChainSource) Lookup(family string, codepoint rune) (font.FaceInfo, error) {
	var failure error
	for _, src := range chain {
		fi, err := src.Lookup(family, codepoint)
		if err == nil {
			return fi, nil
		}
		if !core.IsMissing(err) && failure == nil {
			tracer().Infof("font source failed for %s: %v", family, err)
			failure = err
		}
	}
	if failure != nil {
		return font.FaceInfo{}, failure
	}
	return font.FaceInfo{}, NotFound(family, codepoint)
}

// FontLister is a source able to list the fonts it offers to the trace
// (log-level Info).
type FontLister interface {
	ListFonts(pattern string)
}

// ListFonts lists the fonts of every source in the chain which is able to.
func (chain ChainSource) ListFonts(pattern string) {
	for _, src := range chain {
		if l, ok := src.(FontLister); ok {
			l.ListFonts(pattern)
		}
	}
}

// NewSource creates a chain of font sources from the application
// configuration. Key 'font-sources' is a comma separated list of source
// names (packaged, fontconfig, system, google); it defaults to DefaultSources.
// Sources which cannot be set up, e.g. fontconfig without key 'fontconfig'
// configured, are left out.
func NewSource(conf schuko.Configuration) font.Source {
	names := conf.GetString("font-sources")
	if names == "" {
		names = DefaultSources
	}
	var chain ChainSource
	for _, name := range strings.Split(names, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "packaged":
			chain = append(chain, NewPackagedSource(nil))
		case "system":
			chain = append(chain, NewSystemSource())
		case "fontconfig":
			fc, err := NewFontConfigSource(conf)
			if err != nil {
				tracer().Infof("skipping font source fontconfig: %v", err)
				continue
			}
			chain = append(chain, fc)
		case "google":
			g, err := NewGoogleSource(conf)
			if err != nil {
				tracer().Infof("skipping font source google: %v", err)
				continue
			}
			chain = append(chain, g)
		case "":
		default:
			tracer().Errorf("unknown font source: %s", name)
		}
	}
	tracer().Debugf("font sources: %d of [%s]", len(chain), names)
	return chain
}
