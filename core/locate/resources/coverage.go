package resources

import (
	"os"
	"strings"

	"github.com/npillmayer/captext/core/font"
	"golang.org/x/image/font/sfnt"
)

// covers checks if the face described by fi has a glyph for a code-point.
// Faces with an unknown index (fi.Index < 0) are identified by name.
// Fonts which cannot be read or parsed never cover anything.
func covers(fi font.FaceInfo, codepoint rune) bool {
	coll, closer, err := openCollection(fi)
	if err != nil {
		tracer().Debugf("cannot check coverage of %s: %v", fi.Path, err)
		return false
	}
	if closer != nil {
		defer closer.Close()
	}
	var buf sfnt.Buffer
	for i := 0; i < coll.NumFonts(); i++ {
		if fi.Index >= 0 && i != fi.Index {
			continue
		}
		f, err := coll.Font(i)
		if err != nil {
			return false
		}
		if fi.Index < 0 && !namesMatch(f, &buf, fi) {
			continue
		}
		g, err := f.GlyphIndex(&buf, codepoint)
		return err == nil && g != 0
	}
	return false
}

func openCollection(fi font.FaceInfo) (*sfnt.Collection, *os.File, error) {
	if len(fi.Data) > 0 {
		coll, err := sfnt.ParseCollection(fi.Data)
		return coll, nil, err
	}
	file, err := os.Open(fi.Path)
	if err != nil {
		return nil, nil, err
	}
	coll, err := sfnt.ParseCollectionReaderAt(file)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return coll, file, nil
}

// namesMatch is true if a font's PostScript name or family name equals the
// metadata of fi, ignoring case.
func namesMatch(f *sfnt.Font, buf *sfnt.Buffer, fi font.FaceInfo) bool {
	if fi.PostScriptName != "" {
		if ps, err := f.Name(buf, sfnt.NameIDPostScript); err == nil && strings.EqualFold(ps, fi.PostScriptName) {
			return true
		}
	}
	if fi.Family != "" {
		for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDTypographicFamily, sfnt.NameIDFull} {
			if n, err := f.Name(buf, id); err == nil && strings.EqualFold(n, fi.Family) {
				return true
			}
		}
	}
	return false
}
