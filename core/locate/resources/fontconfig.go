package resources

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strconv"
	"strings"

	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/captext/core/font"
	"github.com/npillmayer/schuko"
)

// fcFormat makes fc-match print file, face index, family names and
// PostScript name on separate lines.
const fcFormat = `%{file}\n%{index}\n%{family}\n%{postscriptname}\n`

// FontConfigSource searches for a locally installed font using the fontconfig
// system (https://www.freedesktop.org/wiki/Software/fontconfig/).
// fontconfig has to be configured in the global application configuration by
// setting the absolute path of the 'fc-match' binary with key 'fontconfig'.
//
// We call the binary instead of using the C library because of possible version
// issues.
type FontConfigSource struct {
	binary string
	run    func(binary string, args ...string) ([]byte, error)
}

var _ font.Source = FontConfigSource{}

// NewFontConfigSource creates a fontconfig source from the application
// configuration.
func NewFontConfigSource(conf schuko.Configuration) (FontConfigSource, error) {
	fcpath, err := findFontConfigBinary(conf)
	if err != nil {
		return FontConfigSource{}, err
	}
	if !path.IsAbs(fcpath) {
		return FontConfigSource{}, core.Error(core.EINVALID,
			"fontconfig binary fc-match must point to absolute path: %s", fcpath)
	}
	if fi, err := os.Stat(fcpath); err != nil || (fi.Mode().Perm()&0100) == 0 {
		return FontConfigSource{}, core.WrapError(err, core.EINVALID,
			"fontconfig configuration points to an invalid binary: %s", fcpath)
	}
	return FontConfigSource{binary: fcpath, run: runFontConfig}, nil
}

func findFontConfigBinary(conf schuko.Configuration) (path string, err error) {
	path = conf.GetString("fontconfig")
	if path == "" {
		tracer().Infof("fontconfig not configured: key 'fontconfig' should point location of 'fc-match' binary")
		err = core.Error(core.EMISSING, "fontconfig not configured")
	}
	return
}

func runFontConfig(binary string, args ...string) ([]byte, error) {
	fccmd := exec.Command(binary, args...)
	var stderr bytes.Buffer
	fccmd.Stderr = &stderr
	out, err := fccmd.Output()
	if err != nil {
		return nil, core.WrapError(err, core.EEXTERNAL, "fc-match failed: %s",
			strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Lookup asks fontconfig for the best match for a family. As fontconfig
// will always come up with some font, the result is checked to be of the
// requested family and to contain codepoint.
func (src FontConfigSource) Lookup(family string, codepoint rune) (font.FaceInfo, error) {
	if src.run == nil {
		return font.FaceInfo{}, core.Error(core.EINTERNAL, "fontconfig source not initialized")
	}
	pattern := family
	if codepoint != 0 {
		pattern = fmt.Sprintf("%s:charset=%x", family, codepoint)
	}
	out, err := src.run(src.binary, "--format="+fcFormat, pattern)
	if err != nil {
		return font.FaceInfo{}, err
	}
	fi, families, err := parseFontConfigMatch(out)
	if err != nil {
		return font.FaceInfo{}, err
	}
	if !containsFold(families, family) {
		tracer().Debugf("fontconfig substituted %v for %s", families, family)
		return font.FaceInfo{}, NotFound(family, codepoint)
	}
	fi.Family = family
	if codepoint != 0 && !covers(fi, codepoint) {
		tracer().Debugf("fontconfig match %s has no glyph for U+%04X", fi.Path, codepoint)
		return font.FaceInfo{}, NotFound(family, codepoint)
	}
	tracer().Debugf("fontconfig found %s at %s[%d]", family, fi.Path, fi.Index)
	return fi, nil
}

var errFontConfigOutput = errors.New("unexpected output format")

func parseFontConfigMatch(out []byte) (font.FaceInfo, []string, error) {
	lines := strings.Split(string(out), "\n")
	if len(lines) < 4 || strings.TrimSpace(lines[0]) == "" {
		return font.FaceInfo{}, nil, core.WrapError(errFontConfigOutput, core.EEXTERNAL,
			"cannot interpret output of fc-match")
	}
	fi := font.FaceInfo{Path: strings.TrimSpace(lines[0])}
	index, err := strconv.Atoi(strings.TrimSpace(lines[1]))
	if err != nil {
		index = -1
	}
	fi.Index = index
	var families []string
	for _, f := range strings.Split(lines[2], ",") {
		if f = strings.TrimSpace(f); f != "" {
			families = append(families, f)
		}
	}
	fi.PostScriptName = strings.TrimSpace(lines[3])
	return fi, families, nil
}

func containsFold(list []string, s string) bool {
	for _, x := range list {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}
