package resources

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/captext/core/font"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
)

// GoogleFontInfo is an entry of the Google Fonts directory.
type GoogleFontInfo struct {
	Family   string            `json:"family"`
	Version  string            `json:"version"`
	Variants []string          `json:"variants"`
	Subsets  []string          `json:"subsets"`
	Files    map[string]string `json:"files"`
}

type googleFontsList struct {
	Items []GoogleFontInfo `json:"items"`
}

const googleFontsAPI = `https://www.googleapis.com/webfonts/v1/webfonts?`

// GoogleSource is a font source for fonts of the Google webfont service
// (https://developers.google.com/fonts/docs/developer_api). Font files are
// downloaded on first use and kept in the user's cache directory.
//
// The directory of fonts is requested once. If that fails, every lookup will
// report the failure.
type GoogleSource struct {
	apikey   string
	api      string
	cachedir string
	client   *http.Client
	once     sync.Once
	dir      googleFontsList
	err      error
}

var _ font.Source = (*GoogleSource)(nil)

// NewGoogleSource creates a Google Fonts source from the application
// configuration. The API-key is taken from key 'google-api-key' or from
// environment variable GOOGLE_API_KEY. Font files are cached in a folder
// 'fonts' of the application's cache directory (see CacheDirPath).
func NewGoogleSource(conf schuko.Configuration) (*GoogleSource, error) {
	apikey := conf.GetString("google-api-key")
	if apikey == "" {
		apikey = os.Getenv("GOOGLE_API_KEY")
	}
	if apikey == "" {
		return nil, core.Error(core.EMISSING,
			"Google Fonts API-key must be set in configuration or as GOOGLE_API_KEY in environment")
	}
	cachedir, err := CacheDirPath(conf, "fonts")
	if err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot create font cache")
	}
	return &GoogleSource{
		apikey:   apikey,
		api:      googleFontsAPI,
		cachedir: cachedir,
		client:   http.DefaultClient,
	}, nil
}

func (src *GoogleSource) loadDirectory() error {
	src.once.Do(func() {
		values := url.Values{
			"sort": []string{"alpha"},
			"key":  []string{src.apikey},
		}
		resp, err := src.client.Get(src.api + values.Encode())
		if err != nil {
			tracer().Errorf("Google Fonts API request not OK: %s", err.Error())
			src.err = core.WrapError(err, core.ECONNECTION,
				"could not get fonts-directory from Google font service")
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			tracer().Errorf("Google Fonts API request not OK: %v", resp.Status)
			src.err = core.Error(core.ECONNECTION,
				"could not get fonts-directory from Google font service: %v", resp.Status)
			return
		}
		if err = json.NewDecoder(resp.Body).Decode(&src.dir); err != nil {
			src.err = core.WrapError(err, core.EINVALID,
				"could not decode fonts-list from Google font service")
			return
		}
		tracer().Infof("Google font service lists %d fonts", len(src.dir.Items))
	})
	return src.err
}

// Lookup finds a font family in the Google Fonts directory and returns the
// cached font file of its regular variant, downloading it if necessary.
func (src *GoogleSource) Lookup(family string, codepoint rune) (font.FaceInfo, error) {
	if err := src.loadDirectory(); err != nil {
		return font.FaceInfo{}, err
	}
	var finfo *GoogleFontInfo
	for i := range src.dir.Items {
		if strings.EqualFold(src.dir.Items[i].Family, family) {
			finfo = &src.dir.Items[i]
			break
		}
	}
	if finfo == nil {
		return font.FaceInfo{}, NotFound(family, codepoint)
	}
	fpath, err := src.cacheFont(*finfo, preferredVariant(*finfo))
	if err != nil {
		return font.FaceInfo{}, err
	}
	fi := font.FaceInfo{Path: fpath, Family: finfo.Family}
	if codepoint != 0 && !covers(fi, codepoint) {
		tracer().Debugf("Google font %s has no glyph for U+%04X", finfo.Family, codepoint)
		return font.FaceInfo{}, NotFound(family, codepoint)
	}
	return fi, nil
}

func preferredVariant(finfo GoogleFontInfo) string {
	if _, ok := finfo.Files["regular"]; ok {
		return "regular"
	}
	if len(finfo.Variants) > 0 {
		return finfo.Variants[0]
	}
	return ""
}

// cacheFont returns the path of a font file in the cache directory. Files
// not yet present are downloaded.
func (src *GoogleSource) cacheFont(finfo GoogleFontInfo, variant string) (string, error) {
	fileurl, ok := finfo.Files[variant]
	if !ok {
		return "", core.Error(core.EMISSING, "Google font %s has no variant %q", finfo.Family, variant)
	}
	ext := path.Ext(fileurl)
	if u, err := url.Parse(fileurl); err == nil {
		ext = path.Ext(u.Path)
	}
	name := strings.ReplaceAll(finfo.Family, " ", "") + "-" + variant + "-" + finfo.Version + ext
	fpath := filepath.Join(src.cachedir, name)
	if _, err := os.Stat(fpath); err == nil {
		tracer().Debugf("Google font %s found in cache", name)
		return fpath, nil
	}
	tracer().Infof("downloading Google font %s", name)
	if err := DownloadCachedFile(src.client, fpath, fileurl); err != nil {
		return "", err
	}
	return fpath, nil
}

// ListFonts produces a listing of available fonts from the Google webfont
// service, with font-family names matching a given pattern.
//
// If not already done, the list of fonts will be downloaded from Google.
func (src *GoogleSource) ListFonts(pattern string) {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	defer tracer().SetTraceLevel(level)
	if err := src.loadDirectory(); err != nil {
		tracer().Errorf("%s", core.UserMessage(err))
		return
	}
	listGoogleFonts(src.dir, pattern)
}

func listGoogleFonts(list googleFontsList, pattern string) int {
	r, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		tracer().Errorf("cannot list Google fonts: invalid pattern: %v", err)
		return 0
	}
	tracer().Infof("%d fonts in list", len(list.Items))
	tracer().Infof("======================================")
	n := 0
	for i, finfo := range list.Items {
		if r.MatchString(finfo.Family) {
			n++
			tracer().Infof("[%4d] %-20s: %s", i, finfo.Family, finfo.Version)
			tracer().Infof("       subsets: %v", finfo.Subsets)
			for _, v := range finfo.Variants {
				tracer().Infof("       - %s", v)
			}
		}
	}
	return n
}
