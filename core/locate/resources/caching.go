package resources

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/npillmayer/captext/core"
	"github.com/npillmayer/schuko"
)

// DefaultAppKey names the application's folder in the user's cache directory
// if the configuration does not set 'app-key'.
const DefaultAppKey = "captext"

// DownloadCachedFile will download a url to a local file (usually located in the
// user's cache directory). The file appears only after a complete download.
func DownloadCachedFile(client *http.Client, path string, url string) error {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return core.WrapError(err, core.ECONNECTION, "cannot download %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return core.WrapError(fmt.Errorf("response: %s", resp.Status), core.ECONNECTION,
			"cannot download %s", url)
	}
	out, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(out.Name()) // fails after rename, which is fine
	if _, err = io.Copy(out, resp.Body); err != nil {
		out.Close()
		return core.WrapError(err, core.ECONNECTION, "download of %s interrupted", url)
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Rename(out.Name(), path)
}

// CacheDirPath checks and possibly creates a folder in the user's cache
// directory. The base cache directory is taken from `os.UserCacheDir()`, plus
// an application specific key, taken as `app-key` from the configuration.
// Clients may specify a sequence of folder names, which will be appended to
// the base cache path. Non-existing sub-folders will be created as necessary
// (with permissions 755).
func CacheDirPath(conf schuko.Configuration, subfolders ...string) (string, error) {
	appkey := conf.GetString("app-key")
	if appkey == "" {
		tracer().Debugf("application key is not set, using %s", DefaultAppKey)
		appkey = DefaultAppKey
	}
	cachedir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	cachedir = filepath.Join(append([]string{cachedir, appkey}, subfolders...)...)
	tracer().Debugf("caching in %s", cachedir)
	if err = os.MkdirAll(cachedir, 0755); err != nil {
		return "", err
	}
	return cachedir, nil
}
