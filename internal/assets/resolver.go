// Package assets turns an addon's CSS, JavaScript and other asset file names
// into public URLs.
//
// A file is looked up in four places, first match wins:
//
//  1. the addon's bundled directory
//  2. the bundled directory's type subfolder (css, js or assets)
//  3. the installed addon directory
//  4. the installed directory's type subfolder
//
// CSS and JS names are retried once with their extension appended. Files that
// cannot be found are logged and resolve to "".
package assets

import (
	"html"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/logging"
	"go.uber.org/zap"
)

// Kind is an asset category and the name of its subfolder
type Kind string

const (
	KindCSS   Kind = "css"
	KindJS    Kind = "js"
	KindAsset Kind = "assets"
)

// Resolver resolves asset URLs for one addon
type Resolver struct {
	identity  addon.Identity
	bundleDir string
	siteRoot  string
	log       *logging.AddonLogger
}

// New creates a resolver. bundleRoot is the directory of bundled addons and
// siteRoot the URL prefix of the site.
func New(id addon.Identity, bundleRoot, siteRoot string, log *logging.AddonLogger) *Resolver {
	if log == nil {
		log = logging.NewNop().ForAddon(id.Type.String(), id.Name)
	}
	r := &Resolver{identity: id, siteRoot: siteRoot, log: log}
	if bundleRoot != "" {
		r.bundleDir = filepath.Join(bundleRoot, id.Name)
	}
	return r
}

// CSS returns the URL of a stylesheet
func (r *Resolver) CSS(file string) string {
	return r.resolve(file, KindCSS, ".css", "CSS")
}

// JS returns the URL of a script
func (r *Resolver) JS(file string) string {
	return r.resolve(file, KindJS, ".js", "JavaScript")
}

// Asset returns the URL of any other file
func (r *Resolver) Asset(file string) string {
	return r.resolve(file, KindAsset, "", "Asset")
}

func (r *Resolver) resolve(file string, kind Kind, ext, label string) string {
	if strings.Contains(file, "..") {
		r.log.Error(label+" file path cannot contain '..'", zap.String("file", file))
		return ""
	}

	if _, sub, ok := r.find(file, kind); ok {
		if sub {
			return r.url(string(kind), file)
		}
		return r.url(file)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(file), ext) {
		return r.resolve(file+ext, kind, ext, label)
	}

	r.log.Error(label+" file doesn't exist", zap.String("file", file))
	return ""
}

// find walks the lookup chain. sub reports whether the match was in a type
// subfolder.
func (r *Resolver) find(file string, kind Kind) (match string, sub bool, ok bool) {
	rel := filepath.FromSlash(file)
	for _, dir := range []string{r.bundleDir, r.identity.Location} {
		if dir == "" {
			continue
		}
		if p := filepath.Join(dir, rel); isFile(p) {
			return p, false, true
		}
		if p := filepath.Join(dir, string(kind), rel); isFile(p) {
			return p, true, true
		}
	}
	return "", false, false
}

// Locate returns the file on disk that an addon-relative asset path refers
// to, searching the bundled directory before the installed one.
func (r *Resolver) Locate(rel string) (string, bool) {
	if rel == "" || strings.Contains(rel, "..") {
		return "", false
	}
	rel = filepath.FromSlash(strings.TrimPrefix(rel, "/"))
	for _, dir := range []string{r.bundleDir, r.identity.Location} {
		if dir == "" {
			continue
		}
		if p := filepath.Join(dir, rel); isFile(p) {
			return p, true
		}
	}
	return "", false
}

func (r *Resolver) url(parts ...string) string {
	all := append([]string{r.identity.LogicalPath}, parts...)
	return strings.TrimRight(r.siteRoot, "/") + "/" + strings.TrimPrefix(path.Join(all...), "/")
}

// LinkCSS returns stylesheet link tags for files
func (r *Resolver) LinkCSS(files ...string) string {
	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(`<link rel="stylesheet" href="`)
		sb.WriteString(html.EscapeString(r.CSS(f)))
		sb.WriteString(`">`)
	}
	return sb.String()
}

// LinkJS returns script tags for files
func (r *Resolver) LinkJS(files ...string) string {
	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(`<script type="text/javascript" src="`)
		sb.WriteString(html.EscapeString(r.JS(f)))
		sb.WriteString(`"></script>`)
	}
	return sb.String()
}

// InlineCSS wraps css in a style element
func InlineCSS(css string) string {
	return "<style>" + css + "</style>"
}

// InlineJS wraps js in a script element
func InlineJS(js string) string {
	return `<script type="text/javascript">` + js + "</script>"
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
