// Package mimetype resolves content types from file names.
package mimetype

import (
	"mime"
	"path/filepath"
	"sort"
	"strings"
)

// defaults covers the types a file server meets most often. The config file
// can extend or override it.
var defaults = map[string]string{
	".html":   "text/html",
	".htm":    "text/html",
	".txt":    "text/plain",
	".md":     "text/markdown",
	".css":    "text/css",
	".js":     "text/javascript",
	".json":   "application/json",
	".xml":    "application/xml",
	".png":    "image/png",
	".jpg":    "image/jpeg",
	".jpeg":   "image/jpeg",
	".gif":    "image/gif",
	".svg":    "image/svg+xml",
	".pdf":    "application/pdf",
	".zip":    "application/zip",
	".gz":     "application/gzip",
	".tar.gz": "application/x-gtar",
}

type rule struct {
	suffix string
	typ    string
}

// Table maps file name suffixes to MIME types. Matching prefers the longest
// suffix, so ".tar.gz" wins over ".gz".
type Table struct {
	rules []rule
}

// New builds a table from the built-in defaults merged with overrides.
// Override keys are suffixes, usually extensions.
func New(overrides map[string]string) *Table {
	merged := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}

	t := &Table{rules: make([]rule, 0, len(merged))}
	for k, v := range merged {
		t.rules = append(t.rules, rule{suffix: k, typ: v})
	}
	sort.Slice(t.rules, func(i, j int) bool {
		a, b := t.rules[i], t.rules[j]
		if len(a.suffix) != len(b.suffix) {
			return len(a.suffix) > len(b.suffix)
		}
		return a.suffix < b.suffix
	})
	return t
}

// Resolve returns the MIME type for name, trying the suffix table first and
// the platform's extension registry second.
func (t *Table) Resolve(name string) (string, bool) {
	for _, r := range t.rules {
		if strings.HasSuffix(name, r.suffix) {
			return r.typ, true
		}
	}
	if ext := filepath.Ext(name); ext != "" {
		if typ := mime.TypeByExtension(ext); typ != "" {
			return typ, true
		}
	}
	return "", false
}
