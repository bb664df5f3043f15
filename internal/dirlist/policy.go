// Package dirlist renders directory contents as an HTML listing. It is the
// core of the server: a pipeline handler that resolves a directory snapshot,
// filters its entries by policy and streams the finished document.
package dirlist

// Policy controls what a listing shows and how the HEADER.txt / README.txt
// companion files are treated. A Policy is built once at configuration time
// and never mutated afterwards, so it is safe to share across concurrent
// requests without locking.
type Policy struct {
	// CSS is the URL of an external stylesheet. Empty means the embedded
	// default stylesheet is emitted inline.
	CSS string

	HideDotfiles    bool
	HideTildeFiles  bool
	HideDirectories bool

	IncludeHeader bool
	HideHeader    bool
	EncodeHeader  bool

	IncludeReadme bool
	HideReadme    bool
	EncodeReadme  bool

	// ExcludeSuffixes and ExcludePrefixes hide any entry whose name matches
	// one of them literally.
	ExcludeSuffixes []string
	ExcludePrefixes []string

	// Debug enables per-render diagnostic logging.
	Debug bool

	// ContentType is sent as the listing's Content-Type header.
	ContentType string
}

// DefaultPolicy returns a Policy with the historical defaults: dotfiles and
// tilde backups hidden, README.txt included below the listing, companion
// files HTML-encoded.
func DefaultPolicy() Policy {
	return Policy{
		HideDotfiles:   true,
		HideTildeFiles: true,
		IncludeReadme:  true,
		EncodeHeader:   true,
		EncodeReadme:   true,
		ContentType:    "text/html; charset=utf-8",
	}
}
