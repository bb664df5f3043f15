// Package encoding provides the string escaping used when entry names are
// echoed into generated HTML.
package encoding

import (
	"net/url"
	"strings"
)

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EncodeHTML escapes text for inclusion in HTML element content or
// double-quoted attribute values.
func EncodeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// EncodeURI escapes a single path segment for use as a link target. Slashes
// are escaped too; callers append any trailing slash themselves.
func EncodeURI(s string) string {
	return url.PathEscape(s)
}
