// Package etag derives HTTP validators from stat results and evaluates
// conditional requests against them.
package etag

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"syscall"
	"time"
)

// For computes the entity tag for a stat result. Inode, size and
// modification time feed the tag, so any change to the underlying file or
// directory invalidates it.
func For(fi os.FileInfo) string {
	var ino uint64
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		ino = st.Ino
	}
	return fmt.Sprintf("\"%x-%x-%x\"", ino, fi.Size(), fi.ModTime().UnixNano())
}

// CachedValid stores the ETag and Last-Modified validators for fi in h and
// reports whether the client's cached copy is still valid, in which case the
// response can be a 304 with no body.
func CachedValid(h http.Header, r *http.Request, fi os.FileInfo) bool {
	tag := For(fi)
	h.Set("ETag", tag)
	h.Set("Last-Modified", fi.ModTime().UTC().Format(http.TimeFormat))

	if match := r.Header.Get("If-None-Match"); match != "" {
		return tagMatch(match, tag)
	}
	if ims := r.Header.Get("If-Modified-Since"); ims != "" {
		if since, err := http.ParseTime(ims); err == nil {
			return !fi.ModTime().Truncate(time.Second).After(since)
		}
	}
	return false
}

// tagMatch evaluates an If-None-Match header value against tag.
func tagMatch(header, tag string) bool {
	if strings.TrimSpace(header) == "*" {
		return true
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == tag {
			return true
		}
	}
	return false
}
