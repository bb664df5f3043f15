package dirlist

import (
	"strings"

	"dirserve/internal/statcache"
)

// Companion files optionally spliced into the listing.
const (
	headerName = "HEADER.txt"
	readmeName = "README.txt"
)

// maxIncludeSize caps how large a companion file may be to get spliced.
const maxIncludeSize = 64 * 1024

// Class is the classifier's verdict for one directory entry.
type Class int

const (
	// ClassHidden entries are omitted from the listing.
	ClassHidden Class = iota
	// ClassDirectory entries go into the directory section.
	ClassDirectory
	// ClassFile entries go into the file section.
	ClassFile
	// ClassHeader is a recognized HEADER.txt companion file.
	ClassHeader
	// ClassReadme is a recognized README.txt companion file.
	ClassReadme
)

// Classify decides how one entry appears in the listing. Rules apply in
// order and the first match wins: failed stat, dotfile, tilde backup,
// excluded suffix, excluded prefix, directory, companion file, plain file.
func Classify(e statcache.Entry, p Policy) Class {
	if e.Failed {
		return ClassHidden
	}
	if p.HideDotfiles && strings.HasPrefix(e.Name, ".") {
		return ClassHidden
	}
	if p.HideTildeFiles && strings.HasSuffix(e.Name, "~") {
		return ClassHidden
	}
	for _, suffix := range p.ExcludeSuffixes {
		if strings.HasSuffix(e.Name, suffix) {
			return ClassHidden
		}
	}
	for _, prefix := range p.ExcludePrefixes {
		if strings.HasPrefix(e.Name, prefix) {
			return ClassHidden
		}
	}

	if e.Kind == statcache.KindDir {
		if p.HideDirectories {
			return ClassHidden
		}
		return ClassDirectory
	}

	if e.Name == headerName && (p.IncludeHeader || p.HideHeader) {
		return ClassHeader
	}
	if e.Name == readmeName && (p.IncludeReadme || p.HideReadme) {
		return ClassReadme
	}
	return ClassFile
}

// spliceable reports whether a companion file's already-known size qualifies
// it for inclusion: non-empty and below the cap. No I/O happens here.
func spliceable(e statcache.Entry) bool {
	return e.Size > 0 && e.Size < maxIncludeSize
}
