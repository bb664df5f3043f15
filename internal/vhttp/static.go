package vhttp

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
)

// FileHandler serves regular files, the stage after the listing handler.
// It delegates to http.ServeContent, which handles ranges and conditional
// requests on its own.
type FileHandler struct{}

// Handle implements Handler.
func (FileHandler) Handle(_ context.Context, req *Request) (Result, error) {
	switch req.Method() {
	case http.MethodGet, http.MethodHead:
	default:
		return Pass, nil
	}
	if req.Handled() || req.PhysicalPath == "" {
		return Pass, nil
	}

	fi, err := os.Stat(req.PhysicalPath)
	if err != nil || !fi.Mode().IsRegular() {
		return Pass, nil
	}

	f, err := os.Open(req.PhysicalPath)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			req.Claim(http.StatusForbidden)
			return Served, nil
		}
		return Pass, err
	}

	req.ServeDirect(func(w http.ResponseWriter, r *http.Request) {
		defer f.Close()
		http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
	})
	return Served, nil
}
