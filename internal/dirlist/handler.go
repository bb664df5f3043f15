package dirlist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"dirserve/internal/etag"
	"dirserve/internal/statcache"
	"dirserve/internal/vhttp"
)

// Handler serves directory listings as one stage of the request pipeline.
// It claims GET/HEAD requests whose physical path is a directory, redirects
// directory URLs missing their trailing slash and answers 304 when the
// client's cached copy is still valid; everything else passes through to
// later stages.
type Handler struct {
	policy   Policy
	cache    *statcache.Cache
	renderer *Renderer
}

// NewHandler wires a listing handler from its collaborators.
func NewHandler(policy Policy, cache *statcache.Cache, renderer *Renderer) *Handler {
	return &Handler{policy: policy, cache: cache, renderer: renderer}
}

// Handle implements vhttp.Handler.
func (h *Handler) Handle(ctx context.Context, req *vhttp.Request) (vhttp.Result, error) {
	switch req.Method() {
	case http.MethodGet, http.MethodHead:
	default:
		return vhttp.Pass, nil
	}
	if req.Handled() || req.PhysicalPath == "" {
		return vhttp.Pass, nil
	}

	lease, err := h.cache.Lookup(ctx, req.PhysicalPath)
	if err != nil {
		// request cancelled while awaiting the scan
		return vhttp.Pass, err
	}
	defer lease.Release()
	snap := lease.Snapshot()

	if snap.Err != nil {
		switch {
		case errors.Is(snap.Err, fs.ErrNotExist), errors.Is(snap.Err, syscall.ENOTDIR):
			return vhttp.Pass, nil
		case errors.Is(snap.Err, fs.ErrPermission):
			req.Claim(http.StatusForbidden)
			return vhttp.Served, nil
		default:
			return vhttp.Pass, fmt.Errorf("dirlist: stat %q: %w", req.PhysicalPath, snap.Err)
		}
	}

	if !snap.Info.IsDir() {
		return vhttp.Pass, nil
	}

	if !strings.HasSuffix(req.URLPath(), "/") {
		req.RedirectDirectory()
		return vhttp.Served, nil
	}

	req.Claim(http.StatusOK)
	req.Header().Set("Content-Type", h.policy.ContentType)

	if etag.CachedValid(req.Header(), req.HTTPRequest(), snap.Info) {
		req.SetStatus(http.StatusNotModified)
		return vhttp.Served, nil
	}

	if h.policy.Debug {
		logrus.WithFields(logrus.Fields{
			"path":    snap.Path,
			"entries": len(snap.Entries),
		}).Debug("dirlist: rendering listing")
	}

	h.renderer.Render(snap, req.URLPath(), req.Out)
	return vhttp.Served, nil
}
