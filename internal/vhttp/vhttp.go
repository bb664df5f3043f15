// Package vhttp sequences content handlers over HTTP requests.
//
// A pipeline walks its handlers in order until one claims the request.
// Handlers see the resolved physical path and assemble their response body in
// a chunk queue; the pipeline flushes headers, status and body once the
// claiming handler returns. This keeps pass-through semantics explicit: a
// handler that is not responsible for a path simply declines it.
package vhttp

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"dirserve/internal/chunk"
)

// Result tells the pipeline what a handler did with the request.
type Result int

const (
	// Pass means the handler declined; the next stage runs.
	Pass Result = iota
	// Served means the handler produced the response.
	Served
)

// Handler is one stage of the pipeline.
type Handler interface {
	Handle(ctx context.Context, req *Request) (Result, error)
}

// Request carries one HTTP exchange through the pipeline.
type Request struct {
	// PhysicalPath is the filesystem path the URL resolved to. Empty when
	// the URL escaped the document root.
	PhysicalPath string
	// Out collects the response body of the claiming handler.
	Out *chunk.Queue

	w       http.ResponseWriter
	r       *http.Request
	status  int
	handled bool
	wrote   bool
}

// Method returns the request method.
func (req *Request) Method() string { return req.r.Method }

// URLPath returns the decoded request URL path.
func (req *Request) URLPath() string { return req.r.URL.Path }

// HTTPRequest exposes the underlying request for header inspection.
func (req *Request) HTTPRequest() *http.Request { return req.r }

// Header returns the response headers.
func (req *Request) Header() http.Header { return req.w.Header() }

// Handled reports whether an earlier stage already produced the response.
func (req *Request) Handled() bool { return req.handled }

// Claim marks the response as produced with the given status. The claiming
// handler owns the response from here on.
func (req *Request) Claim(status int) {
	req.handled = true
	req.status = status
}

// SetStatus replaces the status of an already claimed response.
func (req *Request) SetStatus(status int) { req.status = status }

// RedirectDirectory claims the response as a permanent redirect to the
// slash-terminated form of the request URL, preserving the query string.
func (req *Request) RedirectDirectory() {
	u := *req.r.URL
	u.Path += "/"
	req.Claim(http.StatusMovedPermanently)
	req.w.Header().Set("Location", u.String())
}

// ServeDirect claims the response and runs fn against the raw exchange,
// for stages that delegate the whole write to a net/http helper such as
// http.ServeContent. The pipeline performs no further writes afterwards.
func (req *Request) ServeDirect(fn func(w http.ResponseWriter, r *http.Request)) {
	req.handled = true
	req.wrote = true
	fn(req.w, req.r)
}

// Pipeline resolves request URLs below Root and runs Handlers in order.
type Pipeline struct {
	Root     string
	Handlers []Handler
}

// ServeHTTP implements http.Handler.
func (p *Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := &Request{
		PhysicalPath: p.resolve(r.URL.Path),
		Out:          chunk.New(),
		w:            w,
		r:            r,
	}
	defer req.Out.Close()

	for _, h := range p.Handlers {
		res, err := h.Handle(r.Context(), req)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"method": r.Method,
				"url":    r.URL.Path,
			}).Error("vhttp: handler failed")
			if !req.wrote {
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
			return
		}
		if res == Served {
			p.finish(req)
			return
		}
	}

	req.Claim(http.StatusNotFound)
	p.finish(req)
}

// resolve maps a URL path to a filesystem path below the document root.
// Paths that would escape the root resolve to "".
func (p *Pipeline) resolve(urlPath string) string {
	phys := filepath.Join(p.Root, filepath.FromSlash(strings.TrimPrefix(urlPath, "/")))
	rel, err := filepath.Rel(p.Root, phys)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return phys
}

func (p *Pipeline) finish(req *Request) {
	if req.wrote {
		return
	}
	if req.status == 0 {
		req.status = http.StatusOK
	}

	body := req.Out.Len() > 0
	if !body && req.status >= http.StatusBadRequest {
		req.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		req.Out.AppendString(http.StatusText(req.status) + "\n")
		body = true
	}
	if body && req.status != http.StatusNotModified {
		req.w.Header().Set("Content-Length", strconv.FormatInt(req.Out.Len(), 10))
	}

	req.w.WriteHeader(req.status)

	if req.r.Method == http.MethodHead || req.status == http.StatusNotModified {
		return
	}
	if body {
		if _, err := req.Out.WriteTo(req.w); err != nil {
			logrus.WithError(err).Debug("vhttp: body write aborted")
		}
	}
}
