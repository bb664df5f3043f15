// Package statcache caches directory snapshots: the stat result for a
// directory together with the stat results of its immediate children.
//
// Scans run in the background and are deduplicated per path, so many
// concurrent requests for the same directory cost one pass over it. Recent
// snapshots are retained in an LRU and reused until they age out.
package statcache

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// Kind discriminates what a child entry is.
type Kind int

const (
	// KindOther covers sockets, devices, broken symlinks and the like.
	KindOther Kind = iota
	// KindDir is a directory (symlinks to directories included).
	KindDir
	// KindFile is a regular file.
	KindFile
)

// Entry is one child of a scanned directory. Failed entries keep their name
// so callers can decide how to present them.
type Entry struct {
	Name    string
	Failed  bool
	Kind    Kind
	ModTime time.Time
	Size    int64
}

// Snapshot is a point-in-time scan of one directory. Err holds the failure
// of the directory's own stat (or read) when the scan failed; Info and
// Entries are only meaningful when Err is nil. Snapshots are immutable once
// published.
type Snapshot struct {
	Path    string
	Err     error
	Info    os.FileInfo
	Entries []Entry

	taken time.Time
}

// Lease grants read access to a snapshot until released.
type Lease struct {
	snap     *Snapshot
	released atomic.Bool
}

// Snapshot returns the leased snapshot.
func (l *Lease) Snapshot() *Snapshot {
	return l.snap
}

// Release returns the lease. Each lease is released exactly once; extra
// calls are ignored.
func (l *Lease) Release() {
	l.released.Store(true)
}

type fetch struct {
	done chan struct{}
	snap *Snapshot
}

// Cache resolves directory paths to snapshots.
type Cache struct {
	ttl time.Duration

	mu      sync.Mutex
	pending map[string]*fetch
	recent  *lru.Cache[string, *Snapshot]
}

// New creates a cache retaining up to size snapshots, each reused for at
// most ttl after its scan completed.
func New(size int, ttl time.Duration) (*Cache, error) {
	recent, err := lru.New[string, *Snapshot](size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		ttl:     ttl,
		pending: make(map[string]*fetch),
		recent:  recent,
	}, nil
}

// Lookup returns a lease on a snapshot for path. A cached snapshot younger
// than the TTL is returned immediately; otherwise Lookup awaits a background
// scan. The scan keeps running if ctx is cancelled so a later request can
// still use its result; in that case Lookup returns the context error and no
// lease.
func (c *Cache) Lookup(ctx context.Context, path string) (*Lease, error) {
	c.mu.Lock()
	if snap, ok := c.recent.Get(path); ok && time.Since(snap.taken) < c.ttl {
		c.mu.Unlock()
		return &Lease{snap: snap}, nil
	}
	f, ok := c.pending[path]
	if !ok {
		f = &fetch{done: make(chan struct{})}
		c.pending[path] = f
		go c.scan(path, f)
	}
	c.mu.Unlock()

	select {
	case <-f.done:
		return &Lease{snap: f.snap}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) scan(path string, f *fetch) {
	started := time.Now()
	snap := takeSnapshot(path)

	c.mu.Lock()
	delete(c.pending, path)
	c.recent.Add(path, snap)
	c.mu.Unlock()

	f.snap = snap
	close(f.done)

	logrus.WithFields(logrus.Fields{
		"path":    path,
		"entries": len(snap.Entries),
		"took":    time.Since(started),
	}).Trace("statcache: scanned directory")
}

func takeSnapshot(path string) *Snapshot {
	snap := &Snapshot{Path: path, taken: time.Now()}

	info, err := os.Stat(path)
	if err != nil {
		snap.Err = err
		return snap
	}
	snap.Info = info
	if !info.IsDir() {
		return snap
	}

	dirents, err := os.ReadDir(path)
	if err != nil {
		snap.Err = err
		return snap
	}

	snap.Entries = make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		snap.Entries = append(snap.Entries, statChild(path, de))
	}
	return snap
}

func statChild(dir string, de fs.DirEntry) Entry {
	e := Entry{Name: de.Name()}

	var (
		fi  fs.FileInfo
		err error
	)
	if de.Type()&fs.ModeSymlink != 0 {
		// follow the link so symlinked directories list as directories
		fi, err = os.Stat(filepath.Join(dir, de.Name()))
	} else {
		fi, err = de.Info()
	}
	if err != nil {
		e.Failed = true
		return e
	}

	switch {
	case fi.IsDir():
		e.Kind = KindDir
	case fi.Mode().IsRegular():
		e.Kind = KindFile
	default:
		e.Kind = KindOther
	}
	e.ModTime = fi.ModTime()
	e.Size = fi.Size()
	return e
}
