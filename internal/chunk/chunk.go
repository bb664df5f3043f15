// Package chunk implements the ordered output queue a response body is
// assembled in.
//
// A queue holds two kinds of chunks: in-memory byte slices and ranges of
// open files. File ranges let a caller splice file content into the response
// without first copying it through a buffer; the queue takes ownership of the
// descriptor and closes it once the range has been written or the queue is
// closed.
package chunk

import (
	"fmt"
	"io"
	"os"
)

type chunk struct {
	data []byte
	file *os.File
	off  int64
	n    int64
}

// Queue is an ordered sequence of response body chunks. It is not safe for
// concurrent use; every request owns its own queue.
type Queue struct {
	chunks []chunk
	length int64
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// AppendBytes queues b. The queue takes ownership of the slice; callers must
// not modify it afterwards.
func (q *Queue) AppendBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	q.chunks = append(q.chunks, chunk{data: b})
	q.length += int64(len(b))
}

// AppendString queues a copy of s.
func (q *Queue) AppendString(s string) {
	q.AppendBytes([]byte(s))
}

// AppendFile queues n bytes of f starting at off. Ownership of f transfers
// to the queue.
func (q *Queue) AppendFile(f *os.File, off, n int64) {
	if n <= 0 {
		f.Close()
		return
	}
	q.chunks = append(q.chunks, chunk{file: f, off: off, n: n})
	q.length += n
}

// Len returns the total number of body bytes queued.
func (q *Queue) Len() int64 {
	return q.length
}

// WriteTo writes all queued chunks to w in order, draining the queue.
// File-backed chunks are closed as they are written.
func (q *Queue) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for i := range q.chunks {
		c := &q.chunks[i]
		if c.file != nil {
			n, err := io.Copy(w, io.NewSectionReader(c.file, c.off, c.n))
			c.file.Close()
			c.file = nil
			written += n
			if err != nil {
				return written, err
			}
			if n != c.n {
				return written, fmt.Errorf("chunk: short file range: wrote %d of %d bytes", n, c.n)
			}
			continue
		}
		n, err := w.Write(c.data)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	q.chunks = nil
	q.length = 0
	return written, nil
}

// Close releases any file descriptors still owned by the queue.
func (q *Queue) Close() error {
	var firstErr error
	for i := range q.chunks {
		if f := q.chunks[i].file; f != nil {
			if err := f.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
			q.chunks[i].file = nil
		}
	}
	q.chunks = nil
	q.length = 0
	return firstErr
}
