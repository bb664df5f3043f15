package dirlist

import (
	"bytes"
	"os"
	"path/filepath"

	"dirserve/internal/chunk"
	"dirserve/internal/encoding"
)

// spliceFile appends the named companion file to the output. In raw mode the
// pending buffer is flushed to the queue and the open descriptor follows it
// as a zero-copy file range, ownership transferring to the queue. In encode
// mode the content is HTML-escaped into the buffer inside a <pre> block.
// Every failure is silently ignored: a missing, unreadable or oversized
// companion file never breaks the listing.
func spliceFile(dir, name string, q *chunk.Queue, buf *bytes.Buffer, encode bool) {
	path := filepath.Join(dir, name)

	if !encode {
		f, err := os.Open(path)
		if err != nil {
			return
		}
		fi, err := f.Stat()
		if err != nil || fi.Size() > maxIncludeSize {
			f.Close()
			return
		}

		q.AppendString(buf.String())
		buf.Reset()
		q.AppendFile(f, 0, fi.Size())
		return
	}

	content, err := os.ReadFile(path)
	if err != nil || len(content) > maxIncludeSize {
		return
	}
	buf.WriteString("<pre>")
	buf.WriteString(encoding.EncodeHTML(string(content)))
	buf.WriteString("</pre>")
}
