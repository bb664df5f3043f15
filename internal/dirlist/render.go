package dirlist

import (
	"bytes"
	"fmt"
	"strconv"

	"dirserve/internal/chunk"
	"dirserve/internal/encoding"
	"dirserve/internal/mimetype"
	"dirserve/internal/statcache"
)

// dateFormat is the listing's timestamp layout, rendered in local time.
const dateFormat = "2006-Jan-02 15:04:05"

// fallbackType labels files the MIME resolver knows nothing about.
const fallbackType = "application/octet-stream"

// Renderer composes directory snapshots into HTML listing documents.
type Renderer struct {
	policy    Policy
	mime      *mimetype.Table
	serverTag string
}

// NewRenderer returns a renderer for the given policy. serverTag is echoed
// into the document footer.
func NewRenderer(policy Policy, mime *mimetype.Table, serverTag string) *Renderer {
	return &Renderer{policy: policy, mime: mime, serverTag: serverTag}
}

// Render writes the listing for snap to q. requestPath is the decoded URL
// path shown in the title. Rendering the same snapshot with the same policy
// produces byte-identical output.
func (rd *Renderer) Render(snap *statcache.Snapshot, requestPath string, q *chunk.Queue) {
	// Partition entries into directories and files, preserving the
	// snapshot's order within each group. Companion files may join the file
	// rows and independently qualify for splicing.
	var dirs, files []statcache.Entry
	spliceHeader, spliceReadme := false, false
	for _, e := range snap.Entries {
		switch Classify(e, rd.policy) {
		case ClassDirectory:
			dirs = append(dirs, e)
		case ClassFile:
			files = append(files, e)
		case ClassHeader:
			if rd.policy.IncludeHeader && spliceable(e) {
				spliceHeader = true
			}
			if !rd.policy.HideHeader {
				files = append(files, e)
			}
		case ClassReadme:
			if rd.policy.IncludeReadme && spliceable(e) {
				spliceReadme = true
			}
			if !rd.policy.HideReadme {
				files = append(files, e)
			}
		}
	}

	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, htmlHeaderStart, requestPath)
	if rd.policy.CSS != "" {
		buf.WriteString(cssLinkStart)
		buf.WriteString(rd.policy.CSS)
		buf.WriteString(cssLinkEnd)
	} else {
		buf.WriteString(htmlCSS)
	}
	buf.WriteString(htmlHeaderEnd)

	if spliceHeader {
		spliceFile(snap.Path, headerName, q, buf, rd.policy.EncodeHeader)
	}

	fmt.Fprintf(buf, htmlTableStart, requestPath)
	buf.WriteString(htmlParentRow)

	for _, e := range dirs {
		buf.WriteString("\t\t\t\t<tr><td><a href=\"")
		buf.WriteString(encoding.EncodeURI(e.Name))
		buf.WriteString("/\">")
		buf.WriteString(encoding.EncodeHTML(e.Name))
		buf.WriteString("</a></td><td class=\"modified\" val=\"")
		buf.WriteString(strconv.FormatInt(e.ModTime.Unix(), 10))
		buf.WriteString("\">")
		buf.WriteString(e.ModTime.Local().Format(dateFormat))
		buf.WriteString("</td><td class=\"size\" val=\"0\">-</td><td class=\"type\">Directory</td></tr>\n")
	}

	for _, e := range files {
		mimeType, ok := rd.mime.Resolve(e.Name)
		if !ok {
			mimeType = fallbackType
		}

		buf.WriteString("\t\t\t\t<tr><td><a href=\"")
		buf.WriteString(encoding.EncodeURI(e.Name))
		buf.WriteString("\">")
		buf.WriteString(encoding.EncodeHTML(e.Name))
		buf.WriteString("</a></td><td class=\"modified\" val=\"")
		buf.WriteString(strconv.FormatInt(e.ModTime.Unix(), 10))
		buf.WriteString("\">")
		buf.WriteString(e.ModTime.Local().Format(dateFormat))
		buf.WriteString("</td><td class=\"size\" val=\"")
		buf.WriteString(strconv.FormatInt(e.Size, 10))
		buf.WriteString("\">")
		buf.WriteString(FormatSize(e.Size))
		buf.WriteString("</td><td class=\"type\">")
		buf.WriteString(mimeType)
		buf.WriteString("</td></tr>\n")
	}

	buf.WriteString(htmlTableEnd)

	if spliceReadme {
		spliceFile(snap.Path, readmeName, q, buf, rd.policy.EncodeReadme)
	}

	fmt.Fprintf(buf, htmlFooter, rd.serverTag)

	q.AppendString(buf.String())
}
