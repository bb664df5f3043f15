package dirlist

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"dirserve/internal/chunk"
	"dirserve/internal/mimetype"
	"dirserve/internal/statcache"
)

var testTime = time.Unix(1700000000, 0)

func entry(name string, kind statcache.Kind, size int64) statcache.Entry {
	return statcache.Entry{Name: name, Kind: kind, ModTime: testTime, Size: size}
}

func renderString(t *testing.T, rd *Renderer, snap *statcache.Snapshot, path string) string {
	t.Helper()
	q := chunk.New()
	defer q.Close()
	rd.Render(snap, path, q)

	var out bytes.Buffer
	if _, err := q.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	return out.String()
}

type row struct {
	href string
	text string
}

// tableRows extracts the (href, link text) pairs of every listing row, in
// document order. The parser unescapes HTML entities, so text comes back as
// the original entry name.
func tableRows(t *testing.T, doc string) []row {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse rendered document: %v", err)
	}

	var rows []row
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			var href string
			for _, a := range n.Attr {
				if a.Key == "href" {
					href = a.Val
				}
			}
			var text strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					text.WriteString(c.Data)
				}
			}
			rows = append(rows, row{href: href, text: text.String()})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return rows
}

func testRenderer(policy Policy) *Renderer {
	return NewRenderer(policy, mimetype.New(nil), "dirserve/test")
}

func TestRenderIdempotent(t *testing.T) {
	snap := &statcache.Snapshot{
		Path: t.TempDir(),
		Entries: []statcache.Entry{
			entry("docs", statcache.KindDir, 0),
			entry("a.txt", statcache.KindFile, 42),
		},
	}
	rd := testRenderer(DefaultPolicy())

	first := renderString(t, rd, snap, "/files/")
	second := renderString(t, rd, snap, "/files/")
	if first != second {
		t.Error("two renders of the same snapshot differ")
	}
}

func TestRenderStructure(t *testing.T) {
	// deliberately unsorted: the renderer must keep snapshot order within
	// each partition, directories first
	snap := &statcache.Snapshot{
		Path: t.TempDir(),
		Entries: []statcache.Entry{
			entry("notes.txt", statcache.KindFile, 12*1024+300),
			entry("zeta dir", statcache.KindDir, 0),
			entry("b&w <img>.png", statcache.KindFile, 100),
			entry("alpha", statcache.KindDir, 0),
			entry("data.zzzz", statcache.KindFile, 5),
		},
	}
	rd := testRenderer(DefaultPolicy())
	out := renderString(t, rd, snap, "/files/")

	if !strings.Contains(out, "<title>Index of /files/</title>") {
		t.Error("title missing or wrong")
	}
	if !strings.Contains(out, `<h2 id="title">Index of /files/</h2>`) {
		t.Error("heading missing or wrong")
	}
	if !strings.Contains(out, `<div id="footer">dirserve/test</div>`) {
		t.Error("footer missing server tag")
	}
	if !strings.Contains(out, "<style type=\"text/css\">") {
		t.Error("default stylesheet not embedded")
	}
	if !strings.Contains(out, `<td class="size" val="0">-</td>`) {
		t.Error("directory rows must show size '-'")
	}
	if !strings.Contains(out, ">12.3K</td>") {
		t.Error("formatted size missing")
	}
	if !strings.Contains(out, ">text/plain</td>") {
		t.Error("resolved MIME type missing")
	}
	if !strings.Contains(out, ">application/octet-stream</td>") {
		t.Error("unresolved type must fall back to application/octet-stream")
	}

	rows := tableRows(t, out)
	wantText := []string{"Parent Directory", "zeta dir", "alpha", "notes.txt", "b&w <img>.png", "data.zzzz"}
	if len(rows) != len(wantText) {
		t.Fatalf("got %d rows, want %d: %+v", len(rows), len(wantText), rows)
	}
	for i, want := range wantText {
		if rows[i].text != want {
			t.Errorf("row %d text = %q, want %q", i, rows[i].text, want)
		}
	}

	// escaping round trip: URI-decoding the href yields the original name
	for _, r := range rows[1:] {
		name := strings.TrimSuffix(r.href, "/")
		decoded, err := url.PathUnescape(name)
		if err != nil {
			t.Fatalf("PathUnescape(%q): %v", r.href, err)
		}
		if decoded != r.text {
			t.Errorf("href %q decodes to %q, want %q", r.href, decoded, r.text)
		}
	}

	// directory links end in a slash, file links do not
	for i, r := range rows[1:] {
		isDir := i < 2
		if strings.HasSuffix(r.href, "/") != isDir {
			t.Errorf("href %q: trailing slash mismatch", r.href)
		}
	}
}

func TestRenderCustomCSS(t *testing.T) {
	policy := DefaultPolicy()
	policy.CSS = "/style.css"
	snap := &statcache.Snapshot{Path: t.TempDir()}

	out := renderString(t, testRenderer(policy), snap, "/")
	if !strings.Contains(out, `<link rel="stylesheet" type="text/css" href="/style.css" />`) {
		t.Error("custom stylesheet link missing")
	}
	if strings.Contains(out, "<style") {
		t.Error("embedded stylesheet emitted despite custom CSS")
	}
}

func TestRenderHeaderSplicedAndHidden(t *testing.T) {
	dir := t.TempDir()
	headerContent := strings.Repeat("header <content>\n", 120) // ~2KB
	if err := os.WriteFile(filepath.Join(dir, "HEADER.txt"), []byte(headerContent), 0o644); err != nil {
		t.Fatal(err)
	}

	policy := DefaultPolicy()
	policy.IncludeHeader = true
	policy.HideHeader = true

	snap := &statcache.Snapshot{
		Path: dir,
		Entries: []statcache.Entry{
			entry("HEADER.txt", statcache.KindFile, int64(len(headerContent))),
			entry("index.html", statcache.KindFile, 9),
		},
	}
	out := renderString(t, testRenderer(policy), snap, "/files/")

	pre := strings.Index(out, "<pre>header &lt;content&gt;")
	table := strings.Index(out, "<h2 id=\"title\">")
	if pre < 0 {
		t.Fatal("header content not spliced")
	}
	if pre > table {
		t.Error("header must be spliced above the table")
	}

	rows := tableRows(t, out)
	var indexRows, headerRows int
	for _, r := range rows {
		switch r.text {
		case "index.html":
			indexRows++
		case "HEADER.txt":
			headerRows++
		}
	}
	if indexRows != 1 {
		t.Errorf("index.html rows = %d, want 1", indexRows)
	}
	if headerRows != 0 {
		t.Errorf("HEADER.txt rows = %d, want 0 (hidden)", headerRows)
	}
}

func TestRenderHeaderRaw(t *testing.T) {
	dir := t.TempDir()
	raw := "raw <b>markup</b> stays\n"
	if err := os.WriteFile(filepath.Join(dir, "HEADER.txt"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	policy := DefaultPolicy()
	policy.IncludeHeader = true
	policy.HideHeader = true
	policy.EncodeHeader = false

	snap := &statcache.Snapshot{
		Path:    dir,
		Entries: []statcache.Entry{entry("HEADER.txt", statcache.KindFile, int64(len(raw)))},
	}
	out := renderString(t, testRenderer(policy), snap, "/")

	if !strings.Contains(out, raw) {
		t.Error("raw header content not spliced verbatim")
	}
	if strings.Contains(out, "&lt;b&gt;") {
		t.Error("raw mode must not HTML-encode")
	}
}

func TestRenderOversizedHeaderNotSpliced(t *testing.T) {
	dir := t.TempDir()
	big := bytes.Repeat([]byte("x"), 70*1024)
	if err := os.WriteFile(filepath.Join(dir, "HEADER.txt"), big, 0o644); err != nil {
		t.Fatal(err)
	}

	policy := DefaultPolicy()
	policy.IncludeHeader = true

	snap := &statcache.Snapshot{
		Path:    dir,
		Entries: []statcache.Entry{entry("HEADER.txt", statcache.KindFile, int64(len(big)))},
	}
	out := renderString(t, testRenderer(policy), snap, "/")

	if strings.Contains(out, "<pre>") {
		t.Error("oversized header must not be spliced")
	}

	// hide-header is unset, so it still lists as a normal file row
	var headerRows int
	for _, r := range tableRows(t, out) {
		if r.text == "HEADER.txt" {
			headerRows++
		}
	}
	if headerRows != 1 {
		t.Errorf("HEADER.txt rows = %d, want 1", headerRows)
	}
}

func TestRenderReadmeBelowTable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("read me"), 0o644); err != nil {
		t.Fatal(err)
	}

	policy := DefaultPolicy() // include-readme defaults to true

	snap := &statcache.Snapshot{
		Path:    dir,
		Entries: []statcache.Entry{entry("README.txt", statcache.KindFile, 7)},
	}
	out := renderString(t, testRenderer(policy), snap, "/")

	pre := strings.Index(out, "<pre>read me</pre>")
	tableEnd := strings.Index(out, "</table>")
	if pre < 0 {
		t.Fatal("readme not spliced")
	}
	if pre < tableEnd {
		t.Error("readme must be spliced below the table")
	}
}
