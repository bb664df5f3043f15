package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dirserve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
root: /srv/files
server-tag: dirserve/0.1
log-level: debug
mime-types:
  ".conf": text/plain
dirlist:
  css: /style.css
  hide-dotfiles: false
  hide-directories: true
  include-header: true
  hide-header: true
  encode-header: false
  exclude-suffix: [".bak", ".swp"]
  exclude-prefix: ["tmp_"]
  debug: true
  content-type: "text/html; charset=iso-8859-1"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Listen)
	require.Equal(t, "/srv/files", cfg.Root)
	require.Equal(t, "dirserve/0.1", cfg.ServerTag)
	require.Equal(t, map[string]string{".conf": "text/plain"}, cfg.MimeTypes)

	p := cfg.Policy()
	require.Equal(t, "/style.css", p.CSS)
	require.False(t, p.HideDotfiles)
	require.True(t, p.HideTildeFiles, "unset key keeps its default")
	require.True(t, p.HideDirectories)
	require.True(t, p.IncludeHeader)
	require.True(t, p.HideHeader)
	require.False(t, p.EncodeHeader)
	require.True(t, p.IncludeReadme, "unset key keeps its default")
	require.True(t, p.EncodeReadme, "unset key keeps its default")
	require.Equal(t, []string{".bak", ".swp"}, p.ExcludeSuffixes)
	require.Equal(t, []string{"tmp_"}, p.ExcludePrefixes)
	require.True(t, p.Debug)
	require.Equal(t, "text/html; charset=iso-8859-1", p.ContentType)
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	p := cfg.Policy()
	require.True(t, p.HideDotfiles)
	require.True(t, p.HideTildeFiles)
	require.True(t, p.IncludeReadme)
	require.Equal(t, "text/html; charset=utf-8", p.ContentType)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, "dirlist:\n  hide-dotfile: true\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "hide-dotfile")
}

func TestLoadRejectsTypeMismatch(t *testing.T) {
	_, err := Load(writeConfig(t, "dirlist:\n  hide-dotfiles: sometimes\n"))
	require.Error(t, err)
}

func TestLoadRejectsBadSort(t *testing.T) {
	_, err := Load(writeConfig(t, "dirlist:\n  sort: color\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "sort")
}

func TestLoadAcceptsUnimplementedSort(t *testing.T) {
	// recognized but unimplemented: load succeeds, a warning is logged and
	// the option has no effect
	cfg, err := Load(writeConfig(t, "dirlist:\n  sort: name\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Dirlist.Sort)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
