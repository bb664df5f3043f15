// Package config loads the server configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"dirserve/internal/dirlist"
)

// Config is the top-level configuration file model.
type Config struct {
	Listen    string            `yaml:"listen"`
	Root      string            `yaml:"root"`
	ServerTag string            `yaml:"server-tag"`
	LogLevel  string            `yaml:"log-level"`
	MimeTypes map[string]string `yaml:"mime-types"`
	Dirlist   Dirlist           `yaml:"dirlist"`
}

// Dirlist mirrors the dirlist option list. Key names and defaults match the
// original module's options; boolean fields are pointers so an absent key
// keeps its default.
type Dirlist struct {
	Sort            *string  `yaml:"sort"`
	CSS             string   `yaml:"css"`
	HideDotfiles    *bool    `yaml:"hide-dotfiles"`
	HideTildeFiles  *bool    `yaml:"hide-tildefiles"`
	HideDirectories *bool    `yaml:"hide-directories"`
	IncludeHeader   *bool    `yaml:"include-header"`
	HideHeader      *bool    `yaml:"hide-header"`
	EncodeHeader    *bool    `yaml:"encode-header"`
	IncludeReadme   *bool    `yaml:"include-readme"`
	HideReadme      *bool    `yaml:"hide-readme"`
	EncodeReadme    *bool    `yaml:"encode-readme"`
	ExcludeSuffix   []string `yaml:"exclude-suffix"`
	ExcludePrefix   []string `yaml:"exclude-prefix"`
	Debug           *bool    `yaml:"debug"`
	ContentType     string   `yaml:"content-type"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:    ":8080",
		Root:      ".",
		ServerTag: "dirserve",
		LogLevel:  "info",
	}
}

// Load reads and validates the YAML configuration at path. Unknown keys and
// mistyped values fail the load with a descriptive error.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Root == "" {
		return errors.New("root must not be empty")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	if c.Dirlist.Sort != nil {
		switch *c.Dirlist.Sort {
		case "name", "size", "type":
			// validated but not implemented; the listing keeps the
			// snapshot's directory order
			logrus.WithField("sort", *c.Dirlist.Sort).
				Warn("dirlist: sort option is accepted but not supported yet, ignoring")
		default:
			return fmt.Errorf("dirlist: sort must be one of name, size or type, got %q", *c.Dirlist.Sort)
		}
	}
	return nil
}

// Policy materializes the dirlist options into an immutable listing policy.
func (c Config) Policy() dirlist.Policy {
	p := dirlist.DefaultPolicy()
	d := c.Dirlist

	p.CSS = d.CSS
	if d.HideDotfiles != nil {
		p.HideDotfiles = *d.HideDotfiles
	}
	if d.HideTildeFiles != nil {
		p.HideTildeFiles = *d.HideTildeFiles
	}
	if d.HideDirectories != nil {
		p.HideDirectories = *d.HideDirectories
	}
	if d.IncludeHeader != nil {
		p.IncludeHeader = *d.IncludeHeader
	}
	if d.HideHeader != nil {
		p.HideHeader = *d.HideHeader
	}
	if d.EncodeHeader != nil {
		p.EncodeHeader = *d.EncodeHeader
	}
	if d.IncludeReadme != nil {
		p.IncludeReadme = *d.IncludeReadme
	}
	if d.HideReadme != nil {
		p.HideReadme = *d.HideReadme
	}
	if d.EncodeReadme != nil {
		p.EncodeReadme = *d.EncodeReadme
	}
	p.ExcludeSuffixes = append([]string(nil), d.ExcludeSuffix...)
	p.ExcludePrefixes = append([]string(nil), d.ExcludePrefix...)
	if d.Debug != nil {
		p.Debug = *d.Debug
	}
	if d.ContentType != "" {
		p.ContentType = d.ContentType
	}
	return p
}
