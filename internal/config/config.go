// Package config loads editor configuration written in CUE.
//
// An embedded schema supplies every default. A user file, when present, is
// unified with the schema; fields the schema does not declare are rejected.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/editor"
	"github.com/pixed/pixed/internal/input"
)

//go:embed schema.cue
var schemaSource string

// StoreOff disables the history database.
const StoreOff = "off"

// Config is the decoded editor configuration.
type Config struct {
	Document DocumentConfig    `json:"document"`
	View     ViewConfig        `json:"view"`
	Bindings map[string]string `json:"bindings"`
	Color    string            `json:"color"`
	Store    StoreConfig       `json:"store"`
}

// DocumentConfig describes the document created when none is opened.
type DocumentConfig struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ViewConfig holds the initial view and its zoom limits.
type ViewConfig struct {
	Zoom           float64 `json:"zoom"`
	MinZoom        float64 `json:"min_zoom"`
	MaxZoom        float64 `json:"max_zoom"`
	ViewportWidth  int     `json:"viewport_width"`
	ViewportHeight int     `json:"viewport_height"`
}

// StoreConfig locates the history database.
type StoreConfig struct {
	Path string `json:"path"`
}

// Error reports an invalid configuration, with a source position when CUE
// provides one.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// DefaultPath returns the user configuration file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "pixed", "config.cue"), nil
}

// Default returns the configuration with only schema defaults applied.
func Default() *Config {
	c, err := Parse(nil, "")
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema: %v", err))
	}
	return c
}

// Load reads the configuration at path. An empty path means DefaultPath,
// which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	src, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, path)
}

// Parse unifies src with the schema and decodes the result. A nil src
// yields the defaults.
func Parse(src []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fromCUE(err)
	}
	v := schema.LookupPath(cue.ParsePath("#Config"))

	if src != nil {
		user := ctx.CompileBytes(src, cue.Filename(filename))
		if err := user.Err(); err != nil {
			return nil, fromCUE(err)
		}
		v = v.Unify(user)
	}

	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fromCUE(err)
	}

	var c Config
	if err := v.Decode(&c); err != nil {
		return nil, fromCUE(err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks constraints that span fields.
func (c *Config) Validate() error {
	v := c.View
	if v.MinZoom > v.MaxZoom {
		return &Error{Message: fmt.Sprintf("view: min_zoom %g exceeds max_zoom %g", v.MinZoom, v.MaxZoom)}
	}
	if v.Zoom < v.MinZoom || v.Zoom > v.MaxZoom {
		return &Error{Message: fmt.Sprintf("view: zoom %g outside [%g, %g]", v.Zoom, v.MinZoom, v.MaxZoom)}
	}
	w, h := c.Document.Width, c.Document.Height
	if w <= 0 || h <= 0 || w > document.MaxCells || h > document.MaxCells ||
		uint64(w)*uint64(h) > document.MaxCells {
		return &Error{Message: fmt.Sprintf("document: %dx%d exceeds %d cells", c.Document.Width, c.Document.Height, document.MaxCells)}
	}
	if _, err := document.ParseColor(c.Color); err != nil {
		return &Error{Message: fmt.Sprintf("color: %v", err)}
	}
	if _, err := c.EditorBindings(); err != nil {
		return err
	}
	return nil
}

// EditorBindings converts the key-name table into an activation table.
// An empty table selects editor.DefaultBindings.
func (c *Config) EditorBindings() (editor.Bindings, error) {
	if len(c.Bindings) == 0 {
		return editor.DefaultBindings(), nil
	}

	names := make([]string, 0, len(c.Bindings))
	for name := range c.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	b := make(editor.Bindings, len(names))
	for _, name := range names {
		key, err := input.ParseKey(name)
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("bindings: %v", err)}
		}
		if prev, dup := b[key]; dup {
			return nil, &Error{Message: fmt.Sprintf("bindings: %q and %q name the same key", prev, name)}
		}
		b[key] = editor.ToolID(c.Bindings[name])
	}
	if err := b.Validate(editor.DefaultRegistry()); err != nil {
		return nil, &Error{Message: fmt.Sprintf("bindings: %v", err)}
	}
	return b, nil
}

// SessionOptions returns the editor options this configuration selects.
func (c *Config) SessionOptions() ([]editor.Option, error) {
	bindings, err := c.EditorBindings()
	if err != nil {
		return nil, err
	}
	color, err := document.ParseColor(c.Color)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("color: %v", err)}
	}
	return []editor.Option{
		editor.WithBindings(bindings),
		editor.WithColor(color),
		editor.WithZoom(c.View.Zoom, c.View.MinZoom, c.View.MaxZoom),
	}, nil
}

// NewDocument creates the blank document described by the configuration.
func (c *Config) NewDocument() (*document.Document, error) {
	return document.New(c.Document.Name, uint32(c.Document.Width), uint32(c.Document.Height))
}

// StorePath resolves the history database path. It returns "" when the
// store is disabled.
func (c *Config) StorePath() (string, error) {
	switch c.Store.Path {
	case StoreOff:
		return "", nil
	case "":
		return defaultStorePath()
	default:
		return c.Store.Path, nil
	}
}

func defaultStorePath() (string, error) {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate data dir: %w", err)
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "pixed", "history.db"), nil
}

// fromCUE converts a CUE error into an *Error carrying the first
// position CUE reports.
func fromCUE(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Message: err.Error()}
	}
	first := errs[0]
	e := &Error{Message: first.Error()}
	if pos := cueerrors.Positions(first); len(pos) > 0 {
		e.Pos = pos[0]
	}
	return e
}
