package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pixed/pixed/internal/document"
)

// DocumentInfo describes a document file.
type DocumentInfo struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Bytes  int64  `json:"bytes"`
	Colors int    `json:"colors"`
}

func (i DocumentInfo) String() string {
	return fmt.Sprintf("%s: %q %dx%d, %d bytes, %d colors", i.Path, i.Name, i.Width, i.Height, i.Bytes, i.Colors)
}

func describe(path string, doc *document.Document) DocumentInfo {
	seen := make(map[document.Color]struct{})
	for _, c := range doc.Canvas() {
		seen[c] = struct{}{}
	}
	return DocumentInfo{
		Path:   path,
		Name:   doc.Name(),
		Width:  doc.Width(),
		Height: doc.Height(),
		Bytes:  document.EncodedSize(doc.Width(), doc.Height()),
		Colors: len(seen),
	}
}

// PixelResult is the output of pixel get and pixel set.
type PixelResult struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
}

func (p PixelResult) String() string {
	return fmt.Sprintf("(%d, %d) %s", p.X, p.Y, p.Color)
}

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	Width  int
	Height int
	Name   string
	Fill   string
	Force  bool
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create a blank document",
		Long: `Create a blank PiXd document.

Width and height default to the document section of the config. The
name defaults to the file name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", 0, "canvas width (default from config)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "canvas height (default from config)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "document name (default from file name)")
	cmd.Flags().StringVar(&opts.Fill, "fill", "", "fill color (#rrggbb or #rrggbbaa)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing file")

	return cmd
}

func runNew(opts *NewOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	cfg, err := opts.loadConfig(f)
	if err != nil {
		return err
	}

	if !opts.Force {
		if _, err := os.Stat(path); err == nil {
			_ = f.Error(ErrCodeArgs, fmt.Sprintf("%s already exists (use --force)", path), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s already exists", path))
		}
	}

	width, height := cfg.Document.Width, cfg.Document.Height
	if opts.Width > 0 {
		width = opts.Width
	}
	if opts.Height > 0 {
		height = opts.Height
	}
	name := opts.Name
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	doc, err := document.New(name, uint32(width), uint32(height))
	if err != nil {
		return f.Fail("create document", err)
	}
	if opts.Fill != "" {
		c, err := document.ParseColor(opts.Fill)
		if err != nil {
			_ = f.Error(ErrCodeArgs, err.Error(), nil)
			return WrapExitError(ExitCommandError, "parse fill", err)
		}
		doc.Fill(c)
	}

	if err := document.Save(doc, path); err != nil {
		return f.Fail("save document", err)
	}
	f.VerboseLog("wrote %s", path)
	return f.Success(describe(path, doc))
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show a document's name, size and color count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			doc, err := document.Load(args[0])
			if err != nil {
				return f.Fail("load document", err)
			}
			return f.Success(describe(args[0], doc))
		},
	}
}

// NewPixelCommand creates the pixel command group.
func NewPixelCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pixel",
		Short: "Read or write single pixels",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <file> <x> <y>",
		Short: "Print the color of one pixel",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			x, y, err := parseXY(f, args[1], args[2])
			if err != nil {
				return err
			}
			doc, err := document.Load(args[0])
			if err != nil {
				return f.Fail("load document", err)
			}
			c, err := doc.Pixel(x, y)
			if err != nil {
				return f.Fail("read pixel", err)
			}
			return f.Success(PixelResult{X: x, Y: y, Color: c.String()})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <file> <x> <y> <color>",
		Short: "Write one pixel and save the document",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			x, y, err := parseXY(f, args[1], args[2])
			if err != nil {
				return err
			}
			c, err := document.ParseColor(args[3])
			if err != nil {
				_ = f.Error(ErrCodeArgs, err.Error(), nil)
				return WrapExitError(ExitCommandError, "parse color", err)
			}
			doc, err := document.Load(args[0])
			if err != nil {
				return f.Fail("load document", err)
			}
			if err := doc.SetPixel(x, y, c); err != nil {
				return f.Fail("write pixel", err)
			}
			if err := document.Save(doc, args[0]); err != nil {
				return f.Fail("save document", err)
			}
			return f.Success(PixelResult{X: x, Y: y, Color: c.String()})
		},
	})

	return cmd
}

func parseXY(f *OutputFormatter, xs, ys string) (int, int, error) {
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if err := errors.Join(errX, errY); err != nil {
		_ = f.Error(ErrCodeArgs, err.Error(), nil)
		return 0, 0, WrapExitError(ExitCommandError, "parse coordinates", err)
	}
	return x, y, nil
}

// NewResizeCommand creates the resize command. Only resizing to the
// current dimensions succeeds.
func NewResizeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resize <file> <width> <height>",
		Short: "Change a document's dimensions",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			w, h, err := parseXY(f, args[1], args[2])
			if err != nil {
				return err
			}
			if w <= 0 || h <= 0 {
				_ = f.Error(ErrCodeArgs, "dimensions must be positive", nil)
				return NewExitError(ExitCommandError, "dimensions must be positive")
			}
			doc, err := document.Load(args[0])
			if err != nil {
				return f.Fail("load document", err)
			}
			if err := doc.Resize(uint32(w), uint32(h)); err != nil {
				return f.Fail("resize document", err)
			}
			return f.Success(describe(args[0], doc))
		},
	}
}

// ExportResult is the output of export and import.
type ExportResult struct {
	Source string `json:"source"`
	Output string `json:"output"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (r ExportResult) String() string {
	return fmt.Sprintf("%s -> %s (%dx%d)", r.Source, r.Output, r.Width, r.Height)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var scale int

	cmd := &cobra.Command{
		Use:   "export <file> <out.png>",
		Short: "Write a document as PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			doc, err := document.Load(args[0])
			if err != nil {
				return f.Fail("load document", err)
			}
			if scale < 1 {
				_ = f.Error(ErrCodeArgs, "scale must be at least 1", nil)
				return NewExitError(ExitCommandError, "scale must be at least 1")
			}
			if err := writePNG(doc, args[1], scale); err != nil {
				return f.Fail("export png", err)
			}
			return f.Success(ExportResult{
				Source: args[0],
				Output: args[1],
				Width:  int(doc.Width()) * scale,
				Height: int(doc.Height()) * scale,
			})
		},
	}

	cmd.Flags().IntVar(&scale, "scale", 1, "output pixels per canvas cell")
	return cmd
}

func writePNG(doc *document.Document, path string, scale int) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return doc.ExportPNG(out, scale)
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <in.png> <file>",
		Short: "Convert a PNG into a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			in, err := os.Open(args[0])
			if err != nil {
				return f.Fail("open image", err)
			}
			defer in.Close()

			docName := name
			if docName == "" {
				base := filepath.Base(args[1])
				docName = strings.TrimSuffix(base, filepath.Ext(base))
			}
			doc, err := document.DecodeImage(in, docName)
			if err != nil {
				return f.Fail("import image", err)
			}
			if err := document.Save(doc, args[1]); err != nil {
				return f.Fail("save document", err)
			}
			return f.Success(ExportResult{
				Source: args[0],
				Output: args[1],
				Width:  int(doc.Width()),
				Height: int(doc.Height()),
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "document name (default from file name)")
	return cmd
}
