package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arbordev/arbor/pkg/cache"
	"github.com/arbordev/arbor/pkg/document"
	"github.com/arbordev/arbor/pkg/export/dot"
)

// Output formats supported by the render command.
const (
	FormatTeX = "tex" // LaTeX qtree source
	FormatGV  = "gv"  // Graphviz DOT source
	FormatSVG = "svg" // rendered SVG
	FormatPNG = "png" // rendered PNG
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file path (single format) or base path (multiple)
	formats []string // output formats: "tex", "gv", "svg", "png"
	dpi     int      // raster resolution for PNG output
	noCache bool     // bypass the render cache
}

// newRenderCmd creates the render command for exporting documents.
// It supports LaTeX qtree source, Graphviz DOT source, and rendered SVG/PNG
// output. Rendered artifacts are cached keyed by the DOT source, so exporting
// an unchanged tree again is cheap.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Export a document as LaTeX, DOT, SVG, or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts.formats = parseFormats(formatsStr, cfg.Render.Formats)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.dpi == 0 {
				opts.dpi = cfg.Render.DPI
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, tex, gv (comma-separated)")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "raster resolution for PNG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, the configured default applies.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		return fallback
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{FormatTeX: true, FormatGV: true, FormatSVG: true, FormatPNG: true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'tex', 'gv', 'svg', or 'png')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .tex, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the document and writes every requested format next to the
// input file, or under the --output base path.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	doc, err := loadDocument(input)
	if err != nil {
		return err
	}

	store, err := newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		if err := renderAndWrite(ctx, doc, store, format, base, opts); err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
	}
	return nil
}

// renderAndWrite produces a single format and writes it to base.format.
func renderAndWrite(ctx context.Context, doc *document.Document, store cache.Cache, format, base string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, cached, err := renderFormat(ctx, doc, store, format, opts)
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", format, len(data))

	path := base + "." + format
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Rendered %s", path))
	printRendered(path, cached)
	return nil
}

// renderFormat dispatches to the exporter for format. The second return
// reports whether a rendered artifact came from the cache.
func renderFormat(ctx context.Context, doc *document.Document, store cache.Cache, format string, opts *renderOpts) ([]byte, bool, error) {
	switch format {
	case FormatTeX:
		out, err := doc.ExportQtree()
		return []byte(out), false, err
	case FormatGV:
		out, err := doc.ExportDOT(opts.dpi)
		return []byte(out), false, err
	case FormatSVG, FormatPNG:
		return renderArtifact(ctx, doc, store, format, opts)
	default:
		return nil, false, fmt.Errorf("unknown format: %s", format)
	}
}

// renderArtifact runs Graphviz over the document's DOT source, consulting the
// render cache first.
func renderArtifact(ctx context.Context, doc *document.Document, store cache.Cache, format string, opts *renderOpts) ([]byte, bool, error) {
	logger := loggerFromContext(ctx)

	dotSource, err := doc.ExportDOT(opts.dpi)
	if err != nil {
		return nil, false, err
	}

	key := cache.RenderKey(format, []byte(dotSource))
	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		logger.Debugf("Cache hit for %s", format)
		return data, true, nil
	}

	logger.Infof("Rendering %s via graphviz", format)
	var data []byte
	switch format {
	case FormatSVG:
		data, err = dot.RenderSVG(ctx, dotSource)
	case FormatPNG:
		data, err = dot.RenderPNG(ctx, dotSource)
	}
	if err != nil {
		return nil, false, err
	}

	if err := store.Set(ctx, key, data, 0); err != nil {
		logger.Debugf("Cache store failed: %v", err)
	}
	return data, false, nil
}
