package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhagedorn/wirecat/internal/config"
	"github.com/jhagedorn/wirecat/pkg/graphio"
	"github.com/jhagedorn/wirecat/pkg/render"
	"github.com/jhagedorn/wirecat/pkg/wiring"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple formats)
	formats    []string // output formats: "svg", "pdf", "png", "dot"
	showValues bool     // label wires and boundaries with value tags
	name       string   // graph name in the DOT output
	scale      float64  // PNG raster scale factor
}

// newRenderCmd creates the render command for generating visualizations.
// Defaults come from the config file; flags override them.
func newRenderCmd() *cobra.Command {
	cfg := config.Load()

	var formatsStr string
	opts := renderOpts{
		showValues: cfg.Render.ShowValues,
		scale:      cfg.Render.Scale,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a wiring diagram to SVG(s)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, cfg.Render.Format)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.showValues, "values", opts.showValues, "label boundary ports with value tags")
	cmd.Flags().StringVar(&opts.name, "name", "", "graph name in DOT output")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, the configured default applies.
func parseFormats(s, fallback string) []string {
	if s == "" {
		if fallback == "" {
			fallback = "svg"
		}
		return []string{fallback}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "dot": true, "pdf": true, "png": true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'dot', 'pdf', or 'png')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
// This is used when generating multiple files (e.g., diagram.svg, diagram.pdf).
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

// runRender loads the diagram from input and renders it to the requested formats.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	d, err := graphio.ImportJSON(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded diagram: %d boxes, %d wires", d.BoxCount(), d.WireCount())

	name := opts.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	g := render.ToDOT(d, render.Options{ShowValues: opts.showValues, Name: name})
	dotSrc := g.String()

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = base + "." + format
		}
		if err := renderAndWrite(ctx, d, dotSrc, format, path, opts); err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
	}
	return nil
}

// renderAndWrite renders a single format and writes it to path.
func renderAndWrite(ctx context.Context, d *wiring.Diagram, dotSrc, format, path string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	var spin *Spinner
	if format != "dot" {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
		spin.Start()
	}

	var data []byte
	var err error
	switch format {
	case "dot":
		data = []byte(dotSrc)
	case "svg":
		logger.Debug("Rendering SVG")
		data, err = render.RenderSVG(dotSrc)
	case "pdf":
		logger.Debug("Rendering PDF")
		data, err = render.RenderPDF(dotSrc)
	case "png":
		logger.Debug("Rendering PNG")
		data, err = render.RenderPNG(dotSrc, opts.scale)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", format, len(data))

	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}

	printSuccess("Generated %s", path)
	printStats(d.BoxCount(), d.WireCount(), false)
	return nil
}
