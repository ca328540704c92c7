package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/md2ifdam/pkg/errors"
	"github.com/matzehuels/md2ifdam/pkg/pipeline"
)

// renderFlags holds the render command flags. Flags left unset keep the
// configuration file values.
type renderFlags struct {
	output  string
	formats string
	scale   float64
	noCache bool
	refresh bool

	marginX    float64
	marginY    float64
	rankDir    string
	fontFamily string
	fontStyle  string
	fontWeight int
	fontDirs   []string
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [file.md]",
		Short: "Render an IFDAM markdown file to SVG, PNG, PDF or JSON",
		Long: `Render an IFDAM markdown file.

Headings declare nodes ('#' diagram, '##' screen, '###' operation), links
declare transitions and footnotes attach styles. The output is written to
<name>.<format> in the working directory unless -o is given; with several
formats -o names the base path.

Font indexes and artifacts are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyRenderFlags(cmd, &f)
			return c.runRender(cmd.Context(), args[0], &f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached artifacts")

	cmd.Flags().Float64Var(&f.marginX, "margin-x", 0, "horizontal canvas margin")
	cmd.Flags().Float64Var(&f.marginY, "margin-y", 0, "vertical canvas margin")
	cmd.Flags().StringVar(&f.rankDir, "rank-dir", "", "rank direction: TB, BT, LR, RL")
	cmd.Flags().StringVar(&f.fontFamily, "font-family", "", "base font family")
	cmd.Flags().StringVar(&f.fontStyle, "font-style", "", "base font style")
	cmd.Flags().IntVar(&f.fontWeight, "font-weight", 0, "base font weight")
	cmd.Flags().StringSliceVar(&f.fontDirs, "font-dir", nil, "extra font directory (repeatable)")

	return cmd
}

// applyRenderFlags overrides configuration values with the flags the user
// set explicitly.
func (c *CLI) applyRenderFlags(cmd *cobra.Command, f *renderFlags) {
	changed := cmd.Flags().Changed
	cfg := &c.Config
	if changed("margin-x") {
		cfg.Layout.MarginX = f.marginX
	}
	if changed("margin-y") {
		cfg.Layout.MarginY = f.marginY
	}
	if changed("rank-dir") {
		cfg.Layout.RankDir = f.rankDir
	}
	if changed("font-family") {
		cfg.Font.Family = f.fontFamily
	}
	if changed("font-style") {
		cfg.Font.Style = f.fontStyle
	}
	if changed("font-weight") {
		cfg.Font.Weight = f.fontWeight
	}
	if changed("font-dir") {
		cfg.Font.Dirs = append(cfg.Font.Dirs, f.fontDirs...)
	}
	if f.noCache {
		cfg.Cache.Disabled = true
	}
}

// runRender compiles input and writes one file per requested format.
func (c *CLI) runRender(ctx context.Context, input string, f *renderFlags) error {
	source, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "source not found")
		}
		return fmt.Errorf("read %s: %w", input, err)
	}

	opts := pipeline.Options{
		Name:    filepath.Base(input),
		Layout:  c.Config.Layout,
		Formats: parseFormats(f.formats),
		Scale:   f.scale,
		Refresh: f.refresh,
		Logger:  loggerFromContext(ctx),
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(opts.Logger)
	spinner := newSpinnerWithContext(ctx, opts.Name)
	opts.Progress = spinner.SetStage
	spinner.Start()

	result, err := runner.Execute(ctx, source, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(f.output, input, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeArtifact(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}
	prog.done("Rendered " + opts.Name)

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheStatus)
	return nil
}

// outputPaths maps each format to its output file. Without an output flag
// files are named after the input and written to the working directory.
// A single format writes to output as given; several formats treat output
// as a base path, dropping a known format extension.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, format := range formats {
		paths[format] = base + "." + format
	}
	return paths
}

// basePath derives the base output path. If output is empty it is the input
// name without directory and extension.
func basePath(output, input string) string {
	if output == "" {
		name := filepath.Base(input)
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// openOutput returns a WriteCloser for path; "-" writes to stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
