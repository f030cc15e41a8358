package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathansso/locvista/internal/app"
	"github.com/nathansso/locvista/internal/geom"
	"github.com/nathansso/locvista/internal/report"
	"github.com/nathansso/locvista/internal/viewstate"
)

const (
	formatSVG   = "svg"
	formatFiles = "files"
	formatHTML  = "html"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

func newRenderCommand(g *globalFlags) *cobra.Command {
	var (
		progress float64
		mode     string
		brush    string
		format   string
		output   string
		title    string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the scatterplot, a frame or an HTML report",
		Long: `Render a settled snapshot of the page.

Formats:
  svg    the scatterplot (default)
  files  the file dot matrix
  html   a self-contained report
  json   the full frame`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch format {
			case formatSVG, formatFiles, formatHTML, formatJSON:
			default:
				return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
			}

			var view app.View
			view.Mode = viewstate.Mode(mode)
			if cmd.Flags().Changed("progress") {
				view.Progress = &progress
			}
			if brush != "" {
				r, err := geom.ParseRect(brush)
				if err != nil {
					return err
				}
				view.Brush = r
			}

			cfg, log, err := g.load(cmd, nil)
			if err != nil {
				return err
			}
			data, err := loadDataset(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			st, err := app.Snapshot(data, appOptions(cfg, log), view)
			if err != nil {
				return err
			}

			w, done, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			werr := writeRender(w, st, format, title)
			return errors.Join(werr, done())
		},
	}

	f := cmd.Flags()
	f.Float64Var(&progress, "progress", viewstate.MaxProgress, "time cursor position, 0 to 100")
	f.StringVar(&mode, "mode", "", "view mode: cursor or scroll")
	f.StringVar(&brush, "brush", "", "brush rectangle x0,y0,x1,y1 in plot coordinates")
	f.StringVarP(&format, "format", "f", formatSVG, "output format: svg, files, html or json")
	f.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&title, "title", "", "report title")
	return cmd
}

func writeRender(w io.Writer, st *app.State, format, title string) error {
	switch format {
	case formatFiles:
		return st.WriteFilesSVG(w)
	case formatHTML:
		return report.Write(w, st, report.Options{Title: title})
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st.Frame())
	default:
		return st.WriteScatterSVG(w)
	}
}

// openOutput returns stdout or the named file and a func that closes it.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, func() error {
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}
		return nil
	}, nil
}
