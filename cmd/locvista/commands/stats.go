package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/nathansso/locvista/internal/stats"
)

func newStatsCommand(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print summary statistics",
		Long: `Print the summary statistics of the line table.

Without --format a table is printed on a terminal and JSON otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if format == "" {
				format = formatJSON
				if isTerminal(out) {
					format = formatTable
				}
			}
			switch format {
			case formatTable, formatJSON, formatYAML:
			default:
				return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
			}

			cfg, _, err := g.load(cmd, nil)
			if err != nil {
				return err
			}
			data, err := loadDataset(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			switch format {
			case formatTable:
				return writeStatsTable(out, data.Source, data.Stats)
			case formatYAML:
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(data.Stats); err != nil {
					return fmt.Errorf("encoding yaml: %w", err)
				}
				return enc.Close()
			default:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(data.Stats)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: table, json or yaml")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeStatsTable(w io.Writer, source string, s stats.Summary) error {
	heading := color.New(color.FgCyan, color.Bold)
	if !isTerminal(w) {
		heading.DisableColor()
	}
	heading.Fprintf(w, "Summary of %s\n", source)

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Statistic", "Value"})
	for _, e := range s.Entries() {
		tbl.AppendRow(table.Row{e.Title, e.Value})
	}
	if _, err := fmt.Fprintln(w, tbl.Render()); err != nil {
		return err
	}

	heading.Fprintln(w, "Lines by weekday")
	days := table.NewWriter()
	days.SetStyle(table.StyleLight)
	days.AppendHeader(table.Row{"Day", "Lines"})
	for _, b := range s.Weekdays {
		days.AppendRow(table.Row{b.Label, humanize.Comma(int64(b.Lines))})
	}
	days.AppendFooter(table.Row{"Total", humanize.Comma(int64(s.LinesOfCode))})
	_, err := fmt.Fprintln(w, days.Render())
	return err
}
