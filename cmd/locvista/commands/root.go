// Package commands holds the locvista CLI.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/nathansso/locvista/internal/app"
	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/config"
	"github.com/nathansso/locvista/internal/filedots"
	"github.com/nathansso/locvista/internal/logging"
	"github.com/nathansso/locvista/internal/records"
	"github.com/nathansso/locvista/internal/scatter"
	"github.com/nathansso/locvista/internal/viewstate"
)

// Version is stamped at build time with -ldflags "-X ...commands.Version=...".
var Version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	source     string
	logLevel   string
	logJSON    bool
	timezone   string
	urlTmpl    string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "locvista",
		Short: "Explore how a codebase grew, commit by commit",
		Long: `locvista reads a per-line table of a codebase (commit, file, line, type,
author, datetime, ...) and shows every commit on a date by time-of-day
scatterplot, with brushing, a type breakdown and a file dot matrix.

Commands:
  serve    Serve the interactive page
  render   Render the scatterplot, a frame or an HTML report
  stats    Print summary statistics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "config file (default .locvista.yaml in . or $HOME)")
	pf.StringVarP(&g.source, "source", "s", "", "line table path or http(s) URL")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&g.logJSON, "log-json", false, "log as JSON")
	pf.StringVar(&g.timezone, "timezone", "", "IANA zone to show commit times in")
	pf.StringVar(&g.urlTmpl, "url-template", "", "commit link pattern with one %s")

	root.AddCommand(
		newServeCommand(g),
		newRenderCommand(g),
		newStatsCommand(g),
		newVersionCommand(),
	)
	return root
}

// load resolves configuration with the flags that were set on cmd taking
// precedence, and builds the logger.
func (g *globalFlags) load(cmd *cobra.Command, extra map[string]any) (*config.Config, *slog.Logger, error) {
	overrides := map[string]any{}
	flags := cmd.Flags()
	set := func(flag, key string, value any) {
		if flags.Changed(flag) {
			overrides[key] = value
		}
	}
	set("source", "source.location", g.source)
	set("log-level", "log.level", g.logLevel)
	set("log-json", "log.json", g.logJSON)
	set("timezone", "view.timezone", g.timezone)
	set("url-template", "view.url_template", g.urlTmpl)
	for k, v := range extra {
		overrides[k] = v
	}

	cfg, err := config.Load(g.configPath, overrides)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func commitOptions(cfg *config.Config) (commits.Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return commits.Options{}, err
	}
	return commits.Options{URLTemplate: cfg.View.URLTemplate, Location: loc}, nil
}

func appOptions(cfg *config.Config, log *slog.Logger) app.Options {
	opts := app.DefaultOptions()
	opts.Logger = log
	opts.Mode = viewstate.Mode(cfg.View.Mode)

	sc := scatter.DefaultOptions()
	sc.Width, sc.Height = cfg.View.Width, cfg.View.Height
	sc.Duration = cfg.View.Transition
	sc.Logger = log
	opts.Scatter = sc

	fd := filedots.DefaultOptions()
	fd.Width = cfg.View.FilesWidth
	fd.MaxPerColumn = cfg.View.MaxPerColumn
	opts.Files = fd
	return opts
}

func newSource(cfg *config.Config) records.Source {
	src := records.NewSource(cfg.Source.Location)
	if h, ok := src.(records.HTTPSource); ok {
		h.Client = &http.Client{Timeout: cfg.Source.Timeout}
		return h
	}
	return src
}

// loadDataset fetches the configured source once.
func loadDataset(ctx context.Context, cfg *config.Config) (*app.Dataset, error) {
	opts, err := commitOptions(cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Source.Timeout)
	defer cancel()

	switch m := app.Load(ctx, newSource(cfg), opts).(type) {
	case app.Loaded:
		return m.Dataset, nil
	case app.LoadFailed:
		return nil, fmt.Errorf("loading %s: %w", cfg.Source.Location, m.Err)
	default:
		return nil, fmt.Errorf("unexpected load result %T", m)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "locvista %s\n", Version)
		},
	}
}
