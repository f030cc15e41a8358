package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nathansso/locvista/internal/metrics"
	"github.com/nathansso/locvista/internal/server"
)

func newServeCommand(g *globalFlags) *cobra.Command {
	var (
		host  string
		port  int
		watch bool
		poll  time.Duration
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			extra := map[string]any{}
			flags := cmd.Flags()
			if flags.Changed("host") {
				extra["server.host"] = host
			}
			if flags.Changed("port") {
				extra["server.port"] = port
			}
			if flags.Changed("watch") {
				extra["source.watch"] = watch
			}
			if flags.Changed("poll") {
				extra["source.poll_interval"] = poll
			}
			if flags.Changed("mode") {
				extra["view.mode"] = mode
			}

			cfg, log, err := g.load(cmd, extra)
			if err != nil {
				return err
			}
			copts, err := commitOptions(cfg)
			if err != nil {
				return err
			}

			srv, err := server.New(server.Options{
				Source:         newSource(cfg),
				Commits:        copts,
				App:            appOptions(cfg, log),
				Logger:         log,
				Metrics:        metrics.New(),
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Watch:          cfg.Source.Watch,
				PollInterval:   cfg.Source.PollInterval,
				Timeout:        cfg.Source.Timeout,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("locvista starting", "version", Version, "url", "http://"+cfg.Addr())
			return srv.Start(ctx, cfg.Addr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&host, "host", "", "listen host")
	f.IntVarP(&port, "port", "p", 0, "listen port")
	f.BoolVar(&watch, "watch", true, "reload a local source when it changes")
	f.DurationVar(&poll, "poll", 0, "reload an http source at this interval; 0 disables")
	f.StringVar(&mode, "mode", "", "initial view mode: cursor or scroll")
	return cmd
}
