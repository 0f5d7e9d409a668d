package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bento/pkg/inspect"
	"github.com/vango-dev/bento/pkg/scenario"
	"github.com/vango-dev/bento/pkg/telemetry"
)

func (a *app) inspectCmd() *cobra.Command {
	var (
		host     string
		port     int
		interval time.Duration
		loop     bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <scenario.yaml>",
		Short: "Serve the inspector while replaying a scenario",
		Long: `Start the inspector server and replay a scenario against an
in-memory surface, one render per interval.

Endpoints: /tree, /script, /metrics, /stream (WebSocket), /healthz.

Examples:
  bento inspect profile.yaml
  bento inspect profile.yaml --port=8080 --interval=500ms --loop`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Inspect.Port = port
			}
			if host != "" {
				a.cfg.Inspect.Host = host
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runInspect(args[0], interval, loop)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from bento.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from bento.json)")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Delay between renders")
	cmd.Flags().BoolVar(&loop, "loop", false, "Restart the scenario after the last render")

	return cmd
}

func (a *app) runInspect(path string, interval time.Duration, loop bool) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	boxes, err := sc.Boxes()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := a.newSimulation(sc.Geometry(a.cfg.Geometry()), false)
	defer sim.engine.Close()

	opts := []inspect.Option{
		inspect.WithLogger(a.logger),
		inspect.WithTracer(telemetry.Tracer()),
	}
	if sim.registry != nil {
		opts = append(opts,
			inspect.WithGatherer(sim.registry),
			inspect.WithRequestMetrics(sim.registry, a.cfg.Metrics.Namespace),
		)
	}
	srv := inspect.New(opts...)
	defer srv.Close()
	detach := inspect.Attach(srv, sim.engine)
	defer detach()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe(ctx, a.cfg.InspectAddress())
	}()

	a.printBanner()
	a.info("inspector: http://%s", a.cfg.InspectAddress())
	a.info("scenario:  %s (%d renders)", path, len(boxes))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		if i == len(boxes) {
			if !loop {
				a.success("scenario finished, serving until interrupted")
				break
			}
			i = 0
		}
		if err := sim.engine.Render(ctx, boxes[i]); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("render failed", "render", i+1, "error", err)
		}

		select {
		case <-ticker.C:
		case err := <-serveErr:
			return err
		case <-ctx.Done():
			return <-serveErr
		}
	}

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		return <-serveErr
	}
}
