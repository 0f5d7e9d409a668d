package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/vango-dev/bento/pkg/adapter"
	"github.com/vango-dev/bento/pkg/engine"
	"github.com/vango-dev/bento/pkg/scenario"
	"github.com/vango-dev/bento/pkg/surface"
	"github.com/vango-dev/bento/pkg/telemetry"
)

func (a *app) simulateCmd() *cobra.Command {
	var (
		heights       bool
		metrics       bool
		skipPopulated bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Replay a scenario against an in-memory surface",
		Long: `Apply every render of a scenario to an in-memory list surface and
verify after each one that the surface matches the rendered box.

Examples:
  bento simulate profile.yaml
  bento simulate profile.yaml --heights
  bento simulate profile.yaml --metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSimulate(cmd.Context(), args[0], simulateOptions{
				heights:       heights,
				metrics:       metrics,
				skipPopulated: skipPopulated,
			})
		},
	}

	cmd.Flags().BoolVar(&heights, "heights", false, "Print row, header and footer heights after each render")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Print Prometheus metrics at the end")
	cmd.Flags().BoolVar(&skipPopulated, "skip-populated", false, "Skip populated items during focus navigation")

	return cmd
}

type simulateOptions struct {
	heights       bool
	metrics       bool
	skipPopulated bool
}

// simulation is an engine bound to an in-memory surface.
type simulation struct {
	memory   *surface.Memory
	engine   *engine.Engine[string, string]
	adapter  *adapter.Adapter[string, string]
	registry *prometheus.Registry
}

func (a *app) newSimulation(g adapter.Geometry, skipPopulated bool) *simulation {
	s := &simulation{memory: surface.NewMemory(nil)}

	opts := []engine.Option[string, string]{engine.WithLogger[string, string](a.logger)}
	if a.cfg.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		m := telemetry.NewMetrics(
			telemetry.WithNamespace(a.cfg.Metrics.Namespace),
			telemetry.WithRegistry(s.registry),
		)
		opts = append(opts, engine.WithMetrics[string, string](m))
	}
	if skipPopulated {
		opts = append(opts, engine.WithFocusSkippingPopulated[string, string]())
	}

	s.engine = engine.New[string, string](s.memory, opts...)
	s.adapter = adapter.New(s.engine, g)
	s.adapter.SetLogger(a.logger)
	return s
}

func (a *app) runSimulate(ctx context.Context, path string, opts simulateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	boxes, err := sc.Boxes()
	if err != nil {
		return err
	}

	sim := a.newSimulation(sc.Geometry(a.cfg.Geometry()), opts.skipPopulated)
	defer sim.engine.Close()

	var last engine.Commit[string, string]
	sim.engine.OnCommit(func(c engine.Commit[string, string]) { last = c })

	for i, b := range boxes {
		if err := sim.engine.Render(ctx, b); err != nil {
			return err
		}
		if err := surface.Verify(sim.memory, b); err != nil {
			return err
		}

		name := sc.Renders[i].Name
		if name == "" {
			name = fmt.Sprintf("render %d", i+1)
		}
		a.success("%s: %d ops, %d section / %d row passes, %d reconfigured",
			name, last.Script.Len(), last.Result.SectionPasses, last.Result.RowPasses, last.Result.Reconfigured)

		if opts.heights {
			a.printHeights(sim.adapter)
		}
	}

	stats := sim.engine.CacheStats()
	a.info("size cache: %d hits, %d misses, %d invalidations, %d entries",
		stats.Hits, stats.Misses, stats.Invalidations, stats.Entries)

	if opts.metrics && sim.registry != nil {
		families, err := sim.registry.Gather()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out)
		enc := expfmt.NewEncoder(a.out, expfmt.FmtText)
		for _, mf := range families {
			if err := enc.Encode(mf); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *app) printHeights(ad *adapter.Adapter[string, string]) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	var total float64
	add := func(label string, h float64) {
		if h == adapter.AutomaticDimension {
			fmt.Fprintf(w, "    %s\tautomatic\n", label)
			return
		}
		total += h
		fmt.Fprintf(w, "    %s\t%.2f\n", label, h)
	}

	for s := 0; s < ad.NumberOfSections(); s++ {
		if v, ok := ad.ViewForHeader(s); ok {
			add(fmt.Sprintf("header %v", v.ID), ad.HeightForHeader(s))
		}
		for r := 0; r < ad.NumberOfRows(s); r++ {
			v := ad.CellForRow(s, r)
			add(fmt.Sprintf("row %v", v.ID), ad.HeightForRow(s, r))
		}
		if v, ok := ad.ViewForFooter(s); ok {
			add(fmt.Sprintf("footer %v", v.ID), ad.HeightForFooter(s))
		}
	}
	fmt.Fprintf(w, "    total (measured)\t%.2f\n", total)
	w.Flush()
}
