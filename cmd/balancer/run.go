package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LuckySan/controlling-fun/internal/canbus"
	"github.com/LuckySan/controlling-fun/internal/dynamo"
	"github.com/LuckySan/controlling-fun/internal/experiment"
	"github.com/LuckySan/controlling-fun/internal/observability"
	"github.com/LuckySan/controlling-fun/internal/physics"
	"github.com/LuckySan/controlling-fun/internal/storage"
	"github.com/LuckySan/controlling-fun/internal/viz"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(cmd)
	cmd.Flags().IntVar(&recordEvery, "record-every", 1, "store every nth tick")
	cmd.Flags().BoolVar(&noStopOnTip, "no-stop", false, "keep ticking after the body tips")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the run to the data directory")
	cmd.Flags().StringVar(&canIface, "can", "", "publish state frames on this SocketCAN interface")
	cmd.Flags().IntVar(&canEvery, "can-every", 10, "publish every nth tick")
	return cmd
}

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "balance the body interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(cmd)
	cmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	return cmd
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run many initial angles in parallel",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(cmd)
	cmd.Flags().Float64Var(&sweepFrom, "from", -60, "first initial angle (deg)")
	cmd.Flags().Float64Var(&sweepTo, "to", 60, "last initial angle (deg)")
	cmd.Flags().IntVar(&sweepCount, "n", 13, "number of runs")
	cmd.Flags().IntVar(&sweepWorkers, "workers", 0, "parallel runs (0 = one per CPU)")
	return cmd
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integration schemes on the same start",
		RunE:  compareIntegrators,
	}
	addSimFlags(cmd)
	cmd.Flags().BoolVar(&compareSeries, "graph", true, "plot the angle of every scheme")
	return cmd
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logger := observability.GetLogger()

	ctx, cancel := signalContext()
	defer cancel()

	var observers []dynamo.Observer
	var publisher *canbus.Publisher
	if cfg.CAN.Enabled {
		w, err := canbus.NewSocketCANWriter(ctx, cfg.CAN.Interface)
		if err != nil {
			return err
		}
		defer w.Close()
		publisher = canbus.NewPublisher(ctx, w, cfg.CAN.FrameID, cfg.CAN.Every, logger)
		observers = append(observers, publisher)
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(observers...); err != nil {
		return err
	}

	fmt.Fprintf(out, "running %s controller from %.2f°...\n", cfg.Controller.Kind, exp.InitialAngleDeg())

	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted", zap.Error(err))
	}

	if publisher != nil {
		sent, failed := publisher.Stats()
		logger.Info("can telemetry", zap.Int("sent", sent), zap.Int("failed", failed))
	}

	printSummary(out, result)

	if noSave {
		return nil
	}
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(exp.Info(), result)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "run id: %s\n", runID)
	return nil
}

func printSummary(out io.Writer, result *dynamo.Result) {
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	if result.Tipped() {
		fmt.Fprintf(out, "tipped at %.2f s, angle %.2f°\n", result.Final.Elapsed, result.Final.ThetaDeg())
	} else {
		fmt.Fprintf(out, "upright after %.2f s, angle %.2f°\n", result.Final.Elapsed, result.Final.ThetaDeg())
	}
	for _, err := range result.Errors {
		fmt.Fprintf(out, "error: %v\n", err)
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, result.Metrics[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	exp := experiment.New(cfg, observability.GetLogger())

	title := fmt.Sprintf("balancer · %s", cfg.Controller.Kind)
	m, err := viz.NewModel(title, func() (*physics.Body, error) { return exp.BuildBody() }, cfg.Sim.FPS)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func runSweep(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx, cancel := signalContext()
	defer cancel()

	angles := experiment.Angles(sweepFrom, sweepTo, sweepCount)
	results, err := experiment.Sweep(ctx, cfg, angles, sweepWorkers, observability.GetLogger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "START\tOUTCOME\tFINAL\tPEAK\tEFFORT\tUPRIGHT")
	for _, r := range results {
		outcome := "upright"
		if r.Tipped {
			outcome = fmt.Sprintf("tipped %.2fs", r.TipTime)
		}
		fmt.Fprintf(w, "%.1f°\t%s\t%.2f°\t%.2f°\t%.2f\t%.0f%%\n",
			r.InitialDeg,
			outcome,
			r.FinalDeg,
			r.Metrics["peak_angle_deg"],
			r.Metrics["control_effort"],
			100*r.Metrics["time_upright"],
		)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	schemes := args
	if len(schemes) == 0 {
		schemes = experiment.NewRegistry().ListIntegrators()
	}

	ctx, cancel := signalContext()
	defer cancel()

	// Fix the seed so every scheme starts from the same angle.
	base := cfg.Clone()
	if base.Init.Seed == 0 {
		base.Init.Seed = experiment.New(base, nil).Seed()
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tSTEPS\tOUTCOME\tFINAL\tENERGY DRIFT")

	var series [][]float64
	for _, name := range schemes {
		c := base.Clone()
		c.Sim.Integrator = name

		exp := experiment.New(c, observability.GetLogger())
		if err := exp.Setup(); err != nil {
			return err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		outcome := "upright"
		if result.Tipped() {
			outcome = fmt.Sprintf("tipped %.2fs", result.Final.Elapsed)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.3f°\t%.3e\n",
			name,
			result.StepsTaken,
			outcome,
			result.Final.ThetaDeg(),
			result.Metrics["energy_drift"],
		)
		series = append(series, downsample(result.Series(func(s dynamo.Snapshot) float64 { return s.ThetaDeg() }), 200))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if compareSeries && len(series) > 0 {
		graph := asciigraph.PlotMany(series,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption("theta (deg) per scheme"),
		)
		fmt.Fprintf(out, "\n%s\n", graph)
	}
	return nil
}

// downsample keeps at most n evenly spaced points.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n || n < 2 {
		return data
	}
	out := make([]float64, n)
	step := float64(len(data)-1) / float64(n-1)
	for i := range out {
		out[i] = data[int(math.Round(float64(i)*step))]
	}
	return out
}
