package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/LuckySan/controlling-fun/internal/analysis"
	"github.com/LuckySan/controlling-fun/internal/config"
	"github.com/LuckySan/controlling-fun/internal/dynamo"
	"github.com/LuckySan/controlling-fun/internal/report"
	"github.com/LuckySan/controlling-fun/internal/storage"
)

const settleBandDeg = 2.0

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().IntVar(&plotWidth, "width", 80, "graph width")
	return cmd
}

func newPhaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot theta against theta_dot for a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	cmd.Flags().IntVar(&phaseWidth, "width", 70, "plot width")
	return cmd
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [run_id]",
		Short: "render a stored run to png or svg",
		Args:  cobra.ExactArgs(1),
		RunE:  renderReport,
	}
	cmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file (.png or .svg, default <run_id>.png)")
	return cmd
}

func newExportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the states of a run as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export metadata and states of a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list built-in configurations",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		Args:  cobra.NoArgs,
		RunE:  writeConfig,
	}
	addSimFlags(cmd)
	cmd.Flags().StringVarP(&configOut, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func listRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tCTRL\tINTEG\tSTART\tDURATION\tOUTCOME")

	for _, run := range runs {
		outcome := "upright"
		if run.Tipped {
			outcome = fmt.Sprintf("tipped %.2fs", run.TipTime)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f°\t%.2fs\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Controller,
			run.Integrator,
			run.InitialThetaDeg,
			run.Duration,
			outcome,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	runID := args[0]

	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "controller: %s\n", meta.Controller)
	fmt.Fprintf(out, "samples: %d\n", len(states))
	if ts, ok := analysis.SettlingTime(states, settleBandDeg); ok {
		fmt.Fprintf(out, "settled within %.0f° after %.2fs\n", settleBandDeg, ts)
	}
	fmt.Fprintf(out, "overshoot: %.2f°\n\n", analysis.Overshoot(states))

	panels := []struct {
		caption string
		field   func(dynamo.Snapshot) float64
	}{
		{"theta (deg)", func(s dynamo.Snapshot) float64 { return s.ThetaDeg() }},
		{"x position (m)", func(s dynamo.Snapshot) float64 { return s.X }},
		{"corrective torque (N·m)", func(s dynamo.Snapshot) float64 { return s.Torque }},
	}

	for _, p := range panels {
		data := make([]float64, len(states))
		for i, s := range states {
			data[i] = p.field(s)
		}
		graph := asciigraph.Plot(downsample(data, 4*plotWidth),
			asciigraph.Height(10),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(p.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	runID := args[0]

	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	portrait, err := analysis.NewPhasePortrait(states)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "phase space: %s\n", meta.ID)
	fmt.Fprintf(out, "x: theta (deg), y: theta_dot (rad/s)\n\n")
	fmt.Fprintln(out, portrait.Render(phaseWidth, 20))
	return nil
}

func renderReport(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	path := reportOut
	if path == "" {
		path = runID + ".png"
	}
	title := fmt.Sprintf("%s (%s, start %.1f°)", meta.ID, meta.Controller, meta.InitialThetaDeg)
	if err := report.Save(path, title, states); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", path)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(cfg.DataDir)
	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if exportOut == "" {
		return storage.WriteCSV(cmd.OutOrStdout(), states)
	}

	if err := os.MkdirAll(filepath.Dir(exportOut), 0755); err != nil {
		return err
	}
	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(f, states); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(cmd.OutOrStdout(), *meta, states)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCTRL\tSTART\tSPAN\tDURATION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%.1f°\t±%.1f°\t%.0fs\n",
			name,
			p.Controller.Kind,
			p.Init.ThetaDeg,
			p.Init.RandomSpanDeg,
			p.Sim.Duration,
		)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	if configOut == "" {
		return config.Encode(cmd.OutOrStdout(), cfg)
	}
	if err := config.Save(configOut, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", configOut)
	return nil
}
