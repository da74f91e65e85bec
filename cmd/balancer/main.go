package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LuckySan/controlling-fun/internal/config"
	"github.com/LuckySan/controlling-fun/internal/observability"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string
	logFile    string

	dt            float64
	duration      float64
	thetaDeg      float64
	thetaDot      float64
	randomSpan    float64
	seed          int64
	integrator    string
	controller    string
	kp            float64
	ki            float64
	kd            float64
	torque        float64
	maxTorque     float64
	tipAngle      float64
	schedule      string
	frameRate     int
	recordEvery   int
	noStopOnTip   bool
	noSave        bool
	canIface      string
	canEvery      int
	sweepFrom     float64
	sweepTo       float64
	sweepCount    int
	sweepWorkers  int
	reportOut     string
	exportOut     string
	configOut     string
	plotWidth     int
	phaseWidth    int
	compareSeries bool

	// cfg is resolved once per invocation in the root pre-run hook.
	cfg *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "balancer",
		Short:        "self-balancing wheel simulator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			cfg = resolved

			if cmd.Name() == "live" || cmd == cmd.Root() {
				observability.InitializeQuiet(cfg.Logger)
			} else {
				observability.InitializeLogger(cfg.Logger)
			}
			observability.GetLogger().Debug("configuration resolved",
				zap.String("command", cmd.Name()),
				zap.String("controller", cfg.Controller.Kind),
				zap.String("data_dir", cfg.DataDir),
			)
			return nil
		},
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	pf.StringVar(&logFile, "log-file", "", "also write JSON logs to this rotating file")
	addSimFlags(rootCmd)
	rootCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	rootCmd.AddCommand(
		newRunCmd(),
		newLiveCmd(),
		newSweepCmd(),
		newCompareCmd(),
		newListCmd(),
		newPlotCmd(),
		newPhaseCmd(),
		newReportCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newPresetsCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// addSimFlags registers the flags that shape a single body and controller.
func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	f.Float64Var(&thetaDeg, "theta", config.DefaultThetaDeg, "initial angle (deg)")
	f.Float64Var(&thetaDot, "omega", 0, "initial angular velocity (rad/s)")
	f.Float64Var(&randomSpan, "random-span", 0, "add a uniform random offset in ±span to the initial angle (deg)")
	f.Int64Var(&seed, "seed", 0, "random seed (0 = clock)")
	f.StringVar(&integrator, "integrator", "symplectic", "integration scheme (symplectic, euler)")
	f.StringVar(&controller, "controller", "pid", "controller (none, constant, p, pi, pid)")
	f.Float64Var(&kp, "kp", 800, "proportional gain")
	f.Float64Var(&ki, "ki", 50, "integral gain")
	f.Float64Var(&kd, "kd", 10, "derivative gain")
	f.Float64Var(&torque, "torque", 0, "torque of the constant controller (N*m)")
	f.Float64Var(&maxTorque, "max-torque", 0, "clamp corrective torque to ±value (0 = off)")
	f.Float64Var(&tipAngle, "tip-angle", config.DefaultTipAngleDeg, "tipping threshold (deg)")
	f.StringVar(&schedule, "schedule", "", `scripted commands, e.g. "right:1.5,idle:0.5,left:1"`)
}

// resolveConfig layers preset or file/env config under explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var c *config.Config
	if preset != "" {
		c = config.GetPreset(preset)
		if c == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	} else {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		c = loaded
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			apply()
		}
	}

	set("data", func() { c.DataDir = dataDir })
	set("log-level", func() { c.Logger.Level = logLevel })
	set("log-format", func() { c.Logger.Format = logFormat })
	set("log-file", func() { c.Logger.LogFile = logFile })

	set("dt", func() { c.Sim.Dt = dt })
	set("time", func() { c.Sim.Duration = duration })
	set("theta", func() { c.Init.ThetaDeg = thetaDeg })
	set("omega", func() { c.Init.ThetaDot = thetaDot })
	set("random-span", func() { c.Init.RandomSpanDeg = randomSpan })
	set("seed", func() { c.Init.Seed = seed })
	set("integrator", func() { c.Sim.Integrator = integrator })
	set("controller", func() { c.Controller.Kind = controller })
	set("kp", func() { c.Controller.Kp = kp })
	set("ki", func() { c.Controller.Ki = ki })
	set("kd", func() { c.Controller.Kd = kd })
	set("torque", func() { c.Controller.Torque = torque })
	set("max-torque", func() { c.Sim.MaxTorque = maxTorque })
	set("tip-angle", func() { c.Sim.TipAngleDeg = tipAngle })
	set("schedule", func() { c.Sim.Schedule = schedule })
	set("fps", func() { c.Sim.FPS = frameRate })
	set("record-every", func() { c.Sim.RecordEvery = recordEvery })
	set("no-stop", func() { c.Sim.StopOnTip = !noStopOnTip })
	set("can", func() {
		c.CAN.Enabled = canIface != ""
		c.CAN.Interface = canIface
	})
	set("can-every", func() { c.CAN.Every = canEvery })

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}
