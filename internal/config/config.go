package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/LuckySan/controlling-fun/internal/control"
	"github.com/LuckySan/controlling-fun/internal/physics"
)

const (
	DefaultMass         = 1.0
	DefaultLength       = 1.5
	DefaultGravity      = 9.81
	DefaultDt           = 0.01
	DefaultDuration     = 10.0
	DefaultTipAngleDeg  = 90.0
	DefaultMoveSpeed    = 1.0
	DefaultTorqueEffect = 5.0
	DefaultThetaDeg     = 10.0
	DefaultFPS          = 60
	DefaultCANFrameID   = 0x120
	DefaultDataDir      = ".balancer"

	// EnvPrefix scopes environment overrides, e.g. BALANCER_SIM_DT.
	EnvPrefix = "BALANCER"
)

type Config struct {
	Body       BodyConfig       `mapstructure:"body" yaml:"body"`
	Sim        SimConfig        `mapstructure:"sim" yaml:"sim"`
	Controller ControllerConfig `mapstructure:"controller" yaml:"controller"`
	Init       InitConfig       `mapstructure:"init" yaml:"init"`
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	CAN        CANConfig        `mapstructure:"can" yaml:"can"`
	DataDir    string           `mapstructure:"data_dir" yaml:"data_dir"`
}

type BodyConfig struct {
	Mass    float64 `mapstructure:"mass" yaml:"mass"`
	Length  float64 `mapstructure:"length" yaml:"length"`
	Gravity float64 `mapstructure:"gravity" yaml:"gravity"`
}

type SimConfig struct {
	Dt           float64 `mapstructure:"dt" yaml:"dt"`
	Duration     float64 `mapstructure:"duration" yaml:"duration"`
	TipAngleDeg  float64 `mapstructure:"tip_angle_deg" yaml:"tip_angle_deg"`
	MaxTorque    float64 `mapstructure:"max_torque" yaml:"max_torque"`
	MoveSpeed    float64 `mapstructure:"move_speed" yaml:"move_speed"`
	TorqueEffect float64 `mapstructure:"torque_effect" yaml:"torque_effect"`
	Integrator   string  `mapstructure:"integrator" yaml:"integrator"`
	StopOnTip    bool    `mapstructure:"stop_on_tip" yaml:"stop_on_tip"`
	RecordEvery  int     `mapstructure:"record_every" yaml:"record_every"`
	Schedule     string  `mapstructure:"schedule" yaml:"schedule"`
	FPS          int     `mapstructure:"fps" yaml:"fps"`
}

type ControllerConfig struct {
	Kind   string  `mapstructure:"kind" yaml:"kind"`
	Kp     float64 `mapstructure:"kp" yaml:"kp"`
	Ki     float64 `mapstructure:"ki" yaml:"ki"`
	Kd     float64 `mapstructure:"kd" yaml:"kd"`
	Torque float64 `mapstructure:"torque" yaml:"torque"`
}

type InitConfig struct {
	ThetaDeg      float64 `mapstructure:"theta_deg" yaml:"theta_deg"`
	ThetaDot      float64 `mapstructure:"theta_dot" yaml:"theta_dot"`
	RandomSpanDeg float64 `mapstructure:"random_span_deg" yaml:"random_span_deg"`
	Seed          int64   `mapstructure:"seed" yaml:"seed"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// CANConfig controls optional telemetry over SocketCAN.
type CANConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Interface string `mapstructure:"interface" yaml:"interface"`
	FrameID   uint32 `mapstructure:"frame_id" yaml:"frame_id"`
	Every     int    `mapstructure:"every" yaml:"every"`
}

func DefaultConfig() *Config {
	return &Config{
		Body: BodyConfig{
			Mass:    DefaultMass,
			Length:  DefaultLength,
			Gravity: DefaultGravity,
		},
		Sim: SimConfig{
			Dt:           DefaultDt,
			Duration:     DefaultDuration,
			TipAngleDeg:  DefaultTipAngleDeg,
			MoveSpeed:    DefaultMoveSpeed,
			TorqueEffect: DefaultTorqueEffect,
			Integrator:   "symplectic",
			StopOnTip:    true,
			RecordEvery:  1,
			FPS:          DefaultFPS,
		},
		Controller: ControllerConfig{
			Kind: "pid",
			Kp:   control.DefaultKp,
			Ki:   control.DefaultKi,
			Kd:   control.DefaultKd,
		},
		Init: InitConfig{
			ThetaDeg: DefaultThetaDeg,
		},
		Logger: LoggerConfig{
			Level:      "info",
			Format:     "console",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
		CAN: CANConfig{
			Interface: "vcan0",
			FrameID:   DefaultCANFrameID,
			Every:     10,
		},
		DataDir: DefaultDataDir,
	}
}

// SetDefaults registers every DefaultConfig value with v so that environment
// overrides resolve even when no file sets the key.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("body.mass", d.Body.Mass)
	v.SetDefault("body.length", d.Body.Length)
	v.SetDefault("body.gravity", d.Body.Gravity)

	v.SetDefault("sim.dt", d.Sim.Dt)
	v.SetDefault("sim.duration", d.Sim.Duration)
	v.SetDefault("sim.tip_angle_deg", d.Sim.TipAngleDeg)
	v.SetDefault("sim.max_torque", d.Sim.MaxTorque)
	v.SetDefault("sim.move_speed", d.Sim.MoveSpeed)
	v.SetDefault("sim.torque_effect", d.Sim.TorqueEffect)
	v.SetDefault("sim.integrator", d.Sim.Integrator)
	v.SetDefault("sim.stop_on_tip", d.Sim.StopOnTip)
	v.SetDefault("sim.record_every", d.Sim.RecordEvery)
	v.SetDefault("sim.schedule", d.Sim.Schedule)
	v.SetDefault("sim.fps", d.Sim.FPS)

	v.SetDefault("controller.kind", d.Controller.Kind)
	v.SetDefault("controller.kp", d.Controller.Kp)
	v.SetDefault("controller.ki", d.Controller.Ki)
	v.SetDefault("controller.kd", d.Controller.Kd)
	v.SetDefault("controller.torque", d.Controller.Torque)

	v.SetDefault("init.theta_deg", d.Init.ThetaDeg)
	v.SetDefault("init.theta_dot", d.Init.ThetaDot)
	v.SetDefault("init.random_span_deg", d.Init.RandomSpanDeg)
	v.SetDefault("init.seed", d.Init.Seed)

	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.format", d.Logger.Format)
	v.SetDefault("logger.log_file", d.Logger.LogFile)
	v.SetDefault("logger.max_size", d.Logger.MaxSize)
	v.SetDefault("logger.max_backups", d.Logger.MaxBackups)
	v.SetDefault("logger.max_age", d.Logger.MaxAge)
	v.SetDefault("logger.compress", d.Logger.Compress)

	v.SetDefault("can.enabled", d.CAN.Enabled)
	v.SetDefault("can.interface", d.CAN.Interface)
	v.SetDefault("can.frame_id", d.CAN.FrameID)
	v.SetDefault("can.every", d.CAN.Every)

	v.SetDefault("data_dir", d.DataDir)
}

// Load builds a Config from defaults, the YAML file at path (optional when
// path is empty) and BALANCER_* environment variables, in increasing priority.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Encode writes cfg as YAML to w.
func Encode(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks the fields that do not map onto physics.Params; the body
// parameters themselves are checked by Params().Validate.
func (c *Config) Validate() error {
	var errs []error

	if c.Sim.Duration <= 0 || math.IsNaN(c.Sim.Duration) {
		errs = append(errs, errors.New("sim.duration must be positive"))
	}
	if c.Sim.RecordEvery < 1 {
		errs = append(errs, errors.New("sim.record_every must be at least 1"))
	}
	if c.Sim.FPS < 1 {
		errs = append(errs, errors.New("sim.fps must be at least 1"))
	}
	if c.Init.RandomSpanDeg < 0 {
		errs = append(errs, errors.New("init.random_span_deg must not be negative"))
	}
	if c.CAN.Enabled && c.CAN.Every < 1 {
		errs = append(errs, errors.New("can.every must be at least 1"))
	}
	if c.CAN.FrameID > 0x7FF {
		errs = append(errs, fmt.Errorf("can.frame_id 0x%X exceeds 11 bits", c.CAN.FrameID))
	}
	if err := c.Params().Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Params converts the body and sim sections into physics parameters.
func (c *Config) Params() physics.Params {
	return physics.Params{
		Mass:         c.Body.Mass,
		Length:       c.Body.Length,
		Gravity:      c.Body.Gravity,
		Dt:           c.Sim.Dt,
		TipAngle:     c.Sim.TipAngleDeg * math.Pi / 180,
		MaxTorque:    c.Sim.MaxTorque,
		MoveSpeed:    c.Sim.MoveSpeed,
		TorqueEffect: c.Sim.TorqueEffect,
	}
}

// Clone returns a deep copy; Config holds no reference fields.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
