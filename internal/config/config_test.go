package config

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "pid", cfg.Controller.Kind)
	assert.Equal(t, "symplectic", cfg.Sim.Integrator)
	assert.Equal(t, 800.0, cfg.Controller.Kp)
	assert.Equal(t, 50.0, cfg.Controller.Ki)
	assert.Equal(t, 10.0, cfg.Controller.Kd)
	assert.True(t, cfg.Sim.StopOnTip)
	require.NoError(t, cfg.Validate())
}

func TestParamsConversion(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.Params()

	assert.Equal(t, DefaultMass, p.Mass)
	assert.Equal(t, DefaultLength, p.Length)
	assert.InDelta(t, math.Pi/2, p.TipAngle, 1e-12)
	assert.InDelta(t, 0.75, p.Inertia(), 1e-12)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"zero duration", func(c *Config) { c.Sim.Duration = 0 }, "sim.duration"},
		{"record every", func(c *Config) { c.Sim.RecordEvery = 0 }, "sim.record_every"},
		{"fps", func(c *Config) { c.Sim.FPS = 0 }, "sim.fps"},
		{"random span", func(c *Config) { c.Init.RandomSpanDeg = -1 }, "random_span_deg"},
		{"can every", func(c *Config) { c.CAN.Enabled = true; c.CAN.Every = 0 }, "can.every"},
		{"frame id", func(c *Config) { c.CAN.FrameID = 0x800 }, "11 bits"},
		{"mass", func(c *Config) { c.Body.Mass = 0 }, "mass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidate_WrapsParameterBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Body.Length = -1

	err := cfg.Validate()
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	yamlBytes := []byte(`
body:
  mass: 2.5
controller:
  kind: pi
  ki: 12
sim:
  schedule: "right:1,idle:0.5"
`)
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Body.Mass)
	assert.Equal(t, "pi", cfg.Controller.Kind)
	assert.Equal(t, 12.0, cfg.Controller.Ki)
	assert.Equal(t, "right:1,idle:0.5", cfg.Sim.Schedule)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultLength, cfg.Body.Length)
	assert.Equal(t, 800.0, cfg.Controller.Kp)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balancer.yaml")
	cfg := DefaultConfig()
	cfg.Sim.Dt = 0.02
	cfg.Controller.Kind = "p"
	require.NoError(t, Save(path, cfg))

	t.Setenv("BALANCER_SIM_DT", "0.005")
	t.Setenv("BALANCER_LOGGER_LEVEL", "debug")

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.005, loaded.Sim.Dt)
	assert.Equal(t, "debug", loaded.Logger.Level)
	assert.Equal(t, "p", loaded.Controller.Kind)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("BALANCER_BODY_MASS", "-3")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	orig := GetPreset("reference")
	require.NotNil(t, orig)
	require.NoError(t, Save(path, orig))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, orig, loaded)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("reference")
	require.NotNil(t, cfg)
	assert.Equal(t, "constant", cfg.Controller.Kind)
	assert.Equal(t, -100.0, cfg.Controller.Torque)
	assert.Equal(t, 100.0, cfg.Sim.MaxTorque)
	assert.Equal(t, 0.005, cfg.Sim.Dt)

	// copies are independent
	cfg.Controller.Torque = 1
	assert.Equal(t, -100.0, GetPreset("reference").Controller.Torque)
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	assert.Equal(t, []string{"falling", "manual", "p", "pi", "pid", "reference"}, names)

	for _, name := range names {
		assert.NoError(t, Presets[name].Validate(), name)
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, DefaultConfig()))

	out := buf.String()
	assert.Contains(t, out, "controller:\n  kind: pid")
	assert.Contains(t, out, "data_dir: .balancer")
}
