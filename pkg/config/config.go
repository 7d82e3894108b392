package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mamacker/FairyFun/pkg/control"
)

// Config represents the application configuration.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Sensor SensorConfig `yaml:"sensor"`
	Light  LightConfig  `yaml:"light"`
	Loop   LoopConfig   `yaml:"loop"`
	Mock   MockConfig   `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
}

// SensorConfig contains the capacitive sensing parameters.
type SensorConfig struct {
	BaselineWindow   int `yaml:"baseline_window"`    // Readings averaged into the baseline
	BaselineSeed     int `yaml:"baseline_seed"`      // Assumed untouched reading at startup
	Spread           int `yaml:"spread"`             // Offset above baseline that means touch
	MinOverThreshold int `yaml:"min_over_threshold"` // Offset above baseline that means near
	AverageWindow    int `yaml:"average_window"`     // Readings averaged for the glow
}

// LightConfig contains the LED output parameters.
type LightConfig struct {
	StepsMax      int           `yaml:"steps_max"`      // Brightness steps per half pulse
	MinBrightness int           `yaml:"min_brightness"` // Pulse floor (0-255)
	LightOn       time.Duration `yaml:"light_on"`       // Pulse duration after a touch
}

// LoopConfig contains control loop pacing parameters.
type LoopConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"` // Delay between ticks
	SettleTime   time.Duration `yaml:"settle_time"`   // Baseline-only window at startup
	DebugEvery   int           `yaml:"debug_every"`   // Ticks between diagnostic lines
	Debug        bool          `yaml:"debug"`         // Start with diagnostics on
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	Noise         int           `yaml:"noise"`          // Peak reading jitter (sensor units)
	TouchReading  int           `yaml:"touch_reading"`  // Reading produced by the simulated finger
	TouchDuration time.Duration `yaml:"touch_duration"` // How long the finger stays down
	TouchPeriod   time.Duration `yaml:"touch_period"`   // Time between simulated touches
	SampleRate    time.Duration `yaml:"sample_rate"`    // Telemetry output rate
}

// Default returns a default configuration with the values the shipped
// devices are tuned to.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "/dev/ttyACM0",
		},
		Sensor: SensorConfig{
			BaselineWindow:   5000,
			BaselineSeed:     725,
			Spread:           63,
			MinOverThreshold: 3,
			AverageWindow:    50,
		},
		Light: LightConfig{
			StepsMax:      150,
			MinBrightness: 10,
			LightOn:       30 * time.Second,
		},
		Loop: LoopConfig{
			TickInterval: 10 * time.Millisecond,
			SettleTime:   5 * time.Second,
			DebugEvery:   51,
			Debug:        false,
		},
		Mock: MockConfig{
			Noise:         4,
			TouchReading:  820,
			TouchDuration: 2 * time.Second,
			TouchPeriod:   45 * time.Second,
			SampleRate:    100 * time.Millisecond,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Control maps the configuration onto the control loop's parameter set.
func (c *Config) Control() control.Config {
	return control.Config{
		BaselineWindow:   c.Sensor.BaselineWindow,
		BaselineSeed:     c.Sensor.BaselineSeed,
		Spread:           c.Sensor.Spread,
		MinOverThreshold: c.Sensor.MinOverThreshold,
		AverageWindow:    c.Sensor.AverageWindow,
		StepsMax:         c.Light.StepsMax,
		MinBrightness:    c.Light.MinBrightness,
		LightOnMillis:    uint32(c.Light.LightOn.Milliseconds()),
		TickInterval:     c.Loop.TickInterval,
		SettleMillis:     uint32(c.Loop.SettleTime.Milliseconds()),
		DebugEvery:       uint32(c.Loop.DebugEvery),
		Debug:            c.Loop.Debug,
	}
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}

	if c.Sensor.BaselineWindow == 0 {
		c.Sensor.BaselineWindow = def.Sensor.BaselineWindow
	}
	if c.Sensor.BaselineSeed == 0 {
		c.Sensor.BaselineSeed = def.Sensor.BaselineSeed
	}
	if c.Sensor.Spread == 0 {
		c.Sensor.Spread = def.Sensor.Spread
	}
	if c.Sensor.MinOverThreshold == 0 {
		c.Sensor.MinOverThreshold = def.Sensor.MinOverThreshold
	}
	if c.Sensor.AverageWindow == 0 {
		c.Sensor.AverageWindow = def.Sensor.AverageWindow
	}

	if c.Light.StepsMax == 0 {
		c.Light.StepsMax = def.Light.StepsMax
	}
	if c.Light.MinBrightness == 0 {
		c.Light.MinBrightness = def.Light.MinBrightness
	}
	if c.Light.LightOn == 0 {
		c.Light.LightOn = def.Light.LightOn
	}

	if c.Loop.TickInterval == 0 {
		c.Loop.TickInterval = def.Loop.TickInterval
	}
	if c.Loop.SettleTime == 0 {
		c.Loop.SettleTime = def.Loop.SettleTime
	}
	if c.Loop.DebugEvery == 0 {
		c.Loop.DebugEvery = def.Loop.DebugEvery
	}

	if c.Mock.TouchReading == 0 {
		c.Mock.TouchReading = def.Mock.TouchReading
	}
	if c.Mock.TouchDuration == 0 {
		c.Mock.TouchDuration = def.Mock.TouchDuration
	}
	if c.Mock.TouchPeriod == 0 {
		c.Mock.TouchPeriod = def.Mock.TouchPeriod
	}
	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
}
