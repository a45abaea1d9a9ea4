// Package config defines the piddemo configuration and how it is read from disk.
package config

import (
	"github.com/pkg/errors"

	"go.viam.com/piddemo/control"
)

// DefaultLogFile is where the terminal UI logs while it owns stdout.
const DefaultLogFile = "piddemo.log"

// Config is the whole demo configuration.
type Config struct {
	ConfigFilePath string `json:"-"`

	Frequency   float64          `json:"frequency"`
	HistorySize int              `json:"history_size"`
	Controller  ControllerConfig `json:"controller"`
	LogFile     string           `json:"log_file"`
	Bell        bool             `json:"bell"`
}

// ControllerConfig configures the PID controller. Lengths are in world units (the 1400x800 demo
// window).
type ControllerConfig struct {
	Kp              float64 `json:"kp"`
	Ki              float64 `json:"ki"`
	Kd              float64 `json:"kd"`
	ErrorMargin     float64 `json:"error_margin"`
	LowerBound      float64 `json:"lower_bound"`
	InitialPosition float64 `json:"initial_position"`
	TargetOffset    float64 `json:"target_offset"`
}

// Default returns the configuration the demo runs with when no file is given.
func Default() *Config {
	ctrl := control.DefaultControllerConfig()
	return &Config{
		Frequency:   control.DefaultFrequency,
		HistorySize: control.DefaultHistorySize,
		Controller: ControllerConfig{
			Kp:              ctrl.Gains.Kp,
			Ki:              ctrl.Gains.Ki,
			Kd:              ctrl.Gains.Kd,
			ErrorMargin:     ctrl.ErrorMargin,
			LowerBound:      ctrl.LowerBound,
			InitialPosition: ctrl.InitialPosition,
			TargetOffset:    ctrl.TargetOffset,
		},
		LogFile: DefaultLogFile,
	}
}

// Validate returns an error describing the first invalid field.
func (c *Config) Validate() error {
	if c.Frequency <= 0 || c.Frequency > 200 {
		return errors.Errorf("frequency must be in (0, 200] Hz, got %v", c.Frequency)
	}
	if c.HistorySize < 1 {
		return errors.Errorf("history_size must be at least 1, got %d", c.HistorySize)
	}
	return c.Controller.Validate()
}

// Validate checks the controller section. Gains are not checked: a diverging controller is the
// user's business.
func (c ControllerConfig) Validate() error {
	if c.ErrorMargin < 0 {
		return errors.Errorf("controller.error_margin must not be negative, got %v", c.ErrorMargin)
	}
	if c.TargetOffset < 0 {
		return errors.Errorf("controller.target_offset must not be negative, got %v", c.TargetOffset)
	}
	return nil
}

// Gains returns the configured PID gains.
func (c ControllerConfig) Gains() control.Gains {
	return control.Gains{Kp: c.Kp, Ki: c.Ki, Kd: c.Kd}
}

// ControlConfig converts the section into the controller's own config.
func (c ControllerConfig) ControlConfig() control.ControllerConfig {
	return control.ControllerConfig{
		Gains:           c.Gains(),
		ErrorMargin:     c.ErrorMargin,
		LowerBound:      c.LowerBound,
		InitialPosition: c.InitialPosition,
		TargetOffset:    c.TargetOffset,
	}
}

// LoopConfig returns the frame loop config.
func (c *Config) LoopConfig() control.LoopConfig {
	return control.LoopConfig{Frequency: c.Frequency}
}
