// Package control implements the PID controller driving the demo ball, the sliding sample
// history used for plotting and the single-threaded frame loop tying them together.
package control

import "math"

const (
	// DefaultLowerBound is the left edge of the controllable region in world coordinates.
	DefaultLowerBound = 600.0
	// DefaultErrorMargin is the dead-band inside which no correction is applied.
	DefaultErrorMargin = 0.1
	// DefaultInitialPosition is the middle of the 1400 unit wide demo window.
	DefaultInitialPosition = 700.0
)

// Gains are the proportional, integral and derivative coefficients of a PID controller.
type Gains struct {
	Kp float64 `json:"kp" yaml:"kp"`
	Ki float64 `json:"ki" yaml:"ki"`
	Kd float64 `json:"kd" yaml:"kd"`
}

// DefaultGains returns the gains the demo starts with.
func DefaultGains() Gains {
	return Gains{Kp: 0.2, Ki: 0.01, Kd: 0.01}
}

// ControllerConfig describes the initial state of a Controller. It is used as given, start from
// DefaultControllerConfig to get the demo defaults.
type ControllerConfig struct {
	Gains           Gains
	ErrorMargin     float64
	LowerBound      float64
	InitialPosition float64
	// TargetOffset is subtracted from every requested target, so a click at the center of the
	// sprite targets its left edge.
	TargetOffset float64
}

// DefaultControllerConfig returns the demo defaults, starting at rest in the middle of the window.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		Gains:           DefaultGains(),
		ErrorMargin:     DefaultErrorMargin,
		LowerBound:      DefaultLowerBound,
		InitialPosition: DefaultInitialPosition,
	}
}

// Controller is a discrete PID controller over a single horizontal position. It is not safe for
// concurrent use; the frame loop owns it.
type Controller struct {
	gains        Gains
	errorMargin  float64
	lowerBound   float64
	targetOffset float64

	position float64
	target   float64

	integral  float64
	prevError float64
}

// NewController returns a controller at rest: its target is its initial position.
func NewController(cfg ControllerConfig) *Controller {
	return &Controller{
		gains:        cfg.Gains,
		errorMargin:  cfg.ErrorMargin,
		lowerBound:   cfg.LowerBound,
		targetOffset: cfg.TargetOffset,
		position:     cfg.InitialPosition,
		target:       cfg.InitialPosition,
	}
}

// SetTarget moves the setpoint to x minus the target offset, never left of the lower bound.
func (c *Controller) SetTarget(x float64) {
	c.target = math.Max(x-c.targetOffset, c.lowerBound)
}

// Step advances the controller by one frame and returns the change in position.
//
// The integral is never clamped and keeps accumulating inside the dead-band. The position is
// clamped to the lower bound on every step, whether or not a correction was applied.
func (c *Controller) Step() float64 {
	before := c.position

	err := c.target - c.position
	c.integral += err
	derivative := err - c.prevError
	output := c.gains.Kp*err + c.gains.Ki*c.integral + c.gains.Kd*derivative
	c.prevError = err

	if math.Abs(err) > c.errorMargin {
		c.position += output
	}
	if c.position < c.lowerBound {
		c.position = c.lowerBound
	}
	return c.position - before
}

// SetCoefficients replaces all three gains. The integral and previous error are kept, so a gain
// change mid-flight produces a transient.
func (c *Controller) SetCoefficients(kp, ki, kd float64) {
	c.gains = Gains{Kp: kp, Ki: ki, Kd: kd}
}

// ApplyGains sets the gains carried by a successful parse result and reports whether it did.
// A failed result leaves the gains unchanged.
func (c *Controller) ApplyGains(res GainsResult) bool {
	if !res.OK() {
		return false
	}
	c.SetCoefficients(res.Gains.Kp, res.Gains.Ki, res.Gains.Kd)
	return true
}

// Position returns the current position.
func (c *Controller) Position() float64 {
	return c.position
}

// Target returns the current setpoint.
func (c *Controller) Target() float64 {
	return c.target
}

// Gains returns the current gains.
func (c *Controller) Gains() Gains {
	return c.gains
}

// Integral returns the accumulated error.
func (c *Controller) Integral() float64 {
	return c.integral
}

// PreviousError returns the error seen by the last Step.
func (c *Controller) PreviousError() float64 {
	return c.prevError
}

// ErrorMargin returns the dead-band width.
func (c *Controller) ErrorMargin() float64 {
	return c.errorMargin
}

// LowerBound returns the left edge of the controllable region.
func (c *Controller) LowerBound() float64 {
	return c.lowerBound
}
