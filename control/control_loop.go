package control

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/piddemo/logging"
)

const (
	// DefaultFrequency is the frame rate of the demo loop in Hz.
	DefaultFrequency = 60.0
	maxFrequency     = 200.0
)

// Input is something the frame loop applies before stepping: a new target, new gains or a
// request to quit.
type Input interface {
	isInput()
}

// TargetInput is a click at world position (X, Y). Only X is used.
type TargetInput struct {
	X, Y float64
}

// GainsInput carries the result of parsing the gain fields.
type GainsInput struct {
	Result GainsResult
}

// QuitInput stops the loop.
type QuitInput struct{}

func (TargetInput) isInput() {}
func (GainsInput) isInput()  {}
func (QuitInput) isInput()   {}

// InputSource returns the inputs gathered since the previous call without blocking.
type InputSource interface {
	Poll() []Input
}

// Renderer draws a frame.
type Renderer interface {
	Render(ctx context.Context, f Frame) error
}

// Frame is what the loop hands to a Renderer after each step.
type Frame struct {
	Tick     int
	Elapsed  float64
	Position float64
	Target   float64
	Gains    Gains
	Samples  []Sample
	Summary  Summary
}

// LoopConfig holds the loop config.
type LoopConfig struct {
	Frequency float64
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithClock makes the loop read time and build its ticker from clk.
func WithClock(clk clock.Clock) LoopOption {
	return func(l *Loop) {
		l.clk = clk
	}
}

// Loop runs the controller one step per frame: apply inputs, step, record the position and
// render. Everything happens on the goroutine calling Tick or Run.
type Loop struct {
	cfg     LoopConfig
	ctrl    *Controller
	history *SampleBuffer
	logger  logging.Logger
	clk     clock.Clock
	dt      time.Duration
	start   time.Time
	tick    int
}

// NewLoop construct a new frame loop around a controller and its sample history.
func NewLoop(logger logging.Logger, cfg LoopConfig, ctrl *Controller, history *SampleBuffer, opts ...LoopOption) (*Loop, error) {
	if cfg.Frequency <= 0.0 || cfg.Frequency > maxFrequency {
		return nil, errors.Errorf("loop frequency shouldn't be 0 or above %.0fHz, got %v", maxFrequency, cfg.Frequency)
	}
	if ctrl == nil || history == nil {
		return nil, errors.New("loop needs a controller and a sample history")
	}
	l := &Loop{
		cfg:     cfg,
		ctrl:    ctrl,
		history: history,
		logger:  logger,
		clk:     clock.New(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.dt = time.Duration(float64(time.Second) * (1.0 / cfg.Frequency))
	l.start = l.clk.Now()
	return l, nil
}

// Tick runs a single frame with the given inputs. It returns false, without stepping, when one of
// the inputs is a QuitInput.
func (l *Loop) Tick(inputs []Input) (Frame, bool) {
	for _, in := range inputs {
		switch v := in.(type) {
		case QuitInput:
			l.logger.Debug("quit requested")
			return l.frame(l.clk.Since(l.start).Seconds()), false
		case TargetInput:
			l.ctrl.SetTarget(v.X)
			l.logger.Debugw("new target", "x", v.X, "y", v.Y, "target", l.ctrl.Target())
		case GainsInput:
			if !l.ctrl.ApplyGains(v.Result) {
				l.logger.Debugw("ignoring gains", "error", v.Result.Err)
				continue
			}
			g := l.ctrl.Gains()
			l.logger.Infow("gains updated", "kp", g.Kp, "ki", g.Ki, "kd", g.Kd)
		}
	}

	l.ctrl.Step()
	elapsed := l.clk.Since(l.start).Seconds()
	l.history.Push(elapsed, l.ctrl.Position())
	l.tick++
	return l.frame(elapsed), true
}

func (l *Loop) frame(elapsed float64) Frame {
	samples := l.history.Snapshot()
	return Frame{
		Tick:     l.tick,
		Elapsed:  elapsed,
		Position: l.ctrl.Position(),
		Target:   l.ctrl.Target(),
		Gains:    l.ctrl.Gains(),
		Samples:  samples,
		Summary:  Summarize(samples, l.ctrl.Target(), l.ctrl.ErrorMargin()),
	}
}

// Run ticks the loop at its frequency until the context is done, a QuitInput arrives or the
// renderer fails. Quitting returns nil.
func (l *Loop) Run(ctx context.Context, src InputSource, sink Renderer) error {
	l.logger.Infof("running loop at %1.1fHz (%v per frame)", l.cfg.Frequency, l.dt)
	ticker := l.clk.Ticker(l.dt)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		f, ok := l.Tick(src.Poll())
		if !ok {
			return nil
		}
		if err := sink.Render(ctx, f); err != nil {
			return errors.Wrapf(err, "rendering frame %d", f.Tick)
		}
	}
}

// Period returns the time between two frames.
func (l *Loop) Period() time.Duration {
	return l.dt
}

// Controller returns the controller driven by the loop.
func (l *Loop) Controller() *Controller {
	return l.ctrl
}

// History returns the sample history filled by the loop.
func (l *Loop) History() *SampleBuffer {
	return l.history
}
