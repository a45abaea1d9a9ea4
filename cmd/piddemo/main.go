// Package main is the piddemo command: an interactive PID demo in the terminal and a headless
// simulation of the same controller.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"go.viam.com/utils"

	"go.viam.com/piddemo/config"
	"go.viam.com/piddemo/control"
	"go.viam.com/piddemo/figure"
	"go.viam.com/piddemo/logging"
	"go.viam.com/piddemo/ui"
)

const (
	// Flags.
	flagConfig = "config"
	flagDebug  = "debug"
	flagTarget = "target"
	flagSteps  = "steps"
	flagPlot   = "plot"
)

var logger = logging.NewLogger("piddemo")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	return newApp(logger).RunContext(ctx, args)
}

func newApp(logger logging.Logger) *cli.App {
	return &cli.App{
		Name:  "piddemo",
		Usage: "drive a ball to a target with a PID controller",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE` (.json, .yaml or .yml)",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger.SetLevel(zapcore.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "run the interactive demo in the terminal",
				Action: runAction,
			},
			{
				Name:      "simulate",
				Usage:     "step the controller headless and summarize the trajectory",
				UsageText: fmt.Sprintf("piddemo simulate [--%s X] [--%s N] [--%s FILE]", flagTarget, flagSteps, flagPlot),
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  flagTarget,
						Value: 900,
						Usage: "target position in world units",
					},
					&cli.IntFlag{
						Name:  flagSteps,
						Value: 600,
						Usage: "number of frames to simulate",
					},
					&cli.StringFlag{
						Name:  flagPlot,
						Usage: "write the position plot to `FILE` (.png, .jpg or .tif)",
					},
				},
				Action: func(c *cli.Context) error {
					return simulateAction(c, logger)
				},
			},
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String(flagConfig); path != "" {
		return config.Read(path)
	}
	return config.Default(), nil
}

func runAction(c *cli.Context) (err error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// the terminal belongs to the UI, so logs go to a file
	logger := logging.NewFileLogger("piddemo", cfg.LogFile, c.Bool(flagDebug))
	defer func() {
		err = multierr.Combine(err, ignoreSyncErr(logger.Sync()))
	}()

	ctrl := control.NewController(cfg.Controller.ControlConfig())
	loop, err := control.NewLoop(logger.Sublogger("loop"), cfg.LoopConfig(), ctrl, control.NewSampleBuffer(cfg.HistorySize))
	if err != nil {
		return err
	}

	uiCfg := ui.DefaultConfig()
	uiCfg.Bell = cfg.Bell
	term, err := ui.New(logger.Sublogger("ui"), uiCfg, ctrl.Gains())
	if err != nil {
		return err
	}
	defer term.Close()

	ctx, cancel := context.WithCancel(c.Context)
	var activeWorkers sync.WaitGroup
	if cfg.ConfigFilePath != "" {
		watcherLogger := logger.Sublogger("config")
		activeWorkers.Add(1)
		utils.ManagedGo(func() {
			if err := config.Watch(ctx, watcherLogger, cfg.ConfigFilePath, func(newCfg *config.Config) {
				term.Post(control.GainsInput{Result: control.GainsResult{Gains: newCfg.Controller.Gains()}})
			}); err != nil {
				watcherLogger.Warnw("config watcher stopped", "error", err)
			}
		}, activeWorkers.Done)
	}

	err = loop.Run(ctx, term, term)
	cancel()
	activeWorkers.Wait()
	return utils.FilterOutError(err, context.Canceled)
}

// ignoreSyncErr drops the error zap reports when syncing a terminal or pipe.
func ignoreSyncErr(err error) error {
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

func simulateAction(c *cli.Context, logger logging.Logger) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	steps := c.Int(flagSteps)
	if steps < 1 {
		return errors.Errorf("--%s must be at least 1, got %d", flagSteps, steps)
	}

	clk := clock.NewMock()
	ctrl := control.NewController(cfg.Controller.ControlConfig())
	loop, err := control.NewLoop(
		logger.Sublogger("loop"),
		cfg.LoopConfig(),
		ctrl,
		control.NewSampleBuffer(max(steps, cfg.HistorySize)),
		control.WithClock(clk),
	)
	if err != nil {
		return err
	}

	// the controller subtracts the target offset from clicks, so the click lands that far past
	// the requested target
	inputs := []control.Input{control.TargetInput{X: c.Float64(flagTarget) + cfg.Controller.TargetOffset}}
	var f control.Frame
	for i := 0; i < steps; i++ {
		clk.Add(loop.Period())
		f, _ = loop.Tick(inputs)
		inputs = nil
	}

	printSummary(c.App.Writer, f, ctrl.ErrorMargin())

	if path := c.String(flagPlot); path != "" {
		if err := writePlot(path, f); err != nil {
			return err
		}
		infof(c.App.Writer, "wrote %s", path)
	}
	return nil
}

func printSummary(w io.Writer, f control.Frame, margin float64) {
	if f.Summary.SettledAt >= 0 {
		infof(w, "settled at %.2fs on target %.1f (margin %g)", f.Summary.SettledAt, f.Target, margin)
	} else {
		warningf(w, "did not settle on target %.1f after %.2fs (margin %g)", f.Target, f.Elapsed, margin)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"Frames", "Position", "Final Error", "Mean", "Std Dev", "Min", "Max"})
	t.AppendRow(table.Row{
		f.Tick,
		fmt.Sprintf("%.3f", f.Position),
		fmt.Sprintf("%.3f", f.Summary.FinalError),
		fmt.Sprintf("%.3f", f.Summary.Mean),
		fmt.Sprintf("%.3f", f.Summary.StdDev),
		fmt.Sprintf("%.3f", f.Summary.Min),
		fmt.Sprintf("%.3f", f.Summary.Max),
	})
	printf(w, "%s", t.Render())
}

// writePlot renders the figure in memory first so a failed render leaves no file behind.
func writePlot(path string, f control.Frame) error {
	figCfg := figure.DefaultFigureConfig()
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext != "" {
		figCfg.Format = ext
	}
	var buf bytes.Buffer
	if err := figure.Write(&buf, f.Samples, f.Target, figCfg); err != nil {
		return err
	}
	//nolint:gosec
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "cannot write plot file")
	}
	return nil
}

// printf prints a message with no decoration.
func printf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, format+"\n", a...)
}

// infof prints a message prefixed with a bold cyan "Info: ".
func infof(w io.Writer, format string, a ...interface{}) {
	color.New(color.Bold, color.FgCyan).Fprint(w, "Info: ")
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: ")
	fmt.Fprintf(w, format+"\n", a...)
}
