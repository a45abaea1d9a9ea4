package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/piddemo/control"
	"go.viam.com/piddemo/logging"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	test.That(t, cfg.Validate(), test.ShouldBeNil)
	test.That(t, cfg.Frequency, test.ShouldEqual, control.DefaultFrequency)
	test.That(t, cfg.HistorySize, test.ShouldEqual, control.DefaultHistorySize)
	test.That(t, cfg.Controller.Gains(), test.ShouldResemble, control.DefaultGains())
	test.That(t, cfg.Controller.ErrorMargin, test.ShouldEqual, control.DefaultErrorMargin)
	test.That(t, cfg.Controller.LowerBound, test.ShouldEqual, control.DefaultLowerBound)
	test.That(t, cfg.LoopConfig(), test.ShouldResemble, control.LoopConfig{Frequency: control.DefaultFrequency})
	// the file defaults and the controller defaults start the ball at the same place
	test.That(t, cfg.Controller.ControlConfig(), test.ShouldResemble, control.DefaultControllerConfig())
	test.That(t, cfg.Controller.InitialPosition, test.ShouldEqual, control.DefaultInitialPosition)
}

func TestReadJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "demo.json", `{
		"frequency": 30,
		"history_size": 50,
		"controller": {"kp": 0.5, "kd": 0.05, "target_offset": 16},
		"bell": true
	}`)
	yamlPath := writeFile(t, dir, "demo.yaml", `
frequency: 30
history_size: 50
controller:
  kp: 0.5
  kd: 0.05
  target_offset: 16
bell: true
`)

	fromJSON, err := Read(jsonPath)
	test.That(t, err, test.ShouldBeNil)
	fromYAML, err := Read(yamlPath)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, fromJSON.ConfigFilePath, test.ShouldEqual, jsonPath)
	test.That(t, fromYAML.ConfigFilePath, test.ShouldEqual, yamlPath)
	fromJSON.ConfigFilePath = ""
	fromYAML.ConfigFilePath = ""
	test.That(t, fromJSON, test.ShouldResemble, fromYAML)

	test.That(t, fromJSON.Frequency, test.ShouldEqual, 30.0)
	test.That(t, fromJSON.HistorySize, test.ShouldEqual, 50)
	test.That(t, fromJSON.Bell, test.ShouldBeTrue)
	// ki was not given and keeps its default
	test.That(t, fromJSON.Controller.Gains(), test.ShouldResemble, control.Gains{Kp: 0.5, Ki: 0.01, Kd: 0.05})
	test.That(t, fromJSON.Controller.ControlConfig(), test.ShouldResemble, control.ControllerConfig{
		Gains:           control.Gains{Kp: 0.5, Ki: 0.01, Kd: 0.05},
		ErrorMargin:     control.DefaultErrorMargin,
		LowerBound:      control.DefaultLowerBound,
		InitialPosition: control.DefaultInitialPosition,
		TargetOffset:    16,
	})
}

func TestReadExpandsEnv(t *testing.T) {
	t.Setenv("PIDDEMO_TEST_LOG", "/tmp/piddemo-test.log")
	path := writeFile(t, t.TempDir(), "demo.yml", "log_file: ${PIDDEMO_TEST_LOG}\n")
	cfg, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.LogFile, test.ShouldEqual, "/tmp/piddemo-test.log")
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	for _, c := range []struct {
		name     string
		contents string
		err      string
	}{
		{"bad.json", `{"frequency": `, "failed to decode json"},
		{"bad.yaml", "frequency: [1, 2", "failed to decode yaml"},
		{"unknown.json", `{"frequencyy": 10}`, "frequencyy"},
		{"freq.json", `{"frequency": 500}`, "frequency must be in (0, 200] Hz"},
		{"history.yaml", "history_size: 0\n", "history_size must be at least 1"},
		{"margin.yaml", "controller:\n  error_margin: -1\n", "controller.error_margin must not be negative"},
		{"offset.json", `{"controller": {"target_offset": -3}}`, "controller.target_offset must not be negative"},
		{"demo.toml", `frequency = 10`, "unsupported config format"},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, err := Read(writeFile(t, dir, c.name, c.contents))
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, c.err)
		})
	}

	_, err := Read(filepath.Join(dir, "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to read config")
}

func TestWatch(t *testing.T) {
	logger := logging.NewTestLogger(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.json", `{"controller": {"kp": 0.2}}`)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan *Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, logger, path, func(cfg *Config) {
			changes <- cfg
		})
	}()

	// an unrelated file in the same directory is not reported
	writeFile(t, dir, "other.json", `{}`)

	var got *Config
	deadline := time.After(10 * time.Second)
	rewrite := time.NewTicker(50 * time.Millisecond)
	defer rewrite.Stop()
	for got == nil {
		select {
		case got = <-changes:
		case <-rewrite.C:
			writeFile(t, dir, "demo.json", `{"controller": {"kp": 0.7}}`)
		case <-deadline:
			t.Fatal("timed out waiting for config change")
		}
	}
	test.That(t, got.Controller.Kp, test.ShouldEqual, 0.7)
	test.That(t, got.ConfigFilePath, test.ShouldEqual, path)

	cancel()
	test.That(t, <-done, test.ShouldBeNil)
}
