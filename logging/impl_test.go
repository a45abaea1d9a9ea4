package logging

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Infow("new target", "x", 900.0)
	logger.Debugf("step %d", 3)

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	entries := logs.All()
	test.That(t, entries[0].Message, test.ShouldEqual, "new target")
	test.That(t, entries[0].ContextMap()["x"], test.ShouldEqual, 900.0)
	test.That(t, entries[1].Message, test.ShouldEqual, "step 3")
	test.That(t, entries[1].Level, test.ShouldEqual, zapcore.DebugLevel)
}

func TestSublogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	sub := logger.Sublogger("control").Sublogger("loop")
	sub.Info("tick")

	test.That(t, logs.Len(), test.ShouldEqual, 1)
	test.That(t, logs.All()[0].LoggerName, test.ShouldEqual, "control.loop")
}

func TestSetLevel(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.SetLevel(zapcore.WarnLevel)
	test.That(t, logger.Level(), test.ShouldEqual, zapcore.WarnLevel)

	logger.Info("dropped")
	logger.Warn("kept")
	test.That(t, logs.Len(), test.ShouldEqual, 1)
	test.That(t, logs.All()[0].Message, test.ShouldEqual, "kept")

	// subloggers share the level of their parent
	logger.Sublogger("ui").Info("dropped too")
	test.That(t, logs.Len(), test.ShouldEqual, 1)
}

func TestBlankLogger(t *testing.T) {
	logger := NewBlankLogger("blank")
	logger.Info("nowhere")
	test.That(t, logger.Sync(), test.ShouldBeNil)
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piddemo.log")
	logger := NewFileLogger("piddemo", path, false)
	logger.Debug("not written")
	logger.Infow("loop started", "hz", 60)
	test.That(t, logger.Sync(), test.ShouldBeNil)

	data, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, "loop started")
	test.That(t, string(data), test.ShouldContainSubstring, "piddemo")
	test.That(t, string(data), test.ShouldNotContainSubstring, "not written")
}
