package logging

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	*zap.SugaredLogger
	name  string
	level zap.AtomicLevel

	appenders []zapcore.Core
}

func newImpl(name string, level zap.AtomicLevel, appenders ...zapcore.Core) *impl {
	var core zapcore.Core
	switch len(appenders) {
	case 0:
		core = zapcore.NewNopCore()
	case 1:
		core = appenders[0]
	default:
		core = zapcore.NewTee(appenders...)
	}
	sugar := zap.New(core, zap.AddCaller()).Sugar()
	if name != "" {
		sugar = sugar.Named(name)
	}
	return &impl{
		SugaredLogger: sugar,
		name:          name,
		level:         level,
		appenders:     appenders,
	}
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = imp.name + "." + subname
	}
	return &impl{
		SugaredLogger: imp.SugaredLogger.Named(subname),
		name:          newName,
		level:         imp.level,
		appenders:     imp.appenders,
	}
}

func (imp *impl) SetLevel(level zapcore.Level) {
	imp.level.SetLevel(level)
}

func (imp *impl) Level() zapcore.Level {
	return imp.level.Level()
}

func (imp *impl) Sync() error {
	var errs error
	for _, appender := range imp.appenders {
		errs = multierr.Append(errs, appender.Sync())
	}
	return errs
}
