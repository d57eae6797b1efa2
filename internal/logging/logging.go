package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mgpai22/moodboard/internal/events"
)

// Logger wraps a sugared zap logger used by the CLI.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a console logger on stderr. Verbose enables debug
// output and caller information.
func NewLogger(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	if shouldColorize(os.Stderr) {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)

	var opts []zap.Option
	if verbose {
		opts = append(opts, zap.AddCaller())
	}

	return &Logger{zap.New(core, opts...).Sugar()}
}

// New wraps an existing zap logger, e.g. zap.NewNop() in tests.
func New(l *zap.Logger) *Logger {
	return &Logger{l.Sugar()}
}

func shouldColorize(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// EventSink forwards pipeline events to the logger. Progress events are
// logged at debug level so a normal run only shows stage boundaries and
// warnings.
func EventSink(l *Logger) events.Sink {
	return events.SinkFunc(func(e events.Event) {
		kv := make([]any, 0, 2+2*len(e.Fields))
		kv = append(kv, "stage", string(e.Stage))
		for k, v := range e.Fields {
			kv = append(kv, k, v)
		}

		switch e.Kind {
		case events.KindProgress:
			l.Debugw(e.Message, kv...)
		case events.KindWarning:
			l.Warnw(e.Message, kv...)
		case events.KindError:
			l.Errorw(e.Message, kv...)
		default:
			l.Infow(e.Message, kv...)
		}
	})
}
