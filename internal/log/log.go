package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

type Level int

const (
	LevelInfo Level = iota
	LevelDebug
)

type Logger struct {
	level Level
	zl    zerolog.Logger
}

// New writes human readable lines to out (stdout when nil). Colors are only
// used when out is a terminal.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	cw := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !isTerminal(out),
		TimeFormat: time.DateTime,
	}
	zl := zerolog.New(cw).With().Timestamp().Logger().Level(zerologLevel(level))
	return &Logger{level: level, zl: zl}
}

func zerologLevel(level Level) zerolog.Level {
	if level >= LevelDebug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (l *Logger) Infof(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

// With returns a child logger that tags every line with key=value. A nil
// logger stays nil.
func (l *Logger) With(key, value string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{level: l.level, zl: l.zl.With().Str(key, value).Logger()}
}

func (l *Logger) Level() Level {
	return l.level
}
