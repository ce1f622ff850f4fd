package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// LogMode selects where and how log lines are written.
type LogMode string

const (
	// LogModeDefault writes human readable lines to stderr.
	LogModeDefault LogMode = "default"
	// LogModeJSON writes JSON lines to stdout.
	LogModeJSON LogMode = "json"
	// LogModeCombined writes both.
	LogModeCombined LogMode = "combined"
	// LogModeQuiet discards every line.
	LogModeQuiet LogMode = "quiet"
)

var stderr = struct{ io.Writer }{os.Stderr}

const identityFieldName = "Identity"

func init() { //nolint:gochecknoinits // init with zerolog is idiomatic
	mode, err := ParseLogMode(os.Getenv("LOG_TYPE"))
	if err != nil {
		mode = LogModeDefault
	}
	level, err := ParseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	configureLogging(mode, level)
}

// ParseLogMode returns the LogMode named by s. An empty string is LogModeDefault.
func ParseLogMode(s string) (LogMode, error) {
	switch mode := LogMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "", LogModeDefault:
		return LogModeDefault, nil
	case LogModeJSON, LogModeCombined, LogModeQuiet:
		return mode, nil
	default:
		return LogModeDefault, errors.Errorf("unknown log mode %q, expected one of %s, %s, %s, %s",
			s, LogModeDefault, LogModeJSON, LogModeCombined, LogModeQuiet)
	}
}

// ParseLogLevel returns the zerolog level named by s. An empty string is info.
func ParseLogLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, errors.Wrapf(err, "invalid log level %q", s)
	}
	return level, nil
}

// ConfigureLogging replaces the global logger.
func ConfigureLogging(mode LogMode, level zerolog.Level) {
	configureLogging(mode, level)
}

type tTesting interface {
	Log(args ...interface{})
	Logf(format string, args ...interface{})
	Helper()
	Cleanup(f func())
}

// ConfigureTestLogging allows logs to be associated with individual tests
func ConfigureTestLogging(t tTesting) {
	oldLogger := log.Logger
	oldContextLogger := zerolog.DefaultContextLogger
	oldLevel := zerolog.GlobalLevel()
	configureLogging(LogModeDefault, zerolog.DebugLevel, zerolog.ConsoleTestWriter(t))
	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.DefaultContextLogger = oldContextLogger
		zerolog.SetGlobalLevel(oldLevel)
	})
}

func configureLogging(mode LogMode, level zerolog.Level, loggingOptions ...func(w *zerolog.ConsoleWriter)) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd())

	defaultLogging := func(w *zerolog.ConsoleWriter) {
		w.Out = stderr
		w.NoColor = !isTerminal
		w.TimeFormat = "15:04:05.999 |"
		w.PartsOrder = []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		}
		w.FormatFieldName = func(i interface{}) string {
			return fmt.Sprintf("[%s:", i)
		}
		w.FormatFieldValue = func(i interface{}) string {
			if i == nil {
				i = ""
			}
			return fmt.Sprintf("%s]", i)
		}
	}

	loggingOptions = append([]func(w *zerolog.ConsoleWriter){defaultLogging}, loggingOptions...)
	textWriter := zerolog.NewConsoleWriter(loggingOptions...)

	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return shortCaller(file) + ":" + strconv.Itoa(line)
	}

	var useLogWriter io.Writer
	switch mode {
	case LogModeJSON:
		useLogWriter = os.Stdout
	case LogModeCombined:
		useLogWriter = zerolog.MultiLevelWriter(textWriter, os.Stdout)
	case LogModeQuiet:
		useLogWriter = io.Discard
	default:
		useLogWriter = textWriter
	}

	log.Logger = zerolog.New(useLogWriter).With().Timestamp().Caller().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

// shortCaller keeps the last two path elements of file.
func shortCaller(file string) string {
	const separatorCount = 2
	countedSeparators := 0
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			countedSeparators++
			if countedSeparators >= separatorCount {
				return file[i+1:]
			}
		}
	}
	return file
}

// ContextWithIdentityLogger returns a context whose logger tags every line with
// the address the process signs as.
func ContextWithIdentityLogger(ctx context.Context, identity string) context.Context {
	l := log.With().Str(identityFieldName, identity).Logger()
	return l.WithContext(ctx)
}
