//go:build unit || !integration

package logger

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogging(t *testing.T) {
	oldLogger := log.Logger
	oldContextLogger := zerolog.DefaultContextLogger
	oldLevel := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.DefaultContextLogger = oldContextLogger
		zerolog.SetGlobalLevel(oldLevel)
	})
}

func TestConfigureLogging(t *testing.T) {
	restoreLogging(t)

	var logging strings.Builder
	configureLogging(LogModeDefault, zerolog.InfoLevel, func(w *zerolog.ConsoleWriter) {
		w.Out = &logging
		w.NoColor = true
	})

	log.Ctx(context.Background()).Error().Stack().Err(errors.New("testing error logging")).Msg("testing message")
	log.Debug().Msg("hidden debug message")

	actual := logging.String()
	t.Log(actual)

	assert.Contains(t, actual, "testing message", "Log statement doesn't contain the log message")
	assert.Contains(t, actual, `error="testing error logging"`, "Log statement doesn't contain the logged error")
	assert.Contains(t, actual, "logger/logger_test.go", "Log statement doesn't contain the caller")
	assert.Contains(t, actual, "stack:", "Log statement didn't include the error's stacktrace")
	assert.NotContains(t, actual, "hidden debug message", "Debug line was written at info level")
}

func TestContextWithIdentityLogger(t *testing.T) {
	restoreLogging(t)

	var logging strings.Builder
	configureLogging(LogModeDefault, zerolog.DebugLevel, func(w *zerolog.ConsoleWriter) {
		w.Out = &logging
		w.NoColor = true
	})

	ctx := ContextWithIdentityLogger(context.Background(), "0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1")
	log.Ctx(ctx).Debug().Msg("sealed")

	assert.Contains(t, logging.String(), "[Identity:0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1]")
}

func TestParseLogMode(t *testing.T) {
	for input, expected := range map[string]LogMode{
		"":         LogModeDefault,
		"default":  LogModeDefault,
		"JSON":     LogModeJSON,
		"combined": LogModeCombined,
		" quiet ":  LogModeQuiet,
	} {
		mode, err := ParseLogMode(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, mode, input)
	}

	_, err := ParseLogMode("event")
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	for input, expected := range map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"trace": zerolog.TraceLevel,
		"DEBUG": zerolog.DebugLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	} {
		level, err := ParseLogLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, level, input)
	}

	_, err := ParseLogLevel("loud")
	assert.Error(t, err)
}
