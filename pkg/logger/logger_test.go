package logger

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestInitLogger(t *testing.T) {
	oldStdout := os.Stdout
	oldGlobalLevel := zerolog.GlobalLevel()
	defer func() {
		os.Stdout = oldStdout
		zerolog.SetGlobalLevel(oldGlobalLevel)
	}()

	tests := []struct {
		name          string
		logLevel      string
		expectedLevel zerolog.Level
		expectOutput  bool // whether the initialization message should be visible
	}{
		{"Debug Level", "debug", zerolog.DebugLevel, true},
		{"Info Level", "info", zerolog.InfoLevel, true},
		{"Warn Level", "warn", zerolog.WarnLevel, false},
		{"Error Level", "error", zerolog.ErrorLevel, false},
		{"Fatal Level", "fatal", zerolog.FatalLevel, false},
		{"Panic Level", "panic", zerolog.PanicLevel, false},
		{"Default Level (unknown)", "unknown", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zerolog.SetGlobalLevel(zerolog.Disabled)

			r, w, _ := os.Pipe()
			os.Stdout = w

			InitLogger(tt.logLevel)
			assert.Equal(t, tt.expectedLevel, zerolog.GlobalLevel())

			w.Close()
			out, _ := io.ReadAll(r)
			r.Close()

			logOutput := string(out)
			if tt.expectOutput {
				assert.True(t, strings.Contains(logOutput, "Logger initialized with level:"), "expected initialization message in logs")
				assert.True(t, strings.Contains(logOutput, tt.expectedLevel.String()), "expected log level in initialization message")
			} else {
				assert.False(t, strings.Contains(logOutput, "Logger initialized with level:"), "did not expect initialization message in logs")
			}
		})
	}
}

func TestComponent(t *testing.T) {
	oldLogger := log.Logger
	oldGlobalLevel := zerolog.GlobalLevel()
	defer func() {
		log.Logger = oldLogger
		zerolog.SetGlobalLevel(oldGlobalLevel)
	}()

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	engineLogger := Component("engine")
	engineLogger.Info().Msg("cycle complete")

	out := buf.String()
	assert.Contains(t, out, `"component":"engine"`)
	assert.Contains(t, out, "cycle complete")
}
