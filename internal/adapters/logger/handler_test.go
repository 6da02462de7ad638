package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ffbuild/internal/adapters/logger"
)

func newPretty(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}))
}

func TestPrettyHandler_StageTag(t *testing.T) {
	var buf bytes.Buffer
	log := newPretty(&buf, slog.LevelInfo).With(logger.StageKey, "native-build")

	log.Warn("assembler not found", "attempt", 1)

	assert.Equal(t, "[native-build] ! assembler not found attempt=1\n", buf.String())
}

func TestPrettyHandler_RecordStageOverridesBound(t *testing.T) {
	var buf bytes.Buffer
	log := newPretty(&buf, slog.LevelInfo).With(logger.StageKey, "materialize")

	log.Info("up to date", logger.StageKey, "codegen")

	assert.Equal(t, "[codegen] up to date\n", buf.String())
}

func TestPrettyHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	log := newPretty(&buf, slog.LevelInfo).WithGroup("configure").With("attempt", 2)

	log.Error("exited", slog.Group("exit", "code", 1), logger.StageKey, "ignored-in-group")

	assert.Equal(t,
		"✗ exited configure.attempt=2 configure.exit.code=1 configure.stage=ignored-in-group\n",
		buf.String())
}

func TestPrettyHandler_QuotesValues(t *testing.T) {
	var buf bytes.Buffer
	log := newPretty(&buf, slog.LevelInfo)

	log.Info("running", "cmd", "make -j8", "empty", "")

	assert.Equal(t, `running cmd="make -j8" empty=""`+"\n", buf.String())
}

func TestPrettyHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	log := newPretty(&buf, slog.LevelWarn)

	log.Info("hidden")
	log.Warn("shown")

	assert.Equal(t, "! shown\n", buf.String())
}
