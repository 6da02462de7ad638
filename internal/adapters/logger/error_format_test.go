package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ffbuild/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "single standard error",
			err:          errors.New("simple error"),
			wantMessages: []string{"simple error"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name: "zerr wrapped chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("root cause"), "middle layer"),
				"outer layer",
			),
			wantMessages: []string{"outer layer", "middle layer", "root cause"},
			wantMetadata: []map[string]any{{}, {}, nil},
		},
		{
			name:         "zerr with metadata",
			err:          zerr.With(zerr.With(zerr.New("base error"), "key1", "value1"), "key2", 42),
			wantMessages: []string{"base error"},
			wantMetadata: []map[string]any{{"key1": "value1", "key2": 42}},
		},
		{
			name:         "metadata on a standard error moves to the error itself",
			err:          zerr.With(errors.New("exit status 2"), "exit_code", 2),
			wantMessages: []string{"exit status 2"},
			wantMetadata: []map[string]any{{"exit_code": 2}},
		},
		{
			name:         "nil error",
			err:          nil,
			wantMessages: nil,
			wantMetadata: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)

			var gotMessages []string
			var gotMetadata []map[string]any
			for _, e := range entries {
				gotMessages = append(gotMessages, e.Message())
				gotMetadata = append(gotMetadata, e.Metadata())
			}

			assert.Equal(t, tt.wantMessages, gotMessages)
			assert.Equal(t, tt.wantMetadata, gotMetadata)
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	entries := logger.CollectErrorEntries(
		zerr.With(zerr.Wrap(errors.New("cause"), "main"), "path", "/out"),
	)

	assert.Equal(t, "Error: main\n       path=/out\n\n  Caused by:\n    → cause", logger.FormatErrorEntries(entries))
}
