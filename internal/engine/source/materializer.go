// Package source unpacks the pinned source archive into the output directory.
package source

import (
	"context"
	"fmt"
	"path/filepath"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Option configures a single Materialize call.
type Option func(*options)

type options struct {
	digest string
}

// WithDigest verifies the archive against digest before extracting.
func WithDigest(digest string) Option {
	return func(o *options) {
		o.digest = digest
	}
}

// Materializer extracts archives and checks their layout.
type Materializer struct {
	extractor ports.Extractor
	verifier  ports.Verifier
	logger    ports.Logger
}

// NewMaterializer creates a new Materializer.
func NewMaterializer(extractor ports.Extractor, verifier ports.Verifier, logger ports.Logger) *Materializer {
	return &Materializer{extractor: extractor, verifier: verifier, logger: logger}
}

// Materialize extracts archivePath into destDir, keeping the archive's own top-level
// directory, and returns destDir/expectedDir once it is confirmed to be a directory.
func (m *Materializer) Materialize(
	ctx context.Context,
	archivePath, destDir, expectedDir string,
	opts ...Option,
) (string, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.digest != "" {
		if err := m.extractor.VerifyDigest(archivePath, o.digest); err != nil {
			return "", err
		}
	}

	if err := m.extractor.Extract(ctx, archivePath, destDir); err != nil {
		return "", err
	}

	workDir := filepath.Join(destDir, expectedDir)
	ok, err := m.verifier.IsDir(workDir)
	if err != nil {
		return "", err
	}
	if !ok {
		err := zerr.Wrap(domain.ErrArchiveLayout, "extracted archive does not contain the expected directory")
		err = zerr.With(err, "expected", workDir)
		return "", zerr.With(err, "archive", archivePath)
	}

	m.logger.Info(fmt.Sprintf("source ready at %s", workDir))
	return workDir, nil
}
