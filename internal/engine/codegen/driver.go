// Package codegen turns the header manifest into generated bindings.
package codegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Option configures a single GenerateBindings call.
type Option func(*domain.BindingRequest)

// WithGenerator selects the generator command and extra arguments.
func WithGenerator(cfg domain.GeneratorConfig) Option {
	return func(r *domain.BindingRequest) {
		r.Generator = cfg
	}
}

// Driver validates manifests and drives the binding generator.
type Driver struct {
	generator ports.BindingGenerator
	verifier  ports.Verifier
	logger    ports.Logger
}

// NewDriver creates a new Driver.
func NewDriver(generator ports.BindingGenerator, verifier ports.Verifier, logger ports.Logger) *Driver {
	return &Driver{generator: generator, verifier: verifier, logger: logger}
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (domain.HeaderManifest, error) {
	f, err := os.Open(path) //nolint:gosec // manifest path comes from the project file
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read header manifest"), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only file

	manifest, err := domain.ParseHeaderManifest(f)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return manifest, nil
}

// GenerateBindings resolves every manifest entry under includeRoot and runs the generator.
// All missing headers are reported together and the generator is not started.
func (d *Driver) GenerateBindings(
	ctx context.Context,
	manifest domain.HeaderManifest,
	includeRoot string,
	denylist domain.MacroDenylist,
	outputPath string,
	opts ...Option,
) error {
	headers, err := d.resolve(manifest, includeRoot)
	if err != nil {
		return err
	}

	req := domain.BindingRequest{
		Headers:       headers,
		IncludeRoot:   includeRoot,
		Denylist:      denylist.Sorted(),
		LayoutTests:   false,
		Deterministic: true,
	}
	for _, opt := range opts {
		opt(&req)
	}

	res, err := d.generator.Generate(ctx, req, outputPath)
	if err != nil {
		return zerr.With(domain.Tag(domain.ErrCodegenFailed, err), "output", outputPath)
	}
	if !res.Success() {
		err := zerr.Wrap(domain.ErrCodegenFailed,
			fmt.Sprintf("generator exited with status %d\n%s", res.ExitCode, res.Diagnostic()))
		return zerr.With(err, "exit_code", res.ExitCode)
	}

	d.logger.Info(fmt.Sprintf("bindings written to %s", outputPath))
	return nil
}

func (d *Driver) resolve(manifest domain.HeaderManifest, includeRoot string) ([]string, error) {
	headers := make([]string, 0, len(manifest))
	var missing []string

	for _, entry := range manifest {
		ok, err := d.verifier.VerifyOutputs(includeRoot, []string{entry})
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, entry)
			continue
		}
		headers = append(headers, filepath.Join(includeRoot, entry))
	}

	if len(missing) > 0 {
		err := zerr.Wrap(domain.ErrMissingHeaders,
			fmt.Sprintf("%d headers not found under %s: %s", len(missing), includeRoot, strings.Join(missing, ", ")))
		return nil, zerr.With(err, "missing", missing)
	}
	return headers, nil
}
