// Package bindgen drives an external header-to-binding generator.
package bindgen

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

var _ ports.BindingGenerator = (*Generator)(nil)

const (
	wrapperName = "wrapper.h"
	outputName  = "bindings.out"
)

// Generator implements ports.BindingGenerator on top of a process executor.
type Generator struct {
	executor ports.Executor
	logger   ports.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(executor ports.Executor, logger ports.Logger) *Generator {
	return &Generator{executor: executor, logger: logger}
}

// Generate writes a wrapper header including every requested header, runs the generator into
// a temporary file next to outputPath and renames it into place on success.
// A failed run leaves any previous output untouched.
func (g *Generator) Generate(
	ctx context.Context,
	req domain.BindingRequest,
	outputPath string,
) (domain.ProcessResult, error) {
	outDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outDir, domain.DirPerm); err != nil {
		return domain.ProcessResult{}, zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", outDir)
	}

	tmpDir, err := os.MkdirTemp(outDir, ".bindgen-*")
	if err != nil {
		return domain.ProcessResult{}, zerr.With(zerr.Wrap(err, "failed to create temp directory"), "path", outDir)
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck // best-effort cleanup

	wrapper := filepath.Join(tmpDir, wrapperName)
	if err := os.WriteFile(wrapper, []byte(WrapperHeader(req.Headers)), domain.FilePerm); err != nil {
		return domain.ProcessResult{}, zerr.With(zerr.Wrap(err, "failed to write wrapper header"), "path", wrapper)
	}

	tmpOut := filepath.Join(tmpDir, outputName)
	cmd := Command(req, wrapper, tmpOut)
	cmd.Dir = outDir

	g.logger.Info(fmt.Sprintf("generating bindings for %d headers", len(req.Headers)))

	res, err := g.executor.Run(ctx, cmd)
	if err != nil || !res.Success() {
		return res, err
	}

	if _, err := os.Stat(tmpOut); err != nil {
		return res, zerr.With(zerr.Wrap(err, "generator produced no output"), "command", cmd.Name)
	}
	if err := os.Rename(tmpOut, outputPath); err != nil {
		return res, zerr.With(zerr.Wrap(err, "failed to move bindings into place"), "path", outputPath)
	}
	return res, nil
}

// WrapperHeader renders the umbrella header that includes every header in order.
func WrapperHeader(headers []string) string {
	var b strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&b, "#include \"%s\"\n", h)
	}
	return b.String()
}

// Command assembles the generator command line.
func Command(req domain.BindingRequest, wrapper, output string) domain.Command {
	name := req.Generator.Command
	if name == "" {
		name = domain.DefaultGenerator
	}

	args := []string{wrapper, "--output", output}
	if !req.LayoutTests {
		args = append(args, "--no-layout-tests")
	}
	if req.Deterministic {
		args = append(args, "--formatter", "prettyplease", "--sort-semantically")
	}
	for _, item := range req.Denylist {
		args = append(args, "--blocklist-item", item)
	}
	args = append(args, req.Generator.Args...)
	args = append(args, "--", "-I"+req.IncludeRoot)

	return domain.Command{Name: name, Args: args}
}
