// Package autotools runs configure scripts and make on top of a process executor.
package autotools

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
)

var _ ports.Toolchain = (*Toolchain)(nil)

const (
	// ConfigureScript is the script name looked up inside the source tree.
	ConfigureScript = "configure"
	// DefaultMakefile is used when a request names no makefile.
	DefaultMakefile = "Makefile"
	// MakeCommand is the make executable resolved through PATH.
	MakeCommand = "make"
)

// Toolchain implements ports.Toolchain.
type Toolchain struct {
	executor ports.Executor
	logger   ports.Logger
}

// NewToolchain creates a new Toolchain.
func NewToolchain(executor ports.Executor, logger ports.Logger) *Toolchain {
	return &Toolchain{executor: executor, logger: logger}
}

// Configure runs dir/configure with the invocation's flags and environment overrides.
func (t *Toolchain) Configure(
	ctx context.Context,
	dir string,
	inv domain.ConfigureInvocation,
) (domain.ProcessResult, error) {
	cmd := ConfigureCommand(dir, inv)
	t.logger.Info(fmt.Sprintf("configuring %s", dir))
	return t.executor.Run(ctx, cmd)
}

// Make compiles the configured tree.
func (t *Toolchain) Make(ctx context.Context, req domain.MakeRequest) (domain.ProcessResult, error) {
	cmd := MakeCommandFor(req)
	t.logger.Info(fmt.Sprintf("compiling with %d jobs", req.Jobs))
	return t.executor.Run(ctx, cmd)
}

// ConfigureCommand builds the configure command line.
func ConfigureCommand(dir string, inv domain.ConfigureInvocation) domain.Command {
	return domain.Command{
		Name: filepath.Join(dir, ConfigureScript),
		Args: append([]string(nil), inv.Flags...),
		Dir:  dir,
		Env:  inv.Env,
	}
}

// MakeCommandFor builds the make command line: make -C <dir> -f <makefile> -j <jobs>.
func MakeCommandFor(req domain.MakeRequest) domain.Command {
	makefile := req.Makefile
	if makefile == "" {
		makefile = DefaultMakefile
	}

	args := []string{"-C", req.Dir, "-f", makefile}
	if req.Jobs > 0 {
		args = append(args, "-j", strconv.Itoa(req.Jobs))
	}

	return domain.Command{
		Name: MakeCommand,
		Args: args,
		Dir:  req.Dir,
	}
}
