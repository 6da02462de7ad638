package native

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// ConfigureReport describes a successful configure step.
type ConfigureReport struct {
	// Attempts is 1, or 2 when the recovery flag was applied.
	Attempts int
	// Invocation is the invocation that succeeded.
	Invocation domain.ConfigureInvocation
}

// Driver runs configure with single-shot recovery, then compiles.
type Driver struct {
	toolchain ports.Toolchain
	logger    ports.Logger
	recovery  domain.RecoveryPolicy
	jobs      int
}

// NewDriver creates a new Driver using the default recovery policy and one job per CPU.
func NewDriver(toolchain ports.Toolchain, logger ports.Logger) *Driver {
	return &Driver{
		toolchain: toolchain,
		logger:    logger,
		recovery:  domain.DefaultRecoveryPolicy,
		jobs:      runtime.NumCPU(),
	}
}

// Configure runs the configure script in workDir. A recoverable failure is retried once
// with the recovery flag appended; any other failure is fatal.
func (d *Driver) Configure(
	ctx context.Context,
	workDir string,
	inv domain.ConfigureInvocation,
) (ConfigureReport, error) {
	for attempt := 0; ; attempt++ {
		res, err := d.toolchain.Configure(ctx, workDir, inv)
		if err != nil {
			return ConfigureReport{Attempts: attempt + 1}, zerr.With(
				errors.Join(domain.ErrConfigureFailed, err), "attempt", attempt+1)
		}

		outcome := d.recovery.Classify(res, attempt)
		switch outcome.Kind {
		case domain.OutcomeSuccess:
			return ConfigureReport{Attempts: attempt + 1, Invocation: inv}, nil
		case domain.OutcomeRecoverable:
			d.logger.Warn(fmt.Sprintf("configure reported %q, retrying with %s", outcome.Marker, d.recovery.Flag))
			inv = inv.WithFlag(d.recovery.Flag)
		default:
			err := zerr.Wrap(domain.ErrConfigureFailed,
				fmt.Sprintf("configure exited with status %d\n%s", res.ExitCode, res.Diagnostic()))
			err = zerr.With(err, "exit_code", res.ExitCode)
			return ConfigureReport{Attempts: attempt + 1}, zerr.With(err, "attempt", attempt+1)
		}
	}
}

// Compile runs make in workDir.
func (d *Driver) Compile(ctx context.Context, workDir string) error {
	res, err := d.toolchain.Make(ctx, domain.MakeRequest{
		Dir:      workDir,
		Makefile: "Makefile",
		Jobs:     d.jobs,
	})
	if err != nil {
		return errors.Join(domain.ErrCompilationFailed, err)
	}
	if !res.Success() {
		err := zerr.Wrap(domain.ErrCompilationFailed,
			fmt.Sprintf("make exited with status %d\n%s", res.ExitCode, res.Diagnostic()))
		return zerr.With(err, "exit_code", res.ExitCode)
	}
	return nil
}

// Build configures and compiles workDir.
func (d *Driver) Build(
	ctx context.Context,
	workDir string,
	inv domain.ConfigureInvocation,
) (ConfigureReport, error) {
	report, err := d.Configure(ctx, workDir, inv)
	if err != nil {
		return report, err
	}
	if err := d.Compile(ctx, workDir); err != nil {
		return report, err
	}
	return report, nil
}
