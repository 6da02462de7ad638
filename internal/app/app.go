// Package app implements the application layer for ffbuild.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.trai.ch/ffbuild/internal/adapters/linkplan" //nolint:depguard // Emitter selection is app-level
	"go.trai.ch/ffbuild/internal/adapters/shell"    //nolint:depguard // Echo is toggled per run
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/engine/native"
	"go.trai.ch/ffbuild/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// RunOptions carries the command-line switches of a run.
type RunOptions struct {
	// ProjectDir holds the optional project file. Defaults to the working directory.
	ProjectDir   string
	Force        bool
	ForceCodegen bool
	NoCodegen    bool
	Verbose      bool
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	policyReader ports.PolicyReader
	pipeline     *pipeline.Pipeline
	logger       ports.Logger
	stdout       io.Writer
}

// New creates a new App instance. Link directives are written to os.Stdout.
func New(
	loader ports.ConfigLoader,
	reader ports.PolicyReader,
	p *pipeline.Pipeline,
	logger ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		policyReader: reader,
		pipeline:     p,
		logger:       logger,
		stdout:       os.Stdout,
	}
}

// WithStdout redirects the link directive stream.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// Build runs the full pipeline.
func (a *App) Build(ctx context.Context, opts RunOptions) (pipeline.Report, error) {
	req, err := a.request(opts)
	if err != nil {
		return pipeline.Report{}, err
	}

	report, err := a.pipeline.Run(a.runContext(ctx, opts), req)
	if err != nil {
		return report, zerr.Wrap(err, "build failed")
	}

	a.logger.Info("build finished: " + summarize(report))
	return report, nil
}

// Codegen runs only the binding codegen stage.
func (a *App) Codegen(ctx context.Context, opts RunOptions) (pipeline.Report, error) {
	req, err := a.request(opts)
	if err != nil {
		return pipeline.Report{}, err
	}

	report, err := a.pipeline.Codegen(a.runContext(ctx, opts), req)
	if err != nil {
		return report, zerr.Wrap(err, "codegen failed")
	}
	return report, nil
}

// Flags resolves the configure invocation without running anything.
func (a *App) Flags(_ context.Context) (domain.ConfigureInvocation, error) {
	policy, err := a.policyReader.Read()
	if err != nil {
		return domain.ConfigureInvocation{}, err
	}
	inv, _, err := native.Assemble(policy)
	return inv, err
}

func (a *App) request(opts RunOptions) (pipeline.Request, error) {
	policy, err := a.policyReader.Read()
	if err != nil {
		return pipeline.Request{}, err
	}
	policy = policy.WithForceRebuild(opts.Force).WithForceCodegen(opts.ForceCodegen)

	dir := opts.ProjectDir
	if dir == "" {
		dir = "."
	}
	project, err := a.configLoader.Load(dir)
	if err != nil {
		return pipeline.Request{}, zerr.Wrap(err, "failed to load configuration")
	}

	emitter, err := linkplan.New(project.Link, a.stdout, a.logger)
	if err != nil {
		return pipeline.Request{}, err
	}

	return pipeline.Request{
		Policy:    policy,
		Project:   project,
		Emitter:   emitter,
		NoCodegen: opts.NoCodegen,
	}, nil
}

func (a *App) runContext(ctx context.Context, opts RunOptions) context.Context {
	if opts.Verbose {
		return shell.WithEcho(ctx)
	}
	return ctx
}

func summarize(r pipeline.Report) string {
	parts := make([]string, 0, len(pipeline.Stages))
	for _, s := range pipeline.Stages {
		parts = append(parts, fmt.Sprintf("%s=%s", s, strings.ToLower(string(r.Status(s)))))
	}
	return strings.Join(parts, " ")
}
