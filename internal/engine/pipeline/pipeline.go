// Package pipeline runs the build stages in order.
package pipeline

import (
	"context"
	"fmt"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/engine/cache"
	"go.trai.ch/ffbuild/internal/engine/codegen"
	"go.trai.ch/ffbuild/internal/engine/link"
	"go.trai.ch/ffbuild/internal/engine/native"
	"go.trai.ch/ffbuild/internal/engine/source"
	"go.trai.ch/zerr"
)

// Request is the input of one pipeline run.
type Request struct {
	Policy  domain.BuildPolicy
	Project domain.Project
	Emitter ports.LinkEmitter
	// NoCodegen disables the codegen stage.
	NoCodegen bool
}

// Pipeline runs materialize, native build, link plan and codegen strictly in sequence.
type Pipeline struct {
	oracle       *cache.Oracle
	materializer *source.Materializer
	native       *native.Driver
	codegen      *codegen.Driver
	tracer       ports.Tracer
	logger       ports.Logger
}

// New creates a new Pipeline.
func New(
	oracle *cache.Oracle,
	materializer *source.Materializer,
	nativeDriver *native.Driver,
	codegenDriver *codegen.Driver,
	tracer ports.Tracer,
	logger ports.Logger,
) *Pipeline {
	return &Pipeline{
		oracle:       oracle,
		materializer: materializer,
		native:       nativeDriver,
		codegen:      codegenDriver,
		tracer:       tracer,
		logger:       logger,
	}
}

// Run executes the full pipeline. The manifest and the configure invocation are validated
// before any external process starts.
func (p *Pipeline) Run(ctx context.Context, req Request) (Report, error) {
	report := newReport()
	policy := req.Policy
	project := req.Project

	var manifest domain.HeaderManifest
	if !req.NoCodegen {
		m, err := codegen.LoadManifest(project.Manifest)
		if err != nil {
			return report, err
		}
		manifest = m
	}

	inv, extras, err := native.Assemble(policy)
	if err != nil {
		return report, err
	}
	report.Invocation = inv

	workDir := project.WorkDir(policy.OutDir)

	nativeSkip, err := p.oracle.NativeBuildCanBeSkipped(project.Artifacts, workDir, policy)
	if err != nil {
		return report, err
	}

	if policy.Fingerprint {
		inputs := append([]string{project.Archive}, native.DependencyInputs(policy)...)
		fp, match, err := p.oracle.Fingerprint(policy.OutDir, inv, inputs)
		if err != nil {
			return report, err
		}
		report.Fingerprint = fp
		nativeSkip = nativeSkip && match
	}

	extract, err := p.oracle.ExtractionRequired(workDir, nativeSkip)
	if err != nil {
		return report, err
	}

	if err := p.stage(ctx, &report, StageMaterialize, !extract, func(ctx context.Context, span ports.Span) error {
		var opts []source.Option
		if project.ArchiveDigest != "" {
			opts = append(opts, source.WithDigest(project.ArchiveDigest))
		}
		_, err := p.materializer.Materialize(ctx, project.Archive, policy.OutDir, project.SourceDir, opts...)
		return err
	}); err != nil {
		return report, err
	}

	if err := p.stage(ctx, &report, StageNativeBuild, nativeSkip, func(ctx context.Context, span ports.Span) error {
		cr, err := p.native.Build(ctx, workDir, inv)
		report.ConfigureAttempts = cr.Attempts
		span.SetAttribute("attempts", cr.Attempts)
		if err != nil {
			return err
		}
		report.Invocation = cr.Invocation
		if policy.Fingerprint {
			return p.oracle.Record(policy.OutDir, report.Fingerprint, cr.Invocation)
		}
		return nil
	}); err != nil {
		return report, err
	}

	if err := p.stage(ctx, &report, StageLinkPlan, false, func(_ context.Context, span ports.Span) error {
		report.Plan = link.Plan(workDir, project.SearchSubdirs, project.Artifacts, extras)
		span.SetAttribute("directives", len(report.Plan.Directives))
		return req.Emitter.Emit(report.Plan)
	}); err != nil {
		return report, err
	}

	if req.NoCodegen {
		report.Statuses[StageCodegen] = StatusDisabled
		return report, nil
	}

	if err := p.runCodegen(ctx, &report, req, manifest); err != nil {
		return report, err
	}
	return report, nil
}

// Codegen runs only the codegen stage against an already materialized source tree.
func (p *Pipeline) Codegen(ctx context.Context, req Request) (Report, error) {
	report := newReport()
	for _, s := range []Stage{StageMaterialize, StageNativeBuild, StageLinkPlan} {
		report.Statuses[s] = StatusDisabled
	}

	manifest, err := codegen.LoadManifest(req.Project.Manifest)
	if err != nil {
		return report, err
	}

	if err := p.runCodegen(ctx, &report, req, manifest); err != nil {
		return report, err
	}
	return report, nil
}

func (p *Pipeline) runCodegen(ctx context.Context, report *Report, req Request, manifest domain.HeaderManifest) error {
	project := req.Project
	output := project.BindingsPath(req.Policy.OutDir)

	skip, err := p.oracle.CodegenCanBeSkipped(output, req.Policy)
	if err != nil {
		return err
	}

	return p.stage(ctx, report, StageCodegen, skip, func(ctx context.Context, _ ports.Span) error {
		return p.codegen.GenerateBindings(ctx,
			manifest,
			project.WorkDir(req.Policy.OutDir),
			project.Denylist,
			output,
			codegen.WithGenerator(project.Generator),
		)
	})
}

// stage runs fn inside a span unless cached, and records the outcome in report.
func (p *Pipeline) stage(
	ctx context.Context,
	report *Report,
	stage Stage,
	cached bool,
	fn func(context.Context, ports.Span) error,
) error {
	ctx, span := p.tracer.Start(ctx, string(stage), ports.WithStage(string(stage)))
	defer span.End()

	span.SetAttribute("cached", cached)
	if cached {
		report.Statuses[stage] = StatusCached
		p.logger.Info(fmt.Sprintf("%s: up to date", stage))
		return nil
	}

	if err := fn(ctx, span); err != nil {
		report.Statuses[stage] = StatusFailed
		span.RecordError(err)
		return zerr.With(err, "stage", string(stage))
	}

	report.Statuses[stage] = StatusCompleted
	return nil
}
