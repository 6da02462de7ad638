package pipeline

import "go.trai.ch/ffbuild/internal/core/domain"

// Stage names a pipeline step. Stage names double as span names.
type Stage string

// Pipeline stages in execution order.
const (
	StageMaterialize Stage = "materialize"
	StageNativeBuild Stage = "native-build"
	StageLinkPlan    Stage = "link-plan"
	StageCodegen     Stage = "codegen"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageMaterialize, StageNativeBuild, StageLinkPlan, StageCodegen}

// StageStatus represents the status of a stage.
type StageStatus string

const (
	// StatusPending indicates the stage has not been reached.
	StatusPending StageStatus = "Pending"
	// StatusCompleted indicates the stage ran and finished successfully.
	StatusCompleted StageStatus = "Completed"
	// StatusCached indicates the stage was skipped because its outputs could be reused.
	StatusCached StageStatus = "Cached"
	// StatusDisabled indicates the stage was turned off for this run.
	StatusDisabled StageStatus = "Disabled"
	// StatusFailed indicates the stage failed.
	StatusFailed StageStatus = "Failed"
)

// Report describes what a pipeline run did.
type Report struct {
	Statuses map[Stage]StageStatus
	// ConfigureAttempts is zero when the native build was cached.
	ConfigureAttempts int
	Invocation        domain.ConfigureInvocation
	Plan              domain.LinkPlan
	// Fingerprint is only set in fingerprint mode.
	Fingerprint string
}

func newReport() Report {
	r := Report{Statuses: make(map[Stage]StageStatus, len(Stages))}
	for _, s := range Stages {
		r.Statuses[s] = StatusPending
	}
	return r
}

// Status returns the status of stage.
func (r Report) Status(stage Stage) StageStatus {
	if s, ok := r.Statuses[stage]; ok {
		return s
	}
	return StatusPending
}

// Ran reports whether stage did work in this run.
func (r Report) Ran(stage Stage) bool {
	return r.Status(stage) == StatusCompleted
}
