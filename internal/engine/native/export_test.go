package native

import "go.trai.ch/ffbuild/internal/core/ports"

// NewDriverWithJobs creates a Driver with a fixed job count.
func NewDriverWithJobs(toolchain ports.Toolchain, logger ports.Logger, jobs int) *Driver {
	d := NewDriver(toolchain, logger)
	d.jobs = jobs
	return d
}
