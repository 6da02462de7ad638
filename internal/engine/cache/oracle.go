// Package cache decides which pipeline stages can reuse existing outputs.
package cache

import (
	"time"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
)

// Oracle answers skip questions from filesystem presence and, when fingerprinting is
// enabled, from recorded build fingerprints.
type Oracle struct {
	verifier ports.Verifier
	hasher   ports.Hasher
	store    ports.BuildInfoStore
}

// NewOracle creates a new Oracle.
func NewOracle(verifier ports.Verifier, hasher ports.Hasher, store ports.BuildInfoStore) *Oracle {
	return &Oracle{verifier: verifier, hasher: hasher, store: store}
}

// NativeBuildCanBeSkipped reports whether every artifact exists under workDir and the policy
// allows reuse. Release builds and forced rebuilds are never skipped.
func (o *Oracle) NativeBuildCanBeSkipped(
	artifacts domain.ArtifactSet,
	workDir string,
	policy domain.BuildPolicy,
) (bool, error) {
	if policy.IsReleaseMode() || policy.ForceRebuildRequested() {
		return false, nil
	}
	return o.verifier.VerifyOutputs(workDir, artifacts.Paths())
}

// CodegenCanBeSkipped reports whether the bindings exist and codegen is not forced.
// The build mode does not take part in this decision.
func (o *Oracle) CodegenCanBeSkipped(outputPath string, policy domain.BuildPolicy) (bool, error) {
	if policy.ForceCodegenRequested() {
		return false, nil
	}
	return o.verifier.VerifyOutputs("", []string{outputPath})
}

// ExtractionRequired reports whether the source must be unpacked: the working directory is
// absent, or the native build is going to run.
func (o *Oracle) ExtractionRequired(workDir string, nativeSkip bool) (bool, error) {
	if !nativeSkip {
		return true, nil
	}
	present, err := o.verifier.IsDir(workDir)
	if err != nil {
		return false, err
	}
	return !present, nil
}

// Fingerprint computes the current native build fingerprint and reports whether it matches
// the one recorded under outDir.
func (o *Oracle) Fingerprint(
	outDir string,
	inv domain.ConfigureInvocation,
	inputs []string,
) (string, bool, error) {
	fp, err := o.hasher.Fingerprint(inv, inputs)
	if err != nil {
		return "", false, err
	}

	info, err := o.store.Get(outDir, domain.NativeBuildKey)
	if err != nil {
		return fp, false, err
	}
	return fp, info != nil && info.Fingerprint == fp, nil
}

// Record stores the fingerprint of a completed native build.
func (o *Oracle) Record(outDir, fingerprint string, inv domain.ConfigureInvocation) error {
	return o.store.Put(outDir, domain.BuildInfo{
		Stage:       domain.NativeBuildKey,
		Fingerprint: fingerprint,
		Flags:       inv.Flags,
		Timestamp:   time.Now().UTC(),
	})
}
