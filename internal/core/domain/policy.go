package domain

import "strings"

// BuildMode is the build profile requested by the consuming build.
type BuildMode int

const (
	// ModeUnknown means no recognised profile was requested.
	ModeUnknown BuildMode = iota
	// ModeDebug is the development profile.
	ModeDebug
	// ModeRelease is the release profile. Release builds never reuse native artifacts.
	ModeRelease
)

// String returns the lowercase profile name.
func (m BuildMode) String() string {
	switch m {
	case ModeDebug:
		return "debug"
	case ModeRelease:
		return "release"
	default:
		return "unknown"
	}
}

// ParseBuildMode maps a profile name to a BuildMode, ignoring case and surrounding whitespace.
func ParseBuildMode(s string) BuildMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return ModeDebug
	case "release":
		return ModeRelease
	default:
		return ModeUnknown
	}
}

// BuildPolicy is the immutable set of build decisions derived from the environment.
// Copies are values; derived policies are produced by the With* methods.
type BuildPolicy struct {
	Mode BuildMode
	// OptLevel is only meaningful when OptLevelSet is true.
	OptLevel     int
	OptLevelSet  bool
	Features     FeatureSet
	FeatureRoots map[FeatureFlag]string
	ForceRebuild bool
	ForceCodegen bool
	Fingerprint  bool
	OutDir       string
	// PkgConfigPath is the package-metadata search path present at startup.
	PkgConfigPath string
}

// IsReleaseMode reports whether the release profile was requested.
func (p BuildPolicy) IsReleaseMode() bool {
	return p.Mode == ModeRelease
}

// IsDebugMode reports whether the debug profile was requested.
func (p BuildPolicy) IsDebugMode() bool {
	return p.Mode == ModeDebug
}

// IsOptimizationLevel reports whether the requested optimization level equals n.
func (p BuildPolicy) IsOptimizationLevel(n int) bool {
	return p.OptLevelSet && p.OptLevel == n
}

// IsFeatureEnabled reports whether the feature toggle is on.
func (p BuildPolicy) IsFeatureEnabled(f FeatureFlag) bool {
	return p.Features.Has(f)
}

// ForceRebuildRequested reports whether the native build cache must be bypassed.
func (p BuildPolicy) ForceRebuildRequested() bool {
	return p.ForceRebuild
}

// ForceCodegenRequested reports whether the codegen cache must be bypassed.
func (p BuildPolicy) ForceCodegenRequested() bool {
	return p.ForceCodegen
}

// FastDevBuild reports whether the fast development configuration applies.
// It requires both the debug profile and optimization level zero.
func (p BuildPolicy) FastDevBuild() bool {
	return p.IsDebugMode() && p.IsOptimizationLevel(0)
}

// FeatureRoot returns the prefix directory configured for a feature.
func (p BuildPolicy) FeatureRoot(f FeatureFlag) string {
	return p.FeatureRoots[f]
}

// WithForceRebuild returns a copy of the policy with the force-rebuild toggle ORed with force.
func (p BuildPolicy) WithForceRebuild(force bool) BuildPolicy {
	p.ForceRebuild = p.ForceRebuild || force
	return p
}

// WithForceCodegen returns a copy of the policy with the force-codegen toggle ORed with force.
func (p BuildPolicy) WithForceCodegen(force bool) BuildPolicy {
	p.ForceCodegen = p.ForceCodegen || force
	return p
}
