package domain

import "slices"

// FeatureFlag names an optional capability of the native build.
type FeatureFlag string

const (
	// FeatureGPL enables the GPL-licensed component bundle.
	FeatureGPL FeatureFlag = "gpl"
	// FeatureX264 links against a pre-built external x264 encoder.
	FeatureX264 FeatureFlag = "x264"
)

// AllFeatures lists every known feature in the order their flags are contributed.
var AllFeatures = []FeatureFlag{FeatureGPL, FeatureX264}

// FeatureSet is the set of enabled features.
type FeatureSet map[FeatureFlag]struct{}

// NewFeatureSet builds a FeatureSet from the given flags.
func NewFeatureSet(flags ...FeatureFlag) FeatureSet {
	s := make(FeatureSet, len(flags))
	for _, f := range flags {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether the feature is enabled.
func (s FeatureSet) Has(f FeatureFlag) bool {
	_, ok := s[f]
	return ok
}

// Sorted returns the enabled features in contribution order.
func (s FeatureSet) Sorted() []FeatureFlag {
	out := make([]FeatureFlag, 0, len(s))
	for _, f := range AllFeatures {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// FeatureContribution is what a single enabled feature adds to the build.
type FeatureContribution struct {
	ConfigureFlags []string
	// PkgConfigPaths are prepended to the package-metadata search path, first entry first.
	PkgConfigPaths []string
	SearchPaths    []string
	Libraries      []string
}

// LinkExtras are the link search paths and libraries contributed by features.
type LinkExtras struct {
	SearchPaths []string
	Libraries   []string
}

// Merge combines contributions in order, dropping repeated configure flags.
func Merge(contribs ...FeatureContribution) FeatureContribution {
	var out FeatureContribution
	for _, c := range contribs {
		for _, flag := range c.ConfigureFlags {
			if !slices.Contains(out.ConfigureFlags, flag) {
				out.ConfigureFlags = append(out.ConfigureFlags, flag)
			}
		}
		out.PkgConfigPaths = append(out.PkgConfigPaths, c.PkgConfigPaths...)
		out.SearchPaths = append(out.SearchPaths, c.SearchPaths...)
		out.Libraries = append(out.Libraries, c.Libraries...)
	}
	return out
}

// LinkExtras returns the link-time part of the contribution.
func (c FeatureContribution) LinkExtras() LinkExtras {
	return LinkExtras{SearchPaths: c.SearchPaths, Libraries: c.Libraries}
}
