// Package native assembles configure invocations and drives the native build.
package native

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// PkgConfigPathVar is the package-metadata search path variable passed to configure.
const PkgConfigPathVar = "PKG_CONFIG_PATH"

// Assemble derives the configure invocation and the feature link extras from the policy.
// Flags are ordered baseline, features in contribution order, then fast-dev flags.
func Assemble(policy domain.BuildPolicy) (domain.ConfigureInvocation, domain.LinkExtras, error) {
	contribs := []domain.FeatureContribution{{ConfigureFlags: domain.BaselineConfigureFlags}}

	for _, f := range policy.Features.Sorted() {
		c, err := contribution(f, policy)
		if err != nil {
			return domain.ConfigureInvocation{}, domain.LinkExtras{}, err
		}
		contribs = append(contribs, c)
	}

	if policy.FastDevBuild() {
		contribs = append(contribs, domain.FeatureContribution{ConfigureFlags: domain.FastDevConfigureFlags})
	}

	merged := domain.Merge(contribs...)

	inv := domain.ConfigureInvocation{
		Flags: merged.ConfigureFlags,
		Env:   map[string]string{},
	}
	if len(merged.PkgConfigPaths) > 0 {
		inv.Env[PkgConfigPathVar] = prependPaths(merged.PkgConfigPaths, policy.PkgConfigPath)
	}

	return inv, merged.LinkExtras(), nil
}

func contribution(f domain.FeatureFlag, policy domain.BuildPolicy) (domain.FeatureContribution, error) {
	switch f {
	case domain.FeatureGPL:
		return domain.FeatureContribution{ConfigureFlags: []string{"--enable-gpl"}}, nil
	case domain.FeatureX264:
		root := policy.FeatureRoot(domain.FeatureX264)
		if root == "" {
			return domain.FeatureContribution{}, zerr.With(
				zerr.Wrap(domain.ErrFeatureDependencyMissing, "x264 is enabled but its prefix directory is unknown"),
				"feature", string(f),
			)
		}
		lib := filepath.Join(root, "lib")
		return domain.FeatureContribution{
			ConfigureFlags: []string{
				"--enable-gpl",
				"--enable-libx264",
				"--extra-cflags=-I" + filepath.Join(root, "include"),
				"--extra-ldflags=-L" + lib,
			},
			PkgConfigPaths: []string{filepath.Join(lib, "pkgconfig")},
			SearchPaths:    []string{lib},
			Libraries:      []string{"x264"},
		}, nil
	default:
		return domain.FeatureContribution{}, nil
	}
}

// prependPaths puts paths ahead of an existing search path list.
func prependPaths(paths []string, existing string) string {
	all := append([]string(nil), paths...)
	if existing != "" {
		all = append(all, existing)
	}
	return strings.Join(all, string(os.PathListSeparator))
}

// DependencyInputs lists the feature dependency directories that feed the build fingerprint.
func DependencyInputs(policy domain.BuildPolicy) []string {
	var out []string
	for _, f := range policy.Features.Sorted() {
		if root := policy.FeatureRoot(f); root != "" {
			out = append(out, filepath.Join(root, "lib"))
		}
	}
	return out
}
