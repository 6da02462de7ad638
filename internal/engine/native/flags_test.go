package native_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/engine/native"
)

func TestAssemble(t *testing.T) {
	x264Roots := map[domain.FeatureFlag]string{domain.FeatureX264: "/opt/x264"}

	tests := []struct {
		name       string
		policy     domain.BuildPolicy
		wantFlags  []string
		wantEnv    map[string]string
		wantExtras domain.LinkExtras
	}{
		{
			name:      "baseline only",
			policy:    domain.BuildPolicy{Mode: domain.ModeRelease},
			wantFlags: []string{"--disable-programs", "--disable-doc", "--disable-autodetect"},
			wantEnv:   map[string]string{},
		},
		{
			name:   "gpl",
			policy: domain.BuildPolicy{Features: domain.NewFeatureSet(domain.FeatureGPL)},
			wantFlags: []string{
				"--disable-programs", "--disable-doc", "--disable-autodetect",
				"--enable-gpl",
			},
			wantEnv: map[string]string{},
		},
		{
			name: "x264 implies gpl once and prepends pkg-config path",
			policy: domain.BuildPolicy{
				Features:      domain.NewFeatureSet(domain.FeatureGPL, domain.FeatureX264),
				FeatureRoots:  x264Roots,
				PkgConfigPath: "/usr/lib/pkgconfig",
			},
			wantFlags: []string{
				"--disable-programs", "--disable-doc", "--disable-autodetect",
				"--enable-gpl",
				"--enable-libx264",
				"--extra-cflags=-I/opt/x264/include",
				"--extra-ldflags=-L/opt/x264/lib",
			},
			wantEnv: map[string]string{"PKG_CONFIG_PATH": "/opt/x264/lib/pkgconfig:/usr/lib/pkgconfig"},
			wantExtras: domain.LinkExtras{
				SearchPaths: []string{"/opt/x264/lib"},
				Libraries:   []string{"x264"},
			},
		},
		{
			name: "x264 without existing pkg-config path",
			policy: domain.BuildPolicy{
				Features:     domain.NewFeatureSet(domain.FeatureX264),
				FeatureRoots: x264Roots,
			},
			wantFlags: []string{
				"--disable-programs", "--disable-doc", "--disable-autodetect",
				"--enable-gpl",
				"--enable-libx264",
				"--extra-cflags=-I/opt/x264/include",
				"--extra-ldflags=-L/opt/x264/lib",
			},
			wantEnv: map[string]string{"PKG_CONFIG_PATH": "/opt/x264/lib/pkgconfig"},
			wantExtras: domain.LinkExtras{
				SearchPaths: []string{"/opt/x264/lib"},
				Libraries:   []string{"x264"},
			},
		},
		{
			name:   "fast dev build",
			policy: domain.BuildPolicy{Mode: domain.ModeDebug, OptLevel: 0, OptLevelSet: true},
			wantFlags: []string{
				"--disable-programs", "--disable-doc", "--disable-autodetect",
				"--disable-optimizations", "--enable-debug", "--disable-stripping",
			},
			wantEnv: map[string]string{},
		},
		{
			name:      "debug at level one is not fast dev",
			policy:    domain.BuildPolicy{Mode: domain.ModeDebug, OptLevel: 1, OptLevelSet: true},
			wantFlags: []string{"--disable-programs", "--disable-doc", "--disable-autodetect"},
			wantEnv:   map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, extras, err := native.Assemble(tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFlags, inv.Flags)
			assert.Equal(t, tt.wantEnv, inv.Env)
			assert.Equal(t, tt.wantExtras, extras)
		})
	}
}

func TestAssemble_X264WithoutRoot(t *testing.T) {
	_, _, err := native.Assemble(domain.BuildPolicy{Features: domain.NewFeatureSet(domain.FeatureX264)})
	require.ErrorIs(t, err, domain.ErrFeatureDependencyMissing)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestDependencyInputs(t *testing.T) {
	policy := domain.BuildPolicy{
		Features:     domain.NewFeatureSet(domain.FeatureGPL, domain.FeatureX264),
		FeatureRoots: map[domain.FeatureFlag]string{domain.FeatureX264: "/opt/x264"},
	}
	assert.Equal(t, []string{"/opt/x264/lib"}, native.DependencyInputs(policy))
	assert.Empty(t, native.DependencyInputs(domain.BuildPolicy{}))
}
