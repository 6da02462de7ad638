package cache_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/fs"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports/mocks"
	"go.trai.ch/ffbuild/internal/engine/cache"
	"go.uber.org/mock/gomock"
)

var artifacts = domain.Artifacts("avcodec", "avutil")

func writeArtifacts(t *testing.T, workDir string) {
	t.Helper()
	for _, p := range artifacts.Paths() {
		path := filepath.Join(workDir, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("!<arch>\n"), 0o600))
	}
}

func newOracle(t *testing.T) *cache.Oracle {
	t.Helper()
	ctrl := gomock.NewController(t)
	return cache.NewOracle(fs.NewVerifier(), mocks.NewMockHasher(ctrl), mocks.NewMockBuildInfoStore(ctrl))
}

func TestOracle_NativeBuildCanBeSkipped(t *testing.T) {
	complete := t.TempDir()
	writeArtifacts(t, complete)
	partial := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(partial, "libavcodec"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(partial, "libavcodec", "libavcodec.a"), nil, 0o600))

	debug := domain.BuildPolicy{Mode: domain.ModeDebug}

	tests := []struct {
		name    string
		workDir string
		policy  domain.BuildPolicy
		want    bool
	}{
		{name: "debug with all artifacts", workDir: complete, policy: debug, want: true},
		{name: "unknown mode with all artifacts", workDir: complete, policy: domain.BuildPolicy{}, want: true},
		{name: "release ignores presence", workDir: complete, policy: domain.BuildPolicy{Mode: domain.ModeRelease}},
		{name: "force rebuild", workDir: complete, policy: debug.WithForceRebuild(true)},
		{name: "missing artifact", workDir: partial, policy: debug},
		{name: "missing work dir", workDir: filepath.Join(partial, "nope"), policy: debug},
	}

	oracle := newOracle(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oracle.NativeBuildCanBeSkipped(artifacts, tt.workDir, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOracle_CodegenCanBeSkipped(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "bindings.rs")
	require.NoError(t, os.WriteFile(output, []byte("// bindings"), 0o600))

	oracle := newOracle(t)

	got, err := oracle.CodegenCanBeSkipped(output, domain.BuildPolicy{Mode: domain.ModeDebug})
	require.NoError(t, err)
	assert.True(t, got)

	got, err = oracle.CodegenCanBeSkipped(output, domain.BuildPolicy{Mode: domain.ModeRelease})
	require.NoError(t, err)
	assert.True(t, got, "release mode does not force codegen")

	got, err = oracle.CodegenCanBeSkipped(output, domain.BuildPolicy{}.WithForceCodegen(true))
	require.NoError(t, err)
	assert.False(t, got)

	got, err = oracle.CodegenCanBeSkipped(filepath.Join(dir, "missing.rs"), domain.BuildPolicy{})
	require.NoError(t, err)
	assert.False(t, got)
}

func TestOracle_ExtractionRequired(t *testing.T) {
	dir := t.TempDir()
	oracle := newOracle(t)

	got, err := oracle.ExtractionRequired(dir, true)
	require.NoError(t, err)
	assert.False(t, got, "present work dir with a skipped build needs no extraction")

	got, err = oracle.ExtractionRequired(dir, false)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = oracle.ExtractionRequired(filepath.Join(dir, "absent"), true)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestOracle_Fingerprint(t *testing.T) {
	ctrl := gomock.NewController(t)
	hasher := mocks.NewMockHasher(ctrl)
	store := mocks.NewMockBuildInfoStore(ctrl)
	oracle := cache.NewOracle(fs.NewVerifier(), hasher, store)

	inv := domain.ConfigureInvocation{Flags: []string{"--disable-doc"}}
	inputs := []string{"/src/archive.tar.gz"}

	t.Run("match", func(t *testing.T) {
		hasher.EXPECT().Fingerprint(inv, inputs).Return("aa", nil)
		store.EXPECT().Get("/out", domain.NativeBuildKey).Return(&domain.BuildInfo{Fingerprint: "aa"}, nil)

		fp, ok, err := oracle.Fingerprint("/out", inv, inputs)
		require.NoError(t, err)
		assert.Equal(t, "aa", fp)
		assert.True(t, ok)
	})

	t.Run("no record", func(t *testing.T) {
		hasher.EXPECT().Fingerprint(inv, inputs).Return("aa", nil)
		store.EXPECT().Get("/out", domain.NativeBuildKey).Return(nil, nil)

		_, ok, err := oracle.Fingerprint("/out", inv, inputs)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("changed", func(t *testing.T) {
		hasher.EXPECT().Fingerprint(inv, inputs).Return("bb", nil)
		store.EXPECT().Get("/out", domain.NativeBuildKey).Return(&domain.BuildInfo{Fingerprint: "aa"}, nil)

		_, ok, err := oracle.Fingerprint("/out", inv, inputs)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("hash error", func(t *testing.T) {
		hasher.EXPECT().Fingerprint(inv, inputs).Return("", errors.New("boom"))

		_, _, err := oracle.Fingerprint("/out", inv, inputs)
		require.Error(t, err)
	})
}

func TestOracle_Record(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockBuildInfoStore(ctrl)
	oracle := cache.NewOracle(fs.NewVerifier(), mocks.NewMockHasher(ctrl), store)

	inv := domain.ConfigureInvocation{Flags: []string{"--disable-doc"}}
	store.EXPECT().Put("/out", gomock.Any()).DoAndReturn(func(_ string, info domain.BuildInfo) error {
		assert.Equal(t, domain.NativeBuildKey, info.Stage)
		assert.Equal(t, "cc", info.Fingerprint)
		assert.Equal(t, inv.Flags, info.Flags)
		assert.False(t, info.Timestamp.IsZero())
		return nil
	})

	require.NoError(t, oracle.Record("/out", "cc", inv))
}
