package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/fs"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports/mocks"
	"go.trai.ch/ffbuild/internal/engine/source"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	extractor *mocks.MockExtractor
	logger    *mocks.MockLogger
	m         *source.Materializer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := fixture{
		extractor: mocks.NewMockExtractor(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.m = source.NewMaterializer(f.extractor, fs.NewVerifier(), f.logger)
	return f
}

func TestMaterializer_Materialize(t *testing.T) {
	f := newFixture(t)
	out := t.TempDir()

	f.extractor.EXPECT().Extract(gomock.Any(), "/src/ffmpeg.tar.gz", out).DoAndReturn(
		func(_ context.Context, _, dest string) error {
			return os.MkdirAll(filepath.Join(dest, "FFmpeg-FFmpeg-2722fc2", "libavcodec"), 0o750)
		})

	workDir, err := f.m.Materialize(context.Background(), "/src/ffmpeg.tar.gz", out, "FFmpeg-FFmpeg-2722fc2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "FFmpeg-FFmpeg-2722fc2"), workDir)
}

func TestMaterializer_UnexpectedLayout(t *testing.T) {
	f := newFixture(t)
	out := t.TempDir()

	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), out).DoAndReturn(
		func(_ context.Context, _, dest string) error {
			return os.MkdirAll(filepath.Join(dest, "ffmpeg-6.1"), 0o750)
		})

	_, err := f.m.Materialize(context.Background(), "/src/ffmpeg.tar.gz", out, "FFmpeg-FFmpeg-2722fc2")
	require.ErrorIs(t, err, domain.ErrArchiveLayout)
}

func TestMaterializer_ExpectedPathIsFile(t *testing.T) {
	f := newFixture(t)
	out := t.TempDir()

	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), out).DoAndReturn(
		func(_ context.Context, _, dest string) error {
			return os.WriteFile(filepath.Join(dest, "FFmpeg"), nil, 0o600)
		})

	_, err := f.m.Materialize(context.Background(), "/src/ffmpeg.tar.gz", out, "FFmpeg")
	require.ErrorIs(t, err, domain.ErrArchiveLayout)
}

func TestMaterializer_ExtractFailure(t *testing.T) {
	f := newFixture(t)
	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("corrupt gzip"))

	_, err := f.m.Materialize(context.Background(), "/src/ffmpeg.tar.gz", t.TempDir(), "FFmpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt gzip")
}

func TestMaterializer_VerifiesDigestFirst(t *testing.T) {
	f := newFixture(t)

	f.extractor.EXPECT().VerifyDigest("/src/ffmpeg.tar.gz", "abc").Return(domain.ErrArchiveDigestMismatch)

	_, err := f.m.Materialize(context.Background(), "/src/ffmpeg.tar.gz", t.TempDir(), "FFmpeg",
		source.WithDigest("abc"))
	require.ErrorIs(t, err, domain.ErrArchiveDigestMismatch)
	assert.ErrorIs(t, err, domain.ErrArchiveLayout)
}
