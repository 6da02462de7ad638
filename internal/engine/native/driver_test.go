package native_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports/mocks"
	"go.trai.ch/ffbuild/internal/engine/native"
	"go.uber.org/mock/gomock"
)

const workDir = "/out/FFmpeg-FFmpeg-2722fc2"

var baseInv = domain.ConfigureInvocation{
	Flags: []string{"--disable-programs", "--disable-doc", "--disable-autodetect"},
	Env:   map[string]string{},
}

var assemblerMissing = domain.ProcessResult{
	ExitCode: 1,
	Stdout:   "nasm/yasm not found or too old. Use --disable-x86asm for a crippled build.\n",
}

type fixture struct {
	toolchain *mocks.MockToolchain
	logger    *mocks.MockLogger
	driver    *native.Driver
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := fixture{
		toolchain: mocks.NewMockToolchain(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	f.driver = native.NewDriverWithJobs(f.toolchain, f.logger, 4)
	return f
}

func TestDriver_Configure_Success(t *testing.T) {
	f := newFixture(t)
	f.toolchain.EXPECT().Configure(gomock.Any(), workDir, baseInv).Return(domain.ProcessResult{}, nil)

	report, err := f.driver.Configure(context.Background(), workDir, baseInv)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Attempts)
	assert.False(t, report.Invocation.HasFlag(domain.DisableAssemblerFlag))
}

func TestDriver_Configure_RecoversOnce(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Warn(gomock.Any())

	retryInv := baseInv.WithFlag(domain.DisableAssemblerFlag)
	gomock.InOrder(
		f.toolchain.EXPECT().Configure(gomock.Any(), workDir, baseInv).Return(assemblerMissing, nil),
		f.toolchain.EXPECT().Configure(gomock.Any(), workDir, retryInv).Return(domain.ProcessResult{}, nil),
	)

	report, err := f.driver.Configure(context.Background(), workDir, baseInv)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Attempts)
	assert.Equal(t, domain.DisableAssemblerFlag, report.Invocation.Flags[len(report.Invocation.Flags)-1])
	assert.False(t, baseInv.HasFlag(domain.DisableAssemblerFlag), "caller invocation must not change")
}

func TestDriver_Configure_RetryFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Warn(gomock.Any())

	f.toolchain.EXPECT().Configure(gomock.Any(), workDir, gomock.Any()).Return(assemblerMissing, nil).Times(2)

	report, err := f.driver.Configure(context.Background(), workDir, baseInv)
	require.ErrorIs(t, err, domain.ErrConfigureFailed)
	assert.Equal(t, 2, report.Attempts)
	assert.Contains(t, err.Error(), "--- stdout ---")
	assert.Contains(t, err.Error(), domain.AssemblerMissingMarker)
}

func TestDriver_Configure_UnrelatedFailureNotRetried(t *testing.T) {
	f := newFixture(t)
	f.toolchain.EXPECT().Configure(gomock.Any(), workDir, baseInv).Return(domain.ProcessResult{
		ExitCode: 1,
		Stdout:   "checking for libx264...",
		Stderr:   "ERROR: libx264 not found using pkg-config",
	}, nil).Times(1)

	report, err := f.driver.Configure(context.Background(), workDir, baseInv)
	require.ErrorIs(t, err, domain.ErrConfigureFailed)
	assert.Equal(t, 1, report.Attempts)
	assert.Contains(t, err.Error(), "--- stdout ---\nchecking for libx264...\n--- stderr ---\nERROR: libx264 not found")
}

func TestDriver_Configure_ExecutorError(t *testing.T) {
	f := newFixture(t)
	f.toolchain.EXPECT().Configure(gomock.Any(), workDir, baseInv).Return(domain.ProcessResult{}, errors.New("exec format error"))

	_, err := f.driver.Configure(context.Background(), workDir, baseInv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exec format error")
}

func TestDriver_Compile(t *testing.T) {
	f := newFixture(t)
	f.toolchain.EXPECT().Make(gomock.Any(), domain.MakeRequest{Dir: workDir, Makefile: "Makefile", Jobs: 4}).
		Return(domain.ProcessResult{}, nil)

	require.NoError(t, f.driver.Compile(context.Background(), workDir))
}

func TestDriver_Compile_Failure(t *testing.T) {
	f := newFixture(t)
	f.toolchain.EXPECT().Make(gomock.Any(), gomock.Any()).
		Return(domain.ProcessResult{ExitCode: 2, Stderr: "libavcodec/foo.c:1: error"}, nil)

	err := f.driver.Compile(context.Background(), workDir)
	require.ErrorIs(t, err, domain.ErrCompilationFailed)
	assert.Contains(t, err.Error(), "libavcodec/foo.c:1: error")
}

func TestDriver_Build_StopsAfterConfigureFailure(t *testing.T) {
	f := newFixture(t)
	f.toolchain.EXPECT().Configure(gomock.Any(), workDir, baseInv).Return(domain.ProcessResult{ExitCode: 1}, nil)
	f.toolchain.EXPECT().Make(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.driver.Build(context.Background(), workDir, baseInv)
	require.ErrorIs(t, err, domain.ErrConfigureFailed)
}

func TestDriver_Build(t *testing.T) {
	f := newFixture(t)
	gomock.InOrder(
		f.toolchain.EXPECT().Configure(gomock.Any(), workDir, baseInv).Return(domain.ProcessResult{}, nil),
		f.toolchain.EXPECT().Make(gomock.Any(), gomock.Any()).Return(domain.ProcessResult{}, nil),
	)

	report, err := f.driver.Build(context.Background(), workDir, baseInv)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Attempts)
}
