package commands_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/cmd/ffbuild/commands"
	"go.trai.ch/ffbuild/internal/app"
	"go.trai.ch/ffbuild/internal/build"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader *mocks.MockConfigLoader
	reader *mocks.MockPolicyReader
	cli    *commands.CLI
	out    *bytes.Buffer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	reader := mocks.NewMockPolicyReader(ctrl)
	log := mocks.NewMockLogger(ctrl)

	a := app.New(loader, reader, nil, log).WithStdout(&bytes.Buffer{})
	cli := commands.New(a, log)
	out := &bytes.Buffer{}
	cli.SetOut(out)

	return fixture{loader: loader, reader: reader, cli: cli, out: out}
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	f.cli.SetArgs([]string{"version"})

	require.NoError(t, f.cli.Execute(context.Background()))
	assert.Equal(t, "ffbuild version "+build.Version+" ("+build.Commit+")\n", f.out.String())
}

func TestRoot_Help(t *testing.T) {
	f := newFixture(t)
	f.cli.SetArgs([]string{"--help"})

	require.NoError(t, f.cli.Execute(context.Background()))
	for _, sub := range []string{"build", "codegen", "flags", "version"} {
		assert.Contains(t, f.out.String(), sub)
	}
}

func TestFlags(t *testing.T) {
	f := newFixture(t)
	f.reader.EXPECT().Read().Return(domain.BuildPolicy{
		Mode:        domain.ModeDebug,
		OptLevel:    0,
		OptLevelSet: true,
		OutDir:      "/out",
	}, nil)
	f.cli.SetArgs([]string{"flags"})

	require.NoError(t, f.cli.Execute(context.Background()))
	assert.Equal(t, "--disable-programs\n--disable-doc\n--disable-autodetect\n"+
		"--disable-optimizations\n--enable-debug\n--disable-stripping\n", f.out.String())
}

func TestFlags_PrintsEnvironment(t *testing.T) {
	f := newFixture(t)
	f.reader.EXPECT().Read().Return(domain.BuildPolicy{
		Mode:         domain.ModeRelease,
		OutDir:       "/out",
		Features:     domain.NewFeatureSet(domain.FeatureX264),
		FeatureRoots: map[domain.FeatureFlag]string{domain.FeatureX264: "/opt/x264"},
	}, nil)
	f.cli.SetArgs([]string{"flags"})

	require.NoError(t, f.cli.Execute(context.Background()))
	assert.Contains(t, f.out.String(), "--enable-libx264\n")
	assert.Contains(t, f.out.String(), "PKG_CONFIG_PATH=/opt/x264/lib/pkgconfig\n")
}

func TestBuild_MissingOutDir(t *testing.T) {
	f := newFixture(t)
	f.reader.EXPECT().Read().Return(domain.BuildPolicy{}, domain.ErrMissingOutDir)
	f.cli.SetArgs([]string{"build"})

	err := f.cli.Execute(context.Background())
	require.ErrorIs(t, err, domain.ErrMissingOutDir)
}

func TestBuild_ConfigDirIsPassedToLoader(t *testing.T) {
	f := newFixture(t)
	f.reader.EXPECT().Read().Return(domain.BuildPolicy{Mode: domain.ModeDebug, OutDir: "/out"}, nil)

	project := domain.DefaultProject("/project")
	project.Link = domain.LinkConfig{Format: "pkg-config"}
	f.loader.EXPECT().Load("/project").Return(project, nil)

	f.cli.SetArgs([]string{"build", "-c", "/project", "--force", "--no-codegen"})
	err := f.cli.Execute(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidLinkFormat)
}

func TestBuild_RejectsArguments(t *testing.T) {
	f := newFixture(t)
	f.cli.SetArgs([]string{"build", "extra"})

	require.Error(t, f.cli.Execute(context.Background()))
}
