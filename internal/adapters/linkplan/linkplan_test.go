package linkplan_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/linkplan"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func samplePlan() domain.LinkPlan {
	return domain.LinkPlan{Directives: []domain.LinkDirective{
		{Kind: domain.DirectiveSearchNative, Value: "/out/FFmpeg"},
		{Kind: domain.DirectiveSearchNative, Value: "/out/FFmpeg/libavcodec"},
		{Kind: domain.DirectiveSearchNative, Value: "/opt/x264/lib"},
		{Kind: domain.DirectiveStaticLib, Value: "avcodec"},
		{Kind: domain.DirectiveStaticLib, Value: "x264"},
	}}
}

func TestDirectiveEmitter_Emit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, linkplan.NewDirectiveEmitter(&buf).Emit(samplePlan()))

	assert.Equal(t, ""+
		"ffbuild:link-search=native=/out/FFmpeg\n"+
		"ffbuild:link-search=native=/out/FFmpeg/libavcodec\n"+
		"ffbuild:link-search=native=/opt/x264/lib\n"+
		"ffbuild:link-lib=static=avcodec\n"+
		"ffbuild:link-lib=static=x264\n",
		buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestDirectiveEmitter_WriteError(t *testing.T) {
	err := linkplan.NewDirectiveEmitter(failingWriter{}).Emit(samplePlan())
	require.ErrorIs(t, err, domain.ErrLinkEmitFailed)
	assert.Contains(t, err.Error(), "closed pipe")
}

func TestLDFlags_QuotesSpaces(t *testing.T) {
	plan := domain.LinkPlan{Directives: []domain.LinkDirective{
		{Kind: domain.DirectiveSearchNative, Value: "/My Build/out"},
		{Kind: domain.DirectiveStaticLib, Value: "avutil"},
	}}
	flags, err := linkplan.LDFlags(plan)
	require.NoError(t, err)
	assert.Equal(t, "'-L/My Build/out' -lavutil", flags)
}

func TestLDFlags_Quoting(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "plain", path: "/out/FFmpeg", want: "-L/out/FFmpeg"},
		{name: "single quote", path: "/home/o'neil/out", want: `"-L/home/o'neil/out"`},
		{name: "double quote", path: `/tmp/"x"`, want: `'-L/tmp/"x"'`},
		{name: "quote and space", path: "/o'neil builds", want: `"-L/o'neil builds"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, err := linkplan.LDFlags(domain.LinkPlan{Directives: []domain.LinkDirective{
				{Kind: domain.DirectiveSearchNative, Value: tt.path},
			}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, flags)
		})
	}
}

func TestLDFlags_Unrepresentable(t *testing.T) {
	for _, path := range []string{`/tmp/it's "odd"`, "/tmp/two\nlines"} {
		_, err := linkplan.LDFlags(domain.LinkPlan{Directives: []domain.LinkDirective{
			{Kind: domain.DirectiveSearchNative, Value: path},
		}})
		require.ErrorIs(t, err, domain.ErrLinkEmitFailed, path)
	}
}

func TestRenderCgo_RejectsUnrepresentableFlag(t *testing.T) {
	_, err := linkplan.RenderCgo("ffmpeg", domain.LinkPlan{Directives: []domain.LinkDirective{
		{Kind: domain.DirectiveSearchNative, Value: `/a'b"c`},
	}})
	require.ErrorIs(t, err, domain.ErrLinkEmitFailed)
}

func TestRenderCgo_Golden(t *testing.T) {
	src, err := linkplan.RenderCgo("ffmpeg", samplePlan())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "cgo_ldflags", src)
}

func TestRenderCgo_InvalidPackage(t *testing.T) {
	_, err := linkplan.RenderCgo("not a package", samplePlan())
	require.Error(t, err)
}

func TestCgoEmitter_Emit(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any())

	path := filepath.Join(t.TempDir(), "ffmpeg", "zz_link.go")
	require.NoError(t, linkplan.NewCgoEmitter(path, "", log).Emit(samplePlan()))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), "package ffmpeg")
	assert.Contains(t, string(got), "#cgo LDFLAGS: -L/out/FFmpeg")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	e, err := linkplan.New(domain.LinkConfig{}, os.Stdout, log)
	require.NoError(t, err)
	assert.IsType(t, &linkplan.DirectiveEmitter{}, e)

	e, err = linkplan.New(domain.LinkConfig{Format: domain.LinkFormatCgo, CgoFile: "/x/link.go"}, os.Stdout, log)
	require.NoError(t, err)
	assert.IsType(t, &linkplan.CgoEmitter{}, e)

	_, err = linkplan.New(domain.LinkConfig{Format: domain.LinkFormatCgo}, os.Stdout, log)
	require.ErrorIs(t, err, domain.ErrInvalidLinkFormat)

	_, err = linkplan.New(domain.LinkConfig{Format: "json"}, os.Stdout, log)
	require.ErrorIs(t, err, domain.ErrInvalidLinkFormat)
}
