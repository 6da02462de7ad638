package linkplan

import (
	"bytes"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LinkEmitter = (*CgoEmitter)(nil)

var cgoTemplate = template.Must(template.New("cgo").Parse(`// Code generated by ffbuild. DO NOT EDIT.

package {{ .Package }}

/*
#cgo LDFLAGS: {{ .Flags }}
*/
import "C"
`))

// CgoEmitter writes a Go file whose cgo preamble links the planned archives.
type CgoEmitter struct {
	path   string
	pkg    string
	logger ports.Logger
}

// NewCgoEmitter creates an emitter writing package pkg to path.
func NewCgoEmitter(path, pkg string, logger ports.Logger) *CgoEmitter {
	if pkg == "" {
		pkg = domain.DefaultCgoPackage
	}
	return &CgoEmitter{path: path, pkg: pkg, logger: logger}
}

// Emit renders the plan and replaces the target file atomically.
func (e *CgoEmitter) Emit(plan domain.LinkPlan) error {
	src, err := RenderCgo(e.pkg, plan)
	if err != nil {
		return err
	}

	dir := filepath.Dir(e.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(domain.Tag(domain.ErrLinkEmitFailed, err), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, ".ffbuild-cgo-*.go")
	if err != nil {
		return zerr.With(domain.Tag(domain.ErrLinkEmitFailed, err), "path", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(src); err != nil {
		_ = tmp.Close()
		return zerr.With(domain.Tag(domain.ErrLinkEmitFailed, err), "path", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(domain.Tag(domain.ErrLinkEmitFailed, err), "path", tmpName)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(domain.Tag(domain.ErrLinkEmitFailed, err), "path", tmpName)
	}
	if err := os.Rename(tmpName, e.path); err != nil {
		return zerr.With(domain.Tag(domain.ErrLinkEmitFailed, err), "path", e.path)
	}

	e.logger.Info("wrote cgo link flags to " + e.path)
	return nil
}

// RenderCgo returns the formatted Go source for the plan.
func RenderCgo(pkg string, plan domain.LinkPlan) ([]byte, error) {
	flags, err := LDFlags(plan)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = cgoTemplate.Execute(&buf, struct {
		Package string
		Flags   string
	}{
		Package: pkg,
		Flags:   flags,
	})
	if err != nil {
		return nil, domain.Tag(domain.ErrLinkEmitFailed, err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, zerr.With(domain.Tag(domain.ErrLinkEmitFailed, err), "package", pkg)
	}
	return src, nil
}

// LDFlags renders search paths as -L and libraries as -l, in plan order.
func LDFlags(plan domain.LinkPlan) (string, error) {
	flags := make([]string, 0, len(plan.Directives))
	for _, d := range plan.Directives {
		var flag string
		switch d.Kind {
		case domain.DirectiveSearchNative:
			flag = "-L" + d.Value
		case domain.DirectiveStaticLib:
			flag = "-l" + d.Value
		default:
			continue
		}
		q, err := quote(flag)
		if err != nil {
			return "", err
		}
		flags = append(flags, q)
	}
	return strings.Join(flags, " "), nil
}

// quote makes flag a single field for the go command's #cgo splitting, which
// honours single or double quotes but has no escapes.
func quote(flag string) (string, error) {
	switch {
	case strings.ContainsAny(flag, "\r\n"):
		return "", zerr.With(zerr.Wrap(domain.ErrLinkEmitFailed, "link flag contains a line break"), "flag", flag)
	case !strings.ContainsAny(flag, " \t'\""):
		return flag, nil
	case !strings.Contains(flag, "'"):
		return "'" + flag + "'", nil
	case !strings.Contains(flag, `"`):
		return `"` + flag + `"`, nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrLinkEmitFailed, "link flag mixes single and double quotes"), "flag", flag)
	}
}
