// Package linkplan delivers link plans to the consuming build.
package linkplan

import (
	"fmt"
	"io"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
)

const (
	// SearchPrefix introduces a native library search path directive.
	SearchPrefix = "ffbuild:link-search=native="
	// LibPrefix introduces a static library directive.
	LibPrefix = "ffbuild:link-lib=static="
)

var _ ports.LinkEmitter = (*DirectiveEmitter)(nil)

// DirectiveEmitter prints one directive per line.
type DirectiveEmitter struct {
	w io.Writer
}

// NewDirectiveEmitter creates an emitter writing to w.
func NewDirectiveEmitter(w io.Writer) *DirectiveEmitter {
	return &DirectiveEmitter{w: w}
}

// Emit writes the plan in order.
func (e *DirectiveEmitter) Emit(plan domain.LinkPlan) error {
	for _, d := range plan.Directives {
		if _, err := fmt.Fprintln(e.w, FormatDirective(d)); err != nil {
			return domain.Tag(domain.ErrLinkEmitFailed, err)
		}
	}
	return nil
}

// FormatDirective renders a single directive line.
func FormatDirective(d domain.LinkDirective) string {
	switch d.Kind {
	case domain.DirectiveSearchNative:
		return SearchPrefix + d.Value
	case domain.DirectiveStaticLib:
		return LibPrefix + d.Value
	default:
		return ""
	}
}
