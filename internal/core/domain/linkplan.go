package domain

// DirectiveKind distinguishes link directives.
type DirectiveKind int

const (
	// DirectiveSearchNative adds a native library search path.
	DirectiveSearchNative DirectiveKind = iota
	// DirectiveStaticLib links a static library by name.
	DirectiveStaticLib
)

// LinkDirective is one instruction for the consuming linker.
type LinkDirective struct {
	Kind  DirectiveKind
	Value string
}

// LinkPlan is the ordered list of link directives. Search paths always come first.
type LinkPlan struct {
	Directives []LinkDirective
}

// SearchPaths returns the values of all search directives in order.
func (p LinkPlan) SearchPaths() []string {
	return p.values(DirectiveSearchNative)
}

// Libraries returns the values of all library directives in order.
func (p LinkPlan) Libraries() []string {
	return p.values(DirectiveStaticLib)
}

func (p LinkPlan) values(kind DirectiveKind) []string {
	var out []string
	for _, d := range p.Directives {
		if d.Kind == kind {
			out = append(out, d.Value)
		}
	}
	return out
}

// LinkFormat selects how the link plan is emitted.
type LinkFormat string

const (
	// LinkFormatDirectives prints one directive per line on stdout.
	LinkFormatDirectives LinkFormat = "directives"
	// LinkFormatCgo writes a generated Go file carrying cgo LDFLAGS.
	LinkFormatCgo LinkFormat = "cgo"
)
