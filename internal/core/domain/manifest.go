package domain

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// HeaderManifest is the ordered list of header paths, relative to the include root,
// that bindings are generated for.
type HeaderManifest []string

// ParseHeaderManifest reads a newline-delimited manifest. Every line must name a header;
// lines that are empty after trimming are rejected together with their line numbers.
func ParseHeaderManifest(r io.Reader) (HeaderManifest, error) {
	var (
		entries HeaderManifest
		blank   []int
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" {
			blank = append(blank, line)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, Tag(ErrManifestFormat, err)
	}

	if len(blank) > 0 {
		err := zerr.Wrap(ErrManifestFormat, fmt.Sprintf("blank entries on lines %s", joinInts(blank)))
		return nil, zerr.With(err, "lines", blank)
	}
	if len(entries) == 0 {
		return nil, zerr.Wrap(ErrManifestFormat, "manifest lists no headers")
	}
	return entries, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

// MacroDenylist holds macro names that must be excluded from generated bindings
// because the headers define them more than once.
type MacroDenylist map[string]struct{}

// DefaultMacroDenylist are the floating-point classification and networking macros that
// collide between libc headers.
var DefaultMacroDenylist = NewMacroDenylist(
	"FP_INFINITE",
	"FP_NAN",
	"FP_NORMAL",
	"FP_SUBNORMAL",
	"FP_ZERO",
	"IPPORT_RESERVED",
)

// NewMacroDenylist builds a denylist from names.
func NewMacroDenylist(names ...string) MacroDenylist {
	d := make(MacroDenylist, len(names))
	for _, n := range names {
		d[n] = struct{}{}
	}
	return d
}

// Contains reports whether the macro is denied.
func (d MacroDenylist) Contains(name string) bool {
	_, ok := d[name]
	return ok
}

// Sorted returns the denied names in lexical order.
func (d MacroDenylist) Sorted() []string {
	names := make([]string, 0, len(d))
	for n := range d {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// BindingRequest is everything the binding generator needs for one run.
type BindingRequest struct {
	// Headers are absolute paths, in manifest order.
	Headers     []string
	IncludeRoot string
	Denylist    []string
	LayoutTests bool
	// Deterministic asks for formatting that is byte-stable across runs.
	Deterministic bool
	// Generator overrides the default generator command and appends extra arguments.
	Generator GeneratorConfig
}
