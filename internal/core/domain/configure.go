package domain

import (
	"maps"
	"slices"
	"strings"
)

const (
	// AssemblerMissingMarker is printed by configure when no usable assembler is installed.
	AssemblerMissingMarker = "nasm/yasm not found or too old"
	// DisableAssemblerFlag turns off hand-written assembly so configure can proceed without an assembler.
	DisableAssemblerFlag = "--disable-x86asm"
)

// BaselineConfigureFlags are passed to every configure invocation.
var BaselineConfigureFlags = []string{
	"--disable-programs",
	"--disable-doc",
	"--disable-autodetect",
}

// FastDevConfigureFlags trade runtime speed for compile speed and keep debug symbols.
var FastDevConfigureFlags = []string{
	"--disable-optimizations",
	"--enable-debug",
	"--disable-stripping",
}

// ConfigureInvocation is the argument list and environment overrides for one configure run.
type ConfigureInvocation struct {
	Flags []string
	Env   map[string]string
}

// WithFlag returns a copy of the invocation with flag appended.
func (i ConfigureInvocation) WithFlag(flag string) ConfigureInvocation {
	return ConfigureInvocation{
		Flags: append(slices.Clone(i.Flags), flag),
		Env:   maps.Clone(i.Env),
	}
}

// HasFlag reports whether flag is part of the invocation.
func (i ConfigureInvocation) HasFlag(flag string) bool {
	return slices.Contains(i.Flags, flag)
}

// EnvKeys returns the override names in sorted order.
func (i ConfigureInvocation) EnvKeys() []string {
	return slices.Sorted(maps.Keys(i.Env))
}

// MakeRequest describes one compile step.
type MakeRequest struct {
	Dir      string
	Makefile string
	Jobs     int
}

// Command is a single external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  map[string]string
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// ProcessResult is the captured outcome of an external process.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the process exited with status zero.
func (r ProcessResult) Success() bool {
	return r.ExitCode == 0
}

// Contains reports whether marker appears in either output stream.
func (r ProcessResult) Contains(marker string) bool {
	return strings.Contains(r.Stdout, marker) || strings.Contains(r.Stderr, marker)
}

// Diagnostic concatenates both output streams with a visible separator.
func (r ProcessResult) Diagnostic() string {
	var b strings.Builder
	b.WriteString("--- stdout ---\n")
	b.WriteString(r.Stdout)
	if !strings.HasSuffix(r.Stdout, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("--- stderr ---\n")
	b.WriteString(r.Stderr)
	return b.String()
}

// OutcomeKind tags a classified configure result.
type OutcomeKind int

const (
	// OutcomeSuccess means configure exited with status zero.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeRecoverable means configure failed with a known marker that a retry can address.
	OutcomeRecoverable
	// OutcomeFatal means configure failed and must not be retried.
	OutcomeFatal
)

// String returns the outcome name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRecoverable:
		return "recoverable"
	default:
		return "fatal"
	}
}

// ConfigureOutcome is a classified configure result.
type ConfigureOutcome struct {
	Kind   OutcomeKind
	Marker string
	Result ProcessResult
}

// RecoveryPolicy maps a failure marker to the single flag that recovers from it.
type RecoveryPolicy struct {
	Marker string
	Flag   string
}

// DefaultRecoveryPolicy recovers from a missing assembler by disabling assembly.
var DefaultRecoveryPolicy = RecoveryPolicy{
	Marker: AssemblerMissingMarker,
	Flag:   DisableAssemblerFlag,
}

// Classify tags the result of a configure attempt. Attempts are numbered from zero and
// only the first attempt may be recoverable, so a retry can never be retried again.
func (p RecoveryPolicy) Classify(res ProcessResult, attempt int) ConfigureOutcome {
	switch {
	case res.Success():
		return ConfigureOutcome{Kind: OutcomeSuccess, Result: res}
	case attempt == 0 && p.Marker != "" && res.Contains(p.Marker):
		return ConfigureOutcome{Kind: OutcomeRecoverable, Marker: p.Marker, Result: res}
	default:
		return ConfigureOutcome{Kind: OutcomeFatal, Result: res}
	}
}
