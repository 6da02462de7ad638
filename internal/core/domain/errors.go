package domain

import (
	"errors"
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrConfiguration is returned when the build environment is unusable.
	ErrConfiguration = zerr.New("invalid build configuration")

	// ErrMissingOutDir is returned when the output directory variable is not set.
	ErrMissingOutDir = zerr.Wrap(ErrConfiguration, "output directory is not set")

	// ErrFeatureDependencyMissing is returned when an enabled feature lacks its prefix directory.
	ErrFeatureDependencyMissing = zerr.Wrap(ErrConfiguration, "feature dependency directory is not set")

	// ErrArchiveLayout is returned when the extracted archive does not contain the expected directory.
	ErrArchiveLayout = zerr.New("unexpected archive layout")

	// ErrArchiveDigestMismatch is returned when the pinned archive digest does not match.
	ErrArchiveDigestMismatch = zerr.Wrap(ErrArchiveLayout, "archive digest mismatch")

	// ErrExtractFailed is returned when the archive cannot be unpacked.
	ErrExtractFailed = zerr.New("failed to extract archive")

	// ErrConfigureFailed is returned when the configure step exits unsuccessfully.
	ErrConfigureFailed = zerr.New("configure failed")

	// ErrCompilationFailed is returned when the compile step exits unsuccessfully.
	ErrCompilationFailed = zerr.New("compilation failed")

	// ErrManifestFormat is returned when the header manifest contains blank lines.
	ErrManifestFormat = zerr.New("malformed header manifest")

	// ErrMissingHeaders is returned when manifest entries do not resolve to existing files.
	ErrMissingHeaders = zerr.New("missing header files")

	// ErrCodegenFailed is returned when the binding generator fails.
	ErrCodegenFailed = zerr.New("binding generation failed")

	// ErrLinkEmitFailed is returned when the link plan cannot be written.
	ErrLinkEmitFailed = zerr.New("failed to emit link plan")

	// ErrConfigReadFailed is returned when the project file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the project file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidLinkFormat is returned when the project file names an unknown link format.
	ErrInvalidLinkFormat = zerr.New("invalid link format, expected 'directives' or 'cgo'")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrFingerprintFailed is returned when the build fingerprint cannot be computed.
	ErrFingerprintFailed = zerr.New("failed to compute build fingerprint")

	// ErrBuildFailed is returned when any pipeline stage fails.
	ErrBuildFailed = zerr.New("build failed")
)

// Tag marks err as an instance of kind so callers can match it with errors.Is.
// Errors that already carry kind are returned unchanged.
func Tag(kind, err error) error {
	if err == nil || errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
