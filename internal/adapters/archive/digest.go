package archive

import (
	"encoding/hex"
	"io"
	"os"
	"strings"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/zerr"
	"lukechampine.com/blake3"
)

// DigestPrefix may precede the hex digest in the project file.
const DigestPrefix = "blake3:"

// ComputeDigest returns the hex BLAKE3-256 digest of the file.
func ComputeDigest(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // archive path comes from the project file
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open archive"), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only file

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash archive"), "path", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyDigest checks the archive against digest. An empty digest accepts any content.
func (e *Extractor) VerifyDigest(archivePath, digest string) error {
	expected := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(digest, DigestPrefix)))
	if expected == "" {
		return nil
	}

	actual, err := ComputeDigest(archivePath)
	if err != nil {
		return err
	}

	if actual != expected {
		err := zerr.Wrap(domain.ErrArchiveDigestMismatch, "archive content does not match the pinned digest")
		err = zerr.With(err, "expected", expected)
		err = zerr.With(err, "actual", actual)
		return zerr.With(err, "path", archivePath)
	}
	return nil
}
