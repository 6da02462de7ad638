package fs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes content fingerprints of configure invocations and their inputs.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// Fingerprint hashes the invocation's flags and environment overrides together with the
// content of every file. Directories are expanded to the files they contain.
// File contents are hashed concurrently; the combination order is fixed.
func (h *Hasher) Fingerprint(inv domain.ConfigureInvocation, files []string) (string, error) {
	hasher := xxhash.New()

	hashInvocation(inv, hasher)

	paths, err := h.expand(files)
	if err != nil {
		return "", err
	}

	sums := make([]uint64, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			sum, err := h.ComputeFileHash(path)
			if err != nil {
				return err
			}
			sums[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", errors.Join(domain.ErrFingerprintFailed, err)
	}

	for i, path := range paths {
		_, _ = hasher.WriteString(path)
		_, _ = hasher.Write([]byte{0})
		if err := binary.Write(hasher, binary.LittleEndian, sums[i]); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// hashInvocation hashes flags in order and environment overrides by sorted key.
func hashInvocation(inv domain.ConfigureInvocation, hasher *xxhash.Digest) {
	for _, flag := range inv.Flags {
		_, _ = hasher.WriteString(flag)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	for _, k := range inv.EnvKeys() {
		_, _ = hasher.WriteString(k)
		_, _ = hasher.Write([]byte{'='})
		_, _ = hasher.WriteString(inv.Env[k])
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}

// expand resolves directories to their files and returns a sorted, deduplicated list.
func (h *Hasher) expand(files []string) ([]string, error) {
	var out []string
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return nil, zerr.With(errors.Join(domain.ErrFingerprintFailed, err), "path", path)
		}
		if !info.IsDir() {
			out = append(out, path)
			continue
		}
		for filePath, err := range h.walker.Files(path) {
			if err != nil {
				return nil, zerr.With(errors.Join(domain.ErrFingerprintFailed, err), "path", path)
			}
			out = append(out, filePath)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
