// Package archive unpacks pinned source archives.
package archive

import (
	"archive/tar"
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Extractor = (*Extractor)(nil)

// Format is a supported archive container.
type Format int

// Supported formats.
const (
	FormatUnknown Format = iota
	FormatTar
	FormatTarGz
	FormatTarBz2
	FormatTarXz
	FormatTarZst
	FormatZip
)

// DetectFormat picks the format from the file name.
func DetectFormat(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return FormatTarGz
	case strings.HasSuffix(name, ".tar.bz2"):
		return FormatTarBz2
	case strings.HasSuffix(name, ".tar.xz"):
		return FormatTarXz
	case strings.HasSuffix(name, ".tar.zst"):
		return FormatTarZst
	case strings.HasSuffix(name, ".tar"):
		return FormatTar
	case strings.HasSuffix(name, ".zip"):
		return FormatZip
	default:
		return FormatUnknown
	}
}

// Extractor unpacks archives without stripping path components, so the archive's
// top-level directory appears inside the destination.
type Extractor struct {
	logger ports.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(logger ports.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract unpacks archivePath into destDir. Existing files are overwritten.
func (e *Extractor) Extract(ctx context.Context, archivePath, destDir string) error {
	dest, err := filepath.Abs(destDir)
	if err != nil {
		return domain.Tag(domain.ErrExtractFailed, err)
	}
	if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
		return zerr.With(domain.Tag(domain.ErrExtractFailed, err), "path", dest)
	}

	format := DetectFormat(archivePath)
	if format == FormatUnknown {
		return zerr.With(zerr.Wrap(domain.ErrExtractFailed, "unsupported archive format"), "path", archivePath)
	}

	e.logger.Info(fmt.Sprintf("extracting %s into %s", filepath.Base(archivePath), dest))

	if format == FormatZip {
		err = extractZip(ctx, archivePath, dest)
	} else {
		err = extractTarFile(ctx, archivePath, dest, format)
	}
	if err != nil {
		return zerr.With(domain.Tag(domain.ErrExtractFailed, err), "archive", archivePath)
	}
	return nil
}

func extractTarFile(ctx context.Context, archivePath, dest string, format Format) error {
	f, err := os.Open(archivePath) //nolint:gosec // archive path comes from the project file
	if err != nil {
		return domain.Tag(domain.ErrExtractFailed, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	var r io.Reader = f
	switch format {
	case FormatTarGz:
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return zerr.Wrap(err, "failed to create gzip reader")
		}
		defer gz.Close() //nolint:errcheck // decoder close only releases resources
		r = gz
	case FormatTarBz2:
		r = bzip2.NewReader(f)
	case FormatTarXz:
		xr, err := xz.NewReader(f)
		if err != nil {
			return zerr.Wrap(err, "failed to create xz reader")
		}
		r = xr
	case FormatTarZst:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return zerr.Wrap(err, "failed to create zstd reader")
		}
		defer zr.Close()
		r = zr
	case FormatTar:
	}

	return extractTar(ctx, tar.NewReader(r), dest)
}

func extractTar(ctx context.Context, tr *tar.Reader, dest string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, "failed to read tar header")
		}

		if hdr.Typeflag == tar.TypeXHeader || hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, dirMode(hdr.FileInfo().Mode())); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", target)
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := writeSymlink(dest, target, hdr.Linkname); err != nil {
				return err
			}
		case tar.TypeLink:
			source, err := safeJoin(dest, hdr.Linkname)
			if err != nil {
				return err
			}
			if err := replaceWith(target, func() error { return os.Link(source, target) }); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create hard link"), "path", target)
			}
		}
	}
}

func extractZip(ctx context.Context, archivePath, dest string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return zerr.Wrap(err, "failed to open zip archive")
	}
	defer zr.Close() //nolint:errcheck // read-only archive

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, dirMode(f.Mode())); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", target)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to open zip entry"), "path", f.Name)
		}
		err = writeFile(target, rc, f.Mode())
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// safeJoin resolves name under dest and rejects entries escaping it.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", zerr.With(zerr.Wrap(domain.ErrExtractFailed, "illegal file path in archive"), "entry", name)
	}
	return target, nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create parent directory"), "path", target)
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = domain.FilePerm
	}

	// Remove first so a previously extracted symlink is not followed.
	if err := removeIfNotDir(target); err != nil {
		return err
	}

	//nolint:gosec // target is confined to the destination directory by safeJoin
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", target)
	}
	if _, err := io.Copy(out, r); err != nil { //nolint:gosec // archive size is bounded by the pinned source
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", target)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close file"), "path", target)
	}
	return nil
}

func writeSymlink(dest, target, linkname string) error {
	resolved := linkname
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(target), linkname)
	}
	if _, err := safeJoin(dest, mustRel(dest, resolved)); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create parent directory"), "path", target)
	}
	if err := replaceWith(target, func() error { return os.Symlink(linkname, target) }); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create symlink"), "path", target)
	}
	return nil
}

func mustRel(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}

func replaceWith(target string, create func() error) error {
	if err := removeIfNotDir(target); err != nil {
		return err
	}
	return create()
}

func removeIfNotDir(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	if info.IsDir() {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace path"), "path", path)
	}
	return nil
}

func dirMode(mode os.FileMode) os.FileMode {
	if perm := mode.Perm(); perm != 0 {
		return perm | 0o700
	}
	return domain.DirPerm
}
