// Package fs provides file system adapters for presence checks, walking and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"go.trai.ch/ffbuild/internal/core/domain"
)

// Walker lists the files of a dependency tree that take part in the build fingerprint.
type Walker struct {
	skip []string
}

// NewWalker creates a Walker that prunes VCS metadata, the state directory and any
// entry whose base name matches one of the extra glob patterns.
func NewWalker(patterns ...string) *Walker {
	return &Walker{skip: append([]string{".git", domain.StateDirName}, patterns...)}
}

// Files yields regular files, and symlinks to regular files, under root in lexical
// order. Paths include root as a prefix. A read error is yielded once and ends the walk.
func (w *Walker) Files(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && w.skipped(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !w.hashable(path, d) {
				return nil
			}
			if !yield(path, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

func (w *Walker) skipped(name string) bool {
	for _, pattern := range w.skip {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (w *Walker) hashable(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
