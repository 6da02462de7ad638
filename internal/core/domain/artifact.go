package domain

import (
	"os"
	"path/filepath"
)

const (
	// DirPerm is the default permission for directories created by the build.
	DirPerm os.FileMode = 0o750
	// FilePerm is the default permission for files written by the build.
	FilePerm os.FileMode = 0o644
)

// Artifact is a static library the native build must produce.
type Artifact struct {
	// Name is the logical library name used for linking.
	Name string
	// Path locates the archive relative to the working directory.
	// Empty means the conventional lib<name>/lib<name>.a.
	Path string
}

// RelPath returns the archive location relative to the working directory.
func (a Artifact) RelPath() string {
	if a.Path != "" {
		return filepath.Clean(a.Path)
	}
	return ArchivePath(a.Name)
}

// ArtifactSet is the fixed list of static libraries the native build must produce.
type ArtifactSet []Artifact

// Artifacts builds a set of conventionally placed libraries.
func Artifacts(names ...string) ArtifactSet {
	set := make(ArtifactSet, 0, len(names))
	for _, n := range names {
		set = append(set, Artifact{Name: n})
	}
	return set
}

// DefaultArtifacts are the static libraries produced by a full FFmpeg build.
var DefaultArtifacts = Artifacts(
	"avcodec",
	"avdevice",
	"avfilter",
	"avformat",
	"avutil",
	"swresample",
	"swscale",
)

// DefaultSearchSubdirs are the working directory subdirectories searched at link time.
// Some of them may not exist for every configuration.
var DefaultSearchSubdirs = []string{
	"libavcodec",
	"libavdevice",
	"libavfilter",
	"libavformat",
	"libavresample",
	"libavutil",
	"libpostproc",
	"libswresample",
	"libswscale",
}

// ArchivePath returns the location of a library archive relative to the working directory.
func ArchivePath(name string) string {
	return filepath.Join("lib"+name, "lib"+name+".a")
}

// Paths returns every archive path relative to the working directory.
func (a ArtifactSet) Paths() []string {
	paths := make([]string, 0, len(a))
	for _, art := range a {
		paths = append(paths, art.RelPath())
	}
	return paths
}

// Names returns the logical library names in order.
func (a ArtifactSet) Names() []string {
	names := make([]string, 0, len(a))
	for _, art := range a {
		names = append(names, art.Name)
	}
	return names
}

// Dirs returns the distinct archive directories relative to the working directory,
// in first-seen order.
func (a ArtifactSet) Dirs() []string {
	seen := make(map[string]struct{}, len(a))
	var dirs []string
	for _, art := range a {
		dir := filepath.Dir(art.RelPath())
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}
