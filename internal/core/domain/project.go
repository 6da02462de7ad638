package domain

import "path/filepath"

const (
	// ProjectFileName is the optional project file read from the working directory.
	ProjectFileName = "ffbuild.yaml"

	// DefaultArchive is the pinned source archive shipped with the project.
	DefaultArchive = "archive/FFmpeg-FFmpeg-2722fc2.tar.gz"
	// DefaultSourceDir is the top-level directory recorded in the pinned archive.
	DefaultSourceDir = "FFmpeg-FFmpeg-2722fc2"
	// DefaultManifest is the header manifest consumed by codegen.
	DefaultManifest = "headers.txt"
	// DefaultBindings is the generated bindings file name inside the output directory.
	DefaultBindings = "bindings.rs"
	// DefaultGenerator is the header-to-binding generator executable.
	DefaultGenerator = "bindgen"
	// DefaultCgoPackage is the package clause used by the cgo link emitter.
	DefaultCgoPackage = "ffmpeg"
	// StateDirName holds ffbuild bookkeeping inside the output directory.
	StateDirName = ".ffbuild"
)

// GeneratorConfig selects the binding generator executable.
type GeneratorConfig struct {
	Command string
	Args    []string
}

// LinkConfig selects how the link plan is delivered.
type LinkConfig struct {
	Format     LinkFormat
	CgoFile    string
	CgoPackage string
}

// Project describes the pinned source and codegen inputs. Paths are absolute after loading.
type Project struct {
	Archive       string
	ArchiveDigest string
	SourceDir     string
	Manifest      string
	Bindings      string
	Artifacts     ArtifactSet
	SearchSubdirs []string
	Denylist      MacroDenylist
	Generator     GeneratorConfig
	Link          LinkConfig
}

// DefaultProject returns the project used when no project file exists, rooted at root.
func DefaultProject(root string) Project {
	return Project{
		Archive:       filepath.Join(root, DefaultArchive),
		SourceDir:     DefaultSourceDir,
		Manifest:      filepath.Join(root, DefaultManifest),
		Bindings:      DefaultBindings,
		Artifacts:     DefaultArtifacts,
		SearchSubdirs: DefaultSearchSubdirs,
		Denylist:      DefaultMacroDenylist,
		Generator:     GeneratorConfig{Command: DefaultGenerator},
		Link: LinkConfig{
			Format:     LinkFormatDirectives,
			CgoPackage: DefaultCgoPackage,
		},
	}
}

// WorkDir is where the archive's top-level directory lands inside outDir.
func (p Project) WorkDir(outDir string) string {
	return filepath.Join(outDir, p.SourceDir)
}

// BindingsPath is the generated bindings location inside outDir.
func (p Project) BindingsPath(outDir string) string {
	if filepath.IsAbs(p.Bindings) {
		return p.Bindings
	}
	return filepath.Join(outDir, p.Bindings)
}

// StatePath is the fingerprint store location inside outDir.
func StatePath(outDir string) string {
	return filepath.Join(outDir, StateDirName)
}
