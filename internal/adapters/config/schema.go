package config

import "gopkg.in/yaml.v3"

// Projectfile represents the structure of the ffbuild.yaml configuration file.
type Projectfile struct {
	Version       string        `yaml:"version"`
	Archive       string        `yaml:"archive"`
	ArchiveDigest string        `yaml:"archive_digest"`
	SourceDir     string        `yaml:"source_dir"`
	Manifest      string        `yaml:"manifest"`
	Bindings      string        `yaml:"bindings"`
	Artifacts     []ArtifactDTO `yaml:"artifacts"`
	SearchSubdirs []string      `yaml:"search_subdirs"`
	MacroDenylist []string      `yaml:"macro_denylist"`
	Generator     *GeneratorDTO `yaml:"generator"`
	Link          *LinkDTO      `yaml:"link"`
}

// GeneratorDTO represents the binding generator section.
type GeneratorDTO struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// LinkDTO represents the link plan section.
type LinkDTO struct {
	Format     string `yaml:"format"`
	CgoFile    string `yaml:"cgo_file"`
	CgoPackage string `yaml:"cgo_package"`
}

// ArtifactDTO is one entry of the artifacts list. A bare name is shorthand for
// a mapping without a path.
type ArtifactDTO struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// UnmarshalYAML accepts either a scalar name or a {name, path} mapping.
func (a *ArtifactDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&a.Name)
	}
	type plain ArtifactDTO
	return node.Decode((*plain)(a))
}
