// Package config provides the project file loader for ffbuild.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads ffbuild.yaml from cwd. Without a project file the pinned defaults are used.
// Relative paths in the file resolve against cwd.
func (l *Loader) Load(cwd string) (domain.Project, error) {
	root, err := filepath.Abs(cwd)
	if err != nil {
		return domain.Project{}, domain.Tag(domain.ErrConfigReadFailed, err)
	}

	project := domain.DefaultProject(root)
	path := filepath.Join(root, domain.ProjectFileName)

	//nolint:gosec // path is the fixed project file name inside the working directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return project, nil
		}
		return domain.Project{}, zerr.With(domain.Tag(domain.ErrConfigReadFailed, err), "path", path)
	}

	var pf Projectfile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return domain.Project{}, zerr.With(domain.Tag(domain.ErrConfigParseFailed, err), "path", path)
	}

	if err := apply(&project, &pf, root); err != nil {
		return domain.Project{}, zerr.With(err, "path", path)
	}

	if l.Logger != nil {
		l.Logger.Info("using project file " + path)
	}
	return project, nil
}

func apply(p *domain.Project, pf *Projectfile, root string) error {
	if pf.Archive != "" {
		p.Archive = resolve(root, pf.Archive)
	}
	p.ArchiveDigest = pf.ArchiveDigest
	if pf.SourceDir != "" {
		p.SourceDir = pf.SourceDir
	}
	if pf.Manifest != "" {
		p.Manifest = resolve(root, pf.Manifest)
	}
	if pf.Bindings != "" {
		p.Bindings = pf.Bindings
	}
	if len(pf.Artifacts) > 0 {
		artifacts, err := artifactSet(pf.Artifacts)
		if err != nil {
			return err
		}
		p.Artifacts = artifacts
	}
	if len(pf.SearchSubdirs) > 0 {
		p.SearchSubdirs = pf.SearchSubdirs
	}
	if len(pf.MacroDenylist) > 0 {
		p.Denylist = domain.NewMacroDenylist(pf.MacroDenylist...)
	}

	if pf.Generator != nil {
		if pf.Generator.Command != "" {
			p.Generator.Command = pf.Generator.Command
		}
		p.Generator.Args = pf.Generator.Args
	}

	if pf.Link != nil {
		if pf.Link.Format != "" {
			p.Link.Format = domain.LinkFormat(pf.Link.Format)
		}
		if pf.Link.CgoPackage != "" {
			p.Link.CgoPackage = pf.Link.CgoPackage
		}
		if pf.Link.CgoFile != "" {
			p.Link.CgoFile = resolve(root, pf.Link.CgoFile)
		}
	}

	switch p.Link.Format {
	case domain.LinkFormatDirectives:
	case domain.LinkFormatCgo:
		if p.Link.CgoFile == "" {
			return zerr.Wrap(domain.ErrInvalidLinkFormat, "link format cgo requires cgo_file")
		}
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidLinkFormat, "unknown link format"), "format", p.Link.Format)
	}

	return nil
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// artifactSet converts the artifacts list. Names are required and paths must stay
// inside the build directory.
func artifactSet(dtos []ArtifactDTO) (domain.ArtifactSet, error) {
	set := make(domain.ArtifactSet, 0, len(dtos))
	for i, a := range dtos {
		if a.Name == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "artifact has no name"), "index", i)
		}
		if a.Path != "" && !filepath.IsLocal(a.Path) {
			err := zerr.Wrap(domain.ErrConfigParseFailed, "artifact path must be relative to the build directory")
			return nil, zerr.With(zerr.With(err, "artifact", a.Name), "artifact_path", a.Path)
		}
		set = append(set, domain.Artifact{Name: a.Name, Path: a.Path})
	}
	return set, nil
}
