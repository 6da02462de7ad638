// Package link builds the link plan for the produced static archives.
package link

import (
	"path/filepath"

	"go.trai.ch/ffbuild/internal/core/domain"
)

// Plan lists search paths first: workDir, each subdir under workDir, artifact directories
// not already covered, then feature paths. Libraries follow: each artifact, then feature libraries.
func Plan(
	workDir string,
	subdirs []string,
	artifacts domain.ArtifactSet,
	extras domain.LinkExtras,
) domain.LinkPlan {
	directives := make([]domain.LinkDirective, 0,
		1+len(subdirs)+len(extras.SearchPaths)+len(artifacts)+len(extras.Libraries))

	search := func(dir string) {
		directives = append(directives, domain.LinkDirective{Kind: domain.DirectiveSearchNative, Value: dir})
	}
	lib := func(name string) {
		directives = append(directives, domain.LinkDirective{Kind: domain.DirectiveStaticLib, Value: name})
	}

	search(workDir)
	covered := map[string]struct{}{".": {}}
	for _, sub := range subdirs {
		covered[filepath.Clean(sub)] = struct{}{}
		search(filepath.Join(workDir, sub))
	}
	for _, dir := range artifacts.Dirs() {
		if _, ok := covered[dir]; ok {
			continue
		}
		covered[dir] = struct{}{}
		search(filepath.Join(workDir, dir))
	}
	for _, p := range extras.SearchPaths {
		search(p)
	}
	for _, name := range artifacts.Names() {
		lib(name)
	}
	for _, l := range extras.Libraries {
		lib(l)
	}

	return domain.LinkPlan{Directives: directives}
}
