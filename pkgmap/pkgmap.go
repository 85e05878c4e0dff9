/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package pkgmap builds and holds the Remapped Package Map: the set of
// installed Solidity packages reachable from a project root, their
// installation edges, and every user remapping discovered anywhere in
// the tree, rewritten to canonical source names.
//
// Construction drains a FIFO work queue sequentially rather than
// fanning out across goroutines, because callers depend on a stable,
// reproducible order of accumulated remapping errors across a run.
package pkgmap

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"solresolve.dev/core/fsx"
	"solresolve.dev/core/packagejson"
	"solresolve.dev/core/remapping"
	"solresolve.dev/core/sourcename"
)

// Package is an installed Solidity package: the project root itself, or
// a dependency reachable through some chain of node_modules directories.
type Package struct {
	Name           string
	Version        string
	RootFsPath     string
	RootSourceName string
	PackageJSON    *packagejson.PackageJSON

	installations  map[string]*edge
	userRemappings []remapping.Resolved
}

// Exports returns the package's parsed exports field, or nil if it
// declares none.
func (p *Package) Exports() any {
	if p.PackageJSON == nil {
		return nil
	}
	return p.PackageJSON.Exports
}

// Dependency returns the package already resolved for installationName
// on a prior call to ResolveDependencyByInstallationName, if any.
func (p *Package) Dependency(installationName string) (*Package, bool) {
	e, ok := p.installations[installationName]
	if !ok {
		return nil, false
	}
	return e.dependency, true
}

// edge is a directed installation-name edge from an owner package to a
// dependency package, carrying the generated remapping synthesized for
// it exactly once.
type edge struct {
	installationName string
	dependency       *Package
	generated        remapping.Resolved
}

// DependencyResolution is the result of resolving an installation name
// to a dependency package.
type DependencyResolution struct {
	Package         *Package
	Generated       remapping.Resolved
	RemappingErrors []error
}

// Map is the Remapped Package Map: every discovered Package, keyed by
// rootSourceName, plus the FIFO work queue driving remapping discovery.
// Map has no locking of its own; it is safe to use only while the
// caller (the Resolver) holds its own serializing mutex.
type Map struct {
	fs       fsx.FileSystem
	logger   Logger
	project  *Package
	packages map[string]*Package
	queue    []*Package
	pkgCache packagejson.Cache
}

// New builds the package map for a project rooted at rootDir. It reads
// rootDir's package.json, then drains the work queue: discovering
// remappings for the project, resolving every npm remapping's target
// dependency, discovering that dependency's own remappings, and so on,
// until the queue is empty.
//
// Construction yields either the assembled map or the full list of
// accumulated remapping errors; never a partial map with errors.
func New(fsys fsx.FileSystem, logger Logger, rootDir string) (*Map, []error) {
	if logger == nil {
		logger = NopLogger{}
	}

	cache := packagejson.NewMemoryCache()
	pkgJSONPath := filepath.Join(rootDir, "package.json")
	pkgJSON, err := cache.GetOrLoad(pkgJSONPath, func() (*packagejson.PackageJSON, error) {
		return packagejson.ParseFile(fsys, pkgJSONPath)
	})
	if err != nil {
		return nil, []error{fmt.Errorf("pkgmap: reading project package.json at %s: %w", pkgJSONPath, err)}
	}

	project := &Package{
		Name:           pkgJSON.Name,
		Version:        pkgJSON.Version,
		RootFsPath:     rootDir,
		RootSourceName: sourcename.ProjectPrefix,
		PackageJSON:    pkgJSON,
		installations:  make(map[string]*edge),
	}

	m := &Map{
		fs:      fsys,
		logger:  logger,
		project: project,
		packages: map[string]*Package{
			sourcename.ProjectPrefix: project,
		},
		queue:    []*Package{project},
		pkgCache: cache,
	}

	if errs := m.drainQueue(); len(errs) > 0 {
		return nil, errs
	}
	return m, nil
}

// ProjectPackage returns the root project package.
func (m *Map) ProjectPackage() *Package {
	return m.project
}

// UserRemappings returns pkg's resolved user remappings in discovery
// order: nested remappings.txt files first (sorted by path), then the
// package's own top-level remappings.txt last. Repeated calls without
// intervening construction return the identical slice value.
func (m *Map) UserRemappings(pkg *Package) []remapping.Resolved {
	return pkg.userRemappings
}

// GenerateRemappingIntoNpmFile builds a targeted remapping for an import
// whose resolved source name diverges from the generic installation-edge
// remapping, because package-exports rewriting changed the subpath.
func (m *Map) GenerateRemappingIntoNpmFile(from *Package, directImport, sourceName string) remapping.Resolved {
	return remapping.Resolved{
		Context: from.RootSourceName + "/",
		Prefix:  directImport,
		Target:  sourceName,
	}
}

// ResolveDependencyByInstallationName resolves a dependency of from
// reachable under installationName, draining any newly-enqueued
// packages (and their remapping discovery) before returning. Returns
// ErrNotInstalled if no package.json for installationName exists
// anywhere in the ancestor node_modules chain from from.RootFsPath.
func (m *Map) ResolveDependencyByInstallationName(from *Package, installationName string) (DependencyResolution, error) {
	if e, ok := from.installations[installationName]; ok {
		return DependencyResolution{Package: e.dependency, Generated: e.generated}, nil
	}

	pkgJSONPath, found := m.lookupAncestorPackageJSON(from.RootFsPath, installationName)
	if !found {
		return DependencyResolution{}, ErrNotInstalled
	}

	depRootFsPath := filepath.Dir(pkgJSONPath)
	realDepPath, err := m.fs.RealPath(depRootFsPath)
	if err != nil {
		realDepPath = depRootFsPath
	}
	realProjectPath, err := m.fs.RealPath(m.project.RootFsPath)
	if err != nil {
		realProjectPath = m.project.RootFsPath
	}

	depPkgJSON, err := m.pkgCache.GetOrLoad(pkgJSONPath, func() (*packagejson.PackageJSON, error) {
		return packagejson.ParseFile(m.fs, pkgJSONPath)
	})
	if err != nil {
		return DependencyResolution{}, fmt.Errorf("pkgmap: reading %s: %w", pkgJSONPath, err)
	}

	var version string
	if !underNodeModules(realDepPath) && !isUnderDir(realDepPath, realProjectPath) {
		version = "local"
	} else {
		version = depPkgJSON.Version
	}

	var rootSourceName string
	if samePath(realDepPath, realProjectPath) {
		rootSourceName = sourcename.ProjectPrefix
	} else {
		rootSourceName = sourcename.NpmRootSourceName(depPkgJSON.Name, version)
	}

	dep, exists := m.packages[rootSourceName]
	var newlyCreated bool
	if !exists {
		dep = &Package{
			Name:           depPkgJSON.Name,
			Version:        version,
			RootFsPath:     depRootFsPath,
			RootSourceName: rootSourceName,
			PackageJSON:    depPkgJSON,
			installations:  make(map[string]*edge),
		}
		m.packages[rootSourceName] = dep
		m.queue = append(m.queue, dep)
		newlyCreated = true
	}

	generated := remapping.Resolved{
		Context: from.RootSourceName + "/",
		Prefix:  installationName + "/",
		Target:  dep.RootSourceName + "/",
	}
	from.installations[installationName] = &edge{
		installationName: installationName,
		dependency:       dep,
		generated:        generated,
	}

	var remappingErrors []error
	if newlyCreated {
		remappingErrors = m.drainQueue()
	}

	return DependencyResolution{Package: dep, Generated: generated, RemappingErrors: remappingErrors}, nil
}

// lookupAncestorPackageJSON walks up from startDir looking for
// <dir>/node_modules/<installationName>/package.json, the way Node's
// module resolution algorithm walks up looking for a dependency.
func (m *Map) lookupAncestorPackageJSON(startDir, installationName string) (string, bool) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, "node_modules", installationName, "package.json")
		if m.fs.Exists(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// drainQueue processes the FIFO work queue until empty, discovering
// remappings for each package in turn. A package's remapping may
// reference a not-yet-seen dependency; ResolveDependencyByInstallationName
// then enqueues it and drains the queue at once, in a nested call, so the
// dependency's remapping errors are reported right after those of the
// lines already parsed and before those of the referencing file's later
// lines. Errors are therefore not grouped strictly by queue order across
// packages.
func (m *Map) drainQueue() []error {
	var errs []error
	for len(m.queue) > 0 {
		pkg := m.queue[0]
		m.queue = m.queue[1:]
		errs = append(errs, m.discoverRemappings(pkg)...)
	}
	return errs
}

// discoverRemappings locates every remappings.txt under pkg.RootFsPath
// (excluding anything below a node_modules segment), parses and
// validates each line, and stores the resolved remappings on pkg in
// discovery order: nested files first (sorted by path), the package's
// own top-level remappings.txt last.
func (m *Map) discoverRemappings(pkg *Package) []error {
	subFS, err := m.fs.Sub(pkg.RootFsPath)
	if err != nil {
		m.logger.Debug("pkgmap: package root %s is not walkable: %v", pkg.RootFsPath, err)
		return nil
	}

	var matches []string
	err = doublestar.GlobWalk(subFS, "**/remappings.txt", func(p string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		matches = append(matches, p)
		return nil
	})
	if err != nil {
		m.logger.Debug("pkgmap: glob walk under %s failed: %v", pkg.RootFsPath, err)
		return nil
	}

	var filtered []string
	for _, p := range matches {
		if underNodeModules(p) {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.Slice(filtered, func(i, j int) bool {
		iRoot := filtered[i] == "remappings.txt"
		jRoot := filtered[j] == "remappings.txt"
		if iRoot != jRoot {
			return jRoot
		}
		return filtered[i] < filtered[j]
	})

	var errs []error
	for _, relPath := range filtered {
		text, err := fs.ReadFile(subFS, relPath)
		if err != nil {
			m.logger.Warning("pkgmap: reading %s: %v", relPath, err)
			continue
		}

		absSource := filepath.Join(pkg.RootFsPath, filepath.FromSlash(relPath))
		relSubdir := path.Dir(relPath)
		if relSubdir == "." {
			relSubdir = ""
		}

		resolved, lineErrs := m.parseRemappingsFile(pkg, absSource, relSubdir, string(text))
		pkg.userRemappings = append(pkg.userRemappings, resolved...)
		errs = append(errs, lineErrs...)
	}

	return errs
}

// parseRemappingsFile parses and validates every line of one
// remappings.txt, returning the resolved remappings (in line order) and
// any accumulated errors.
func (m *Map) parseRemappingsFile(pkg *Package, absSourcePath, relSubdir, text string) ([]remapping.Resolved, []error) {
	ctxPath := sourcename.Join(pkg.RootSourceName, relSubdir)
	if !strings.HasSuffix(ctxPath, "/") {
		ctxPath += "/"
	}

	var resolved []remapping.Resolved
	var errs []error

	for _, raw := range strings.Split(text, "\n") {
		trimmed := trimASCIISpace(strings.TrimSuffix(raw, "\r"))
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		line, err := remapping.ParseLine(trimmed)
		if err != nil {
			errs = append(errs, &RemappingError{Kind: ErrSyntax, Source: absSourcePath, Remapping: trimmed})
			continue
		}

		if !strings.HasSuffix(line.Prefix, "/") || !strings.HasSuffix(line.Target, "/") ||
			(line.Context != "" && !strings.HasSuffix(line.Context, "/")) {
			errs = append(errs, &RemappingError{Kind: ErrNoSlash, Source: absSourcePath, Remapping: trimmed})
			continue
		}

		context := rewriteFragment(line.Context, ctxPath)

		if !strings.HasPrefix(line.Target, "node_modules/") {
			target := rewriteFragment(line.Target, ctxPath)
			resolved = append(resolved, remapping.Resolved{
				Context:        context,
				Prefix:         line.Prefix,
				Target:         target,
				OriginalFormat: trimmed,
				Source:         absSourcePath,
			})
			continue
		}

		remainder := strings.TrimPrefix(line.Target, "node_modules/")
		installationName, rest, ok := remapping.SplitInstallationName(remainder)
		if !ok {
			errs = append(errs, &RemappingError{Kind: ErrSyntax, Source: absSourcePath, Remapping: trimmed})
			continue
		}
		if rest == "" {
			// prefix/=node_modules/prefix/: a no-op, dropped silently.
			continue
		}

		depRes, err := m.ResolveDependencyByInstallationName(pkg, installationName)
		if err != nil {
			errs = append(errs, &RemappingError{Kind: ErrUninstalled, Source: absSourcePath, Remapping: trimmed})
			continue
		}
		errs = append(errs, depRes.RemappingErrors...)

		resolved = append(resolved, remapping.Resolved{
			Context:        context,
			Prefix:         line.Prefix,
			Target:         depRes.Package.RootSourceName + "/" + rest,
			OriginalFormat: trimmed,
			Source:         absSourcePath,
			TargetNpmPackage: &remapping.TargetNpmPackage{
				InstallationName: installationName,
				PackageRootName:  depRes.Package.RootSourceName,
			},
		})
	}

	return resolved, errs
}

// rewriteFragment prepends ctxPath to fragment, unless fragment already
// names a canonical source-name (starts with "npm/"), in which case it
// is kept verbatim.
func rewriteFragment(fragment, ctxPath string) string {
	if strings.HasPrefix(fragment, "npm/") {
		return fragment
	}
	return ctxPath + fragment
}

func trimASCIISpace(s string) string {
	start, end := 0, len(s)
	for start < end && isASCIISpace(s[start]) {
		start++
	}
	for end > start && isASCIISpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func underNodeModules(p string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(p), "/") {
		if seg == "node_modules" {
			return true
		}
	}
	return false
}

func isUnderDir(candidate, dir string) bool {
	rel, err := filepath.Rel(dir, candidate)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
