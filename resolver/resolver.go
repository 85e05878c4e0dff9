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

// Package resolver turns a starting file and an import string into an
// interned, canonically-named Solidity source file, or a structured
// error drawn from a closed taxonomy. It owns the package map and
// serializes every public operation behind a single mutex, since
// resolving one file can load a new package, which can introduce new
// remappings, which can require resolving more files.
package resolver

import (
	"path"
	"path/filepath"
	"strings"
	"sync"

	"solresolve.dev/core/fsx"
	"solresolve.dev/core/packagejson"
	"solresolve.dev/core/pkgmap"
	"solresolve.dev/core/remapping"
	"solresolve.dev/core/solanalysis"
	"solresolve.dev/core/sourcename"
)

// Logger receives diagnostic output during resolution.
type Logger = pkgmap.Logger

// Resolved pairs a resolved file with the remapping, if any, that was
// applied to reach it. Remapping is nil when no remapping participated
// (relative imports, project-root lookups).
type Resolved struct {
	File      *ResolvedFile
	Remapping *remapping.Resolved
}

// Resolver owns the Remapped Package Map and the sourceName -> file
// intern table, and serializes every public operation behind mu.
type Resolver struct {
	mu     sync.Mutex
	fs     fsx.FileSystem
	logger Logger
	pkgs   *pkgmap.Map
	files  map[string]*ResolvedFile
}

// New builds a Resolver for a project rooted at rootDir, constructing
// its Remapped Package Map eagerly. The returned errors are the
// accumulated user-remapping failures from map construction; a non-nil
// error list means the Resolver was not constructed.
func New(fsys fsx.FileSystem, logger Logger, rootDir string) (*Resolver, []error) {
	pkgs, errs := pkgmap.New(fsys, logger, rootDir)
	if len(errs) > 0 {
		return nil, errs
	}
	return &Resolver{
		fs:     fsys,
		logger: logger,
		pkgs:   pkgs,
		files:  make(map[string]*ResolvedFile),
	}, nil
}

// ResolveProjectFile resolves an absolute file path that must lie
// inside the project root, outside any node_modules segment.
func (r *Resolver) ResolveProjectFile(absPath string) (*ResolvedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	project := r.pkgs.ProjectPackage()
	root := project.RootFsPath

	rel, err := filepath.Rel(root, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, &ProjectRootError{Kind: ErrNotInProject, Path: absPath}
	}

	relSlash := filepath.ToSlash(rel)
	if containsNodeModulesSegment(relSlash) {
		return nil, &ProjectRootError{Kind: ErrRootInNodeModules, Path: absPath}
	}

	sourceName := sourcename.Join(sourcename.ProjectPrefix, sourcename.FromFsPath(relSlash))
	if cached, ok := r.files[sourceName]; ok {
		return cached, nil
	}

	trueRel, exists := fsx.TrueCasePath(r.fs, root, rel)
	if !exists {
		return nil, &ProjectRootError{Kind: ErrRootDoesntExist, Path: absPath}
	}

	trueSourceName := sourcename.Join(sourcename.ProjectPrefix, sourcename.FromFsPath(trueRel))
	if cached, ok := r.files[trueSourceName]; ok {
		return cached, nil
	}

	fsPath := filepath.Join(root, filepath.FromSlash(trueRel))
	if info, err := r.fs.Stat(fsPath); err != nil || info.IsDir() {
		return nil, &ProjectRootError{Kind: ErrRootDoesntExist, Path: absPath}
	}

	file, err := r.readFile(trueSourceName, fsPath, ProjectFile, project)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// ResolveNpmDependencyFileAsRoot resolves a bare module string such as
// "@scope/pkg/path/File.sol" as a compilation root living inside an
// installed dependency.
func (r *Resolver) ResolveNpmDependencyFileAsRoot(npmModule string) (Resolved, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.Contains(npmModule, "\\") || strings.HasPrefix(npmModule, "/") ||
		strings.HasPrefix(npmModule, "./") || strings.HasPrefix(npmModule, "../") {
		return Resolved{}, &NpmRootError{Kind: ErrNpmRootInvalidFormat, Module: npmModule}
	}

	// The fake file's source name carries a trailing slash so that user
	// remappings rooted at "project/" can still match it; a bare module
	// string can never be classified as relative after the format check
	// above.
	project := r.pkgs.ProjectPackage()
	fake := &ResolvedFile{
		SourceName: sourcename.ProjectPrefix + "/",
		FsPath:     project.RootFsPath,
		Kind:       ProjectFile,
		Package:    project,
	}

	res, rerr := r.resolveImportLocked(fake, npmModule)
	if rerr == nil {
		if res.File.Kind != NpmFile {
			return Resolved{}, &NpmRootError{Kind: ErrNpmRootResolvesToProject, Module: npmModule}
		}
		return res, nil
	}

	impErr, ok := rerr.(*ImportError)
	if !ok {
		return Resolved{}, rerr
	}

	switch impErr.Kind {
	case ErrInvalidNpmSyntax:
		return Resolved{}, &NpmRootError{Kind: ErrNpmRootInvalidFormat, Module: npmModule}
	case ErrUninstalledPackage:
		return Resolved{}, &NpmRootError{Kind: ErrNpmRootUninstalled, Module: npmModule}
	case ErrNpmRemappingErrors:
		return Resolved{}, &NpmRootError{Kind: ErrNpmRootRemappingErrors, Module: npmModule, RemappingErrors: impErr.RemappingErrors}
	case ErrImportDoesntExist:
		return Resolved{}, &NpmRootError{Kind: ErrNpmRootFileMissing, Module: npmModule}
	case ErrImportInvalidCasing:
		return Resolved{}, &NpmRootError{Kind: ErrNpmRootIncorrectCasing, Module: npmModule, CorrectCasing: impErr.CorrectCasing}
	case ErrNonExportedNpmFile:
		return Resolved{}, &NpmRootError{Kind: ErrNpmRootNonExportedFile, Module: npmModule}
	case ErrIllegalRelative:
		return Resolved{}, &InvariantViolation{Message: "npm-root resolution produced a relative-import failure, which is impossible by construction", Err: impErr}
	default:
		return Resolved{}, &InvariantViolation{Message: "unmapped import error while resolving npm root", Err: impErr}
	}
}

// ProjectRemappings returns the project package's resolved user
// remappings, in discovery order. Exposed for CLI diagnostics (a
// --dump-remappings flag); resolution itself never needs this directly,
// since resolveImportLocked asks the package map per-package as needed.
func (r *Resolver) ProjectRemappings() []remapping.Resolved {
	r.mu.Lock()
	defer r.mu.Unlock()
	project := r.pkgs.ProjectPackage()
	return r.pkgs.UserRemappings(project)
}

// ResolveImport resolves importPath as seen from an already-resolved
// file from.
func (r *Resolver) ResolveImport(from *ResolvedFile, importPath string) (Resolved, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveImportLocked(from, importPath)
}

func (r *Resolver) resolveImportLocked(from *ResolvedFile, importPath string) (Resolved, error) {
	if strings.Contains(importPath, "\\") {
		return Resolved{}, &ImportError{Kind: ErrWindowsSeparators, From: from.SourceName, Import: importPath}
	}

	relative := strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../")

	var directImport string
	if relative {
		directImport = path.Join(sourcename.Dir(from.SourceName), importPath)
		if !sourcename.HasPrefix(directImport, from.Package.RootSourceName) {
			return Resolved{}, &ImportError{Kind: ErrIllegalRelative, From: from.SourceName, Import: importPath}
		}
	} else {
		directImport = importPath
	}

	candidates := r.pkgs.UserRemappings(from.Package)
	best, matched := remapping.Best(candidates, from.SourceName, directImport)

	if matched && relative {
		return Resolved{}, &InvariantViolation{
			Message: "a relative import matched a user remapping, which the remapping set must never allow",
		}
	}

	if matched {
		sourceName := best.Apply(directImport)
		pkg := r.packageForRemapping(from.Package, best)
		file, err := r.resolveSourceNameInPackage(sourceName, pkg)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{File: file, Remapping: &best}, nil
	}

	if !relative {
		resolved, err := r.resolveNpmImportLocked(from, directImport)
		if err == nil {
			return resolved, nil
		}

		impErr, ok := err.(*ImportError)
		if ok && (impErr.Kind == ErrUninstalledPackage || impErr.Kind == ErrInvalidNpmSyntax) {
			if suggestion, found := r.findProjectLocalAncestorFile(from, importPath); found {
				return Resolved{}, &ImportError{
					Kind:                      ErrImportDoesntExist,
					From:                      from.SourceName,
					Import:                    importPath,
					SuggestedRemappingContext: suggestion,
				}
			}
		}
		return Resolved{}, err
	}

	// Relative import, no remapping matched: resolve directly beneath the
	// owning package.
	relFsPath := sourcename.ToFsPath(strings.TrimPrefix(directImport, from.Package.RootSourceName+"/"))
	file, err := r.resolveSourceNameAtPath(directImport, from.Package, relFsPath)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{File: file}, nil
}

// packageForRemapping returns the package that owns a matched
// remapping's target: the owning package itself for a local remapping,
// or the specific dependency package for an npm remapping.
func (r *Resolver) packageForRemapping(owner *pkgmap.Package, m remapping.Resolved) *pkgmap.Package {
	if m.TargetNpmPackage == nil {
		return owner
	}
	dep, ok := owner.Dependency(m.TargetNpmPackage.InstallationName)
	if !ok {
		return owner
	}
	return dep
}

// resolveNpmImportLocked parses directImport as packageName/subpath,
// resolves the dependency, applies package-exports resolution if the
// dependency declares exports, and validates the resulting file.
func (r *Resolver) resolveNpmImportLocked(from *ResolvedFile, directImport string) (Resolved, error) {
	installationName, rest, ok := remapping.SplitInstallationName(directImport)
	if !ok {
		return Resolved{}, &ImportError{Kind: ErrInvalidNpmSyntax, From: from.SourceName, Import: directImport}
	}

	depRes, err := r.pkgs.ResolveDependencyByInstallationName(from.Package, installationName)
	if err != nil {
		return Resolved{}, &ImportError{Kind: ErrUninstalledPackage, From: from.SourceName, Import: directImport}
	}
	if len(depRes.RemappingErrors) > 0 {
		return Resolved{}, &ImportError{Kind: ErrNpmRemappingErrors, From: from.SourceName, Import: directImport, RemappingErrors: depRes.RemappingErrors}
	}

	dep := depRes.Package
	subpath := rest

	generated := depRes.Generated
	carried := &generated

	if dep.Exports() != nil {
		exportSubpath := "."
		if rest != "" {
			exportSubpath = "./" + rest
		}
		resolved, err := dep.PackageJSON.ResolveExport(exportSubpath, exportConditions)
		if err != nil {
			return Resolved{}, &ImportError{Kind: ErrNonExportedNpmFile, From: from.SourceName, Import: directImport}
		}
		if resolved != rest {
			subpath = resolved
			targeted := r.pkgs.GenerateRemappingIntoNpmFile(from.Package, directImport, sourcename.Join(dep.RootSourceName, subpath))
			carried = &targeted
		}
	}

	sourceName := sourcename.Join(dep.RootSourceName, subpath)
	file, err := r.resolveSourceNameInPackage(sourceName, dep)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{File: file, Remapping: carried}, nil
}

// exportConditions restricts package-exports resolution to the
// "default" condition, the only one the resolver ever enables.
var exportConditions = &packagejson.ResolveOptions{Conditions: packagejson.DefaultConditions}

// resolveSourceNameInPackage validates and interns sourceName, computing
// its on-disk path relative to pkg's root.
func (r *Resolver) resolveSourceNameInPackage(sourceName string, pkg *pkgmap.Package) (*ResolvedFile, error) {
	relFsPath := sourcename.ToFsPath(strings.TrimPrefix(sourceName, pkg.RootSourceName+"/"))
	if sourceName == pkg.RootSourceName {
		relFsPath = ""
	}
	return r.resolveSourceNameAtPath(sourceName, pkg, relFsPath)
}

func (r *Resolver) resolveSourceNameAtPath(sourceName string, pkg *pkgmap.Package, relFsPath string) (*ResolvedFile, error) {
	if cached, ok := r.files[sourceName]; ok {
		return cached, nil
	}

	trueRel, exists := fsx.TrueCasePath(r.fs, pkg.RootFsPath, relFsPath)
	if !exists {
		return nil, &ImportError{Kind: ErrImportDoesntExist, Import: sourceName}
	}
	if trueRel != filepath.ToSlash(relFsPath) {
		return nil, &ImportError{Kind: ErrImportInvalidCasing, Import: sourceName, CorrectCasing: sourcename.Join(pkg.RootSourceName, trueRel)}
	}

	fsPath := filepath.Join(pkg.RootFsPath, filepath.FromSlash(trueRel))
	if info, err := r.fs.Stat(fsPath); err != nil || info.IsDir() {
		// A bare package import ("pkg" with no subpath and no exports)
		// lands on the package directory itself.
		return nil, &ImportError{Kind: ErrImportDoesntExist, Import: sourceName}
	}

	kind := ProjectFile
	if pkg.RootSourceName != sourcename.ProjectPrefix {
		kind = NpmFile
	}
	return r.readFile(sourceName, fsPath, kind, pkg)
}

// readFile reads fsPath, analyzes it, interns the result under
// sourceName, and returns it. Any unexpected I/O failure is an
// InvariantViolation, never part of the closed taxonomy.
func (r *Resolver) readFile(sourceName, fsPath string, kind FileKind, pkg *pkgmap.Package) (*ResolvedFile, error) {
	data, err := r.fs.ReadFile(fsPath)
	if err != nil {
		return nil, &InvariantViolation{Message: "reading resolved file " + fsPath, Err: err}
	}

	content := solanalysis.Analyze(string(data))
	file := &ResolvedFile{
		SourceName: sourceName,
		FsPath:     fsPath,
		Kind:       kind,
		Package:    pkg,
		Content:    content,
	}
	r.files[sourceName] = file
	return file, nil
}

// findProjectLocalAncestorFile walks from dirname(from.fsPath) upward
// toward from.package.rootFsPath looking for a file at the literal
// importPath, the diagnostic for a user who wrote a direct-local import
// (neither relative nor a valid npm specifier) instead of a remapping.
func (r *Resolver) findProjectLocalAncestorFile(from *ResolvedFile, importPath string) (string, bool) {
	dir := filepath.Dir(from.FsPath)
	root := filepath.Clean(from.Package.RootFsPath)

	for {
		candidate := filepath.Join(dir, filepath.FromSlash(importPath))
		if r.fs.Exists(candidate) {
			rel, err := filepath.Rel(from.Package.RootFsPath, dir)
			if err != nil {
				rel = ""
			}
			ctx := sourcename.Join(from.Package.RootSourceName, sourcename.FromFsPath(rel)) + "/"
			return ctx, true
		}
		if dir == root {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func containsNodeModulesSegment(slashPath string) bool {
	for _, seg := range strings.Split(slashPath, "/") {
		if seg == "node_modules" {
			return true
		}
	}
	return false
}
