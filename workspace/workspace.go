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

// Package workspace is a CLI-only diagnostic that enumerates monorepo
// packages by following a root package.json's "workspaces" field. It is
// not used by pkgmap's core local/version detection, which stays purely
// path-based.
package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"solresolve.dev/core/fsx"
	"solresolve.dev/core/packagejson"
)

// Package is a single workspace member: a name and the directory its
// package.json lives in.
type Package struct {
	Name string
	Path string
}

// Discover finds all workspace packages declared by rootDir's
// package.json. Returns nil, nil if no workspaces field is present.
func Discover(fsys fsx.FileSystem, rootDir string) ([]Package, error) {
	rootPkgPath := filepath.Join(rootDir, "package.json")
	rootPkg, err := packagejson.ParseFile(fsys, rootPkgPath)
	if err != nil {
		return nil, err
	}

	patterns := rootPkg.WorkspacePatterns()
	if len(patterns) == 0 {
		return nil, nil
	}

	var packages []Package
	for _, pattern := range patterns {
		dirs, err := expandPattern(fsys, rootDir, pattern)
		if err != nil {
			continue
		}
		for _, dir := range dirs {
			pkg, err := parsePackage(fsys, dir)
			if err != nil {
				continue
			}
			packages = append(packages, pkg)
		}
	}

	return packages, nil
}

// expandPattern expands a workspace glob pattern ("packages/*",
// "libs/*/") to matching directories. Only a literal directory or a
// pattern whose final segment is exactly "*" is expanded; any other
// wildcard pattern yields no directories.
func expandPattern(fsys fsx.FileSystem, rootDir, pattern string) ([]string, error) {
	pattern = strings.TrimSuffix(pattern, "/")

	if strings.HasSuffix(pattern, "/*") {
		baseDir := strings.TrimSuffix(pattern, "/*")
		fullBase := filepath.Join(rootDir, baseDir)

		entries, err := fsys.ReadDir(fullBase)
		if err != nil {
			return nil, err
		}

		var dirs []string
		for _, entry := range entries {
			if entry.IsDir() {
				dirs = append(dirs, filepath.Join(fullBase, entry.Name()))
			}
		}
		return dirs, nil
	}

	if !strings.Contains(pattern, "*") {
		fullPath := filepath.Join(rootDir, pattern)
		if fsys.Exists(fullPath) {
			return []string{fullPath}, nil
		}
		return nil, nil
	}

	return nil, nil
}

// parsePackage reads a package.json from dir and returns its Package.
func parsePackage(fsys fsx.FileSystem, dir string) (Package, error) {
	pkgPath := filepath.Join(dir, "package.json")
	pkg, err := packagejson.ParseFile(fsys, pkgPath)
	if err != nil {
		return Package{}, err
	}
	if pkg.Name == "" {
		return Package{}, fmt.Errorf("workspace: package at %s has no name", dir)
	}
	return Package{Name: pkg.Name, Path: dir}, nil
}
