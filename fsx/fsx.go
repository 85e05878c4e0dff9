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

// Package fsx provides the filesystem abstraction the resolver core is built
// against, including true-case path discovery on case-insensitive
// filesystems.
package fsx

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem provides an abstraction over filesystem operations.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	Stat(name string) (fs.FileInfo, error)
	Exists(path string) bool

	// fs.FS compatibility - allows use with fs.WalkDir and doublestar.
	Open(name string) (fs.File, error)

	// Sub returns an fs.FS rooted at dir, for doublestar glob walks scoped
	// to a single package directory.
	Sub(dir string) (fs.FS, error)

	// RealPath resolves symlinks in path, the way Node's module resolution
	// does when walking up node_modules directories in a symlinked
	// monorepo (pnpm/yarn workspaces). Implementations with no symlink
	// concept (in-memory test filesystems) return path unchanged.
	RealPath(path string) (string, error)
}

// OSFileSystem implements FileSystem using the standard os package.
type OSFileSystem struct{}

// NewOSFileSystem creates a new filesystem that uses the standard os package.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// ReadFile reads the entire contents of a file.
func (f *OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// ReadDir reads the named directory and returns its entries.
func (f *OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

// Stat returns file information for the named file.
func (f *OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Exists returns true if the path exists.
func (f *OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Open opens the named file for reading.
func (f *OSFileSystem) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// Sub returns an fs.FS rooted at dir.
func (f *OSFileSystem) Sub(dir string) (fs.FS, error) {
	return os.DirFS(dir), nil
}

// RealPath resolves symlinks via the OS.
func (f *OSFileSystem) RealPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path, err
	}
	return resolved, nil
}

// TrueCasePath reconciles the casing of relPath (a slash-joined path
// relative to root, using the host's filepath separator once joined)
// against what is actually present on disk, segment by segment. It returns
// the on-disk casing and whether every segment existed; a false result means
// the path does not exist at all, not merely that casing differed.
//
// Each segment is matched exactly first, then case-insensitively against
// the directory listing, so a miscased relPath is reconciled to the
// on-disk casing on case-sensitive filesystems too.
func TrueCasePath(fsys FileSystem, root, relPath string) (string, bool) {
	if relPath == "" {
		return relPath, fsys.Exists(root)
	}

	segments := strings.Split(filepath.ToSlash(relPath), "/")
	dir := root
	resolved := make([]string, 0, len(segments))

	for _, seg := range segments {
		if seg == "" {
			continue
		}
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return relPath, false
		}

		found := ""
		for _, e := range entries {
			if e.Name() == seg {
				found = e.Name()
				break
			}
		}
		if found == "" {
			for _, e := range entries {
				if strings.EqualFold(e.Name(), seg) {
					found = e.Name()
					break
				}
			}
		}
		if found == "" {
			return relPath, false
		}

		resolved = append(resolved, found)
		dir = filepath.Join(dir, found)
	}

	return strings.Join(resolved, "/"), true
}
