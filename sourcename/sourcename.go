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

// Package sourcename provides the canonical, OS-independent source-name
// path utilities: joining, and conversion between on-disk relative paths
// and the `/`-separated identifiers the resolver core hands to callers.
package sourcename

import (
	"path/filepath"
	"strings"
)

// ProjectPrefix is the rootSourceName of the project package itself.
const ProjectPrefix = "project"

// Join concatenates source-name segments with single "/" separators,
// collapsing any runs of slashes produced by the individual segments.
func Join(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	joined := strings.Join(nonEmpty, "/")

	var b strings.Builder
	b.Grow(len(joined))
	prevSlash := false
	for _, r := range joined {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FromFsPath converts a host-native relative path to a source-name
// fragment by replacing the native separator with "/". It performs no
// normalization of "." or ".." segments; callers must guarantee a
// forward-only relative path with no such segments.
func FromFsPath(relative string) string {
	if filepath.Separator == '/' {
		return relative
	}
	return strings.ReplaceAll(relative, string(filepath.Separator), "/")
}

// ToFsPath is the inverse of FromFsPath: it converts a "/"-separated
// source-name fragment to a host-native relative path.
func ToFsPath(sourceName string) string {
	if filepath.Separator == '/' {
		return sourceName
	}
	return strings.ReplaceAll(sourceName, "/", string(filepath.Separator))
}

// Dir returns everything before the final "/" segment of a source name,
// mirroring path.Dir but operating purely on source-name strings (which
// are always "/"-separated regardless of host OS).
func Dir(sourceName string) string {
	idx := strings.LastIndex(sourceName, "/")
	if idx < 0 {
		return ""
	}
	return sourceName[:idx]
}

// HasPrefix reports whether sourceName lies at or under the directory
// identified by prefix, treating prefix as a directory boundary (so
// "project/foo" is not considered to be under "project/fo").
func HasPrefix(sourceName, prefix string) bool {
	if prefix == "" {
		return true
	}
	trimmed := strings.TrimSuffix(prefix, "/")
	if sourceName == trimmed {
		return true
	}
	return strings.HasPrefix(sourceName, trimmed+"/")
}

// NpmRootSourceName builds the canonical rootSourceName for an installed
// npm dependency: "npm/<name>@<version>".
func NpmRootSourceName(name, version string) string {
	return Join("npm", name+"@"+version)
}
