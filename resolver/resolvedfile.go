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

package resolver

import (
	"solresolve.dev/core/pkgmap"
	"solresolve.dev/core/solanalysis"
)

// FileKind discriminates the two shapes a ResolvedFile can take.
type FileKind int

const (
	ProjectFile FileKind = iota
	NpmFile
)

// ResolvedFile is an interned, immutable record of a successfully
// resolved Solidity source file: either a project file or a file inside
// an installed npm-style dependency. Once created it is never mutated;
// a second resolution of the same source name returns the same value.
type ResolvedFile struct {
	SourceName string
	FsPath     string
	Kind       FileKind
	Package    *pkgmap.Package
	Content    solanalysis.Content
}
