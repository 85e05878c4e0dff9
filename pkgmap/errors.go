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
package pkgmap

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates the closed set of user-remapping failures the
// map can produce while draining its work queue.
type ErrorKind string

const (
	// ErrSyntax marks a remappings.txt line that does not match the
	// "[context:]prefix=target" grammar, or whose npm target has no
	// syntactically valid installation name.
	ErrSyntax ErrorKind = "REMAPPING_WITH_INVALID_SYNTAX"
	// ErrUninstalled marks a remapping whose npm target names a
	// dependency that is not installed anywhere reachable from the
	// owning package.
	ErrUninstalled ErrorKind = "REMAPPING_TO_UNINSTALLED_PACKAGE"
	// ErrNoSlash marks a remapping whose prefix, target, or non-empty
	// context does not end in "/".
	ErrNoSlash ErrorKind = "ILLEGAL_REMAPPING_WITHOUT_SLASH_ENDINGS"
)

// RemappingError is a single user-remapping failure, carrying enough
// context to reproduce the original problem line.
type RemappingError struct {
	Kind ErrorKind
	// Source is the absolute path of the remappings.txt the line came
	// from.
	Source string
	// Remapping is the verbatim trimmed line that failed.
	Remapping string
}

func (e *RemappingError) Error() string {
	return fmt.Sprintf("%s: %q (%s)", e.Kind, e.Remapping, e.Source)
}

// ErrNotInstalled is returned by ResolveDependencyByInstallationName when
// no package.json for the requested installation name can be found by
// walking up the ancestor node_modules directories.
var ErrNotInstalled = errors.New("pkgmap: dependency not installed")
