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

import "fmt"

// ProjectRootErrorKind discriminates why an absolute path could not be
// resolved as a project root file.
type ProjectRootErrorKind string

const (
	ErrNotInProject      ProjectRootErrorKind = "PROJECT_ROOT_FILE_NOT_IN_PROJECT"
	ErrRootDoesntExist   ProjectRootErrorKind = "PROJECT_ROOT_FILE_DOESNT_EXIST"
	ErrRootInNodeModules ProjectRootErrorKind = "PROJECT_ROOT_FILE_IN_NODE_MODULES"
)

// ProjectRootError reports a failure to resolve an absolute path as a
// file inside the project root.
type ProjectRootError struct {
	Kind ProjectRootErrorKind
	Path string
}

func (e *ProjectRootError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

// NpmRootErrorKind discriminates why a bare module string could not be
// resolved as a root file inside an installed dependency.
type NpmRootErrorKind string

const (
	ErrNpmRootInvalidFormat     NpmRootErrorKind = "NPM_ROOT_FILE_NAME_WITH_INVALID_FORMAT"
	ErrNpmRootResolvesToProject NpmRootErrorKind = "NPM_ROOT_FILE_RESOLVES_TO_PROJECT_FILE"
	ErrNpmRootUninstalled       NpmRootErrorKind = "NPM_ROOT_FILE_OF_UNINSTALLED_PACKAGE"
	ErrNpmRootRemappingErrors   NpmRootErrorKind = "NPM_ROOT_FILE_OF_PACKAGE_WITH_REMAPPING_ERRORS"
	ErrNpmRootFileMissing       NpmRootErrorKind = "NPM_ROOT_FILE_DOESNT_EXIST_WITHIN_ITS_PACKAGE"
	ErrNpmRootIncorrectCasing   NpmRootErrorKind = "NPM_ROOT_FILE_WITH_INCORRRECT_CASING"
	ErrNpmRootNonExportedFile   NpmRootErrorKind = "NPM_ROOT_FILE_NON_EXPORTED_FILE"
)

// NpmRootError reports a failure to resolve a bare module string as a
// root file inside an installed dependency.
type NpmRootError struct {
	Kind            NpmRootErrorKind
	Module          string
	CorrectCasing   string
	RemappingErrors []error
}

func (e *NpmRootError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Module)
}

// ImportErrorKind discriminates why an import string could not be
// resolved from an already-resolved file.
type ImportErrorKind string

const (
	ErrWindowsSeparators   ImportErrorKind = "IMPORT_WITH_WINDOWS_PATH_SEPARATORS"
	ErrIllegalRelative     ImportErrorKind = "ILLEGAL_RELATIVE_IMPORT"
	ErrImportDoesntExist   ImportErrorKind = "IMPORT_DOESNT_EXIST"
	ErrImportInvalidCasing ImportErrorKind = "IMPORT_INVALID_CASING"
	ErrInvalidNpmSyntax    ImportErrorKind = "IMPORT_WITH_INVALID_NPM_SYNTAX"
	ErrUninstalledPackage  ImportErrorKind = "IMPORT_OF_UNINSTALLED_PACKAGE"
	ErrNpmRemappingErrors  ImportErrorKind = "IMPORT_OF_NPM_PACKAGE_WITH_REMAPPING_ERRORS"
	ErrNonExportedNpmFile  ImportErrorKind = "IMPORT_OF_NON_EXPORTED_NPM_FILE"
)

// ImportError reports a failure to resolve importPath as seen from From.
type ImportError struct {
	Kind   ImportErrorKind
	From   string
	Import string

	// CorrectCasing is set for ErrImportInvalidCasing.
	CorrectCasing string
	// SuggestedRemappingContext is set for ErrImportDoesntExist when the
	// fallback diagnostic finds a project-local file at the literal import
	// path (the user likely meant to add a remapping instead).
	SuggestedRemappingContext string
	// RemappingErrors is set for ErrNpmRemappingErrors.
	RemappingErrors []error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s: %s (from %s)", e.Kind, e.Import, e.From)
}

// InvariantViolation models an unexpected underlying failure (I/O,
// corrupt UTF-8, analyzer crash, or the package map losing track of a
// package) — a distinct channel from the closed error taxonomy above,
// signaling an implementation defect rather than a user-facing failure.
type InvariantViolation struct {
	Message string
	Err     error
}

func (e *InvariantViolation) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolver: invariant violated: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("resolver: invariant violated: %s", e.Message)
}

func (e *InvariantViolation) Unwrap() error { return e.Err }
