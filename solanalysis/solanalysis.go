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

// Package solanalysis is the external Solidity analyzer the resolver
// delegates to: it extracts import strings and version pragmas from a
// source buffer. It performs no semantic analysis and does not build an
// AST; the resolver core only ever needs the raw literal strings that
// appear inside import and pragma statements.
package solanalysis

import "regexp"

// importPattern matches `import "path";`, `import {A, B} from "path";`,
// and `import * as name from "path";` forms.
var importPattern = regexp.MustCompile(`import\s+(?:(?:\{[^}]*\}|\*\s+as\s+\w+|\w+)\s+from\s+)?["']([^"']+)["']`)

// pragmaPattern matches `pragma solidity <versionExpr>;`, capturing the
// version expression verbatim (e.g. "^0.8.20", ">=0.8.0 <0.9.0").
var pragmaPattern = regexp.MustCompile(`pragma\s+solidity\s+([^;]+);`)

// Content holds the result of analyzing a Solidity source buffer.
type Content struct {
	// Text is the original source text, unmodified.
	Text string
	// ImportPaths are the literal strings inside import statements, in
	// source order, exactly as written (not yet classified or resolved).
	ImportPaths []string
	// VersionPragmas are the trimmed version expressions from each
	// `pragma solidity ...;` statement, in source order.
	VersionPragmas []string
}

// Analyze extracts import paths and version pragmas from Solidity
// source text. It never fails: source that contains no recognizable
// import or pragma statements simply yields empty slices.
func Analyze(text string) Content {
	content := Content{Text: text}

	for _, m := range importPattern.FindAllStringSubmatch(text, -1) {
		content.ImportPaths = append(content.ImportPaths, m[1])
	}

	for _, m := range pragmaPattern.FindAllStringSubmatch(text, -1) {
		content.VersionPragmas = append(content.VersionPragmas, trimPragmaVersion(m[1]))
	}

	return content
}

func trimPragmaVersion(v string) string {
	start, end := 0, len(v)
	for start < end && isPragmaSpace(v[start]) {
		start++
	}
	for end > start && isPragmaSpace(v[end-1]) {
		end--
	}
	return v[start:end]
}

func isPragmaSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
