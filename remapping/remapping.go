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

// Package remapping parses and models Solidity import remappings:
// `[context:]prefix=target` lines from a remappings.txt file, and the
// generated remappings the package map synthesizes for installation
// edges.
package remapping

import (
	"fmt"
	"regexp"
	"strings"
)

// Line holds the three raw fields parsed from one remappings.txt line,
// before slash-ending validation or source-name rewriting. No I/O is
// performed here; that is the caller's responsibility.
type Line struct {
	Context string
	Prefix  string
	Target  string
}

// ErrSyntax is returned when a line does not match the
// `[context:]prefix=target` grammar.
type ErrSyntax struct {
	Line string
}

func (e *ErrSyntax) Error() string {
	return fmt.Sprintf("remapping: invalid syntax: %q", e.Line)
}

// ParseLine parses one already-trimmed, non-empty, non-comment
// remappings.txt line into its {context, prefix, target} fields.
//
// Grammar: [<context> ':'] <prefix> '=' <target>. The context is the
// longest prefix up to the first ':' that occurs strictly before the
// first '='. A line fails if '=' is absent, or if prefix or target is
// empty after splitting. No slash-ending check happens here.
func ParseLine(line string) (Line, error) {
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return Line{}, &ErrSyntax{Line: line}
	}

	left := line[:eq]
	target := line[eq+1:]

	var context, prefix string
	if colon := strings.IndexByte(left, ':'); colon >= 0 {
		context = left[:colon]
		prefix = left[colon+1:]
	} else {
		prefix = left
	}

	if prefix == "" || target == "" {
		return Line{}, &ErrSyntax{Line: line}
	}

	return Line{Context: context, Prefix: prefix, Target: target}, nil
}

// installationNamePattern matches the leading installation name of a
// node_modules-relative path: an optional "@scope/" followed by a bare
// name, both drawn from the restricted character set real npm package
// names use.
var installationNamePattern = regexp.MustCompile(`^(@[a-z0-9~-][a-z0-9~._-]*/)?[a-z0-9~-][a-z0-9~._-]*`)

// SplitInstallationName extracts the leading installation name (and any
// scope) from a node_modules-relative remainder such as
// "@uniswap/core/src/" or "lodash/index.js", returning the name and
// whatever followed it. It fails if the remainder does not begin with a
// syntactically valid package-name segment.
func SplitInstallationName(remainder string) (name string, rest string, ok bool) {
	loc := installationNamePattern.FindStringIndex(remainder)
	if loc == nil || loc[0] != 0 {
		return "", "", false
	}
	name = remainder[:loc[1]]
	rest = remainder[loc[1]:]
	rest = strings.TrimPrefix(rest, "/")
	return name, rest, true
}

// TargetNpmPackage describes the dependency a user remapping's target
// resolved to, when the target began with "node_modules/".
type TargetNpmPackage struct {
	InstallationName string
	PackageRootName  string // the dependency package's rootSourceName
}

// Resolved is a fully validated, source-name-rewritten remapping: either
// a user remapping parsed from a remappings.txt line, or a remapping
// generated by the package map for an installation edge.
type Resolved struct {
	Context string
	Prefix  string
	Target  string

	// OriginalFormat is the verbatim trimmed line a user remapping came
	// from; empty for generated remappings.
	OriginalFormat string
	// Source is the absolute path of the remappings.txt the line came
	// from; empty for generated remappings.
	Source string

	// TargetNpmPackage is set iff the remapping's target names an
	// installed npm dependency.
	TargetNpmPackage *TargetNpmPackage
}

// MatchesImport reports whether this remapping applies to an import
// from a file whose source name is fromSourceName, resolving to a
// direct import string directImport.
func (r Resolved) MatchesImport(fromSourceName, directImport string) bool {
	if r.Context != "" && !strings.HasPrefix(fromSourceName, r.Context) {
		return false
	}
	return strings.HasPrefix(directImport, r.Prefix)
}

// Apply rewrites directImport by replacing this remapping's prefix with
// its target. Callers must only call Apply after confirming MatchesImport.
func (r Resolved) Apply(directImport string) string {
	return r.Target + strings.TrimPrefix(directImport, r.Prefix)
}

// Best selects the best-matching remapping among candidates for an
// import from fromSourceName resolving to directImport, per the
// selection rule: longest context wins, ties broken by longest prefix,
// further ties broken by the most recently parsed remapping (the last
// element in discovery order). candidates must already be in discovery
// order. Returns false if none match.
func Best(candidates []Resolved, fromSourceName, directImport string) (Resolved, bool) {
	var best Resolved
	found := false

	for _, cand := range candidates {
		if !cand.MatchesImport(fromSourceName, directImport) {
			continue
		}
		if !found {
			best = cand
			found = true
			continue
		}
		if len(cand.Context) > len(best.Context) {
			best = cand
			continue
		}
		if len(cand.Context) < len(best.Context) {
			continue
		}
		if len(cand.Prefix) > len(best.Prefix) {
			best = cand
			continue
		}
		if len(cand.Prefix) < len(best.Prefix) {
			continue
		}
		// Equal context and prefix length: most recently discovered wins,
		// i.e. the later candidate in the slice.
		best = cand
	}

	return best, found
}
