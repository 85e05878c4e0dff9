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

// Package graph walks the resolved-file graph reachable from one or more
// entrypoints, sourced entirely through resolver.Resolver's public
// operations so the walk can never disagree with what the resolver
// actually resolved.
package graph

import (
	"sort"

	"solresolve.dev/core/resolver"
)

// Edge is one import relationship that resolved successfully.
type Edge struct {
	From   string
	Import string
	To     string
}

// Issue is an import relationship that failed to resolve.
type Issue struct {
	From   string
	Import string
	Err    error
}

// Graph is the set of files reachable from a set of entrypoints, plus
// every edge and issue discovered while walking them.
type Graph struct {
	Entrypoints []string
	Nodes       []string
	Edges       []Edge
	Issues      []Issue
}

// BuildFromProjectFiles walks the graph reachable from a set of absolute
// project-file paths, following every import recorded in each file's
// analyzed content.
func BuildFromProjectFiles(r *resolver.Resolver, absPaths []string) (*Graph, error) {
	g := &Graph{}
	visited := make(map[string]bool)
	var queue []*resolver.ResolvedFile

	for _, absPath := range absPaths {
		file, err := r.ResolveProjectFile(absPath)
		if err != nil {
			return nil, err
		}
		g.Entrypoints = append(g.Entrypoints, file.SourceName)
		if !visited[file.SourceName] {
			visited[file.SourceName] = true
			queue = append(queue, file)
		}
	}

	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]
		g.Nodes = append(g.Nodes, file.SourceName)

		for _, imp := range file.Content.ImportPaths {
			resolved, err := r.ResolveImport(file, imp)
			if err != nil {
				g.Issues = append(g.Issues, Issue{From: file.SourceName, Import: imp, Err: err})
				continue
			}

			g.Edges = append(g.Edges, Edge{From: file.SourceName, Import: imp, To: resolved.File.SourceName})

			if !visited[resolved.File.SourceName] {
				visited[resolved.File.SourceName] = true
				queue = append(queue, resolved.File)
			}
		}
	}

	sort.Strings(g.Nodes)
	return g, nil
}
