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

// Package graph provides the graph command: it walks the resolved-file
// dependency graph from one or more entrypoints purely through the
// resolver's public API and reports every edge and unresolved import.
package graph

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"solresolve.dev/core/fsx"
	internalgraph "solresolve.dev/core/internal/graph"
	"solresolve.dev/core/internal/output"
	"solresolve.dev/core/resolver"
)

// Cmd is the graph cobra command.
var Cmd = &cobra.Command{
	Use:   "graph <entrypoint> [entrypoint...]",
	Short: "Walk the resolved import graph from one or more entrypoints",
	Long: `Walk the dependency graph reachable from one or more Solidity source
files, following every import through the resolver, and report each
resolved edge plus any import that failed to resolve.`,
	Example: `  solresolve graph contracts/Token.sol`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "json", "Output format (json, text)")
	_ = viper.BindPFlag("format", Cmd.Flags().Lookup("format"))
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fsx.NewOSFileSystem()
	absRoot, err := filepath.Abs(viper.GetString("package"))
	if err != nil {
		return fmt.Errorf("invalid package directory: %w", err)
	}

	format := viper.GetString("format")
	if format != "json" && format != "text" {
		return fmt.Errorf("invalid format %q: must be 'json' or 'text'", format)
	}

	r, errs := resolver.New(osfs, nil, absRoot)
	if len(errs) > 0 {
		return fmt.Errorf("failed to build package map: %d error(s): %v", len(errs), errs[0])
	}

	absPaths := make([]string, len(args))
	for i, a := range args {
		if filepath.IsAbs(a) {
			absPaths[i] = a
		} else {
			absPaths[i] = filepath.Join(absRoot, a)
		}
	}

	g, err := internalgraph.BuildFromProjectFiles(r, absPaths)
	if err != nil {
		return fmt.Errorf("building graph: %w", err)
	}

	type edgeReport struct {
		From   string `json:"from"`
		Import string `json:"import"`
		To     string `json:"to"`
	}
	type issueReport struct {
		From   string             `json:"from"`
		Import string             `json:"import"`
		Error  output.ErrorReport `json:"error"`
	}
	type reportBody struct {
		Entrypoints []string      `json:"entrypoints"`
		Nodes       []string      `json:"nodes"`
		Edges       []edgeReport  `json:"edges"`
		Issues      []issueReport `json:"issues"`
	}

	body := reportBody{Entrypoints: g.Entrypoints, Nodes: g.Nodes}
	for _, e := range g.Edges {
		body.Edges = append(body.Edges, edgeReport{From: e.From, Import: e.Import, To: e.To})
	}
	for _, i := range g.Issues {
		body.Issues = append(body.Issues, issueReport{From: i.From, Import: i.Import, Error: output.NewErrorReport(i.Err)})
	}

	return output.Write(body, format, func() []string {
		var lines []string
		lines = append(lines, fmt.Sprintf("entrypoints: %v", body.Entrypoints))
		for _, e := range body.Edges {
			lines = append(lines, fmt.Sprintf("%s --%s--> %s", e.From, e.Import, e.To))
		}
		for _, i := range body.Issues {
			lines = append(lines, fmt.Sprintf("%s --%s--> ERROR %s: %s", i.From, i.Import, i.Error.Kind, i.Error.Message))
		}
		return lines
	})
}
