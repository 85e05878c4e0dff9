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

// Package workspaces provides the workspaces command: a diagnostic that
// enumerates the monorepo packages declared by the project's
// package.json workspaces field.
package workspaces

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"solresolve.dev/core/fsx"
	"solresolve.dev/core/internal/output"
	"solresolve.dev/core/workspace"
)

// Cmd is the workspaces cobra command.
var Cmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List the monorepo packages declared by the project's workspaces field",
	Long: `List every workspace package declared by the project root's package.json
workspaces field. Workspace members installed under node_modules resolve
with version "local" during import resolution; this command shows which
directories those members live in.`,
	Example: `  solresolve workspaces -p ./monorepo`,
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

	packages, err := workspace.Discover(osfs, absRoot)
	if err != nil {
		return fmt.Errorf("discovering workspaces: %w", err)
	}

	type report struct {
		Name string `json:"name"`
		Path string `json:"path"`
	}
	reports := make([]report, len(packages))
	for i, pkg := range packages {
		reports[i] = report{Name: pkg.Name, Path: pkg.Path}
	}

	return output.Write(reports, format, func() []string {
		lines := make([]string, len(reports))
		for i, rep := range reports {
			lines[i] = fmt.Sprintf("%s\t%s", rep.Name, rep.Path)
		}
		return lines
	})
}
