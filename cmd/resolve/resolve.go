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

// Package resolve provides the resolve command: it builds the Remapped
// Package Map for a project root and resolves a set of Solidity source
// files against it, reporting each file's canonical source name or the
// structured error that prevented resolution.
package resolve

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"solresolve.dev/core/fsx"
	"solresolve.dev/core/internal/output"
	"solresolve.dev/core/remapping"
	"solresolve.dev/core/resolver"
)

// Cmd is the resolve cobra command.
var Cmd = &cobra.Command{
	Use:   "resolve [files...]",
	Short: "Resolve Solidity source files against the remapped package map",
	Long: `Resolve one or more Solidity source files within a project root, reporting
each file's canonical source name and on-disk path, or the structured
error that prevented resolution.

With no file arguments, every *.sol file under the project root (outside
node_modules) is resolved.`,
	Example: `  # Resolve every source file under the project root
  solresolve resolve

  # Resolve specific files
  solresolve resolve contracts/Token.sol contracts/Vault.sol

  # Dump the project's effective remappings
  solresolve resolve --dump-remappings`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "json", "Output format (json, text)")
	Cmd.Flags().Bool("dump-remappings", false, "Print the project's resolved remappings instead of resolving files")
	Cmd.Flags().String("remapping-format", "", "Template for --dump-remappings output (e.g. \"{context}{prefix}={target}\")")

	_ = viper.BindPFlag("format", Cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("dump-remappings", Cmd.Flags().Lookup("dump-remappings"))
	_ = viper.BindPFlag("remapping-format", Cmd.Flags().Lookup("remapping-format"))
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
		reports := make([]output.ErrorReport, len(errs))
		for i, e := range errs {
			reports[i] = output.ErrorReport{Kind: "REMAPPING_ERROR", Message: e.Error()}
		}
		_ = output.Write(reports, format, func() []string {
			lines := make([]string, len(reports))
			for i, rep := range reports {
				lines[i] = fmt.Sprintf("%s: %s", rep.Kind, rep.Message)
			}
			return lines
		})
		return fmt.Errorf("failed to build package map: %d error(s)", len(errs))
	}

	if viper.GetBool("dump-remappings") {
		return dumpRemappings(r, format)
	}

	paths := args
	if len(paths) == 0 {
		discovered, err := discoverSolFiles(osfs, absRoot)
		if err != nil {
			return fmt.Errorf("discovering source files: %w", err)
		}
		paths = discovered
	}

	type result struct {
		Path  string              `json:"path"`
		File  *output.FileReport  `json:"file,omitempty"`
		Error *output.ErrorReport `json:"error,omitempty"`
	}

	results := make([]result, 0, len(paths))
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(absRoot, p)
		}
		file, err := r.ResolveProjectFile(abs)
		if err != nil {
			rep := output.NewErrorReport(err)
			results = append(results, result{Path: p, Error: &rep})
			continue
		}
		rep := output.NewFileReport(file)
		results = append(results, result{Path: p, File: &rep})
	}

	return output.Write(results, format, func() []string {
		lines := make([]string, 0, len(results))
		for _, res := range results {
			if res.Error != nil {
				lines = append(lines, fmt.Sprintf("%s: ERROR %s: %s", res.Path, res.Error.Kind, res.Error.Message))
				continue
			}
			lines = append(lines, fmt.Sprintf("%s -> %s (%s)", res.Path, res.File.SourceName, res.File.Kind))
		}
		return lines
	})
}

func dumpRemappings(r *resolver.Resolver, format string) error {
	formatter := remapping.DefaultFormatter
	if pattern := viper.GetString("remapping-format"); pattern != "" {
		f, err := remapping.NewFormatter(pattern)
		if err != nil {
			return fmt.Errorf("invalid remapping format: %w", err)
		}
		formatter = f
	}

	resolved := r.ProjectRemappings()
	return output.Write(resolved, format, func() []string {
		lines := make([]string, len(resolved))
		for i, rem := range resolved {
			lines[i] = formatter.Format(rem)
		}
		return lines
	})
}

// discoverSolFiles finds every *.sol file under rootDir, excluding
// anything below a node_modules segment, sorted for deterministic
// output.
func discoverSolFiles(fsys fsx.FileSystem, rootDir string) ([]string, error) {
	subFS, err := fsys.Sub(rootDir)
	if err != nil {
		return nil, err
	}

	var matches []string
	err = doublestar.GlobWalk(subFS, "**/*.sol", func(p string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		for _, seg := range strings.Split(p, "/") {
			if seg == "node_modules" {
				return nil
			}
		}
		matches = append(matches, filepath.Join(rootDir, filepath.FromSlash(p)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}
