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

// Package output provides shared result types and writing for the
// resolve/graph CLI commands.
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"solresolve.dev/core/resolver"
)

// FileReport is the serializable view of a resolved file.
type FileReport struct {
	SourceName string `json:"sourceName"`
	FsPath     string `json:"fsPath"`
	Kind       string `json:"kind"`
}

// NewFileReport builds a FileReport from a resolved file.
func NewFileReport(file *resolver.ResolvedFile) FileReport {
	kind := "project"
	if file.Kind == resolver.NpmFile {
		kind = "npm"
	}
	return FileReport{SourceName: file.SourceName, FsPath: file.FsPath, Kind: kind}
}

// ErrorReport is the serializable view of a single resolution failure,
// classified into its closed-taxonomy Kind when the error is one of the
// resolver's typed errors.
type ErrorReport struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewErrorReport classifies err into an ErrorReport.
func NewErrorReport(err error) ErrorReport {
	switch e := err.(type) {
	case *resolver.ProjectRootError:
		return ErrorReport{Kind: string(e.Kind), Message: e.Error()}
	case *resolver.NpmRootError:
		return ErrorReport{Kind: string(e.Kind), Message: e.Error()}
	case *resolver.ImportError:
		return ErrorReport{Kind: string(e.Kind), Message: e.Error()}
	case *resolver.InvariantViolation:
		return ErrorReport{Kind: "INVARIANT_VIOLATION", Message: e.Error()}
	default:
		return ErrorReport{Kind: "UNKNOWN", Message: err.Error()}
	}
}

// Write formats value as JSON (format == "json") or plain text (anything
// else, using textLines) and writes it to viper's "output" flag file, or
// stdout if unset.
func Write(value any, format string, textLines func() []string) error {
	var rendered string
	if format == "json" {
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling output: %w", err)
		}
		rendered = string(data)
	} else {
		for _, line := range textLines() {
			rendered += line + "\n"
		}
	}

	if outputPath := viper.GetString("output"); outputPath != "" {
		return os.WriteFile(outputPath, []byte(rendered+"\n"), 0644)
	}
	fmt.Println(rendered)
	return nil
}
