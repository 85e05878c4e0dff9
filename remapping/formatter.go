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
package remapping

import (
	"fmt"
	"regexp"
	"strings"
)

// Formatter renders a Resolved remapping as a line of text using a
// template with {context}, {prefix}, {target}, and {source}
// placeholders. Used by the CLI's --dump-remappings flag; the default
// Formatter reproduces the remappings.txt line format solc expects.
type Formatter struct {
	pattern   string
	variables []string
	// contextColon renders a non-empty {context} followed by ":".
	contextColon bool
}

var formatterVariablePattern = regexp.MustCompile(`\{(\w+)\}`)

var formatterValidVars = map[string]bool{
	"context": true,
	"prefix":  true,
	"target":  true,
	"source":  true,
}

// DefaultFormatter renders "context:prefix=target", the canonical
// remappings.txt line shape, omitting the context and its ":" when the
// context is empty.
var DefaultFormatter = &Formatter{
	pattern:      "{context}{prefix}={target}",
	variables:    []string{"context", "prefix", "target"},
	contextColon: true,
}

// NewFormatter parses a formatting template.
func NewFormatter(pattern string) (*Formatter, error) {
	if pattern == "" {
		return nil, fmt.Errorf("remapping: formatter pattern cannot be empty")
	}

	matches := formatterVariablePattern.FindAllStringSubmatch(pattern, -1)
	var variables []string
	for _, m := range matches {
		if !formatterValidVars[m[1]] {
			return nil, fmt.Errorf("remapping: unknown formatter variable: {%s}", m[1])
		}
		variables = append(variables, m[1])
	}

	return &Formatter{pattern: pattern, variables: variables}, nil
}

// Format renders a single resolved remapping using the template.
func (f *Formatter) Format(r Resolved) string {
	context := r.Context
	if f.contextColon && context != "" {
		context += ":"
	}
	result := f.pattern
	result = strings.ReplaceAll(result, "{context}", context)
	result = strings.ReplaceAll(result, "{prefix}", r.Prefix)
	result = strings.ReplaceAll(result, "{target}", r.Target)
	result = strings.ReplaceAll(result, "{source}", r.Source)
	return result
}

// FormatAll renders each remapping on its own line, in the order given.
func (f *Formatter) FormatAll(remappings []Resolved) string {
	lines := make([]string, len(remappings))
	for i, r := range remappings {
		lines[i] = f.Format(r)
	}
	return strings.Join(lines, "\n")
}
