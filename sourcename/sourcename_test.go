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
package sourcename_test

import (
	"testing"

	"solresolve.dev/core/sourcename"
)

func TestJoin(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{"project", "contracts", "Token.sol"}, "project/contracts/Token.sol"},
		{[]string{"project/", "/contracts/", "Token.sol"}, "project/contracts/Token.sol"},
		{[]string{"npm/foo@1.0.0", "src/"}, "npm/foo@1.0.0/src/"},
		{[]string{"", "a", "", "b"}, "a/b"},
	}
	for _, c := range cases {
		if got := sourcename.Join(c.parts...); got != c.want {
			t.Errorf("Join(%v) = %q, want %q", c.parts, got, c.want)
		}
	}
}

func TestDir(t *testing.T) {
	cases := []struct{ in, want string }{
		{"project/contracts/Token.sol", "project/contracts"},
		{"project", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := sourcename.Dir(c.in); got != c.want {
			t.Errorf("Dir(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHasPrefix(t *testing.T) {
	if !sourcename.HasPrefix("project/contracts/Token.sol", "project") {
		t.Error("expected project/contracts/Token.sol to be under project")
	}
	if sourcename.HasPrefix("project2/Token.sol", "project") {
		t.Error("project2 must not be considered under project (directory-boundary check)")
	}
	if !sourcename.HasPrefix("anything", "") {
		t.Error("empty prefix must match everything")
	}
}

func TestNpmRootSourceName(t *testing.T) {
	got := sourcename.NpmRootSourceName("@openzeppelin/contracts", "5.0.0")
	want := "npm/@openzeppelin/contracts@5.0.0"
	if got != want {
		t.Errorf("NpmRootSourceName = %q, want %q", got, want)
	}
}
