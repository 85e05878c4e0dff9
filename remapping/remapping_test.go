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
package remapping_test

import (
	"testing"

	"solresolve.dev/core/remapping"
)

func TestParseLineNoContext(t *testing.T) {
	line, err := remapping.ParseLine("foo/=bar/")
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if line.Context != "" || line.Prefix != "foo/" || line.Target != "bar/" {
		t.Errorf("ParseLine = %+v, want {Context:, Prefix:foo/, Target:bar/}", line)
	}
}

func TestParseLineWithContext(t *testing.T) {
	line, err := remapping.ParseLine("context/:prefix/=target/")
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if line.Context != "context/" || line.Prefix != "prefix/" || line.Target != "target/" {
		t.Errorf("ParseLine = %+v, want {Context:context/, Prefix:prefix/, Target:target/}", line)
	}
}

func TestParseLineSyntaxErrors(t *testing.T) {
	cases := []string{
		"no-equals-sign",
		"=missing-prefix",
		"prefix=",
	}
	for _, c := range cases {
		if _, err := remapping.ParseLine(c); err == nil {
			t.Errorf("ParseLine(%q) succeeded, want a syntax error", c)
		}
	}
}

func TestSplitInstallationNameScoped(t *testing.T) {
	name, rest, ok := remapping.SplitInstallationName("@uniswap/core/src/")
	if !ok {
		t.Fatal("SplitInstallationName failed")
	}
	if name != "@uniswap/core" || rest != "src/" {
		t.Errorf("got name=%q rest=%q, want name=@uniswap/core rest=src/", name, rest)
	}
}

func TestSplitInstallationNameUnscoped(t *testing.T) {
	name, rest, ok := remapping.SplitInstallationName("no-scope/src/")
	if !ok {
		t.Fatal("SplitInstallationName failed")
	}
	if name != "no-scope" || rest != "src/" {
		t.Errorf("got name=%q rest=%q, want name=no-scope rest=src/", name, rest)
	}
}

func TestSplitInstallationNameBare(t *testing.T) {
	name, rest, ok := remapping.SplitInstallationName("lodash")
	if !ok {
		t.Fatal("SplitInstallationName failed")
	}
	if name != "lodash" || rest != "" {
		t.Errorf("got name=%q rest=%q, want name=lodash rest=\"\"", name, rest)
	}
}

func TestBestSelectsLongestContextThenPrefix(t *testing.T) {
	candidates := []remapping.Resolved{
		{Context: "project/", Prefix: "foo/", Target: "project/a/"},
		{Context: "project/sub/", Prefix: "foo/", Target: "project/b/"},
		{Context: "project/sub/", Prefix: "foo/bar/", Target: "project/c/"},
	}

	best, ok := remapping.Best(candidates, "project/sub/File.sol", "foo/bar/Thing.sol")
	if !ok {
		t.Fatal("Best found no match")
	}
	if best.Target != "project/c/" {
		t.Errorf("Best = %+v, want the longest-context-then-longest-prefix match (target project/c/)", best)
	}
}

func TestBestTieBreaksOnRecency(t *testing.T) {
	candidates := []remapping.Resolved{
		{Context: "project/", Prefix: "foo/", Target: "project/first/"},
		{Context: "project/", Prefix: "foo/", Target: "project/second/"},
	}

	best, ok := remapping.Best(candidates, "project/File.sol", "foo/Thing.sol")
	if !ok {
		t.Fatal("Best found no match")
	}
	if best.Target != "project/second/" {
		t.Errorf("Best = %+v, want the most recently discovered (last) candidate", best)
	}
}

func TestBestNoMatch(t *testing.T) {
	candidates := []remapping.Resolved{
		{Context: "project/", Prefix: "foo/", Target: "project/a/"},
	}
	if _, ok := remapping.Best(candidates, "project/File.sol", "bar/Thing.sol"); ok {
		t.Error("Best unexpectedly matched")
	}
}

func TestResolvedApply(t *testing.T) {
	r := remapping.Resolved{Prefix: "foo/", Target: "project/bar/"}
	got := r.Apply("foo/Thing.sol")
	if got != "project/bar/Thing.sol" {
		t.Errorf("Apply = %q, want project/bar/Thing.sol", got)
	}
}

func TestFormatterDefault(t *testing.T) {
	r := remapping.Resolved{Context: "project/", Prefix: "foo/", Target: "project/bar/"}
	got := remapping.DefaultFormatter.Format(r)
	want := "project/:foo/=project/bar/"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatterCustomRejectsUnknownVariable(t *testing.T) {
	if _, err := remapping.NewFormatter("{bogus}"); err == nil {
		t.Error("NewFormatter accepted an unknown variable")
	}
}

func TestFormatterFormatAll(t *testing.T) {
	remaps := []remapping.Resolved{
		{Prefix: "foo/", Target: "a/"},
		{Prefix: "bar/", Target: "b/"},
	}
	got := remapping.DefaultFormatter.FormatAll(remaps)
	want := "foo/=a/\nbar/=b/"
	if got != want {
		t.Errorf("FormatAll = %q, want %q", got, want)
	}
}
