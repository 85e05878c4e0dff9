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

package graph

import (
	"testing"

	"solresolve.dev/core/internal/mapfs"
	"solresolve.dev/core/resolver"
)

func newFS() *mapfs.MapFileSystem {
	fsys := mapfs.New()
	fsys.AddFile("/p/package.json", `{"name":"top","version":"1.0.0"}`, 0644)
	fsys.AddFile("/p/contracts/Token.sol", `
pragma solidity ^0.8.20;
import "./Helper.sol";
import "@openzeppelin/contracts/token/ERC20.sol";
contract Token {}
`, 0644)
	fsys.AddFile("/p/contracts/Helper.sol", `
pragma solidity ^0.8.20;
contract Helper {}
`, 0644)
	fsys.AddFile("/p/contracts/Broken.sol", `
import "./DoesNotExist.sol";
contract Broken {}
`, 0644)
	fsys.AddFile("/p/node_modules/@openzeppelin/contracts/package.json", `{"name":"@openzeppelin/contracts","version":"5.0.0"}`, 0644)
	fsys.AddFile("/p/node_modules/@openzeppelin/contracts/token/ERC20.sol", `contract ERC20 {}`, 0644)
	return fsys
}

func TestBuildFromProjectFilesWalksImports(t *testing.T) {
	fsys := newFS()
	r, errs := resolver.New(fsys, nil, "/p")
	if len(errs) > 0 {
		t.Fatalf("resolver.New: %v", errs)
	}

	g, err := BuildFromProjectFiles(r, []string{"/p/contracts/Token.sol"})
	if err != nil {
		t.Fatalf("BuildFromProjectFiles: %v", err)
	}

	if len(g.Entrypoints) != 1 || g.Entrypoints[0] != "project/contracts/Token.sol" {
		t.Fatalf("unexpected entrypoints: %v", g.Entrypoints)
	}
	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d: %+v", len(g.Edges), g.Edges)
	}
	if len(g.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", g.Issues)
	}

	foundHelper, foundERC20 := false, false
	for _, e := range g.Edges {
		if e.To == "project/contracts/Helper.sol" {
			foundHelper = true
		}
		if e.To == "npm/@openzeppelin/contracts@5.0.0/token/ERC20.sol" {
			foundERC20 = true
		}
	}
	if !foundHelper || !foundERC20 {
		t.Fatalf("missing expected edges: %+v", g.Edges)
	}
}

func TestBuildFromProjectFilesRecordsIssues(t *testing.T) {
	fsys := newFS()
	r, errs := resolver.New(fsys, nil, "/p")
	if len(errs) > 0 {
		t.Fatalf("resolver.New: %v", errs)
	}

	g, err := BuildFromProjectFiles(r, []string{"/p/contracts/Broken.sol"})
	if err != nil {
		t.Fatalf("BuildFromProjectFiles: %v", err)
	}
	if len(g.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %+v", g.Issues)
	}
	if g.Issues[0].Import != "./DoesNotExist.sol" {
		t.Fatalf("unexpected issue: %+v", g.Issues[0])
	}
}

func TestBuildFromProjectFilesUnknownEntrypoint(t *testing.T) {
	fsys := newFS()
	r, errs := resolver.New(fsys, nil, "/p")
	if len(errs) > 0 {
		t.Fatalf("resolver.New: %v", errs)
	}

	_, err := BuildFromProjectFiles(r, []string{"/p/contracts/Missing.sol"})
	if err == nil {
		t.Fatal("expected error for missing entrypoint")
	}
}
