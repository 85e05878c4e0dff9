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

package pkgmap_test

import (
	"errors"
	"testing"

	"solresolve.dev/core/internal/mapfs"
	"solresolve.dev/core/pkgmap"
)

func newProjectFS(extra func(fs *mapfs.MapFileSystem)) *mapfs.MapFileSystem {
	fs := mapfs.New()
	fs.AddFile("/p/package.json", `{"name":"top-level-remappings","version":"1.2.4"}`, 0o644)
	if extra != nil {
		extra(fs)
	}
	return fs
}

func TestUserRemappingsTopLevelAndContext(t *testing.T) {
	fs := newProjectFS(func(fs *mapfs.MapFileSystem) {
		fs.AddFile("/p/remappings.txt", "foo/=bar/\n\n context/:prefix/=target/\n", 0o644)
	})

	m, errs := pkgmap.New(fs, nil, "/p")
	if len(errs) != 0 {
		t.Fatalf("unexpected construction errors: %v", errs)
	}

	got := m.UserRemappings(m.ProjectPackage())
	if len(got) != 2 {
		t.Fatalf("got %d remappings, want 2: %+v", len(got), got)
	}

	if got[0].Context != "project/" || got[0].Prefix != "foo/" || got[0].Target != "project/bar/" ||
		got[0].OriginalFormat != "foo/=bar/" || got[0].Source != "/p/remappings.txt" {
		t.Errorf("remapping 0 = %+v", got[0])
	}
	if got[1].Context != "project/context/" || got[1].Prefix != "prefix/" || got[1].Target != "project/target/" ||
		got[1].OriginalFormat != "context/:prefix/=target/" || got[1].Source != "/p/remappings.txt" {
		t.Errorf("remapping 1 = %+v", got[1])
	}
}

func TestUserRemappingsMissingSlashFails(t *testing.T) {
	fs := newProjectFS(func(fs *mapfs.MapFileSystem) {
		fs.AddFile("/p/lib/submodule/remappings.txt", "foo/=bar\n", 0o644)
	})

	_, errs := pkgmap.New(fs, nil, "/p")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}

	var rerr *pkgmap.RemappingError
	if !errors.As(errs[0], &rerr) {
		t.Fatalf("error is not a *RemappingError: %v", errs[0])
	}
	if rerr.Kind != pkgmap.ErrNoSlash {
		t.Errorf("Kind = %v, want %v", rerr.Kind, pkgmap.ErrNoSlash)
	}
	if rerr.Source != "/p/lib/submodule/remappings.txt" {
		t.Errorf("Source = %q", rerr.Source)
	}
	if rerr.Remapping != "foo/=bar" {
		t.Errorf("Remapping = %q", rerr.Remapping)
	}
}

func TestUserRemappingsNestedBeforeRoot(t *testing.T) {
	fs := newProjectFS(func(fs *mapfs.MapFileSystem) {
		fs.AddFile("/p/remappings.txt", "foo/=bar/\n", 0o644)
		fs.AddFile("/p/lib/submodule/remappings.txt", "context/:prefix/=target/\n", 0o644)
		fs.AddFile("/p/lib/submodule2/remappings.txt", "context/:prefix/=target/\n", 0o644)
	})

	m, errs := pkgmap.New(fs, nil, "/p")
	if len(errs) != 0 {
		t.Fatalf("unexpected construction errors: %v", errs)
	}

	got := m.UserRemappings(m.ProjectPackage())
	if len(got) != 3 {
		t.Fatalf("got %d remappings, want 3: %+v", len(got), got)
	}

	if got[0].Source != "/p/lib/submodule/remappings.txt" {
		t.Errorf("remapping 0 source = %q, want submodule", got[0].Source)
	}
	if got[0].Context != "project/lib/submodule/context/" || got[0].Target != "project/lib/submodule/target/" {
		t.Errorf("remapping 0 = %+v", got[0])
	}
	if got[1].Source != "/p/lib/submodule2/remappings.txt" {
		t.Errorf("remapping 1 source = %q, want submodule2", got[1].Source)
	}
	if got[2].Source != "/p/remappings.txt" {
		t.Errorf("remapping 2 source = %q, want root", got[2].Source)
	}
}

func TestUserRemappingsNpmTargets(t *testing.T) {
	fs := newProjectFS(func(fs *mapfs.MapFileSystem) {
		fs.AddFile("/p/remappings.txt",
			"@uniswap/core/=node_modules/@uniswap/core/src/\nno-scope/=node_modules/no-scope/src/\n", 0o644)
		fs.AddFile("/p/node_modules/@uniswap/core/package.json", `{"name":"@uniswap/core","version":"1.0.0"}`, 0o644)
		fs.AddFile("/p/node_modules/no-scope/package.json", `{"name":"no-scope","version":"1.2.0"}`, 0o644)
	})

	m, errs := pkgmap.New(fs, nil, "/p")
	if len(errs) != 0 {
		t.Fatalf("unexpected construction errors: %v", errs)
	}

	got := m.UserRemappings(m.ProjectPackage())
	if len(got) != 2 {
		t.Fatalf("got %d remappings, want 2: %+v", len(got), got)
	}

	if got[0].Target != "npm/@uniswap/core@1.0.0/src/" {
		t.Errorf("remapping 0 target = %q", got[0].Target)
	}
	if got[0].TargetNpmPackage == nil || got[0].TargetNpmPackage.InstallationName != "@uniswap/core" {
		t.Errorf("remapping 0 targetNpmPackage = %+v", got[0].TargetNpmPackage)
	}

	if got[1].Target != "npm/no-scope@1.2.0/src/" {
		t.Errorf("remapping 1 target = %q", got[1].Target)
	}
	if got[1].TargetNpmPackage == nil || got[1].TargetNpmPackage.InstallationName != "no-scope" {
		t.Errorf("remapping 1 targetNpmPackage = %+v", got[1].TargetNpmPackage)
	}
}

func TestUserRemappingsNodeModulesNoOpDropped(t *testing.T) {
	fs := newProjectFS(func(fs *mapfs.MapFileSystem) {
		fs.AddFile("/p/remappings.txt", "foo/=node_modules/foo/\n", 0o644)
		fs.AddFile("/p/node_modules/foo/package.json", `{"name":"foo","version":"1.0.0"}`, 0o644)
	})

	m, errs := pkgmap.New(fs, nil, "/p")
	if len(errs) != 0 {
		t.Fatalf("unexpected construction errors: %v", errs)
	}

	got := m.UserRemappings(m.ProjectPackage())
	if len(got) != 0 {
		t.Fatalf("got %d remappings, want 0 (no-op dropped): %+v", len(got), got)
	}
}

func TestUserRemappingsSharedDependencyIdentity(t *testing.T) {
	fs := newProjectFS(func(fs *mapfs.MapFileSystem) {
		fs.AddFile("/p/remappings.txt",
			"dep1/=node_modules/dep1/src/\n\ndep1bis/=node_modules/dep1/src/\n", 0o644)
		fs.AddFile("/p/lib/submodule/remappings.txt", "dep1/=node_modules/dep1/src2/\n", 0o644)
		fs.AddFile("/p/node_modules/dep1/package.json", `{"name":"dep1","version":"1.2.0"}`, 0o644)
	})

	m, errs := pkgmap.New(fs, nil, "/p")
	if len(errs) != 0 {
		t.Fatalf("unexpected construction errors: %v", errs)
	}

	got := m.UserRemappings(m.ProjectPackage())
	if len(got) != 3 {
		t.Fatalf("got %d remappings, want 3: %+v", len(got), got)
	}

	for _, r := range got {
		if r.TargetNpmPackage == nil || r.TargetNpmPackage.PackageRootName != "npm/dep1@1.2.0" {
			t.Errorf("remapping %+v does not point at npm/dep1@1.2.0", r)
		}
	}
}

func TestUninstalledDependencyIsReported(t *testing.T) {
	fs := newProjectFS(func(fs *mapfs.MapFileSystem) {
		fs.AddFile("/p/remappings.txt", "missing/=node_modules/missing/src/\n", 0o644)
	})

	_, errs := pkgmap.New(fs, nil, "/p")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}

	var rerr *pkgmap.RemappingError
	if !errors.As(errs[0], &rerr) {
		t.Fatalf("error is not a *RemappingError: %v", errs[0])
	}
	if rerr.Kind != pkgmap.ErrUninstalled {
		t.Errorf("Kind = %v, want %v", rerr.Kind, pkgmap.ErrUninstalled)
	}
}

func TestUserRemappingsInvalidSyntax(t *testing.T) {
	fs := newProjectFS(func(fs *mapfs.MapFileSystem) {
		fs.AddFile("/p/remappings.txt", "not-a-valid-line\n", 0o644)
	})

	_, errs := pkgmap.New(fs, nil, "/p")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}

	var rerr *pkgmap.RemappingError
	if !errors.As(errs[0], &rerr) {
		t.Fatalf("error is not a *RemappingError: %v", errs[0])
	}
	if rerr.Kind != pkgmap.ErrSyntax {
		t.Errorf("Kind = %v, want %v", rerr.Kind, pkgmap.ErrSyntax)
	}
}

func TestResolveDependencyByInstallationNameCachesEdge(t *testing.T) {
	fs := newProjectFS(func(fs *mapfs.MapFileSystem) {
		fs.AddFile("/p/node_modules/dep1/package.json", `{"name":"dep1","version":"1.2.0"}`, 0o644)
	})

	m, errs := pkgmap.New(fs, nil, "/p")
	if len(errs) != 0 {
		t.Fatalf("unexpected construction errors: %v", errs)
	}

	res1, err := m.ResolveDependencyByInstallationName(m.ProjectPackage(), "dep1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res2, err := m.ResolveDependencyByInstallationName(m.ProjectPackage(), "dep1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res1.Package != res2.Package {
		t.Errorf("ResolveDependencyByInstallationName returned distinct Package values for the same edge")
	}
	if res1.Package.RootSourceName != "npm/dep1@1.2.0" {
		t.Errorf("RootSourceName = %q", res1.Package.RootSourceName)
	}
}

func TestResolveDependencyByInstallationNameNotInstalled(t *testing.T) {
	fs := newProjectFS(nil)

	m, errs := pkgmap.New(fs, nil, "/p")
	if len(errs) != 0 {
		t.Fatalf("unexpected construction errors: %v", errs)
	}

	_, err := m.ResolveDependencyByInstallationName(m.ProjectPackage(), "nonexistent")
	if !errors.Is(err, pkgmap.ErrNotInstalled) {
		t.Errorf("err = %v, want ErrNotInstalled", err)
	}
}
