package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "rill.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "test-app"
version = "0.1.0"

[source]
dirs = ["src", "lib"]
entry = "src/main.rl"

[store]
path = "build/programs.db"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Project.Name != "test-app" {
		t.Errorf("project name = %q, want test-app", m.Project.Name)
	}
	if m.Project.Version != "0.1.0" {
		t.Errorf("version = %q, want 0.1.0", m.Project.Version)
	}
	if len(m.Source.Dirs) != 2 || m.Source.Dirs[0] != "src" || m.Source.Dirs[1] != "lib" {
		t.Errorf("source dirs = %v", m.Source.Dirs)
	}
	if m.Source.Entry != "src/main.rl" {
		t.Errorf("entry = %q", m.Source.Entry)
	}
	if m.Store.Path != "build/programs.db" {
		t.Errorf("store path = %q", m.Store.Path)
	}
	if !filepath.IsAbs(m.Dir) {
		t.Errorf("Dir = %q, want absolute", m.Dir)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "bare"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(m.Source.Dirs) != 1 || m.Source.Dirs[0] != "src" {
		t.Errorf("default source dirs = %v, want [src]", m.Source.Dirs)
	}
	if m.Store.Path != filepath.Join(".rill", "programs.db") {
		t.Errorf("default store path = %q", m.Store.Path)
	}
	if m.EntryPath() != "" {
		t.Errorf("EntryPath = %q, want empty", m.EntryPath())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load of empty dir should fail")
	}
}

func TestLoadMalformedToml(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[project\nname = ")
	if _, err := Load(dir); err == nil {
		t.Error("Load of malformed toml should fail")
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[project]
name = "walker"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil || m.Project.Name != "walker" {
		t.Errorf("manifest = %+v, want project walker", m)
	}
}

func TestFindAndLoadMiss(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad errored: %v", err)
	}
	if m != nil {
		t.Error("FindAndLoad without a manifest should return nil")
	}
}

func TestPathHelpers(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "paths"

[source]
dirs = ["src"]
entry = "src/main.rl"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	srcs := m.SourceDirPaths()
	if len(srcs) != 1 || !filepath.IsAbs(srcs[0]) {
		t.Errorf("SourceDirPaths = %v", srcs)
	}
	if !filepath.IsAbs(m.StorePath()) {
		t.Errorf("StorePath = %q, want absolute", m.StorePath())
	}
	if !filepath.IsAbs(m.EntryPath()) {
		t.Errorf("EntryPath = %q, want absolute", m.EntryPath())
	}
}
