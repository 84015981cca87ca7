package role

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDiscoverSortsAndSkipsHiddenEntries(t *testing.T) {
	rolesDir := t.TempDir()
	for _, name := range []string{"zeta", "alpha", ".git"} {
		if err := os.MkdirAll(filepath.Join(rolesDir, name), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(rolesDir, "README.md"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	roles, err := Discover(rolesDir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	if !reflect.DeepEqual(names, []string{"alpha", "zeta"}) {
		t.Fatalf("expected [alpha zeta], got %v", names)
	}
}

func TestDiscoverMissingRootIsError(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing roles root")
	}
}

func TestDiscoverEmptyRootIsError(t *testing.T) {
	if _, err := Discover(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty roles root")
	}
}

func TestTaskFilesFiltersAndSorts(t *testing.T) {
	roleDir := t.TempDir()
	tasksDir := filepath.Join(roleDir, TasksDir)
	if err := os.MkdirAll(filepath.Join(tasksDir, "sub"), 0755); err != nil {
		t.Fatalf("failed to create tasks dir: %v", err)
	}
	for _, name := range []string{"b.yml", "a.yaml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tasksDir, name), []byte("[]"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	files := TaskFiles(roleDir)
	got := make([]string, 0, len(files))
	for _, file := range files {
		got = append(got, filepath.Base(file))
	}
	if !reflect.DeepEqual(got, []string{"a.yaml", "b.yml"}) {
		t.Fatalf("expected [a.yaml b.yml], got %v", got)
	}
}

func TestMetaFileSpellings(t *testing.T) {
	roleDir := t.TempDir()
	if got := MetaFile(roleDir); got != "" {
		t.Fatalf("expected no meta file, got %q", got)
	}

	metaDir := filepath.Join(roleDir, MetaDir)
	if err := os.MkdirAll(metaDir, 0755); err != nil {
		t.Fatalf("failed to create meta dir: %v", err)
	}
	path := filepath.Join(metaDir, "main.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write meta file: %v", err)
	}
	if got := MetaFile(roleDir); got != path {
		t.Fatalf("expected %q, got %q", path, got)
	}
}
