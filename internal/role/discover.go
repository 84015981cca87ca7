package role

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// MetaDir is the per-role directory holding the metadata file and,
	// by default, the persisted graph snapshot.
	MetaDir = "meta"

	// TasksDir is the per-role directory holding task files.
	TasksDir = "tasks"
)

// Discover lists the role directories under rolesDir, sorted by name.
// A missing roles root or a root with zero role directories is a hard error;
// everything else about a role is tolerated lazily by the scanner.
func Discover(rolesDir string) ([]Role, error) {
	entries, err := os.ReadDir(rolesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read roles directory %q: %w", rolesDir, err)
	}

	roles := make([]Role, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		roles = append(roles, Role{
			Name: entry.Name(),
			Dir:  filepath.Join(rolesDir, entry.Name()),
		})
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("no role directories found under %q", rolesDir)
	}

	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

// TaskFiles returns the task file paths owned by one role, sorted.
// A role without a tasks directory owns no task files.
func TaskFiles(roleDir string) []string {
	entries, err := os.ReadDir(filepath.Join(roleDir, TasksDir))
	if err != nil {
		return nil
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		files = append(files, filepath.Join(roleDir, TasksDir, entry.Name()))
	}
	sort.Strings(files)
	return files
}

// MetaFile returns the path of the role's metadata file, or "" when the role
// has none. Both .yml and .yaml spellings are accepted.
func MetaFile(roleDir string) string {
	for _, name := range []string{"main.yml", "main.yaml"} {
		path := filepath.Join(roleDir, MetaDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
