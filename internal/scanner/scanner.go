// Package scanner extracts raw dependency references from one role's
// metadata and task files. Scanning is best-effort by design: missing files
// contribute nothing, and malformed YAML degrades to an error-tolerant
// fallback parse instead of failing the role or the repository scan.
package scanner

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rolegraph-dev/rolegraph/internal/role"
)

// taskDirectives maps task directive keys to the kind of edge they declare,
// in the fixed order references are emitted for one task block.
var taskDirectives = []struct {
	Key  string
	Kind Kind
}{
	{"include_role", KindDynamicRoleInclusion},
	{"import_role", KindStaticRoleInclusion},
	{"include_tasks", KindDynamicTaskInclusion},
	{"import_tasks", KindStaticTaskInclusion},
}

// nestedBlockKeys are task keys whose value is a nested task list.
var nestedBlockKeys = []string{"block", "rescue", "always"}

// Result is one role's scan output: its metadata record and every raw
// dependency reference found in its files.
type Result struct {
	Meta role.Meta
	Refs []Reference
}

// Scan extracts the metadata record and dependency references of one role.
// It never fails: unreadable or malformed files contribute nothing beyond a
// debug log line.
func Scan(r role.Role) Result {
	result := Result{Meta: scanMeta(r)}

	for _, target := range result.Meta.RunAfter {
		result.Refs = append(result.Refs, expandTarget(KindOrderingHint, target, nil)...)
	}
	for _, target := range result.Meta.Dependencies {
		result.Refs = append(result.Refs, expandTarget(KindDeclaredDependency, target, nil)...)
	}

	for _, path := range role.TaskFiles(r.Dir) {
		result.Refs = append(result.Refs, scanTaskFile(path)...)
	}

	return result
}

// scanMeta reads the role's metadata file. A missing or malformed file
// yields an empty record, never an error.
func scanMeta(r role.Role) role.Meta {
	path := role.MetaFile(r.Dir)
	if path == "" {
		return role.Meta{}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("metadata file unreadable", "role", r.Name, "path", path, "error", err)
		return role.Meta{}
	}

	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		slog.Debug("metadata file malformed", "role", r.Name, "path", path, "error", err)
		return role.Meta{}
	}

	meta := role.Meta{}
	for key, value := range raw {
		switch key {
		case "run_after":
			meta.RunAfter = entryNames(value)
		case "dependencies":
			meta.Dependencies = entryNames(value)
		default:
			if scalar := scalarString(value); scalar != "" {
				if meta.Info == nil {
					meta.Info = make(map[string]any)
				}
				meta.Info[key] = value
			}
		}
	}
	return meta
}

// entryNames flattens a metadata dependency list. Entries are either bare
// names or mappings carrying the name under "name" or "role".
func entryNames(value any) []string {
	list, ok := value.([]any)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(list))
	for _, entry := range list {
		switch v := entry.(type) {
		case string:
			if s := scalarString(v); s != "" {
				names = append(names, s)
			}
		case map[string]any:
			for _, key := range []string{"name", "role"} {
				if s := scalarString(v[key]); s != "" {
					names = append(names, s)
					break
				}
			}
		}
	}
	return names
}

// scanTaskFile extracts inclusion references from one task file. Structured
// parsing is attempted first; on failure the error-tolerant fallback
// extractor recovers whatever literal directives it can.
func scanTaskFile(path string) []Reference {
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("task file unreadable", "path", path, "error", err)
		return nil
	}

	var tasks []any
	if err := yaml.Unmarshal(content, &tasks); err != nil {
		slog.Debug("task file malformed, using fallback extraction", "path", path, "error", err)
		return fallbackExtract(content)
	}

	var refs []Reference
	for _, entry := range tasks {
		task, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		walkTask(task, &refs)
	}
	return refs
}

// walkTask collects the inclusion references of one task block and recurses
// into nested block/rescue/always lists.
func walkTask(task map[string]any, refs *[]Reference) {
	loop := loopList(task)

	for _, directive := range taskDirectives {
		raw, ok := task[directive.Key]
		if !ok {
			continue
		}
		name := directiveName(directive.Kind, raw)
		*refs = append(*refs, expandTarget(directive.Kind, name, loop)...)
	}

	for _, key := range nestedBlockKeys {
		nested, ok := task[key].([]any)
		if !ok {
			continue
		}
		for _, entry := range nested {
			if sub, ok := entry.(map[string]any); ok {
				walkTask(sub, refs)
			}
		}
	}
}

// directiveName resolves a directive value to its target name. Role
// inclusions carry a mapping with "name"; task inclusions are either a bare
// scalar or a mapping with "file".
func directiveName(kind Kind, raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		keys := []string{"name", "role"}
		if kind.IsTaskKind() {
			keys = []string{"file", "name"}
		}
		for _, key := range keys {
			if s := scalarString(v[key]); s != "" {
				return s
			}
		}
	}
	return ""
}

// loopList returns the task's literal loop list, if any. Loops whose value
// is itself templated (a scalar expression) are not literal and yield nil.
func loopList(task map[string]any) []any {
	for _, key := range []string{"loop", "with_items"} {
		if list, ok := task[key].([]any); ok {
			return list
		}
	}
	return nil
}
