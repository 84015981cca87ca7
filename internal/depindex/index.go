// Package depindex builds the forward and reverse dependency tables from one
// full repository scan. The index is immutable once built and safe for
// concurrent read access by any number of walkers.
package depindex

import (
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rolegraph-dev/rolegraph/internal/role"
	"github.com/rolegraph-dev/rolegraph/internal/scanner"
)

// Index holds forward[kind][role] -> ordered targets and its exact inverse
// reverse[kind][target] -> source roles. Only resolved literal targets are
// stored: glob patterns are expanded against the known name sets during
// construction and never leak past it.
type Index struct {
	forward map[scanner.Kind]map[string][]string
	reverse map[scanner.Kind]map[string]map[string]bool
	meta    map[string]role.Meta
	roles   []string
}

// Build runs the single repository scan: one scanner pass per role, glob
// expansion against the discovered role and task-file name sets, and reverse
// table population in the same pass. A role whose files cannot be parsed
// contributes an empty entry rather than failing the build.
func Build(roles []role.Role) *Index {
	ix := &Index{
		forward: make(map[scanner.Kind]map[string][]string),
		reverse: make(map[scanner.Kind]map[string]map[string]bool),
		meta:    make(map[string]role.Meta, len(roles)),
		roles:   make([]string, 0, len(roles)),
	}
	for _, kind := range scanner.AllKinds() {
		ix.forward[kind] = make(map[string][]string)
		ix.reverse[kind] = make(map[string]map[string]bool)
	}

	roleNames := make([]string, 0, len(roles))
	taskFileNames := make(map[string]bool)
	for _, r := range roles {
		roleNames = append(roleNames, r.Name)
		for _, path := range role.TaskFiles(r.Dir) {
			taskFileNames[filepath.Base(path)] = true
		}
	}
	taskNames := sortedKeys(taskFileNames)

	for _, r := range roles {
		ix.roles = append(ix.roles, r.Name)
		result := scanner.Scan(r)
		ix.meta[r.Name] = result.Meta

		for _, ref := range result.Refs {
			candidates := roleNames
			if ref.Kind.IsTaskKind() {
				candidates = taskNames
			}
			for _, target := range resolveTargets(ref, candidates) {
				ix.add(ref.Kind, r.Name, target)
			}
		}
	}

	return ix
}

// resolveTargets expands a pattern reference against the candidate name set,
// or passes a literal target through unchanged. A pattern matching nothing
// contributes nothing.
func resolveTargets(ref scanner.Reference, candidates []string) []string {
	if !ref.IsPattern {
		return []string{ref.Target}
	}

	matches := make([]string, 0)
	for _, name := range candidates {
		if ok, err := doublestar.Match(ref.Target, name); err == nil && ok {
			matches = append(matches, name)
		}
	}
	return matches
}

func (ix *Index) add(kind scanner.Kind, source, target string) {
	for _, existing := range ix.forward[kind][source] {
		if existing == target {
			return
		}
	}
	ix.forward[kind][source] = append(ix.forward[kind][source], target)

	if ix.reverse[kind][target] == nil {
		ix.reverse[kind][target] = make(map[string]bool)
	}
	ix.reverse[kind][target][source] = true
}

// Forward returns the ordered dependency targets of one role for one kind.
func (ix *Index) Forward(kind scanner.Kind, roleName string) []string {
	return ix.forward[kind][roleName]
}

// Reverse returns the sorted roles depending on one target for one kind.
func (ix *Index) Reverse(kind scanner.Kind, target string) []string {
	return sortedKeys(ix.reverse[kind][target])
}

// Meta returns the metadata record of a role. Unknown names (deleted roles,
// task-file targets) yield an empty record.
func (ix *Index) Meta(name string) role.Meta {
	return ix.meta[name]
}

// Roles returns the sorted role names covered by the index.
func (ix *Index) Roles() []string {
	out := make([]string, len(ix.roles))
	copy(out, ix.roles)
	sort.Strings(out)
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
