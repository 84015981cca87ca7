package graph

import (
	"sort"

	"github.com/rolegraph-dev/rolegraph/internal/depindex"
	"github.com/rolegraph-dev/rolegraph/internal/scanner"
)

// Resolve computes the merged forward reachability set from the seed roles
// across the selected kinds: everything that must be present before the
// seeds can run. Unlike Walk it uses a global visited set, so each node is
// processed at most once and termination holds regardless of cycle count.
// maxDepth <= 0 means unbounded.
func Resolve(ix *depindex.Index, seeds []string, kinds []scanner.Kind, maxDepth int) []string {
	type frontierEntry struct {
		name  string
		depth int
	}

	queue := make([]frontierEntry, 0, len(seeds))
	for _, seed := range seeds {
		queue = append(queue, frontierEntry{name: seed})
	}

	visited := make(map[string]bool)
	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]
		if visited[entry.name] {
			continue
		}
		visited[entry.name] = true

		if maxDepth > 0 && entry.depth >= maxDepth {
			continue
		}
		for _, kind := range kinds {
			for _, target := range ix.Forward(kind, entry.name) {
				if !visited[target] {
					queue = append(queue, frontierEntry{name: target, depth: entry.depth + 1})
				}
			}
		}
	}

	out := make([]string, 0, len(visited))
	for name := range visited {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
