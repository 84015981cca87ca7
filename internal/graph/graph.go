// Package graph turns the dependency index into per-role node/edge
// snapshots and transitive reachability sets.
package graph

import (
	"log/slog"
	"sort"

	"github.com/rolegraph-dev/rolegraph/internal/depindex"
	"github.com/rolegraph-dev/rolegraph/internal/role"
	"github.com/rolegraph-dev/rolegraph/internal/scanner"
)

// Edge is one directed dependency edge. Kind carries the string form used
// in persisted snapshots.
type Edge struct {
	Source string
	Target string
	Kind   string
}

// Graph is the snapshot of one walk: a deduplicated node map and the edges
// in discovery order. Edge duplicates across different discovery paths are
// permitted; node duplicates are not.
type Graph struct {
	Nodes map[string]role.Meta
	Edges []Edge
}

// Bundle holds the twelve graph variants of one start role, keyed by
// "<kind>_<direction>".
type Bundle map[string]Graph

// NewGraph creates an empty graph.
func NewGraph() Graph {
	return Graph{Nodes: make(map[string]role.Meta)}
}

// NodeIDs returns the sorted node ids of a graph.
func (g Graph) NodeIDs() []string {
	out := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Walk produces the snapshot for one (start, kind, direction) triple.
//
// The traversal is depth-first with an explicit current-path set rather than
// a global visited set: the same node may be reached again via a different
// path up to the depth bound, but an edge back into the current path
// terminates that branch. maxDepth <= 0 means unbounded except for the
// cycle guard. A start or neighbor with no matching role directory is still
// added to the node map with an empty metadata record.
func Walk(ix *depindex.Index, start string, kind scanner.Kind, direction scanner.Direction, maxDepth int) Graph {
	g := NewGraph()
	visit(ix, &g, start, kind, direction, maxDepth, 0, map[string]bool{start: true})
	return g
}

func visit(ix *depindex.Index, g *Graph, node string, kind scanner.Kind, direction scanner.Direction, maxDepth, depth int, path map[string]bool) {
	g.Nodes[node] = ix.Meta(node)

	if maxDepth > 0 && depth >= maxDepth {
		return
	}

	var neighbors []string
	if direction == scanner.DirectionOutgoing {
		neighbors = ix.Forward(kind, node)
	} else {
		neighbors = ix.Reverse(kind, node)
	}

	for _, neighbor := range neighbors {
		if direction == scanner.DirectionOutgoing {
			g.Edges = append(g.Edges, Edge{Source: node, Target: neighbor, Kind: kind.String()})
		} else {
			g.Edges = append(g.Edges, Edge{Source: neighbor, Target: node, Kind: kind.String()})
		}
		if path[neighbor] {
			continue
		}
		path[neighbor] = true
		visit(ix, g, neighbor, kind, direction, maxDepth, depth+1, path)
		delete(path, neighbor)
	}
}

// BuildBundle walks all twelve kind/direction variants for one start role.
// A failure inside one variant degrades that variant to an empty graph and
// leaves the remaining eleven untouched.
func BuildBundle(ix *depindex.Index, start string, maxDepth int) Bundle {
	bundle := make(Bundle, 12)
	for _, kind := range scanner.AllKinds() {
		for _, direction := range scanner.AllDirections() {
			bundle[scanner.VariantKey(kind, direction)] = safeWalk(ix, start, kind, direction, maxDepth)
		}
	}
	return bundle
}

func safeWalk(ix *depindex.Index, start string, kind scanner.Kind, direction scanner.Direction, maxDepth int) (g Graph) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("graph variant failed, degrading to empty graph",
				"role", start, "kind", kind.String(), "direction", direction.String(), "panic", r)
			g = NewGraph()
		}
	}()
	return Walk(ix, start, kind, direction, maxDepth)
}
