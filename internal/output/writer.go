// Package output persists one graph snapshot document per role, or prints a
// human-readable dump for console/preview invocations.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rolegraph-dev/rolegraph/internal/fileutil"
	"github.com/rolegraph-dev/rolegraph/internal/graph"
	"github.com/rolegraph-dev/rolegraph/internal/role"
)

// Format selects how a bundle is rendered.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatConsole Format = "console"
)

// ParseFormat validates a --output flag value.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatJSON, FormatYAML, FormatConsole:
		return Format(value), nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected yaml, json or console)", value)
	}
}

const (
	treeFileJSON = "tree.json"
	treeFileYAML = "tree.yml"
)

// Writer renders and persists graph bundles. The zero DocsBase defaults to
// sibling-relative links.
type Writer struct {
	RolesDir string
	// ShadowDir, when set, redirects snapshots under an alternate root that
	// mirrors the role directory layout, leaving the source tree untouched.
	ShadowDir string
	Format    Format
	// Preview runs every computation but prints instead of writing.
	Preview  bool
	DocsBase string
	Stdout   io.Writer

	// mu keeps console dumps whole when roles are processed concurrently.
	mu sync.Mutex
}

type linkDoc struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Type   string `json:"type" yaml:"type"`
}

type variantDoc struct {
	Nodes []map[string]any `json:"nodes" yaml:"nodes"`
	Links []linkDoc        `json:"links" yaml:"links"`
}

// Write renders one role's bundle. It returns the path written, or "" for
// console and preview invocations.
func (w *Writer) Write(roleName string, bundle graph.Bundle) (string, error) {
	doc := w.document(bundle)

	if w.Format == FormatConsole || w.Preview {
		w.dump(roleName, doc)
		return "", nil
	}

	data, err := w.encode(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot for role %q: %w", roleName, err)
	}

	path := w.snapshotPath(roleName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory for role %q: %w", roleName, err)
	}
	if err := fileutil.WriteIfChanged(path, data); err != nil {
		return "", fmt.Errorf("failed to write snapshot for role %q: %w", roleName, err)
	}
	return path, nil
}

// snapshotPath is `<role>/meta/tree.json` by default, mirrored under the
// shadow root when one is set.
func (w *Writer) snapshotPath(roleName string) string {
	name := treeFileJSON
	if w.Format == FormatYAML {
		name = treeFileYAML
	}
	root := w.RolesDir
	if w.ShadowDir != "" {
		root = w.ShadowDir
	}
	return filepath.Join(root, roleName, role.MetaDir, name)
}

func (w *Writer) encode(doc map[string]variantDoc) ([]byte, error) {
	if w.Format == FormatYAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// document renders the twelve variants. Node lists are sorted by id for
// deterministic output; link order preserves discovery order.
func (w *Writer) document(bundle graph.Bundle) map[string]variantDoc {
	doc := make(map[string]variantDoc, len(bundle))
	for key, g := range bundle {
		variant := variantDoc{
			Nodes: make([]map[string]any, 0, len(g.Nodes)),
			Links: make([]linkDoc, 0, len(g.Edges)),
		}
		for _, id := range g.NodeIDs() {
			variant.Nodes = append(variant.Nodes, w.nodeDoc(id, g.Nodes[id]))
		}
		for _, edge := range g.Edges {
			variant.Links = append(variant.Links, linkDoc{Source: edge.Source, Target: edge.Target, Type: edge.Kind})
		}
		doc[key] = variant
	}
	return doc
}

// nodeDoc merges the role id, its scalar metadata fields and the two
// computed documentation links into one output record.
func (w *Writer) nodeDoc(id string, meta role.Meta) map[string]any {
	node := make(map[string]any, len(meta.Info)+3)
	for key, value := range meta.Info {
		node[key] = value
	}
	base := w.DocsBase
	if base == "" {
		base = "../"
	}
	node["id"] = id
	node["doc_url"] = base + id + "/README.md"
	node["src_url"] = base + id + "/"
	return node
}

func (w *Writer) dump(roleName string, doc map[string]variantDoc) {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := w.Stdout
	if out == nil {
		out = os.Stdout
	}

	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(out, "role %s\n", roleName)
	for _, key := range keys {
		variant := doc[key]
		fmt.Fprintf(out, "  %s: %d nodes, %d links\n", key, len(variant.Nodes), len(variant.Links))
		for _, node := range variant.Nodes {
			fmt.Fprintf(out, "    node %v\n", node["id"])
		}
		for _, link := range variant.Links {
			fmt.Fprintf(out, "    %s -> %s (%s)\n", link.Source, link.Target, link.Type)
		}
	}
}
