package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rolegraph-dev/rolegraph/internal/graph"
	"github.com/rolegraph-dev/rolegraph/internal/role"
)

func sampleBundle() graph.Bundle {
	g := graph.NewGraph()
	g.Nodes["web-app-foo"] = role.Meta{Info: map[string]any{"description": "demo"}}
	g.Nodes["svc-cache-redis"] = role.Meta{}
	g.Edges = append(g.Edges, graph.Edge{Source: "web-app-foo", Target: "svc-cache-redis", Kind: "declared-dependency"})

	bundle := make(graph.Bundle)
	bundle["declared-dependency_outgoing"] = g
	bundle["declared-dependency_incoming"] = graph.NewGraph()
	return bundle
}

func TestWriteJSONSnapshot(t *testing.T) {
	rolesDir := t.TempDir()
	w := &Writer{RolesDir: rolesDir, Format: FormatJSON}

	path, err := w.Write("web-app-foo", sampleBundle())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := filepath.Join(rolesDir, "web-app-foo", "meta", "tree.json")
	if path != want {
		t.Fatalf("expected snapshot at %s, got %s", want, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read snapshot: %v", err)
	}
	var doc map[string]struct {
		Nodes []map[string]any `json:"nodes"`
		Links []struct {
			Source string `json:"source"`
			Target string `json:"target"`
			Type   string `json:"type"`
		} `json:"links"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}

	variant := doc["declared-dependency_outgoing"]
	if len(variant.Nodes) != 2 || len(variant.Links) != 1 {
		t.Fatalf("unexpected variant shape: %+v", variant)
	}
	if variant.Links[0].Type != "declared-dependency" {
		t.Fatalf("expected link type declared-dependency, got %q", variant.Links[0].Type)
	}

	var appNode map[string]any
	for _, node := range variant.Nodes {
		if node["id"] == "web-app-foo" {
			appNode = node
		}
	}
	if appNode == nil {
		t.Fatalf("missing web-app-foo node")
	}
	if appNode["description"] != "demo" {
		t.Fatalf("expected metadata fields merged into node, got %v", appNode)
	}
	if appNode["doc_url"] != "../web-app-foo/README.md" || appNode["src_url"] != "../web-app-foo/" {
		t.Fatalf("unexpected computed links: %v", appNode)
	}
}

func TestWriteShadowFolderMirrorsLayout(t *testing.T) {
	rolesDir := t.TempDir()
	shadow := t.TempDir()
	w := &Writer{RolesDir: rolesDir, ShadowDir: shadow, Format: FormatJSON}

	path, err := w.Write("web-app-foo", sampleBundle())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := filepath.Join(shadow, "web-app-foo", "meta", "tree.json")
	if path != want {
		t.Fatalf("expected shadow snapshot at %s, got %s", want, path)
	}
	if _, err := os.Stat(filepath.Join(rolesDir, "web-app-foo")); !os.IsNotExist(err) {
		t.Fatalf("expected source tree untouched when shadow folder is set")
	}
}

func TestWriteYAMLSnapshot(t *testing.T) {
	rolesDir := t.TempDir()
	w := &Writer{RolesDir: rolesDir, Format: FormatYAML}

	path, err := w.Write("web-app-foo", sampleBundle())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Base(path) != "tree.yml" {
		t.Fatalf("expected tree.yml, got %s", path)
	}
}

func TestPreviewPrintsWithoutWriting(t *testing.T) {
	rolesDir := t.TempDir()
	var buf bytes.Buffer
	w := &Writer{RolesDir: rolesDir, Format: FormatJSON, Preview: true, Stdout: &buf}

	path, err := w.Write("web-app-foo", sampleBundle())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no path in preview mode, got %s", path)
	}
	if !strings.Contains(buf.String(), "web-app-foo -> svc-cache-redis (declared-dependency)") {
		t.Fatalf("expected console dump, got:\n%s", buf.String())
	}
	if _, err := os.Stat(filepath.Join(rolesDir, "web-app-foo")); !os.IsNotExist(err) {
		t.Fatalf("expected nothing written in preview mode")
	}
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"json", "yaml", "console"} {
		if _, err := ParseFormat(valid); err != nil {
			t.Fatalf("expected %q to parse: %v", valid, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
