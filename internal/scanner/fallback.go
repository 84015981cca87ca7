package scanner

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsyaml "github.com/smacker/go-tree-sitter/yaml"
)

// fallbackExtract recovers directive references from a task file the
// structured decoder rejected. The tree-sitter YAML grammar is error
// tolerant: it still produces mapping pairs for the well-formed parts of a
// broken document, so literal directives and literal loop lists survive a
// syntax error elsewhere in the file.
func fallbackExtract(content []byte) []Reference {
	parser := sitter.NewParser()
	parser.SetLanguage(tsyaml.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil
	}
	defer tree.Close()

	var refs []Reference
	collectDirectivePairs(tree.RootNode(), content, &refs)
	return refs
}

// collectDirectivePairs walks the parse tree looking for mapping pairs whose
// key is an inclusion directive. The loop list, when present, is a sibling
// pair inside the same task mapping.
func collectDirectivePairs(node *sitter.Node, content []byte, refs *[]Reference) {
	if node.Type() == "block_mapping_pair" || node.Type() == "flow_pair" {
		key := pairKeyText(node, content)
		for _, directive := range taskDirectives {
			if key != directive.Key {
				continue
			}
			name := pairTargetName(directive.Kind, node, content)
			if name == "" {
				break
			}
			loop := siblingLoopItems(node, content)
			*refs = append(*refs, expandTarget(directive.Kind, name, loop)...)
			break
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectDirectivePairs(node.Child(i), content, refs)
	}
}

func pairKeyText(pair *sitter.Node, content []byte) string {
	key := pair.ChildByFieldName("key")
	if key == nil {
		return ""
	}
	return scalarText(key.Content(content))
}

// pairTargetName resolves the directive pair's target name: either the value
// scalar itself, or the name/file scalar of a nested mapping value.
func pairTargetName(kind Kind, pair *sitter.Node, content []byte) string {
	value := pair.ChildByFieldName("value")
	if value == nil {
		return ""
	}

	nested := nestedPairValues(value, content)
	if len(nested) > 0 {
		keys := []string{"name", "role"}
		if kind.IsTaskKind() {
			keys = []string{"file", "name"}
		}
		for _, key := range keys {
			if nested[key] != "" {
				return nested[key]
			}
		}
		return ""
	}

	return scalarText(value.Content(content))
}

// nestedPairValues collects scalar key/value pairs of a mapping-valued node.
func nestedPairValues(node *sitter.Node, content []byte) map[string]string {
	out := make(map[string]string)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "block_mapping_pair" || n.Type() == "flow_pair" {
			key := n.ChildByFieldName("key")
			value := n.ChildByFieldName("value")
			if key != nil && value != nil && !strings.Contains(value.Content(content), "\n") {
				out[scalarText(key.Content(content))] = scalarText(value.Content(content))
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return out
}

// siblingLoopItems finds a literal loop list declared next to the directive
// inside the same task mapping.
func siblingLoopItems(pair *sitter.Node, content []byte) []any {
	parent := pair.Parent()
	if parent == nil {
		return nil
	}

	for i := 0; i < int(parent.ChildCount()); i++ {
		sibling := parent.Child(i)
		if sibling == nil || (sibling.Type() != "block_mapping_pair" && sibling.Type() != "flow_pair") {
			continue
		}
		key := pairKeyText(sibling, content)
		if key != "loop" && key != "with_items" {
			continue
		}
		value := sibling.ChildByFieldName("value")
		if value == nil {
			continue
		}
		return sequenceItems(value.Content(content))
	}
	return nil
}

// sequenceItems splits the raw text of a sequence value into scalar items.
// Both block ("- x") and flow ("[x, y]") spellings are handled; mapping
// items are beyond the fallback's reach and dropped.
func sequenceItems(raw string) []any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parts []string
	if strings.HasPrefix(raw, "[") {
		parts = strings.Split(strings.Trim(raw, "[]"), ",")
	} else {
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSpace(line)
			if rest, ok := strings.CutPrefix(line, "- "); ok {
				parts = append(parts, rest)
			}
		}
	}

	items := make([]any, 0, len(parts))
	for _, part := range parts {
		if s := scalarText(part); s != "" && !strings.Contains(s, ":") {
			items = append(items, s)
		}
	}
	return items
}

// scalarText trims whitespace and surrounding quotes from a scalar's raw text.
func scalarText(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, `"'`)
	return strings.TrimSpace(raw)
}
