package scanner

import (
	"fmt"
	"regexp"
	"strings"
)

// Reference is one raw dependency mention extracted from a role's files.
// Target is either a literal role/file name or, when IsPattern is set, a
// glob pattern derived from a partially-templated name. Pattern targets are
// resolved against the known name sets during index construction and never
// leak past it.
type Reference struct {
	Kind      Kind
	Target    string
	IsPattern bool
}

var (
	placeholderRe = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	loopBindingRe = regexp.MustCompile(`^\{\{\s*item(?:\.([A-Za-z0-9_]+))?\s*\}\}$`)
	wildcardRunRe = regexp.MustCompile(`\*+`)
)

// expandTarget turns one directive target name into zero or more references.
//
// A name that is exactly one template placeholder is statically unresolvable
// and yields nothing. A name mixing literal text and placeholders becomes a
// glob pattern. A name binding directly to the loop variable (or a dotted
// field of it) over a literal loop list yields one literal reference per item.
func expandTarget(kind Kind, name string, loop []any) []Reference {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	if m := loopBindingRe.FindStringSubmatch(name); m != nil {
		if len(loop) == 0 {
			// Bound to a loop variable but no literal loop list in sight:
			// statically unresolvable, same as a pure placeholder.
			return nil
		}
		refs := make([]Reference, 0, len(loop))
		for _, item := range loop {
			if literal := loopItemValue(item, m[1]); literal != "" {
				refs = append(refs, Reference{Kind: kind, Target: literal})
			}
		}
		return refs
	}

	if !placeholderRe.MatchString(name) {
		return []Reference{{Kind: kind, Target: name}}
	}

	stripped := strings.TrimSpace(placeholderRe.ReplaceAllString(name, ""))
	if stripped == "" {
		// The whole name is substitution with no literal characters.
		return nil
	}

	pattern := wildcardRunRe.ReplaceAllString(placeholderRe.ReplaceAllString(name, "*"), "*")
	return []Reference{{Kind: kind, Target: pattern, IsPattern: true}}
}

// loopItemValue resolves one loop item to a literal string. With an empty
// field the item itself must be a scalar; with a field the item must be a
// mapping carrying that field as a scalar.
func loopItemValue(item any, field string) string {
	if field == "" {
		return scalarString(item)
	}
	mapping, ok := item.(map[string]any)
	if !ok {
		return ""
	}
	return scalarString(mapping[field])
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case int, int64, float64, bool:
		return fmt.Sprintf("%v", v)
	default:
		return ""
	}
}
