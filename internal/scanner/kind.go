package scanner

import "fmt"

// Kind is one of the six edge semantics between roles.
type Kind int

const (
	KindOrderingHint Kind = iota
	KindDeclaredDependency
	KindDynamicRoleInclusion
	KindStaticRoleInclusion
	KindDynamicTaskInclusion
	KindStaticTaskInclusion
)

func (k Kind) String() string {
	switch k {
	case KindOrderingHint:
		return "ordering-hint"
	case KindDeclaredDependency:
		return "declared-dependency"
	case KindDynamicRoleInclusion:
		return "dynamic-role-inclusion"
	case KindStaticRoleInclusion:
		return "static-role-inclusion"
	case KindDynamicTaskInclusion:
		return "dynamic-task-inclusion"
	case KindStaticTaskInclusion:
		return "static-task-inclusion"
	default:
		return "unknown"
	}
}

// IsTaskKind reports whether the kind's targets are task files rather than roles.
func (k Kind) IsTaskKind() bool {
	return k == KindDynamicTaskInclusion || k == KindStaticTaskInclusion
}

// AllKinds returns the closed set of kinds in declaration order.
func AllKinds() []Kind {
	return []Kind{
		KindOrderingHint,
		KindDeclaredDependency,
		KindDynamicRoleInclusion,
		KindStaticRoleInclusion,
		KindDynamicTaskInclusion,
		KindStaticTaskInclusion,
	}
}

// ParseKind resolves the string form of a kind.
func ParseKind(s string) (Kind, error) {
	for _, kind := range AllKinds() {
		if kind.String() == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown dependency kind %q", s)
}

// Direction selects which side of an edge a walk follows.
type Direction int

const (
	DirectionOutgoing Direction = iota
	DirectionIncoming
)

func (d Direction) String() string {
	if d == DirectionIncoming {
		return "incoming"
	}
	return "outgoing"
}

// AllDirections returns both traversal directions.
func AllDirections() []Direction {
	return []Direction{DirectionOutgoing, DirectionIncoming}
}

// VariantKey is the snapshot map key for one (kind, direction) pair.
func VariantKey(kind Kind, direction Direction) string {
	return kind.String() + "_" + direction.String()
}
