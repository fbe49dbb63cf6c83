package bind

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Source -linecomment -output=source_string.go

// Source selects the scene scopes searched for a bound field.
type Source int

const (
	Self         Source = iota // self
	Child                      // child
	SelfOrChild                // self_or_child
	Parent                     // parent
	SelfOrParent               // self_or_parent
	Any                        // any
)

// Sources lists every Source in declaration order.
var Sources = []Source{Self, Child, SelfOrChild, Parent, SelfOrParent, Any}

// Scopes is a set of scene scopes.
type Scopes uint8

const (
	ScopeSelf Scopes = 1 << iota
	ScopeDescendants
	ScopeAncestors

	ScopeNone Scopes = 0
)

// Has reports whether all scopes in o are part of s.
func (s Scopes) Has(o Scopes) bool {
	return s&o == o
}

// Scopes returns the scopes searched for this source, always walked in the
// order self, descendants, ancestors.
func (s Source) Scopes() Scopes {
	switch s {
	case Self:
		return ScopeSelf
	case Child:
		return ScopeDescendants
	case SelfOrChild:
		return ScopeSelf | ScopeDescendants
	case Parent:
		return ScopeAncestors
	case SelfOrParent:
		return ScopeSelf | ScopeAncestors
	case Any:
		return ScopeSelf | ScopeDescendants | ScopeAncestors
	default:
		return ScopeNone
	}
}

// IsValid reports whether s is one of the declared sources.
func (s Source) IsValid() bool {
	return s >= Self && s <= Any
}

// CanCreate reports whether a missing value may be synthesized for s.
// Only Self does.
func (s Source) CanCreate() bool {
	return s == Self
}

// ParseSource parses a source name. Matching ignores case, '_' and '-', so
// "SelfOrChild", "self_or_child" and "self-or-child" are the same.
func ParseSource(name string) (Source, error) {
	norm := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(name)))

	for _, s := range Sources {
		if strings.ReplaceAll(s.String(), "_", "") == norm {
			return s, nil
		}
	}

	return Self, fmt.Errorf("%w: unknown source %q", ErrInvalidTag, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid source %d", int(s))
	}

	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Source) UnmarshalText(text []byte) error {
	parsed, err := ParseSource(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}
