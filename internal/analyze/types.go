package analyze

import (
	"go/token"
	"reflect"
	"strings"

	"scenebind/bind"
	"scenebind/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
// Types declared in scene documents have no package path.
type TypeID struct {
	PkgPath string // e.g., "scenebind/examples/components"
	Name    string // e.g., "Rigidbody"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the type as Go source would spell it from another package.
func (t TypeID) Short() string {
	return common.QualifiedName(t.PkgPath, t.Name)
}

// IsZero reports whether t identifies nothing.
func (t TypeID) IsZero() bool {
	return t.Name == ""
}

// TypeIDOf returns the TypeID of a reflect type, looking through pointers.
// Unnamed types use their literal spelling as the name.
func TypeIDOf(t reflect.Type) TypeID {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() == "" {
		return TypeID{Name: t.String()}
	}

	return TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
}

// ParseTypeID parses "import/path.Name" or a bare "Name".
func ParseTypeID(s string) TypeID {
	s = strings.TrimSpace(s)

	slash := strings.LastIndex(s, "/")
	dot := strings.LastIndex(s, ".")
	if dot <= slash {
		return TypeID{Name: s}
	}

	return TypeID{PkgPath: s[:dot], Name: s[dot+1:]}
}

// TaggedField describes a struct field that carries a bind tag.
type TaggedField struct {
	Type      TypeID       // Declaring struct
	Field     string       // Go field name
	ValueType TypeID       // Bound type, pointers stripped
	ValueExpr string       // Field type as written, e.g. "*Rigidbody"
	Interface bool         // ValueType is an interface
	Options   bind.Options // Parsed tag
	Exported  bool         // Whether the field is exported
	Pos       token.Position
}

// Path returns "Type.Field".
func (f TaggedField) Path() string {
	return f.Type.Name + "." + f.Field
}
