// Package descriptor describes bound fields and the registries that
// discover them.
package descriptor

import (
	"errors"
	"fmt"

	"scenebind/bind"
	"scenebind/internal/analyze"
)

var (
	// ErrNotAssignable is returned when a value does not fit a field.
	ErrNotAssignable = errors.New("value not assignable to field")
	// ErrWrongOwner is returned when an accessor is used on an object that
	// does not hold the field.
	ErrWrongOwner = errors.New("object does not declare field")
)

// Accessor reads and writes one field on a component instance.
type Accessor interface {
	Get(obj any) (any, error)
	Set(obj any, value any) error
}

// Descriptor is one bound field.
type Descriptor struct {
	bind.Options

	// DeclaringType owns the field.
	DeclaringType analyze.TypeID
	// Field is the field name within DeclaringType.
	Field string
	// ValueType is the component type bound into the field.
	ValueType analyze.TypeID
	// Accessor reads and writes the field on instances of DeclaringType.
	Accessor Accessor
}

// Key identifies the field storage location across registries.
func (d Descriptor) Key() string {
	return d.DeclaringType.String() + "." + d.Field
}

// Path returns "Type.Field" with the short type name.
func (d Descriptor) Path() string {
	return d.DeclaringType.Name + "." + d.Field
}

// String describes the field and its binding.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s (%s, %s)", d.Path(), d.ValueType.Short(), d.Options)
}

// Value returns the value currently held by the field on obj. It never
// writes; nil means the field is unset.
func (d Descriptor) Value(obj any) (any, error) {
	if d.Accessor == nil {
		return nil, fmt.Errorf("%s: no accessor", d.Path())
	}

	return d.Accessor.Get(obj)
}

// Assign writes value into the field on obj.
func (d Descriptor) Assign(obj, value any) error {
	if d.Accessor == nil {
		return fmt.Errorf("%s: no accessor", d.Path())
	}

	return d.Accessor.Set(obj, value)
}

// Registry supplies the bound fields of a program or document.
//
// Discover returns at most one descriptor per field storage location: a
// field reached through several types (for example by struct embedding) is
// reported once, on the type that declares it.
type Registry interface {
	Discover() []Descriptor
}

// StaticRegistry is a fixed descriptor list.
type StaticRegistry []Descriptor

// Discover implements Registry.
func (s StaticRegistry) Discover() []Descriptor {
	return Dedupe(s)
}

// Dedupe drops descriptors whose Key was already seen, keeping order.
func Dedupe(descs []Descriptor) []Descriptor {
	seen := make(map[string]struct{}, len(descs))
	out := make([]Descriptor, 0, len(descs))

	for _, d := range descs {
		if _, dup := seen[d.Key()]; dup {
			continue
		}

		seen[d.Key()] = struct{}{}
		out = append(out, d)
	}

	return out
}
