package scenefile

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"scenebind/internal/analyze"
	"scenebind/internal/descriptor"
	"scenebind/internal/scene"
)

// Schema holds the component types of a document. It implements
// descriptor.Registry and scene.TypeSystem over *Component values.
type Schema struct {
	decls []TypeDecl
	types map[string]*typeInfo
	descs []descriptor.Descriptor
}

type typeInfo struct {
	decl TypeDecl
	// is holds the name of the type and every type it counts as, transitively.
	is   map[string]bool
}

// TypeIDOf returns the id the scene uses for a document type name.
// Document types have no package path.
func TypeIDOf(name string) analyze.TypeID {
	return analyze.TypeID{Name: name}
}

// NewSchema validates type declarations and builds a Schema. Types named by
// field declarations or "is" lists without a declaration of their own are
// added as plain concrete types.
func NewSchema(decls []TypeDecl) (*Schema, error) {
	s := &Schema{
		decls: decls,
		types: make(map[string]*typeInfo, len(decls)),
	}

	for _, d := range decls {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: type without a name", ErrInvalidSchema)
		}
		if _, dup := s.types[d.Name]; dup {
			return nil, fmt.Errorf("%w: type %s declared twice", ErrInvalidSchema, d.Name)
		}

		s.types[d.Name] = &typeInfo{decl: d}
	}

	for _, d := range decls {
		for _, super := range d.Is {
			s.ensure(super)
		}

		seen := make(map[string]bool, len(d.Fields))
		for _, f := range d.Fields {
			switch {
			case f.Name == "":
				return nil, fmt.Errorf("%w: type %s has a field without a name", ErrInvalidSchema, d.Name)
			case f.Type == "":
				return nil, fmt.Errorf("%w: field %s.%s has no type", ErrInvalidSchema, d.Name, f.Name)
			case !f.Source.IsValid():
				return nil, fmt.Errorf("%w: field %s.%s has source %d", ErrInvalidSchema, d.Name, f.Name, f.Source)
			case seen[f.Name]:
				return nil, fmt.Errorf("%w: field %s.%s declared twice", ErrInvalidSchema, d.Name, f.Name)
			}

			seen[f.Name] = true
			s.ensure(f.Type)
		}
	}

	for name := range s.types {
		is, err := s.closure(name, nil)
		if err != nil {
			return nil, err
		}

		s.types[name].is = is
	}

	// A component keeps one ref per field name, so a field name may appear
	// only once along an "is" lineage.
	for _, d := range decls {
		owners := make(map[string]string)
		for _, name := range s.lineage(d.Name) {
			for _, f := range s.types[name].decl.Fields {
				if prev, dup := owners[f.Name]; dup {
					return nil, fmt.Errorf("%w: field %s.%s is also declared on %s, which %s counts as",
						ErrInvalidSchema, prev, f.Name, name, d.Name)
				}

				owners[f.Name] = name
			}
		}
	}

	for _, d := range decls {
		for _, f := range d.Fields {
			s.descs = append(s.descs, descriptor.Descriptor{
				Options:       f.Options(),
				DeclaringType: TypeIDOf(d.Name),
				Field:         f.Name,
				ValueType:     TypeIDOf(f.Type),
				Accessor:      &refAccessor{schema: s, owner: d.Name, field: f.Name, valueType: f.Type},
			})
		}
	}

	return s, nil
}

func (s *Schema) ensure(name string) {
	if _, ok := s.types[name]; !ok {
		s.types[name] = &typeInfo{decl: TypeDecl{Name: name}}
	}
}

// addImplicit adds an undeclared component type after the schema is built.
func (s *Schema) addImplicit(name string) {
	s.ensure(name)
	if s.types[name].is == nil {
		s.types[name].is = map[string]bool{name: true}
	}
}

func (s *Schema) closure(name string, stack []string) (map[string]bool, error) {
	if slices.Contains(stack, name) {
		return nil, fmt.Errorf("%w: type cycle %v", ErrInvalidSchema, append(stack, name))
	}

	is := map[string]bool{name: true}
	for _, super := range s.types[name].decl.Is {
		sup, err := s.closure(super, append(stack, name))
		if err != nil {
			return nil, err
		}

		for k := range sup {
			is[k] = true
		}
	}

	return is, nil
}

// Discover implements descriptor.Registry. Descriptors follow declaration
// order of types, then fields.
func (s *Schema) Discover() []descriptor.Descriptor {
	return s.descs
}

// Decls returns the declared types, without implicit ones.
func (s *Schema) Decls() []TypeDecl {
	return s.decls
}

// Has reports whether name is a known type, declared or implicit.
func (s *Schema) Has(name string) bool {
	_, ok := s.types[name]
	return ok
}

// Counts reports whether a component of type name counts as type target.
func (s *Schema) Counts(name, target string) bool {
	info, ok := s.types[name]
	return ok && info.is[target]
}

// Field finds a bound field declared on typeName or on any type it counts as.
func (s *Schema) Field(typeName, field string) (FieldDecl, string, bool) {
	for _, name := range s.lineage(typeName) {
		for _, f := range s.types[name].decl.Fields {
			if f.Name == field {
				return f, name, true
			}
		}
	}

	return FieldDecl{}, "", false
}

// FieldNames lists the bound fields available on typeName.
func (s *Schema) FieldNames(typeName string) []string {
	var names []string
	for _, name := range s.lineage(typeName) {
		for _, f := range s.types[name].decl.Fields {
			names = append(names, f.Name)
		}
	}

	return names
}

// lineage lists typeName first, then the declared types it counts as.
func (s *Schema) lineage(typeName string) []string {
	info, ok := s.types[typeName]
	if !ok {
		return nil
	}

	out := []string{typeName}
	for _, d := range s.decls {
		if d.Name != typeName && info.is[d.Name] {
			out = append(out, d.Name)
		}
	}

	return out
}

// Is implements scene.TypeSystem.
func (s *Schema) Is(obj any, t analyze.TypeID) bool {
	c, ok := obj.(*Component)
	if !ok || c == nil || t.PkgPath != "" {
		return false
	}

	return s.Counts(c.Type, t.Name)
}

// New implements scene.TypeSystem. The component gets a fresh id.
func (s *Schema) New(t analyze.TypeID) (any, error) {
	info, ok := s.types[t.Name]
	if !ok || t.PkgPath != "" {
		return nil, fmt.Errorf("%w: %s", scene.ErrUnknownType, t)
	}
	if info.decl.Abstract {
		return nil, fmt.Errorf("%w: %s is abstract", scene.ErrUnknownType, t)
	}

	return &Component{ID: uuid.NewString(), Type: t.Name, generated: true}, nil
}

// refAccessor reads and writes one ref of a *Component.
type refAccessor struct {
	schema    *Schema
	owner     string
	field     string
	valueType string
}

func (a *refAccessor) component(obj any) (*Component, error) {
	c, ok := obj.(*Component)
	if !ok || c == nil {
		return nil, fmt.Errorf("%w: %s.%s on %T", descriptor.ErrWrongOwner, a.owner, a.field, obj)
	}
	if !a.schema.Counts(c.Type, a.owner) {
		return nil, fmt.Errorf("%w: %s.%s on %s", descriptor.ErrWrongOwner, a.owner, a.field, c.Type)
	}

	return c, nil
}

func (a *refAccessor) Get(obj any) (any, error) {
	c, err := a.component(obj)
	if err != nil {
		return nil, err
	}

	ref, ok := c.Refs[a.field]
	if !ok || ref == nil {
		return nil, nil
	}

	return ref, nil
}

func (a *refAccessor) Set(obj, value any) error {
	c, err := a.component(obj)
	if err != nil {
		return err
	}

	ref, ok := value.(*Component)
	if !ok || ref == nil || !a.schema.Counts(ref.Type, a.valueType) {
		return fmt.Errorf("%w: %v to %s.%s", descriptor.ErrNotAssignable, value, a.owner, a.field)
	}

	if c.Refs == nil {
		c.Refs = make(map[string]*Component)
	}
	c.Refs[a.field] = ref

	return nil
}
