package descriptor

import (
	"fmt"
	"reflect"

	"scenebind/bind"
	"scenebind/internal/analyze"
	"scenebind/internal/scene"
)

// ReflectRegistry discovers bound fields on registered Go struct types from
// their `bind` tags. It is also the scene.TypeSystem for trees holding
// those structs: a component counts as type T when it is a *T, when it is a
// pointer to a struct embedding a reachable T, or when T is an interface it
// implements. Any component Is accepts for T can be written into a *T
// field.
type ReflectRegistry struct {
	types map[analyze.TypeID]reflect.Type
	descs []Descriptor
}

var (
	_ Registry         = (*ReflectRegistry)(nil)
	_ scene.TypeSystem = (*ReflectRegistry)(nil)
)

// NewReflectRegistry creates an empty registry.
func NewReflectRegistry() *ReflectRegistry {
	return &ReflectRegistry{
		types: make(map[analyze.TypeID]reflect.Type),
	}
}

// Register adds the types of the given samples. Samples may be values or
// pointers, typed nils included: Register((*Turret)(nil)).
func (r *ReflectRegistry) Register(samples ...any) error {
	for _, s := range samples {
		if s == nil {
			return fmt.Errorf("register: untyped nil sample")
		}

		if err := r.RegisterType(reflect.TypeOf(s)); err != nil {
			return err
		}
	}

	return nil
}

// RegisterType adds a struct or interface type. Embedded structs and the
// value types of bound fields are registered along with it.
func (r *ReflectRegistry) RegisterType(t reflect.Type) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	id := analyze.TypeIDOf(t)
	if _, done := r.types[id]; done {
		return nil
	}

	switch t.Kind() {
	case reflect.Interface:
		r.types[id] = t
		return nil
	case reflect.Struct:
		r.types[id] = t
	default:
		return fmt.Errorf("register %s: components must be structs or interfaces, got %s", t, t.Kind())
	}

	for i := range t.NumField() {
		f := t.Field(i)

		if f.Anonymous {
			if embedded := indirect(f.Type); embedded.Kind() == reflect.Struct {
				if err := r.RegisterType(embedded); err != nil {
					return err
				}
			}
		}

		opts, ok, err := bind.Lookup(f.Tag)
		if err != nil {
			return fmt.Errorf("register %s.%s: %w", id.Short(), f.Name, err)
		}
		if !ok {
			continue
		}

		if err := r.addField(t, id, f, opts); err != nil {
			return err
		}
	}

	return nil
}

func (r *ReflectRegistry) addField(owner reflect.Type, id analyze.TypeID, f reflect.StructField, opts bind.Options) error {
	path := id.Short() + "." + f.Name

	if !f.IsExported() {
		return fmt.Errorf("register %s: bound field must be exported", path)
	}

	bindable := f.Type.Kind() == reflect.Interface ||
		(f.Type.Kind() == reflect.Pointer && f.Type.Elem().Kind() == reflect.Struct)
	if !bindable {
		return fmt.Errorf("register %s: bound field must be a struct pointer or an interface, got %s", path, f.Type)
	}

	if err := r.RegisterType(f.Type); err != nil {
		return err
	}

	r.descs = append(r.descs, Descriptor{
		Options:       opts,
		DeclaringType: id,
		Field:         f.Name,
		ValueType:     analyze.TypeIDOf(f.Type),
		Accessor: &fieldAccessor{
			owner: owner,
			index: f.Index,
			typ:   f.Type,
			path:  path,
		},
	})

	return nil
}

// Discover implements Registry. Descriptors are in registration order.
func (r *ReflectRegistry) Discover() []Descriptor {
	return Dedupe(r.descs)
}

// Lookup returns the registered Go type for id.
func (r *ReflectRegistry) Lookup(id analyze.TypeID) (reflect.Type, bool) {
	t, ok := r.types[id]
	return t, ok
}

// Is implements scene.TypeSystem.
func (r *ReflectRegistry) Is(obj any, id analyze.TypeID) bool {
	target, ok := r.types[id]
	if !ok || obj == nil {
		return false
	}

	if target.Kind() == reflect.Interface {
		return reflect.TypeOf(obj).Implements(target)
	}

	_, ok = structValue(reflect.ValueOf(obj), target)
	return ok
}

// structValue returns the addressable struct of type target held by the
// pointer v, either v's element itself or a value it embeds.
func structValue(v reflect.Value, target reflect.Type) (reflect.Value, bool) {
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	if v = v.Elem(); v.Type() == target {
		return v, true
	}

	return embeddedValue(v, target)
}

// New implements scene.TypeSystem. It returns a pointer to a zero struct.
func (r *ReflectRegistry) New(id analyze.TypeID) (any, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", scene.ErrUnknownType, id)
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is an interface and cannot be created", scene.ErrUnknownType, id)
	}

	return reflect.New(t).Interface(), nil
}

// fieldAccessor reaches a field on its declaring struct, directly or
// through the embedding chain of an outer struct.
type fieldAccessor struct {
	owner reflect.Type
	index []int
	typ   reflect.Type
	path  string
}

func (a *fieldAccessor) field(obj any) (reflect.Value, error) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, fmt.Errorf("%s: %w: need a non-nil pointer, got %T", a.path, ErrWrongOwner, obj)
	}

	v = v.Elem()
	if v.Type() != a.owner {
		embedded, ok := embeddedValue(v, a.owner)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%s: %w: %T", a.path, ErrWrongOwner, obj)
		}

		v = embedded
	}

	return v.FieldByIndex(a.index), nil
}

// Get implements Accessor. Unset fields return nil.
func (a *fieldAccessor) Get(obj any) (any, error) {
	fv, err := a.field(obj)
	if err != nil {
		return nil, err
	}

	if fv.IsNil() {
		return nil, nil
	}

	return fv.Interface(), nil
}

// Set implements Accessor.
func (a *fieldAccessor) Set(obj, value any) error {
	fv, err := a.field(obj)
	if err != nil {
		return err
	}

	if value == nil {
		return fmt.Errorf("%s: %w: nil", a.path, ErrNotAssignable)
	}

	val := reflect.ValueOf(value)
	if !val.Type().AssignableTo(a.typ) {
		// An embedder is written as a pointer to its embedded value.
		embedded, ok := reflect.Value{}, false
		if a.typ.Kind() == reflect.Pointer {
			embedded, ok = structValue(val, a.typ.Elem())
		}
		if !ok {
			return fmt.Errorf("%s: %w: %s into %s", a.path, ErrNotAssignable, val.Type(), a.typ)
		}

		val = embedded.Addr()
	}

	if !fv.CanSet() {
		return fmt.Errorf("%s: field is not settable", a.path)
	}

	fv.Set(val)

	return nil
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

// embeddedValue finds the shallowest embedded value of type target in the
// struct value v. Nil embedded pointers are not followed.
func embeddedValue(v reflect.Value, target reflect.Type) (reflect.Value, bool) {
	queue := []reflect.Value{v}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for i := range cur.NumField() {
			if !cur.Type().Field(i).Anonymous {
				continue
			}

			fv := cur.Field(i)
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}

				fv = fv.Elem()
			}

			if fv.Type() == target {
				return fv, true
			}

			if fv.Kind() == reflect.Struct {
				queue = append(queue, fv)
			}
		}
	}

	return reflect.Value{}, false
}
