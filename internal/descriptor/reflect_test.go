package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenebind/bind"
	"scenebind/examples/components"
	"scenebind/internal/analyze"
	"scenebind/internal/scene"
)

const componentsPkg = "scenebind/examples/components"

func id(name string) analyze.TypeID {
	return analyze.TypeID{PkgPath: componentsPkg, Name: name}
}

func newRegistry(t *testing.T) *ReflectRegistry {
	t.Helper()

	r := NewReflectRegistry()
	require.NoError(t, r.Register((*components.Turret)(nil), components.Ship{}))

	return r
}

func TestReflectRegistry_Discover(t *testing.T) {
	r := newRegistry(t)

	var keys []string
	for _, d := range r.Discover() {
		keys = append(keys, d.Path())
	}

	assert.Equal(t, []string{
		"Actor.Transform",
		"Actor.Body",
		"Turret.Target",
		"Turret.Muzzle",
		"Turret.Hitbox",
		"Ship.Transform",
	}, keys)

	// Registering again, or registering the embedded type directly, adds nothing.
	require.NoError(t, r.Register(&components.Turret{}, components.Actor{}))
	assert.Len(t, r.Discover(), 6)
}

func TestReflectRegistry_DescriptorDetails(t *testing.T) {
	r := newRegistry(t)

	byPath := map[string]Descriptor{}
	for _, d := range r.Discover() {
		byPath[d.Path()] = d
	}

	muzzle := byPath["Turret.Muzzle"]
	assert.Equal(t, id("Turret"), muzzle.DeclaringType)
	assert.Equal(t, id("Emitter"), muzzle.ValueType)
	assert.Equal(t, bind.Child, muzzle.Source)
	assert.False(t, muzzle.Strict)
	assert.Equal(t, componentsPkg+".Turret.Muzzle", muzzle.Key())
	assert.Equal(t, "Turret.Muzzle (components.Emitter, source=child,strict=false)", muzzle.String())

	body := byPath["Actor.Body"]
	assert.Equal(t, id("Actor"), body.DeclaringType)
	assert.Equal(t, bind.SelfOrParent, body.Source)
	assert.True(t, body.Strict)

	assert.Equal(t, id("Targeter"), byPath["Turret.Target"].ValueType)
}

func TestReflectRegistry_TypeSystem(t *testing.T) {
	r := newRegistry(t)

	turret := &components.Turret{}
	ship := &components.Ship{}

	assert.True(t, r.Is(turret, id("Turret")))
	assert.True(t, r.Is(turret, id("Actor")), "embedding counts as the embedded type")
	assert.False(t, r.Is(ship, id("Actor")))
	assert.True(t, r.Is(ship, id("Targeter")), "*Ship implements Targeter")
	assert.False(t, r.Is(components.Ship{}, id("Targeter")), "value receiver set lacks Aim")
	assert.False(t, r.Is(turret, analyze.TypeID{Name: "Unknown"}))
	assert.False(t, r.Is(nil, id("Turret")))
	assert.False(t, r.Is(new(int), id("Turret")))
	assert.False(t, r.Is(components.Turret{}, id("Turret")), "struct values cannot be bound")
	assert.False(t, r.Is(&lazyTransform{}, id("Transform")), "nil embedded pointer")
	assert.True(t, r.Is(&lazyTransform{Transform: &components.Transform{}}, id("Transform")))

	obj, err := r.New(id("Rigidbody"))
	require.NoError(t, err)
	assert.IsType(t, &components.Rigidbody{}, obj)

	_, err = r.New(id("Targeter"))
	assert.ErrorIs(t, err, scene.ErrUnknownType)

	_, err = r.New(analyze.TypeID{Name: "Nope"})
	assert.ErrorIs(t, err, scene.ErrUnknownType)

	goType, ok := r.Lookup(id("Collider"))
	require.True(t, ok)
	assert.Equal(t, "Collider", goType.Name())
}

func TestFieldAccessor_ThroughEmbedding(t *testing.T) {
	r := newRegistry(t)

	var transform Descriptor
	for _, d := range r.Discover() {
		if d.Path() == "Actor.Transform" {
			transform = d
		}
	}
	require.NotNil(t, transform.Accessor)

	turret := &components.Turret{}
	tr := &components.Transform{X: 1}

	got, err := transform.Value(turret)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, transform.Accessor.Set(turret, tr))
	assert.Same(t, tr, turret.Transform)

	got, err = transform.Value(turret)
	require.NoError(t, err)
	assert.Same(t, tr, got)

	actor := &components.Actor{}
	require.NoError(t, transform.Accessor.Set(actor, tr))
	assert.Same(t, tr, actor.Transform)
}

type movingTransform struct {
	components.Transform

	Speed float64
}

type lazyTransform struct {
	*components.Transform
}

func TestFieldAccessor_SetEmbedder(t *testing.T) {
	r := newRegistry(t)

	var transform Descriptor
	for _, d := range r.Discover() {
		if d.Path() == "Ship.Transform" {
			transform = d
		}
	}
	require.NotNil(t, transform.Accessor)

	ship := &components.Ship{}
	moving := &movingTransform{Transform: components.Transform{X: 3}}

	require.NoError(t, transform.Assign(ship, moving))
	assert.Same(t, &moving.Transform, ship.Transform)

	lazy := &lazyTransform{}
	assert.ErrorIs(t, transform.Assign(ship, lazy), ErrNotAssignable)

	lazy.Transform = &components.Transform{}
	require.NoError(t, transform.Assign(ship, lazy))
	assert.Same(t, lazy.Transform, ship.Transform)
}

func TestFieldAccessor_Errors(t *testing.T) {
	r := newRegistry(t)

	var target Descriptor
	for _, d := range r.Discover() {
		if d.Path() == "Turret.Target" {
			target = d
		}
	}

	turret := &components.Turret{}

	assert.ErrorIs(t, target.Accessor.Set(turret, &components.Rigidbody{}), ErrNotAssignable)
	assert.ErrorIs(t, target.Accessor.Set(turret, nil), ErrNotAssignable)
	assert.ErrorIs(t, target.Accessor.Set(&components.Ship{}, &components.Ship{}), ErrWrongOwner)
	assert.ErrorIs(t, target.Accessor.Set(components.Turret{}, &components.Ship{}), ErrWrongOwner)

	var nilTurret *components.Turret
	_, err := target.Accessor.Get(nilTurret)
	assert.ErrorIs(t, err, ErrWrongOwner)

	ship := &components.Ship{}
	require.NoError(t, target.Accessor.Set(turret, ship))
	assert.Same(t, ship, turret.Target)

	_, err = (Descriptor{}).Value(turret)
	assert.Error(t, err)
}

type badKind struct {
	Count int `bind:""`
}

type badTag struct {
	Body *components.Rigidbody `bind:"source=up"`
}

type unexported struct {
	body *components.Rigidbody `bind:""`
}

func TestReflectRegistry_RegisterErrors(t *testing.T) {
	tests := []struct {
		name   string
		sample any
		want   string
	}{
		{"non struct field", badKind{}, "struct pointer or an interface"},
		{"bad tag", badTag{}, "unknown source"},
		{"unexported", unexported{}, "must be exported"},
		{"not a struct", 42, "must be structs or interfaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewReflectRegistry().Register(tt.sample)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.Error(t, NewReflectRegistry().Register(nil))
}

func TestStaticRegistry_Dedupe(t *testing.T) {
	a := Descriptor{DeclaringType: analyze.TypeID{Name: "T"}, Field: "A"}
	b := Descriptor{DeclaringType: analyze.TypeID{Name: "T"}, Field: "B"}
	other := Descriptor{DeclaringType: analyze.TypeID{PkgPath: "x", Name: "T"}, Field: "A"}

	got := StaticRegistry{a, b, a, other}.Discover()
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Field)
	assert.Equal(t, "B", got[1].Field)
	assert.Equal(t, "x", got[2].DeclaringType.PkgPath)
}
