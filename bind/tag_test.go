package bind

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Options
	}{
		{"empty", "", Options{Source: Self, Strict: true}},
		{"whitespace", "  ", Options{Source: Self, Strict: true}},
		{"source only", "source=child", Options{Source: Child, Strict: true}},
		{"source and strict", "source=parent,strict=false", Options{Source: Parent, Strict: false}},
		{"bare source", "self_or_child", Options{Source: SelfOrChild, Strict: true}},
		{"bare source nonstrict", "any,nonstrict", Options{Source: Any, Strict: false}},
		{"strict flag", "source=SelfOrParent,strict", Options{Source: SelfOrParent, Strict: true}},
		{"strict first", "strict=0, source=any", Options{Source: Any, Strict: false}},
		{"dashes", "source=self-or-parent", Options{Source: SelfOrParent, Strict: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTag(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTag_Errors(t *testing.T) {
	for _, value := range []string{
		"source=sibling",
		"strict=maybe",
		"source=child,source=parent",
		"strict,nonstrict",
		"child,parent",
		"weight=3",
	} {
		t.Run(value, func(t *testing.T) {
			_, err := ParseTag(value)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTag)
		})
	}
}

func TestLookup(t *testing.T) {
	type sample struct {
		Bound   any `bind:"source=child"`
		Skipped any `bind:"-"`
		Plain   any `json:"plain"`
		Broken  any `bind:"source=nowhere"`
	}

	st := reflect.TypeFor[sample]()

	opts, ok, err := Lookup(st.Field(0).Tag)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Child, opts.Source)

	_, ok, err = Lookup(st.Field(1).Tag)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = Lookup(st.Field(2).Tag)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = Lookup(st.Field(3).Tag)
	assert.ErrorIs(t, err, ErrInvalidTag)
}

func TestOptionsString_RoundTrip(t *testing.T) {
	for _, src := range Sources {
		for _, strict := range []bool{true, false} {
			opts := Options{Source: src, Strict: strict}

			parsed, err := ParseTag(opts.String())
			require.NoError(t, err)
			assert.Equal(t, opts, parsed)
		}
	}
}

func TestSourceScopes(t *testing.T) {
	assert.Equal(t, ScopeSelf, Self.Scopes())
	assert.Equal(t, ScopeDescendants, Child.Scopes())
	assert.Equal(t, ScopeSelf|ScopeDescendants, SelfOrChild.Scopes())
	assert.Equal(t, ScopeAncestors, Parent.Scopes())
	assert.Equal(t, ScopeSelf|ScopeAncestors, SelfOrParent.Scopes())
	assert.Equal(t, ScopeSelf|ScopeDescendants|ScopeAncestors, Any.Scopes())
	assert.Equal(t, ScopeNone, Source(42).Scopes())

	assert.True(t, Any.Scopes().Has(ScopeDescendants|ScopeAncestors))
	assert.False(t, Child.Scopes().Has(ScopeSelf))
}

func TestSourceCanCreate(t *testing.T) {
	for _, src := range Sources {
		assert.Equal(t, src == Self, src.CanCreate(), src.String())
	}
}

func TestSourceText(t *testing.T) {
	var s Source
	require.NoError(t, s.UnmarshalText([]byte("Self_Or_Parent")))
	assert.Equal(t, SelfOrParent, s)

	b, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "self_or_parent", string(b))

	_, err = Source(-1).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Source(9)", Source(9).String())
}
