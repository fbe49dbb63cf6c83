package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirst(t *testing.T) {
	first, ok := First([]string{"x", "y"})
	assert.True(t, ok)
	assert.Equal(t, "x", first)

	_, ok = First([]string(nil))
	assert.False(t, ok)
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "components.Rigidbody", QualifiedName("scenebind/examples/components", "Rigidbody"))
	assert.Equal(t, "Rigidbody", QualifiedName("", "Rigidbody"))
	assert.Equal(t, "", PkgAlias(""))
}
