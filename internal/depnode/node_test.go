package depnode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalAndClassBoundConstructors(t *testing.T) {
	g := Global(KindFunc, "example.com/pkg", "DoThing")
	assert.False(t, IsClassDependency(g))
	assert.Equal(t, "example.com/pkg.DoThing", GlobalName(g))
	assert.Equal(t, GlobalName(g), Key(g))

	c := ClassBound(KindMethod, "example.com/pkg", "Widget", "Spin")
	assert.True(t, IsClassDependency(c))
	assert.Equal(t, "example.com/pkg.Widget", OwnerClass(c))
	assert.Equal(t, OwnerClass(c), Key(c))
}

func TestTypeOnlyIsClassDependency(t *testing.T) {
	n := TypeOnly(KindTypeDecl, "example.com/pkg", "Widget")
	assert.True(t, IsClassDependency(n))
	assert.Equal(t, "example.com/pkg.Widget", Key(n))
}

func TestOwnerClassPanicsOnGlobal(t *testing.T) {
	g := Global(KindGVar, "example.com/pkg", "counter")
	assert.Panics(t, func() { OwnerClass(g) })
}

func TestGlobalNamePanicsOnClassBound(t *testing.T) {
	c := ClassBound(KindField, "example.com/pkg", "Widget", "Name")
	assert.Panics(t, func() { GlobalName(c) })
}

func TestParseEntryPoint(t *testing.T) {
	fn, err := ParseEntryPoint("example.com/pkg", "DoThing")
	require.NoError(t, err)
	assert.Equal(t, EntryFunction, fn.Kind)
	assert.Equal(t, "example.com/pkg.DoThing", fn.String())

	m, err := ParseEntryPoint("example.com/pkg", "Widget.Spin")
	require.NoError(t, err)
	assert.Equal(t, EntryMember, m.Kind)
	assert.Equal(t, "Widget", m.TypeName)
	assert.Equal(t, "Spin", m.Method)
	assert.Equal(t, "example.com/pkg.Widget.Spin", m.String())
}

func TestParseEntryPointRejectsBadInput(t *testing.T) {
	_, err := ParseEntryPoint("", "DoThing")
	assert.Error(t, err)

	_, err = ParseEntryPoint("example.com/pkg", "")
	assert.Error(t, err)

	_, err = ParseEntryPoint("example.com/pkg", "A.B.C")
	assert.Error(t, err)
}
