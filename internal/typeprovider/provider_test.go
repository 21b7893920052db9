package typeprovider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goslice/internal/fixture"
	"goslice/internal/typeprovider"
)

func load(t *testing.T) *typeprovider.Provider {
	t.Helper()
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)
	return p
}

func TestLoadAndLookup(t *testing.T) {
	p := load(t)

	fn, ok := p.LookupFunc(fixture.ModulePath+"/shapes", "Area")
	require.True(t, ok)
	assert.Equal(t, "Area", fn.Name())

	tn, ok := p.LookupType(fixture.ModulePath+"/shapes", "Shape")
	require.True(t, ok)
	assert.Equal(t, "Shape", tn.Name())

	_, ok = p.LookupFunc(fixture.ModulePath+"/shapes", "DoesNotExist")
	assert.False(t, ok)
}

func TestIsProjectPackage(t *testing.T) {
	p := load(t)
	assert.True(t, p.IsProjectPackage(fixture.ModulePath+"/shapes"))
	assert.False(t, p.IsProjectPackage("fmt"))
	assert.True(t, p.IsBuiltin("fmt"))
	assert.False(t, p.IsBuiltin(fixture.ModulePath+"/shapes"))
}

func TestMethodLookup(t *testing.T) {
	p := load(t)
	tn, ok := p.LookupType(fixture.ModulePath+"/shapes", "Shape")
	require.True(t, ok)

	fn := typeprovider.Method(tn, "Describe")
	require.NotNil(t, fn)
	assert.Equal(t, "Describe", fn.Name())

	assert.Nil(t, typeprovider.Method(tn, "NoSuchMethod"))
}

func TestOriginOfDirectlyDeclaredMethod(t *testing.T) {
	p := load(t)
	origin, err := typeprovider.Origin(p, fixture.ModulePath+"/shapes", "Shape", "Describe")
	require.NoError(t, err)
	assert.Equal(t, fixture.ModulePath+"/shapes.Shape", origin)
}

func TestOriginOfMissingMemberErrors(t *testing.T) {
	p := load(t)
	_, err := typeprovider.Origin(p, fixture.ModulePath+"/shapes", "Shape", "NoSuchMember")
	assert.Error(t, err)
}
