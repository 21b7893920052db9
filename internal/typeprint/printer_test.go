package typeprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goslice/internal/fixture"
	"goslice/internal/typeprint"
	"goslice/internal/typeprovider"
)

func TestFullDeclQualifiesOtherPackages(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)

	tn, ok := p.LookupType(fixture.ModulePath+"/shapes", "Shape")
	require.True(t, ok)

	slicePkgs := map[string]string{fixture.ModulePath + "/shapes": "shapes"}

	// From within the shapes package itself: unqualified.
	inPkg := typeprint.New(slicePkgs, fixture.ModulePath+"/shapes")
	assert.Equal(t, "Shape", inPkg.FullDecl(tn.Type()))

	// From a different package: qualified with the short name.
	outside := typeprint.New(slicePkgs, "sliceexample/other")
	assert.Equal(t, "shapes.Shape", outside.FullDecl(tn.Type()))
}

func TestQualify(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)

	obj, ok := p.LookupConstOrVar(fixture.ModulePath+"/shapes", "DefaultName")
	require.True(t, ok)

	slicePkgs := map[string]string{fixture.ModulePath + "/shapes": "shapes"}
	outside := typeprint.New(slicePkgs, "sliceexample/other")
	assert.Equal(t, "shapes.DefaultName", outside.Qualify(obj.Pkg(), "DefaultName"))

	inPkg := typeprint.New(slicePkgs, fixture.ModulePath+"/shapes")
	assert.Equal(t, "DefaultName", inPkg.Qualify(obj.Pkg(), "DefaultName"))
}
