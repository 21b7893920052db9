package initializer_test

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goslice/internal/fixture"
	"goslice/internal/initializer"
	"goslice/internal/typeprint"
	"goslice/internal/typeprovider"
)

func newGenerator(t *testing.T, p *typeprovider.Provider, currentPkg string) *initializer.Generator {
	t.Helper()
	slicePkgs := map[string]string{fixture.ModulePath + "/shapes": "shapes"}
	printer := typeprint.New(slicePkgs, currentPkg)
	return initializer.New(printer, func(named *types.Named) []initializer.EnumConst {
		pkg, ok := p.Package(named.Obj().Pkg().Path())
		if !ok {
			return nil
		}
		scope := pkg.Types.Scope()
		var out []initializer.EnumConst
		for _, name := range []string{"Red", "Green", "Blue"} {
			obj := scope.Lookup(name)
			if obj == nil {
				continue
			}
			out = append(out, initializer.EnumConst{QualifiedName: name})
		}
		return out
	})
}

func TestDefaultBasics(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)
	gen := newGenerator(t, p, fixture.ModulePath+"/shapes")

	s, err := gen.Default(types.Typ[types.Bool])
	require.NoError(t, err)
	assert.Equal(t, "false", s)

	s, err = gen.Default(types.Typ[types.String])
	require.NoError(t, err)
	assert.Equal(t, `""`, s)

	s, err = gen.Default(types.Typ[types.Int])
	require.NoError(t, err)
	assert.Equal(t, "0", s)
}

func TestDefaultRejectsChannelsAndComplex(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)
	gen := newGenerator(t, p, fixture.ModulePath+"/shapes")

	_, err = gen.Default(types.NewChan(types.SendRecv, types.Typ[types.Int]))
	assert.Error(t, err)

	_, err = gen.Default(types.Typ[types.Complex128])
	assert.Error(t, err)
}

func TestDefaultEnumPicksFirstConstant(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)
	gen := newGenerator(t, p, fixture.ModulePath+"/shapes")

	tn, ok := p.LookupType(fixture.ModulePath+"/shapes", "Color")
	require.True(t, ok)

	s, err := gen.Default(tn.Type())
	require.NoError(t, err)
	assert.Equal(t, "Red", s)
}

func TestDefaultStructFillsValueFields(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)
	gen := newGenerator(t, p, fixture.ModulePath+"/shapes")

	tn, ok := p.LookupType(fixture.ModulePath+"/shapes", "Shape")
	require.True(t, ok)

	s, err := gen.Default(tn.Type())
	require.NoError(t, err)
	assert.Contains(t, s, "Name:")
	assert.Contains(t, s, "Color:")
}
