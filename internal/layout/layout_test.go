package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goslice/internal/collector"
	"goslice/internal/depnode"
	"goslice/internal/fixture"
	"goslice/internal/layout"
	"goslice/internal/typeprovider"
)

func TestEmitSinglePackageOmitsImportBlock(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)

	entry := depnode.EntryPoint{Kind: depnode.EntryFunction, PkgPath: fixture.ModulePath + "/shapes", Name: "Compute"}
	res, err := collector.New(p).Collect(entry)
	require.NoError(t, err)

	decls := map[string]string{}
	for fqn := range res.Types {
		decls[fqn] = "type Placeholder struct{}\n"
	}
	for _, g := range res.Globals {
		decls[g.PkgPath+"."+g.Name+":"+g.Kind.String()] = "var Placeholder = 0\n"
	}

	out, err := layout.Emit(p, res, decls, "func Compute() float64 {\n\treturn 0\n}\n", nil)
	require.NoError(t, err)

	assert.Contains(t, out, "package shapes\n")
	assert.NotContains(t, out, `"sliceexample/shapes"`)
	assert.Contains(t, out, "func Compute() float64")
}

func TestEmitEmptyResultReturnsEmptyString(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)

	res := &collector.Result{Types: map[string]*collector.TypeFacts{}, EntryPkg: fixture.ModulePath + "/shapes"}
	out, err := layout.Emit(p, res, map[string]string{}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
