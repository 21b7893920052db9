package slice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goslice/internal/fixture"
	"goslice/internal/slice"
	"goslice/internal/typeprovider"
)

func newLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestExtractFunctionEntryProducesCompilableLookingSource(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)

	out, err := slice.Extract(newLogger(), p, fixture.ModulePath+"/shapes", "Compute")
	require.NoError(t, err)

	assert.Contains(t, out, "package shapes")
	assert.Contains(t, out, "func Compute() float64")
	assert.Contains(t, out, "type Shape struct")
	assert.Contains(t, out, "func NewShape(")
	assert.Contains(t, out, "func Area(")
	assert.Contains(t, out, "DefaultName")
	assert.Contains(t, out, "DefaultFactory")

	// Compute itself is inlined verbatim, never re-synthesized as a stub.
	assert.NotContains(t, out, `Unimplemented("`+fixture.ModulePath+`/shapes.Compute")`)
}

func TestExtractMemberEntryInlinesRealMethodBody(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)

	out, err := slice.Extract(newLogger(), p, fixture.ModulePath+"/shapes", "Shape.Describe")
	require.NoError(t, err)

	assert.Contains(t, out, "package shapes")
	assert.Contains(t, out, "func (s *Shape) Describe() string")
	assert.Contains(t, out, "return s.Name")
	assert.Contains(t, out, "type Shape struct")
}

func TestExtractEntryBodyImportsStdlibAndProjectPackage(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)

	out, err := slice.Extract(newLogger(), p, fixture.ModulePath+"/shapes", "Report")
	require.NoError(t, err)

	assert.Contains(t, out, "package shapes")
	assert.Contains(t, out, "func Report(")
	assert.Contains(t, out, `"fmt"`)
	assert.Contains(t, out, `"sliceexample/labels"`)
	assert.Contains(t, out, "labels.Format(")

	// fmt is outside the module and gets no synthesized declaration;
	// labels is a project package, so Format is stubbed in its own file.
	assert.NotContains(t, out, "package fmt")
	assert.Contains(t, out, "package labels")
	assert.NotContains(t, out, "func Sprintf(")
	assert.Contains(t, out, "func Format(")
}

func TestExtractUnknownSelectorErrors(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)

	_, err = slice.Extract(newLogger(), p, fixture.ModulePath+"/shapes", "NoSuchFunc")
	assert.Error(t, err)
}
