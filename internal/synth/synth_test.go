package synth_test

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goslice/internal/fixture"
	"goslice/internal/initializer"
	"goslice/internal/synth"
	"goslice/internal/typeprint"
	"goslice/internal/typeprovider"
)

func newSynth(t *testing.T, currentPkg string) *synth.Synthesizer {
	t.Helper()
	slicePkgs := map[string]string{fixture.ModulePath + "/shapes": "shapes"}
	printer := typeprint.New(slicePkgs, currentPkg)
	gen := initializer.New(printer, func(named *types.Named) []initializer.EnumConst {
		return []initializer.EnumConst{{QualifiedName: "Red"}}
	})
	return synth.New(printer, gen)
}

func TestFuncSynthesizesPanicBody(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)

	fn, ok := p.LookupFunc(fixture.ModulePath+"/shapes", "Area")
	require.True(t, ok)

	s := newSynth(t, fixture.ModulePath+"/shapes")
	text, err := s.Func(fn)
	require.NoError(t, err)
	assert.Contains(t, text, "func Area(")
	assert.Contains(t, text, "panic(Unimplemented(")
}

func TestFuncRejectsMethod(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)

	tn, ok := p.LookupType(fixture.ModulePath+"/shapes", "Shape")
	require.True(t, ok)
	fn := typeprovider.Method(tn, "Describe")
	require.NotNil(t, fn)

	s := newSynth(t, fixture.ModulePath+"/shapes")
	_, err = s.Func(fn)
	assert.Error(t, err)
}

func TestTypeDeclStructOnlyEmitsCollectedMembers(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)

	tn, ok := p.LookupType(fixture.ModulePath+"/shapes", "Shape")
	require.True(t, ok)
	named := tn.Type().(*types.Named)

	members := synth.NewMemberSet()
	members.Fields["Name"] = true
	members.Methods["Describe"] = true

	s := newSynth(t, fixture.ModulePath+"/shapes")
	text, err := s.TypeDecl(named, members)
	require.NoError(t, err)

	assert.Contains(t, text, "type Shape struct {")
	assert.Contains(t, text, "Name string")
	assert.NotContains(t, text, "Color")
	assert.Contains(t, text, "func (s *Shape) Describe(")
}

func TestGConstAndGVar(t *testing.T) {
	s := newSynth(t, fixture.ModulePath+"/shapes")

	text, err := s.GConst("DefaultName", types.Typ[types.String])
	require.NoError(t, err)
	assert.Equal(t, `const DefaultName string = ""`+"\n", text)

	text, err = s.GVar("Count", types.Typ[types.Int])
	require.NoError(t, err)
	assert.Equal(t, "var Count int = 0\n", text)
}

func TestEnumDeclEmitsOnlyCollectedConsts(t *testing.T) {
	dir := fixture.Write(t)
	p, err := typeprovider.Load(dir, fixture.ModulePath)
	require.NoError(t, err)

	tn, ok := p.LookupType(fixture.ModulePath+"/shapes", "Color")
	require.True(t, ok)
	named := tn.Type().(*types.Named)

	members := synth.NewMemberSet()
	members.Consts["Red"] = true

	s := newSynth(t, fixture.ModulePath+"/shapes")
	text, err := s.EnumDecl(named, members)
	require.NoError(t, err)
	assert.Contains(t, text, "type Color int")
	assert.Contains(t, text, "Red Color = 0")
	assert.NotContains(t, text, "Green")
}
