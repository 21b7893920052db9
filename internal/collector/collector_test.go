package collector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goslice/internal/collector"
	"goslice/internal/depnode"
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

func TestCollectFunctionEntryPullsInTransitiveSurface(t *testing.T) {
	p := load(t)
	entry := depnode.EntryPoint{Kind: depnode.EntryFunction, PkgPath: fixture.ModulePath + "/shapes", Name: "Compute"}

	res, err := collector.New(p).Collect(entry)
	require.NoError(t, err)

	shapeFQN := fixture.ModulePath + "/shapes.Shape"
	colorFQN := fixture.ModulePath + "/shapes.Color"

	require.Contains(t, res.Types, shapeFQN)
	assert.True(t, res.Types[shapeFQN].Members.Fields["Color"])
	assert.True(t, res.Types[shapeFQN].Members.HasCstr)

	require.Contains(t, res.Types, colorFQN)

	var names []string
	for _, g := range res.Globals {
		names = append(names, g.Name)
	}
	assert.Contains(t, names, "NewShape")
	assert.Contains(t, names, "Area")
	assert.Contains(t, names, "DefaultName")

	// The entry function itself is never part of its own slice.
	assert.NotContains(t, names, "Compute")
}

func TestCollectMemberEntryForcesOwningType(t *testing.T) {
	p := load(t)
	entry := depnode.EntryPoint{Kind: depnode.EntryMember, PkgPath: fixture.ModulePath + "/shapes", TypeName: "Shape", Method: "Describe"}

	res, err := collector.New(p).Collect(entry)
	require.NoError(t, err)

	shapeFQN := fixture.ModulePath + "/shapes.Shape"
	require.Contains(t, res.Types, shapeFQN)

	// Describe itself must not appear among the type's collected members:
	// it is the entry point, inlined directly rather than stubbed.
	assert.False(t, res.Types[shapeFQN].Members.Methods["Describe"])
	assert.False(t, res.Types[shapeFQN].Members.SMethods["Describe"])

	require.NotNil(t, res.EntryDecl)
	assert.Equal(t, "Describe", res.EntryName)
	assert.True(t, res.EntryIsMethod)
}

func TestCollectUnknownEntryErrors(t *testing.T) {
	p := load(t)
	entry := depnode.EntryPoint{Kind: depnode.EntryFunction, PkgPath: fixture.ModulePath + "/shapes", Name: "NoSuchFunc"}

	_, err := collector.New(p).Collect(entry)
	assert.Error(t, err)
}
