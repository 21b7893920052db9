package errs

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestTranslateKnownSentinels(t *testing.T) {
	assert.Equal(t, "Not found!", Translate(NotFound("entry %s", "pkg.Foo")))
	assert.Equal(t,
		"Unrecognized input. Expected: fully qualified function name or [fully qualified type name].[method_name]",
		Translate(InvalidInput("bad selector")))
	assert.Equal(t, "Dependency not found: pkg.Widget.Spin", Translate(DependencyNotFound("pkg.Widget.Spin")))
}

func TestTranslateNilIsEmpty(t *testing.T) {
	assert.Equal(t, "", Translate(nil))
}

func TestErrorsAreWrappedSentinels(t *testing.T) {
	err := NotFound("thing %s", "x")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))
}
