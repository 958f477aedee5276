package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	err := NotFound("engagement %s not found", "abc")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))

	wrapped := fmt.Errorf("load: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestInternalKeepsExpectedOutcomes(t *testing.T) {
	expected := Conflict("duplicate")
	assert.Same(t, expected, Internal(expected))

	cause := errors.New("connection refused")
	err := Internal(cause)
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, Internal(nil))
}

func TestCodeOfForeignError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}
