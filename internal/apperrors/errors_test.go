package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHelpersFollowWrapChain(t *testing.T) {
	wrapped := fmt.Errorf("batch 42: %w", ErrNotFound)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.False(t, IsInvalidState(wrapped))

	assert.True(t, IsInvalidState(fmt.Errorf("submit: %w", ErrInvalidState)))
	assert.True(t, IsValidation(fmt.Errorf("upload: %w", ErrValidation)))
	assert.True(t, IsConflict(fmt.Errorf("roster: %w", ErrConflict)))
	assert.True(t, IsUnavailable(fmt.Errorf("geocoder: %w", ErrUnavailable)))
	assert.False(t, IsNotFound(errors.New("not found")))
}
