// File: internal/common/errors_test.go
package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorIsMatchesDetailCopies(t *testing.T) {
	withDetails := ErrNotFound.WithDetails("Profile not found with this email.")

	assert.True(t, errors.Is(withDetails, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("lookup failed: %w", withDetails), ErrNotFound))
	assert.False(t, errors.Is(withDetails, ErrConflict))
	assert.False(t, errors.Is(errors.New("plain"), ErrNotFound))
}

func TestIsAPIErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrForbidden.WithDetails("no"))

	apiErr, ok := IsAPIError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrForbidden.Code, apiErr.Code)
}
