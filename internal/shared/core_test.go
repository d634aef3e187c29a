// File: internal/shared/core_test.go
package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDisplayName(t *testing.T) {
	name := "Laura Conesa"
	blank := "   "

	testCases := []struct {
		testName    string
		displayName *string
		email       string
		expected    string
	}{
		{"uses stored display name", &name, "laura@conesa.test", "Laura Conesa"},
		{"blank display name falls back to local part", &blank, "laura@conesa.test", "laura"},
		{"nil display name falls back to local part", nil, "laura@conesa.test", "laura"},
		{"email without at sign is kept whole", nil, "laura", "laura"},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			assert.Equal(t, tc.expected, DeriveDisplayName(tc.displayName, tc.email))
		})
	}
}
