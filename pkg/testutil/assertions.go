package testutil

import (
	"testing"

	"github.com/confseed/confseed/pkg/errors"
)

// AssertErrorCode checks that err carries the given structured error code.
func AssertErrorCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()

	if err == nil {
		t.Fatalf("Expected error with code %s, got nil", code)
	}
	if got := errors.GetErrorCode(err); got != code {
		t.Errorf("Expected error code %s, got %s (%v)", code, got, err)
	}
}
