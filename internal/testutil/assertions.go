package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "studentwallet/internal/errors"
)

// AssertAppError requires err to carry an *AppError with the given code.
func AssertAppError(t *testing.T, err error, code string) {
	t.Helper()

	require.Error(t, err, "expected AppError %q", code)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code, "message: %s", appErr.Message)
}

// AssertNoError stops the test on any error.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	require.NoError(t, err)
}
