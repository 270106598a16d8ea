package apierror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"socialnet/pkg/apierror"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, apierror.KindNotFound, apierror.KindOf(apierror.NotFound("gone")))
	require.Equal(t, apierror.KindConflict, apierror.KindOf(apierror.Conflict("taken")))

	// Unclassified errors read as store failures.
	require.Equal(t, apierror.KindStoreUnavailable, apierror.KindOf(errors.New("pq: boom")))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("loading profile: %w", apierror.NotFound("profile does not exist"))
	require.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
	require.True(t, apierror.IsNotFound(err))
}

func TestErrorMessage(t *testing.T) {
	err := apierror.UploadFailed("failed to upload image", errors.New("disk full"))
	require.Contains(t, err.Error(), "failed to upload image")
	require.True(t, apierror.IsKind(err, apierror.KindUploadFailed))

	var typed *apierror.Error
	require.True(t, errors.As(err, &typed))
	require.EqualError(t, typed.Unwrap(), "disk full")
}
