package order

import (
	"testing"

	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	o, err := New("user-1", 1500, "widget")
	require.NoError(t, err)
	require.Equal(t, StatusNew, o.Status)

	_, err = New("user-1", 0, "widget")
	require.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestTransitionTo(t *testing.T) {
	o, _ := New("user-1", 1500, "widget")

	require.NoError(t, o.TransitionTo(StatusFinished))
	require.Equal(t, StatusFinished, o.Status)

	// Second transition out of a settled order is rejected.
	err := o.TransitionTo(StatusCancelled)
	require.ErrorIs(t, err, apperrors.ErrIllegalTransition)
}

func TestTransitionToRejectsUnknownTarget(t *testing.T) {
	o, _ := New("user-1", 1500, "widget")
	err := o.TransitionTo(StatusNew)
	require.ErrorIs(t, err, apperrors.ErrIllegalTransition)
}

func TestStatusForResult(t *testing.T) {
	require.Equal(t, StatusFinished, StatusForResult(true))
	require.Equal(t, StatusCancelled, StatusForResult(false))
}
