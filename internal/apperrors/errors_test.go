package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKnown(t *testing.T) {
	t.Run("sentinel", func(t *testing.T) {
		require.True(t, Known(ErrInsufficientBalance))
	})

	t.Run("wrapped sentinel", func(t *testing.T) {
		err := fmt.Errorf("can't debit account: %w", ErrInsufficientBalance)

		require.True(t, Known(err), "wrapped sentinel should be recognized")
	})

	t.Run("unknown", func(t *testing.T) {
		require.False(t, Known(errors.New("connection reset by peer")))
	})

	t.Run("nil", func(t *testing.T) {
		require.False(t, Known(nil))
	})
}
