package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/bankcore/internal/apperrors"
)

func TestAccountNumber(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		for _, number := range []string{"478758", "225487", "000000", "123456789012"} {
			require.NoError(t, AccountNumber(number), "number %q should be valid", number)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name   string
			number string
		}{
			{"empty", ""},
			{"too short", "12345"},
			{"too long", "1234567890123"},
			{"letters", "12345a"},
			{"spaces", " 123456"},
			{"sign", "-123456"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := AccountNumber(tt.number)

				require.ErrorIs(t, err, apperrors.ErrInvalidAccountNumber)
			})
		}
	})
}
