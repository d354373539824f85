package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/bankcore/internal/apperrors"
	"github.com/nkiryanov/bankcore/internal/models"
	"github.com/nkiryanov/bankcore/internal/repository"
	"github.com/nkiryanov/bankcore/internal/testutil"
)

func TestMovement(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	customerID := uuid.New()

	newMovement := func(accountID uuid.UUID, typ models.MovementType, amount string, balance string) models.Movement {
		return models.Movement{
			AccountID: accountID,
			Type:      typ,
			Amount:    decimal.RequireFromString(amount),
			Balance:   decimal.RequireFromString(balance),
		}
	}

	inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
		account, err := storage.Account().CreateAccount(t.Context(), newAccount("478758", customerID, "2000.00"))
		require.NoError(t, err)

		t.Run("CreateMovement", func(t *testing.T) {
			t.Run("create ok", func(t *testing.T) {
				inTx(t, tx, func(_ pgx.Tx, storage repository.Storage) {
					m, err := storage.Movement().CreateMovement(t.Context(), newMovement(account.ID, models.MovementTypeDebit, "575.00", "1425.00"))

					require.NoError(t, err)
					require.NotEqual(t, uuid.Nil, m.ID)
					require.Equal(t, account.ID, m.AccountID)
					require.Equal(t, "478758", m.AccountNumber, "account number should be joined")
					require.Equal(t, models.MovementTypeDebit, m.Type)
					require.True(t, m.Amount.Equal(decimal.RequireFromString("575")))
					require.True(t, m.Balance.Equal(decimal.RequireFromString("1425")))
					require.NotZero(t, m.MovementDate)
				})
			})

			t.Run("unknown account", func(t *testing.T) {
				inTx(t, tx, func(_ pgx.Tx, storage repository.Storage) {
					_, err := storage.Movement().CreateMovement(t.Context(), newMovement(uuid.New(), models.MovementTypeCredit, "1", "1"))

					require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
				})
			})
		})

		t.Run("GetMovement", func(t *testing.T) {
			inTx(t, tx, func(_ pgx.Tx, storage repository.Storage) {
				created, err := storage.Movement().CreateMovement(t.Context(), newMovement(account.ID, models.MovementTypeCredit, "600", "2600"))
				require.NoError(t, err)

				for _, lock := range []bool{false, true} {
					got, err := storage.Movement().GetMovement(t.Context(), created.ID, lock)

					require.NoError(t, err, "lock=%v", lock)
					require.Equal(t, created.ID, got.ID)
					require.Equal(t, "478758", got.AccountNumber)
				}

				_, err = storage.Movement().GetMovement(t.Context(), uuid.New(), false)
				require.ErrorIs(t, err, apperrors.ErrMovementNotFound)
			})
		})

		t.Run("UpdateMovement", func(t *testing.T) {
			inTx(t, tx, func(_ pgx.Tx, storage repository.Storage) {
				created, err := storage.Movement().CreateMovement(t.Context(), newMovement(account.ID, models.MovementTypeDebit, "575", "1425"))
				require.NoError(t, err)

				created.Type = models.MovementTypeCredit
				created.Amount = decimal.RequireFromString("100")
				created.Balance = decimal.RequireFromString("2100")
				got, err := storage.Movement().UpdateMovement(t.Context(), created)

				require.NoError(t, err)
				require.Equal(t, models.MovementTypeCredit, got.Type)
				require.True(t, got.Amount.Equal(decimal.RequireFromString("100")))
				require.True(t, got.Balance.Equal(decimal.RequireFromString("2100")))
				require.Equal(t, account.ID, got.AccountID, "owning account is never changed")

				created.ID = uuid.New()
				_, err = storage.Movement().UpdateMovement(t.Context(), created)
				require.ErrorIs(t, err, apperrors.ErrMovementNotFound)
			})
		})

		t.Run("DeleteMovement", func(t *testing.T) {
			inTx(t, tx, func(_ pgx.Tx, storage repository.Storage) {
				created, err := storage.Movement().CreateMovement(t.Context(), newMovement(account.ID, models.MovementTypeDebit, "1", "1999"))
				require.NoError(t, err)

				err = storage.Movement().DeleteMovement(t.Context(), created.ID)
				require.NoError(t, err)

				_, err = storage.Movement().GetMovement(t.Context(), created.ID, false)
				require.ErrorIs(t, err, apperrors.ErrMovementNotFound, "movement should be removed physically")

				err = storage.Movement().DeleteMovement(t.Context(), created.ID)
				require.ErrorIs(t, err, apperrors.ErrMovementNotFound, "second delete should fail")
			})
		})

		t.Run("ListMovements", func(t *testing.T) {
			inTx(t, tx, func(_ pgx.Tx, storage repository.Storage) {
				otherCustomer := uuid.New()
				other, err := storage.Account().CreateAccount(t.Context(), newAccount("225487", otherCustomer, "100"))
				require.NoError(t, err)

				jan := testutil.MustParseTime(t, "2025-01-10T10:00:00Z")
				feb := testutil.MustParseTime(t, "2025-02-10T10:00:00Z")
				mar := testutil.MustParseTime(t, "2025-03-10T10:00:00Z")

				for _, m := range []models.Movement{
					{AccountID: account.ID, Type: models.MovementTypeDebit, Amount: decimal.NewFromInt(575), Balance: decimal.NewFromInt(1425), MovementDate: jan},
					{AccountID: account.ID, Type: models.MovementTypeCredit, Amount: decimal.NewFromInt(600), Balance: decimal.NewFromInt(2025), MovementDate: feb},
					{AccountID: other.ID, Type: models.MovementTypeCredit, Amount: decimal.NewFromInt(1), Balance: decimal.NewFromInt(101), MovementDate: mar},
				} {
					_, err := storage.Movement().CreateMovement(t.Context(), m)
					require.NoError(t, err)
				}

				t.Run("all newest first", func(t *testing.T) {
					got, err := storage.Movement().ListMovements(t.Context(), repository.ListMovementsOpts{})

					require.NoError(t, err)
					require.Len(t, got, 3)
					require.Equal(t, "225487", got[0].AccountNumber)
					require.True(t, got[0].MovementDate.Equal(mar))
				})

				t.Run("by account", func(t *testing.T) {
					got, err := storage.Movement().ListMovements(t.Context(), repository.ListMovementsOpts{AccountID: &account.ID})

					require.NoError(t, err)
					require.Len(t, got, 2)
					require.Equal(t, models.MovementTypeCredit, got[0].Type)
					require.Equal(t, models.MovementTypeDebit, got[1].Type)
				})

				t.Run("by customer and date range", func(t *testing.T) {
					got, err := storage.Movement().ListMovements(t.Context(), repository.ListMovementsOpts{
						CustomerID: &customerID,
						From:       jan.Add(time.Hour),
						To:         mar,
					})

					require.NoError(t, err)
					require.Len(t, got, 1, "only february movement of the customer matches")
					require.True(t, got[0].MovementDate.Equal(feb))
				})

				t.Run("empty", func(t *testing.T) {
					unknown := uuid.New()
					got, err := storage.Movement().ListMovements(t.Context(), repository.ListMovementsOpts{AccountID: &unknown})

					require.NoError(t, err)
					require.Empty(t, got)
				})
			})
		})
	})
}
