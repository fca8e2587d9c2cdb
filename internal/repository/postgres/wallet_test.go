package postgres

import (
	"context"
	"testing"
	"time"

	"driveshare-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestWalletRepository_ApplyTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewWalletRepository(db)
	ctx := context.Background()

	t.Run("CreditAppendsLedgerRow", func(t *testing.T) {
		mock.ExpectExec("UPDATE wallets SET balance_minor").
			WithArgs(int64(500_000), int32(52)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO wallet_transactions").
			WithArgs(int32(52), int64(500_000), domain.WalletTxTypeTopup, "wallet top-up", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		applied, err := repo.ApplyTransaction(ctx, 52, 500_000, domain.WalletTxTypeTopup, "wallet top-up", nil)
		assert.NoError(t, err)
		assert.True(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DebitBeyondBalanceWritesNothing", func(t *testing.T) {
		// The balance guard misses, so the ledger insert must not run.
		mock.ExpectExec("UPDATE wallets SET balance_minor").
			WithArgs(int64(-2_000_000), int32(52)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		applied, err := repo.ApplyTransaction(ctx, 52, -2_000_000, domain.WalletTxTypeWithdrawPending, "withdrawal hold", nil)
		assert.NoError(t, err)
		assert.False(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWalletRepository_GetOrCreateByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewWalletRepository(db)
	ctx := context.Background()

	t.Run("ExistingWalletSurvivesConflict", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO wallets").
			WithArgs(int32(2), "VND").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT id, user_id, balance_minor, currency, created_at, updated_at FROM wallets WHERE user_id").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "user_id", "balance_minor", "currency", "created_at", "updated_at"}).
				AddRow(52, 2, 1_000_000, "VND", time.Now(), time.Now()))

		wallet, err := repo.GetOrCreateByUserID(ctx, 2, "VND")
		assert.NoError(t, err)
		assert.Equal(t, int32(52), wallet.ID)
		assert.Equal(t, int64(1_000_000), wallet.BalanceMinor)
	})
}
