package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"driveshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can run
// either standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Repositories: newRepositories(db),
	}
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Bookings:          NewBookingRepository(db),
		Payments:          NewPaymentRepository(db),
		Trips:             NewTripRepository(db),
		Wallets:           NewWalletRepository(db),
		OwnerTransactions: NewOwnerTransactionRepository(db),
		Settlements:       NewSettlementRepository(db),
		Disputes:          NewDisputeRepository(db),
		Cars:              NewCarRepository(db),
		Users:             NewUserRepository(db),
	}
}

// WithinTx runs fn against repositories bound to a single transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	repos := newRepositories(tx)
	if err := fn(&repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}
	return tx.Commit()
}
