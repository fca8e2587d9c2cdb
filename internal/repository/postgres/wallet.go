package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type walletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) repository.WalletRepository {
	return &walletRepository{db: db}
}

func scanWallet(row interface{ Scan(...interface{}) error }) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(&w.ID, &w.UserID, &w.BalanceMinor, &w.Currency, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *walletRepository) GetByID(ctx context.Context, id int32) (*domain.Wallet, error) {
	query := `SELECT id, user_id, balance_minor, currency, created_at, updated_at FROM wallets WHERE id = $1`
	w, err := scanWallet(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("wallet")
	}
	return w, err
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID int32) (*domain.Wallet, error) {
	query := `SELECT id, user_id, balance_minor, currency, created_at, updated_at FROM wallets WHERE user_id = $1`
	w, err := scanWallet(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("wallet")
	}
	return w, err
}

func (r *walletRepository) GetOrCreateByUserID(ctx context.Context, userID int32, currency string) (*domain.Wallet, error) {
	query := `INSERT INTO wallets (user_id, balance_minor, currency, created_at, updated_at)
	          VALUES ($1, 0, $2, NOW(), NOW())
	          ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, currency); err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

// ApplyTransaction is the single write path for wallet money. The balance
// update and the audit row are one unit of work and the caller is expected to
// run it inside WithinTx when other entities move in the same operation. The
// balance guard rejects any change that would leave the wallet negative.
func (r *walletRepository) ApplyTransaction(ctx context.Context, walletID int32, amount int64, txType domain.WalletTransactionType, description string, metadata map[string]string) (bool, error) {
	update := `UPDATE wallets SET balance_minor = balance_minor + $1, updated_at = NOW()
	           WHERE id = $2 AND balance_minor + $1 >= 0`
	res, err := r.db.ExecContext(ctx, update, amount, walletID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	meta, err := json.Marshal(metadata)
	if err != nil {
		return false, err
	}
	insert := `INSERT INTO wallet_transactions (wallet_id, amount_minor, type, description, metadata, created_at)
	           VALUES ($1, $2, $3, $4, $5, NOW())`
	if _, err := r.db.ExecContext(ctx, insert, walletID, amount, txType, description, meta); err != nil {
		return false, err
	}
	return true, nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM wallet_transactions WHERE wallet_id = $1`, walletID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, wallet_id, amount_minor, type, COALESCE(description, ''), COALESCE(metadata, '{}'), created_at
	          FROM wallet_transactions WHERE wallet_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, walletID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.WalletTransaction
	for rows.Next() {
		var tx domain.WalletTransaction
		var meta []byte
		if err := rows.Scan(&tx.ID, &tx.WalletID, &tx.AmountMinor, &tx.Type, &tx.Description, &meta, &tx.CreatedAt); err != nil {
			return nil, 0, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &tx.Metadata); err != nil {
				return nil, 0, err
			}
		}
		txs = append(txs, tx)
	}
	return txs, count, rows.Err()
}
