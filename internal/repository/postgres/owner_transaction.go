package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type ownerTransactionRepository struct {
	db DBTX
}

func NewOwnerTransactionRepository(db DBTX) repository.OwnerTransactionRepository {
	return &ownerTransactionRepository{db: db}
}

const ownerTxColumns = `id, owner_id, booking_id, amount_minor, type, status, COALESCE(metadata, '{}'), created_at, updated_at`

func scanOwnerTx(row interface{ Scan(...interface{}) error }) (*domain.OwnerTransaction, error) {
	t := &domain.OwnerTransaction{}
	var meta []byte
	err := row.Scan(&t.ID, &t.OwnerID, &t.BookingID, &t.AmountMinor, &t.Type, &t.Status, &meta, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &t.Metadata); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (r *ownerTransactionRepository) Create(ctx context.Context, t *domain.OwnerTransaction) error {
	meta, err := json.Marshal(t.Metadata)
	if err != nil {
		return err
	}
	query := `INSERT INTO owner_transactions (owner_id, booking_id, amount_minor, type, status, metadata, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, t.OwnerID, t.BookingID, t.AmountMinor, t.Type, t.Status, meta).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *ownerTransactionRepository) GetByID(ctx context.Context, id int32) (*domain.OwnerTransaction, error) {
	query := `SELECT ` + ownerTxColumns + ` FROM owner_transactions WHERE id = $1`
	t, err := scanOwnerTx(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("owner transaction")
	}
	return t, err
}

func (r *ownerTransactionRepository) TransitionStatus(ctx context.Context, id int32, to, from domain.OwnerTransactionStatus) (bool, error) {
	query := `UPDATE owner_transactions SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *ownerTransactionRepository) ListByOwner(ctx context.Context, ownerID int32, txType, status string, page, pageSize int32) ([]domain.OwnerTransaction, int32, error) {
	offset := (page - 1) * pageSize
	base := `FROM owner_transactions WHERE owner_id = $1`
	args := []interface{}{ownerID}
	argIdx := 2
	if txType != "" {
		base += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, txType)
		argIdx++
	}
	if status != "" {
		base += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + ownerTxColumns + " " + base +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.OwnerTransaction
	for rows.Next() {
		t, err := scanOwnerTx(rows)
		if err != nil {
			return nil, 0, err
		}
		txs = append(txs, *t)
	}
	return txs, count, rows.Err()
}

func (r *ownerTransactionRepository) ListOwnersWithActivity(ctx context.Context, period string) ([]int32, error) {
	query := `SELECT DISTINCT owner_id FROM owner_transactions
	          WHERE status = 'completed' AND to_char(created_at, 'YYYY-MM') = $1`
	rows, err := r.db.QueryContext(ctx, query, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}

func (r *ownerTransactionRepository) SummarizePeriod(ctx context.Context, ownerID int32, period string) (int64, int64, error) {
	query := `SELECT
	            COALESCE(SUM(amount_minor) FILTER (WHERE type = 'RENTAL_INCOME'), 0),
	            COALESCE(SUM(amount_minor) FILTER (WHERE type = 'WITHDRAW'), 0)
	          FROM owner_transactions
	          WHERE owner_id = $1 AND status = 'completed' AND to_char(created_at, 'YYYY-MM') = $2`
	var earnings, payouts int64
	err := r.db.QueryRowContext(ctx, query, ownerID, period).Scan(&earnings, &payouts)
	return earnings, payouts, err
}

type settlementRepository struct {
	db DBTX
}

func NewSettlementRepository(db DBTX) repository.SettlementRepository {
	return &settlementRepository{db: db}
}

func (r *settlementRepository) Upsert(ctx context.Context, s *domain.Settlement) error {
	query := `INSERT INTO settlements (owner_id, period, total_earnings_minor, total_payouts_minor, net_amount_minor, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW())
	          ON CONFLICT (owner_id, period) DO UPDATE SET
	            total_earnings_minor = EXCLUDED.total_earnings_minor,
	            total_payouts_minor = EXCLUDED.total_payouts_minor,
	            net_amount_minor = EXCLUDED.net_amount_minor,
	            status = EXCLUDED.status
	          RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, s.OwnerID, s.Period, s.TotalEarningsMinor,
		s.TotalPayoutsMinor, s.NetAmountMinor, s.Status).Scan(&s.ID, &s.CreatedAt)
}

func (r *settlementRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Settlement, error) {
	query := `SELECT id, owner_id, period, total_earnings_minor, total_payouts_minor, net_amount_minor, status, created_at
	          FROM settlements WHERE owner_id = $1 ORDER BY period DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settlements []domain.Settlement
	for rows.Next() {
		var s domain.Settlement
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Period, &s.TotalEarningsMinor, &s.TotalPayoutsMinor,
			&s.NetAmountMinor, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}
