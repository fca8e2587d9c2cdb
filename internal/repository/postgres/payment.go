package postgres

import (
	"context"
	"database/sql"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type paymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, booking_id, user_id, wallet_id, amount_minor, method, status,
	transaction_id, paid_at, refunded_at, COALESCE(refund_reason, ''), created_at, updated_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := row.Scan(&p.ID, &p.BookingID, &p.UserID, &p.WalletID, &p.AmountMinor, &p.Method,
		&p.Status, &p.TransactionID, &p.PaidAt, &p.RefundedAt, &p.RefundReason, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (booking_id, user_id, wallet_id, amount_minor, method, status, transaction_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, p.BookingID, p.UserID, p.WalletID, p.AmountMinor,
		p.Method, p.Status, p.TransactionID).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("payment")
	}
	return p, err
}

func (r *paymentRepository) GetCompletedByBooking(ctx context.Context, bookingID int32) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
	          WHERE booking_id = $1 AND status = 'COMPLETED' AND refunded_at IS NULL`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, bookingID))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("completed payment")
	}
	return p, err
}

func (r *paymentRepository) MarkCompleted(ctx context.Context, id int32, paidAt time.Time) (bool, error) {
	query := `UPDATE payments SET status = 'COMPLETED', paid_at = $1, updated_at = NOW()
	          WHERE id = $2 AND status = 'PENDING'`
	res, err := r.db.ExecContext(ctx, query, paidAt, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *paymentRepository) MarkRefunded(ctx context.Context, id int32, reason string, refundedAt time.Time) (bool, error) {
	query := `UPDATE payments SET status = 'REFUNDED', refunded_at = $1, refund_reason = $2, updated_at = NOW()
	          WHERE id = $3 AND status = 'COMPLETED' AND refunded_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, refundedAt, reason, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM payments WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1
	          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, *p)
	}
	return payments, count, rows.Err()
}
