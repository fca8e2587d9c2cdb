package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type disputeRepository struct {
	db DBTX
}

func NewDisputeRepository(db DBTX) repository.DisputeRepository {
	return &disputeRepository{db: db}
}

const disputeColumns = `id, booking_id, initiated_by, title, description, status, created_at, updated_at, resolved_at`

func scanDispute(row interface{ Scan(...interface{}) error }) (*domain.Dispute, error) {
	d := &domain.Dispute{}
	err := row.Scan(&d.ID, &d.BookingID, &d.InitiatedBy, &d.Title, &d.Description, &d.Status,
		&d.CreatedAt, &d.UpdatedAt, &d.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *disputeRepository) Create(ctx context.Context, d *domain.Dispute) error {
	query := `INSERT INTO disputes (booking_id, initiated_by, title, description, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, d.BookingID, d.InitiatedBy, d.Title, d.Description, d.Status).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *disputeRepository) GetByID(ctx context.Context, id int32) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`
	d, err := scanDispute(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("dispute")
	}
	return d, err
}

func (r *disputeRepository) StartProgress(ctx context.Context, id int32) (bool, error) {
	query := `UPDATE disputes SET status = 'IN_PROGRESS', updated_at = NOW() WHERE id = $1 AND status = 'OPEN'`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *disputeRepository) Resolve(ctx context.Context, id int32, to domain.DisputeStatus, note string, at time.Time) (bool, error) {
	query := `UPDATE disputes SET status = $1,
	            description = description || E'\n\nResolution: ' || $2,
	            resolved_at = $3, updated_at = NOW()
	          WHERE id = $4 AND status IN ('OPEN', 'IN_PROGRESS')`
	res, err := r.db.ExecContext(ctx, query, to, note, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *disputeRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Dispute, int32, error) {
	offset := (page - 1) * pageSize
	base := `FROM disputes`
	args := []interface{}{}
	argIdx := 1
	if status != "" {
		base += fmt.Sprintf(" WHERE status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + disputeColumns + " " + base +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	return r.queryList(ctx, query, count, args...)
}

func (r *disputeRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Dispute, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM disputes WHERE initiated_by = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE initiated_by = $1
	          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryList(ctx, query, count, userID, pageSize, offset)
}

func (r *disputeRepository) queryList(ctx context.Context, query string, count int32, args ...interface{}) ([]domain.Dispute, int32, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var disputes []domain.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, 0, err
		}
		disputes = append(disputes, *d)
	}
	return disputes, count, rows.Err()
}
