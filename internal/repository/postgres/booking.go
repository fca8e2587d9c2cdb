package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"

	"github.com/lib/pq"
)

type bookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, customer_id, car_id, start_date, end_date, pickup_location, dropoff_location,
	total_price_minor, discount_minor, status, COALESCE(rejection_reason, ''), created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.CustomerID, &b.CarID, &b.StartDate, &b.EndDate, &b.PickupLocation,
		&b.DropoffLocation, &b.TotalPriceMinor, &b.DiscountMinor, &b.Status, &b.RejectionReason,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (customer_id, car_id, start_date, end_date, pickup_location, dropoff_location,
	          total_price_minor, discount_minor, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, b.CustomerID, b.CarID, b.StartDate, b.EndDate,
		b.PickupLocation, b.DropoffLocation, b.TotalPriceMinor, b.DiscountMinor, b.Status).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("booking")
	}
	return b, err
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, id int32, to domain.BookingStatus, from ...domain.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = ANY($3)`
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}
	res, err := r.db.ExecContext(ctx, query, to, id, pq.Array(states))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *bookingRepository) SetRejectionReason(ctx context.Context, id int32, reason string) error {
	query := `UPDATE bookings SET rejection_reason = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, reason, id)
	return err
}

func (r *bookingRepository) CountOverlapping(ctx context.Context, carID int32, start, end time.Time) (int32, error) {
	// Half-open ranges: [a.start, a.end) and [b.start, b.end) overlap when
	// a.start < b.end AND b.start < a.end.
	query := `SELECT count(*) FROM bookings
	          WHERE car_id = $1 AND status NOT IN ('CANCELLED', 'REJECTED')
	            AND start_date < $3 AND $2 < end_date`
	var count int32
	err := r.db.QueryRowContext(ctx, query, carID, start, end).Scan(&count)
	return count, err
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	base := `FROM bookings WHERE customer_id = $1`
	return r.list(ctx, base, customerID, status, page, pageSize)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	base := `FROM bookings WHERE car_id IN (SELECT id FROM cars WHERE owner_id = $1)`
	return r.list(ctx, base, ownerID, status, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, base string, partyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	args := []interface{}{partyID}
	argIdx := 2
	if status != "" {
		base += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + bookingColumns + " " + base +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}
