package postgres

import (
	"context"
	"database/sql"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type tripRepository struct {
	db DBTX
}

func NewTripRepository(db DBTX) repository.TripRepository {
	return &tripRepository{db: db}
}

const tripColumns = `id, booking_id, car_id, customer_id, status, start_odometer, end_odometer,
	start_fuel_level, end_fuel_level, checkin_time, checkout_time,
	COALESCE(checkin_notes, ''), COALESCE(checkout_notes, ''), created_at, updated_at`

func scanTrip(row interface{ Scan(...interface{}) error }) (*domain.Trip, error) {
	t := &domain.Trip{}
	err := row.Scan(&t.ID, &t.BookingID, &t.CarID, &t.CustomerID, &t.Status,
		&t.StartOdometer, &t.EndOdometer, &t.StartFuelLevel, &t.EndFuelLevel,
		&t.CheckinTime, &t.CheckoutTime, &t.CheckinNotes, &t.CheckoutNotes,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tripRepository) Create(ctx context.Context, t *domain.Trip) error {
	query := `INSERT INTO trips (booking_id, car_id, customer_id, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, t.BookingID, t.CarID, t.CustomerID, t.Status).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *tripRepository) GetByID(ctx context.Context, id int32) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	t, err := scanTrip(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("trip")
	}
	return t, err
}

func (r *tripRepository) GetByBookingID(ctx context.Context, bookingID int32) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE booking_id = $1`
	t, err := scanTrip(r.db.QueryRowContext(ctx, query, bookingID))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("trip")
	}
	return t, err
}

func (r *tripRepository) Checkin(ctx context.Context, id int32, odometer, fuelLevel int32, notes string, at time.Time) (bool, error) {
	query := `UPDATE trips SET status = 'ONGOING', start_odometer = $1, start_fuel_level = $2,
	          checkin_notes = $3, checkin_time = $4, updated_at = NOW()
	          WHERE id = $5 AND status = 'UPCOMING'`
	res, err := r.db.ExecContext(ctx, query, odometer, fuelLevel, notes, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *tripRepository) Checkout(ctx context.Context, id int32, odometer, fuelLevel int32, notes string, at time.Time) (bool, error) {
	query := `UPDATE trips SET status = 'COMPLETED', end_odometer = $1, end_fuel_level = $2,
	          checkout_notes = $3, checkout_time = $4, updated_at = NOW()
	          WHERE id = $5 AND status = 'ONGOING'`
	res, err := r.db.ExecContext(ctx, query, odometer, fuelLevel, notes, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *tripRepository) ListByCustomer(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Trip, int32, error) {
	return r.list(ctx, `WHERE customer_id = $1`, customerID, page, pageSize)
}

func (r *tripRepository) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Trip, int32, error) {
	return r.list(ctx, `WHERE car_id IN (SELECT id FROM cars WHERE owner_id = $1)`, ownerID, page, pageSize)
}

func (r *tripRepository) list(ctx context.Context, where string, partyID int32, page, pageSize int32) ([]domain.Trip, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM trips `+where, partyID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + tripColumns + ` FROM trips ` + where + ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, partyID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, *t)
	}
	return trips, count, rows.Err()
}

func (r *tripRepository) ListReleasable(ctx context.Context) ([]domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips t
	          WHERE t.status = 'COMPLETED'
	            AND EXISTS (SELECT 1 FROM bookings b WHERE b.id = t.booking_id AND b.status = 'CONFIRMED')
	          ORDER BY t.checkout_time ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}
