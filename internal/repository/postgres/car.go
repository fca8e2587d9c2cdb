package postgres

import (
	"context"
	"database/sql"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

// carRepository and userRepository are read models over the catalog and
// identity/KYC collaborators' tables.
type carRepository struct {
	db DBTX
}

func NewCarRepository(db DBTX) repository.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	c := &domain.Car{}
	query := `SELECT id, owner_id, name, price_per_day_minor, created_at FROM cars WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.OwnerID, &c.Name, &c.PricePerDayMinor, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("car")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *carRepository) CountBlockedDays(ctx context.Context, carID int32, start, end time.Time) (int32, error) {
	query := `SELECT count(*) FROM car_availability
	          WHERE car_id = $1 AND is_available = FALSE AND day >= $2 AND day < $3`
	var count int32
	err := r.db.QueryRowContext(ctx, query, carID, start, end).Scan(&count)
	return count, err
}

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, email, name, kyc_status, created_at FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.KYCStatus, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("user")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
