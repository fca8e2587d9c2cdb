package repository

import (
	"context"
	"time"

	"driveshare-backend/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	// TransitionStatus performs a conditional update: the booking moves to the
	// target status only if its current status is one of from. Returns false
	// (and no error) when the guard did not match, which converts concurrent
	// double-processing into a clean InvalidStateError at the service layer.
	TransitionStatus(ctx context.Context, id int32, to domain.BookingStatus, from ...domain.BookingStatus) (bool, error)
	SetRejectionReason(ctx context.Context, id int32, reason string) error
	// CountOverlapping counts bookings for the car whose [start_date, end_date)
	// range intersects [start, end), in any status except CANCELLED/REJECTED.
	CountOverlapping(ctx context.Context, carID int32, start, end time.Time) (int32, error)
	ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	// GetCompletedByBooking returns the booking's COMPLETED, not-yet-refunded
	// payment, or a NOT_FOUND error when none exists.
	GetCompletedByBooking(ctx context.Context, bookingID int32) (*domain.Payment, error)
	// MarkCompleted transitions PENDING -> COMPLETED; false if not pending.
	MarkCompleted(ctx context.Context, id int32, paidAt time.Time) (bool, error)
	// MarkRefunded sets refunded_at and the reason, guarded on the payment
	// being COMPLETED with refunded_at still NULL.
	MarkRefunded(ctx context.Context, id int32, reason string, refundedAt time.Time) (bool, error)
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error)
}

type TripRepository interface {
	Create(ctx context.Context, t *domain.Trip) error
	GetByID(ctx context.Context, id int32) (*domain.Trip, error)
	GetByBookingID(ctx context.Context, bookingID int32) (*domain.Trip, error)
	// Checkin transitions UPCOMING -> ONGOING; false if the guard missed.
	Checkin(ctx context.Context, id int32, odometer, fuelLevel int32, notes string, at time.Time) (bool, error)
	// Checkout transitions ONGOING -> COMPLETED; false if the guard missed.
	Checkout(ctx context.Context, id int32, odometer, fuelLevel int32, notes string, at time.Time) (bool, error)
	ListByCustomer(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Trip, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Trip, int32, error)
	// ListReleasable returns COMPLETED trips whose booking is still CONFIRMED,
	// i.e. escrow not yet released.
	ListReleasable(ctx context.Context) ([]domain.Trip, error)
}

type WalletRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID int32) (*domain.Wallet, error)
	GetOrCreateByUserID(ctx context.Context, userID int32, currency string) (*domain.Wallet, error)
	// ApplyTransaction appends a wallet transaction and adjusts the cached
	// balance in the same statement pair. For debits the update is guarded on
	// balance + amount >= 0; a missed guard returns applied == false and
	// leaves nothing written.
	ApplyTransaction(ctx context.Context, walletID int32, amount int64, txType domain.WalletTransactionType, description string, metadata map[string]string) (bool, error)
	ListTransactions(ctx context.Context, walletID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
}

type OwnerTransactionRepository interface {
	Create(ctx context.Context, t *domain.OwnerTransaction) error
	GetByID(ctx context.Context, id int32) (*domain.OwnerTransaction, error)
	TransitionStatus(ctx context.Context, id int32, to domain.OwnerTransactionStatus, from domain.OwnerTransactionStatus) (bool, error)
	ListByOwner(ctx context.Context, ownerID int32, txType, status string, page, pageSize int32) ([]domain.OwnerTransaction, int32, error)
	// ListOwnersWithActivity returns the owners that have completed
	// transactions inside the 'YYYY-MM' period.
	ListOwnersWithActivity(ctx context.Context, period string) ([]int32, error)
	// SummarizePeriod aggregates completed transactions for one owner and
	// period into (earnings, payouts).
	SummarizePeriod(ctx context.Context, ownerID int32, period string) (int64, int64, error)
}

type SettlementRepository interface {
	Upsert(ctx context.Context, s *domain.Settlement) error
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Settlement, error)
}

type DisputeRepository interface {
	Create(ctx context.Context, d *domain.Dispute) error
	GetByID(ctx context.Context, id int32) (*domain.Dispute, error)
	// StartProgress transitions OPEN -> IN_PROGRESS.
	StartProgress(ctx context.Context, id int32) (bool, error)
	// Resolve moves the dispute to a terminal status and appends the
	// resolution note to the description, guarded on OPEN/IN_PROGRESS.
	Resolve(ctx context.Context, id int32, to domain.DisputeStatus, note string, at time.Time) (bool, error)
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Dispute, int32, error)
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Dispute, int32, error)
}

type CarRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	// CountBlockedDays counts owner-blocked calendar days inside [start, end).
	CountBlockedDays(ctx context.Context, carID int32, start, end time.Time) (int32, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

// Repositories bundles every repository over one database handle. Inside
// Atomic.WithinTx the bundle is bound to a single transaction.
type Repositories struct {
	Bookings          BookingRepository
	Payments          PaymentRepository
	Trips             TripRepository
	Wallets           WalletRepository
	OwnerTransactions OwnerTransactionRepository
	Settlements       SettlementRepository
	Disputes          DisputeRepository
	Cars              CarRepository
	Users             UserRepository
}

// Atomic runs fn with a repository bundle bound to one database transaction.
// fn returning an error rolls everything back; money-moving operations use
// this so no partial state is ever observable.
type Atomic interface {
	WithinTx(ctx context.Context, fn func(r *Repositories) error) error
}
