package service

import (
	"context"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// passthroughStore satisfies repository.Atomic without a real database: the
// callback runs against the same mock bundle, so expectations set on the
// mocks cover the transactional path too.
type passthroughStore struct {
	repos repository.Repositories
}

func (s *passthroughStore) WithinTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return fn(&s.repos)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) TransitionStatus(ctx context.Context, id int32, to domain.BookingStatus, from ...domain.BookingStatus) (bool, error) {
	args := m.Called(ctx, id, to, from)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) SetRejectionReason(ctx context.Context, id int32, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}
func (m *MockBookingRepo) CountOverlapping(ctx context.Context, carID int32, start, end time.Time) (int32, error) {
	args := m.Called(ctx, carID, start, end)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockBookingRepo) ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, customerID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) GetCompletedByBooking(ctx context.Context, bookingID int32) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) MarkCompleted(ctx context.Context, id int32, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, id, paidAt)
	return args.Bool(0), args.Error(1)
}
func (m *MockPaymentRepo) MarkRefunded(ctx context.Context, id int32, reason string, refundedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, reason, refundedAt)
	return args.Bool(0), args.Error(1)
}
func (m *MockPaymentRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Payment), args.Get(1).(int32), args.Error(2)
}

// MockTripRepo
type MockTripRepo struct {
	mock.Mock
}

func (m *MockTripRepo) Create(ctx context.Context, t *domain.Trip) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTripRepo) GetByID(ctx context.Context, id int32) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}
func (m *MockTripRepo) GetByBookingID(ctx context.Context, bookingID int32) (*domain.Trip, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}
func (m *MockTripRepo) Checkin(ctx context.Context, id int32, odometer, fuelLevel int32, notes string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, odometer, fuelLevel, notes, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockTripRepo) Checkout(ctx context.Context, id int32, odometer, fuelLevel int32, notes string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, odometer, fuelLevel, notes, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockTripRepo) ListByCustomer(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Trip, int32, error) {
	args := m.Called(ctx, customerID, page, pageSize)
	return args.Get(0).([]domain.Trip), args.Get(1).(int32), args.Error(2)
}
func (m *MockTripRepo) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Trip, int32, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	return args.Get(0).([]domain.Trip), args.Get(1).(int32), args.Error(2)
}
func (m *MockTripRepo) ListReleasable(ctx context.Context) ([]domain.Trip, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Trip), args.Error(1)
}

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) GetByID(ctx context.Context, id int32) (*domain.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) GetByUserID(ctx context.Context, userID int32) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) GetOrCreateByUserID(ctx context.Context, userID int32, currency string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) ApplyTransaction(ctx context.Context, walletID int32, amount int64, txType domain.WalletTransactionType, description string, metadata map[string]string) (bool, error) {
	args := m.Called(ctx, walletID, amount, txType, description, metadata)
	return args.Bool(0), args.Error(1)
}
func (m *MockWalletRepo) ListTransactions(ctx context.Context, walletID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	args := m.Called(ctx, walletID, page, pageSize)
	return args.Get(0).([]domain.WalletTransaction), args.Get(1).(int32), args.Error(2)
}

// MockOwnerTxRepo
type MockOwnerTxRepo struct {
	mock.Mock
}

func (m *MockOwnerTxRepo) Create(ctx context.Context, t *domain.OwnerTransaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockOwnerTxRepo) GetByID(ctx context.Context, id int32) (*domain.OwnerTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnerTransaction), args.Error(1)
}
func (m *MockOwnerTxRepo) TransitionStatus(ctx context.Context, id int32, to domain.OwnerTransactionStatus, from domain.OwnerTransactionStatus) (bool, error) {
	args := m.Called(ctx, id, to, from)
	return args.Bool(0), args.Error(1)
}
func (m *MockOwnerTxRepo) ListByOwner(ctx context.Context, ownerID int32, txType, status string, page, pageSize int32) ([]domain.OwnerTransaction, int32, error) {
	args := m.Called(ctx, ownerID, txType, status, page, pageSize)
	return args.Get(0).([]domain.OwnerTransaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockOwnerTxRepo) ListOwnersWithActivity(ctx context.Context, period string) ([]int32, error) {
	args := m.Called(ctx, period)
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockOwnerTxRepo) SummarizePeriod(ctx context.Context, ownerID int32, period string) (int64, int64, error) {
	args := m.Called(ctx, ownerID, period)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockSettlementRepo
type MockSettlementRepo struct {
	mock.Mock
}

func (m *MockSettlementRepo) Upsert(ctx context.Context, s *domain.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSettlementRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Settlement, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Settlement), args.Error(1)
}

// MockDisputeRepo
type MockDisputeRepo struct {
	mock.Mock
}

func (m *MockDisputeRepo) Create(ctx context.Context, d *domain.Dispute) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDisputeRepo) GetByID(ctx context.Context, id int32) (*domain.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}
func (m *MockDisputeRepo) StartProgress(ctx context.Context, id int32) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockDisputeRepo) Resolve(ctx context.Context, id int32, to domain.DisputeStatus, note string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, to, note, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockDisputeRepo) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Dispute, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Dispute), args.Get(1).(int32), args.Error(2)
}
func (m *MockDisputeRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Dispute, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Dispute), args.Get(1).(int32), args.Error(2)
}

// MockCarRepo
type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) CountBlockedDays(ctx context.Context, carID int32, start, end time.Time) (int32, error) {
	args := m.Called(ctx, carID, start, end)
	return args.Get(0).(int32), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, customerName, carName string) error {
	args := m.Called(ctx, ownerEmail, customerName, carName)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingDecisionNotification(ctx context.Context, customerEmail, carName, decision, reason string) error {
	args := m.Called(ctx, customerEmail, carName, decision, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentReceipt(ctx context.Context, customerEmail, carName string, amount int64) error {
	args := m.Called(ctx, customerEmail, carName, amount)
	return args.Error(0)
}
func (m *MockEmailService) SendPayoutNotification(ctx context.Context, ownerEmail string, amount int64) error {
	args := m.Called(ctx, ownerEmail, amount)
	return args.Error(0)
}
func (m *MockEmailService) SendRefundNotification(ctx context.Context, customerEmail string, amount int64, reason string) error {
	args := m.Called(ctx, customerEmail, amount, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendWithdrawDecisionNotification(ctx context.Context, ownerEmail, decision string, amount int64, reason string) error {
	args := m.Called(ctx, ownerEmail, decision, amount, reason)
	return args.Error(0)
}

// relaxedEmail is a no-op mailer for tests that do not assert on
// notifications.
type relaxedEmail struct{}

func (relaxedEmail) SendBookingRequestNotification(context.Context, string, string, string) error {
	return nil
}
func (relaxedEmail) SendBookingDecisionNotification(context.Context, string, string, string, string) error {
	return nil
}
func (relaxedEmail) SendPaymentReceipt(context.Context, string, string, int64) error { return nil }
func (relaxedEmail) SendPayoutNotification(context.Context, string, int64) error     { return nil }
func (relaxedEmail) SendRefundNotification(context.Context, string, int64, string) error {
	return nil
}
func (relaxedEmail) SendWithdrawDecisionNotification(context.Context, string, string, int64, string) error {
	return nil
}
