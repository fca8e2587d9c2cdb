package service

import (
	"context"

	"driveshare-backend/internal/domain"
)

type BookingService interface {
	CreateBooking(ctx context.Context, customerID, carID int32, startDate, endDate, pickup, dropoff string) (*domain.Booking, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error)
	RejectBooking(ctx context.Context, ownerID, bookingID int32, reason string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, customerID, bookingID int32) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error)
	ListBookings(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListOwnerBookings(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type PaymentService interface {
	CreatePayment(ctx context.Context, userID, bookingID int32, method domain.PaymentMethod) (*domain.Payment, error)
	ConfirmPayment(ctx context.Context, paymentID int32) (*domain.Payment, error)
	CreateWalletTopup(ctx context.Context, userID int32, amount int64, method domain.PaymentMethod) (*domain.Payment, error)
	ConfirmTopup(ctx context.Context, paymentID int32) (*domain.Payment, error)
	GetPayment(ctx context.Context, userID, paymentID int32) (*domain.Payment, error)
	ListPayments(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error)
}

type TripService interface {
	Checkin(ctx context.Context, ownerID, tripID, startOdometer, startFuelLevel int32, notes string) (*domain.Trip, error)
	Checkout(ctx context.Context, ownerID, tripID, endOdometer, endFuelLevel int32, notes string) (*domain.Trip, error)
	GetTrip(ctx context.Context, userID, tripID int32) (*domain.Trip, error)
	ListTrips(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Trip, int32, error)
	ListOwnerTrips(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Trip, int32, error)
}

type SettlementService interface {
	ReleasePayment(ctx context.Context, bookingID, feePercent int32) (*domain.OwnerTransaction, error)
	RefundPayment(ctx context.Context, bookingID, refundPercent int32, reason string) (*domain.Payment, error)
	AutoReleaseSweep(ctx context.Context) (int32, error)
	BuildOwnerSettlements(ctx context.Context, period string) (int32, error)
	ListSettlements(ctx context.Context, ownerID int32) ([]domain.Settlement, error)
}

type WithdrawalService interface {
	RequestWithdraw(ctx context.Context, ownerID int32, amount int64, bankAccountNumber, bankAccountName string) (*domain.OwnerTransaction, error)
	ApproveWithdraw(ctx context.Context, id int32) (*domain.OwnerTransaction, error)
	RejectWithdraw(ctx context.Context, id int32, reason string) (*domain.OwnerTransaction, error)
	ListWithdrawals(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.OwnerTransaction, int32, error)
}

type DisputeService interface {
	CreateDispute(ctx context.Context, userID int32, bookingID *int32, title, description string) (*domain.Dispute, error)
	ProcessDispute(ctx context.Context, disputeID int32) (*domain.Dispute, error)
	ResolveDispute(ctx context.Context, disputeID int32, status domain.DisputeStatus, resolution string) (*domain.Dispute, error)
	GetDispute(ctx context.Context, userID int32, isAdmin bool, disputeID int32) (*domain.Dispute, error)
	ListDisputes(ctx context.Context, status string, page, pageSize int32) ([]domain.Dispute, int32, error)
	ListMyDisputes(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Dispute, int32, error)
}

type WalletService interface {
	GetWallet(ctx context.Context, userID int32) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
}

type EmailService interface {
	SendBookingRequestNotification(ctx context.Context, ownerEmail, customerName, carName string) error
	SendBookingDecisionNotification(ctx context.Context, customerEmail, carName, decision, reason string) error
	SendPaymentReceipt(ctx context.Context, customerEmail, carName string, amount int64) error
	SendPayoutNotification(ctx context.Context, ownerEmail string, amount int64) error
	SendRefundNotification(ctx context.Context, customerEmail string, amount int64, reason string) error
	SendWithdrawDecisionNotification(ctx context.Context, ownerEmail, decision string, amount int64, reason string) error
}
