package service

import (
	"context"
	"fmt"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository"

	"github.com/google/uuid"
)

type paymentService struct {
	store       repository.Atomic
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	walletRepo  repository.WalletRepository
	carRepo     repository.CarRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService
	escrow      EscrowAccount
}

func NewPaymentService(
	store repository.Atomic,
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	walletRepo repository.WalletRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	escrow EscrowAccount,
) PaymentService {
	return &paymentService{
		store:       store,
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		walletRepo:  walletRepo,
		carRepo:     carRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		escrow:      escrow,
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, userID, bookingID int32, method domain.PaymentMethod) (*domain.Payment, error) {
	logger.EnterMethod("paymentService.CreatePayment", "userID", userID, "bookingID", bookingID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != userID {
		return nil, domain.NewNotFoundError("booking")
	}
	if booking.Status != domain.BookingStatusApproved {
		return nil, domain.NewInvalidStateError("booking is not approved for payment")
	}

	payment := &domain.Payment{
		BookingID:     &booking.ID,
		UserID:        userID,
		AmountMinor:   booking.TotalPriceMinor,
		Method:        method,
		Status:        domain.PaymentStatusPending,
		TransactionID: uuid.NewString(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		logger.ExitMethodWithError("paymentService.CreatePayment", err, "bookingID", bookingID)
		return nil, err
	}

	logger.ExitMethod("paymentService.CreatePayment", "paymentID", payment.ID, "amount", payment.AmountMinor)
	return payment, nil
}

// ConfirmPayment simulates the gateway settlement callback. The payment flip,
// the escrow credit, the booking confirmation and the trip creation are one
// atomic unit; a concurrent confirm loses the status guard and gets an
// InvalidStateError with nothing written.
func (s *paymentService) ConfirmPayment(ctx context.Context, paymentID int32) (*domain.Payment, error) {
	logger.EnterMethod("paymentService.ConfirmPayment", "paymentID", paymentID)

	var payment *domain.Payment
	var booking *domain.Booking
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		payment, err = r.Payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.BookingID == nil {
			return domain.NewInvalidStateError("payment is not tied to a booking")
		}

		ok, err := r.Payments.MarkCompleted(ctx, paymentID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewInvalidStateError("payment is not pending")
		}

		booking, err = r.Bookings.GetByID(ctx, *payment.BookingID)
		if err != nil {
			return err
		}

		escrowWallet, err := r.Wallets.GetOrCreateByUserID(ctx, s.escrow.UserID, s.escrow.Currency)
		if err != nil {
			return err
		}
		applied, err := r.Wallets.ApplyTransaction(ctx, escrowWallet.ID, payment.AmountMinor,
			domain.WalletTxTypeEscrowHeld, "escrow hold for "+bookingRef(booking.ID),
			map[string]string{"booking_id": fmt.Sprint(booking.ID), "payment_id": fmt.Sprint(payment.ID)})
		if err != nil {
			return err
		}
		if !applied {
			return domain.NewInvalidStateError("escrow wallet rejected the credit")
		}

		ok, err = r.Bookings.TransitionStatus(ctx, booking.ID, domain.BookingStatusConfirmed, domain.BookingStatusApproved)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewInvalidStateError("booking is not approved")
		}

		trip := &domain.Trip{
			BookingID:  booking.ID,
			CarID:      booking.CarID,
			CustomerID: booking.CustomerID,
			Status:     domain.TripStatusUpcoming,
		}
		return r.Trips.Create(ctx, trip)
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.ConfirmPayment", err, "paymentID", paymentID)
		return nil, err
	}

	payment.Status = domain.PaymentStatusCompleted
	s.notifyReceipt(ctx, booking, payment)

	logger.ExitMethod("paymentService.ConfirmPayment", "paymentID", paymentID, "bookingID", booking.ID)
	return payment, nil
}

func (s *paymentService) CreateWalletTopup(ctx context.Context, userID int32, amount int64, method domain.PaymentMethod) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, domain.NewValidationError("top-up amount must be positive")
	}

	wallet, err := s.walletRepo.GetOrCreateByUserID(ctx, userID, s.escrow.Currency)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		UserID:        userID,
		WalletID:      &wallet.ID,
		AmountMinor:   amount,
		Method:        method,
		Status:        domain.PaymentStatusPending,
		TransactionID: uuid.NewString(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) ConfirmTopup(ctx context.Context, paymentID int32) (*domain.Payment, error) {
	var payment *domain.Payment
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		payment, err = r.Payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.WalletID == nil || payment.BookingID != nil {
			return domain.NewInvalidStateError("payment is not a wallet top-up")
		}

		ok, err := r.Payments.MarkCompleted(ctx, paymentID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewInvalidStateError("payment is not pending")
		}

		applied, err := r.Wallets.ApplyTransaction(ctx, *payment.WalletID, payment.AmountMinor,
			domain.WalletTxTypeTopup, "wallet top-up",
			map[string]string{"payment_id": fmt.Sprint(payment.ID)})
		if err != nil {
			return err
		}
		if !applied {
			return domain.NewInvalidStateError("wallet rejected the credit")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	payment.Status = domain.PaymentStatusCompleted
	return payment, nil
}

func (s *paymentService) GetPayment(ctx context.Context, userID, paymentID int32) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, domain.NewNotFoundError("payment")
	}
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error) {
	return s.paymentRepo.ListByUser(ctx, userID, page, pageSize)
}

func (s *paymentService) notifyReceipt(ctx context.Context, booking *domain.Booking, payment *domain.Payment) {
	customer, err := s.userRepo.GetByID(ctx, booking.CustomerID)
	if err != nil {
		return
	}
	car, err := s.carRepo.GetByID(ctx, booking.CarID)
	if err != nil {
		return
	}
	_ = s.emailSvc.SendPaymentReceipt(ctx, customer.Email, car.Name, payment.AmountMinor)
}
