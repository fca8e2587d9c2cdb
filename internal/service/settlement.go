package service

import (
	"context"
	"fmt"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository"
	"driveshare-backend/internal/utils"
)

type settlementService struct {
	store       repository.Atomic
	tripRepo    repository.TripRepository
	settleRepo  repository.SettlementRepository
	ownerTxRepo repository.OwnerTransactionRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService
	escrow      EscrowAccount
	feePercent  int32
}

func NewSettlementService(
	store repository.Atomic,
	tripRepo repository.TripRepository,
	settleRepo repository.SettlementRepository,
	ownerTxRepo repository.OwnerTransactionRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	escrow EscrowAccount,
	feePercent int32,
) SettlementService {
	return &settlementService{
		store:       store,
		tripRepo:    tripRepo,
		settleRepo:  settleRepo,
		ownerTxRepo: ownerTxRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		escrow:      escrow,
		feePercent:  feePercent,
	}
}

// ReleasePayment moves a confirmed booking's escrowed funds to the car owner,
// minus the platform fee. The booking's CONFIRMED -> COMPLETED transition is
// the exactly-once guard: whichever caller wins it performs the money moves,
// everyone else gets an InvalidStateError and the transaction rolls back.
func (s *settlementService) ReleasePayment(ctx context.Context, bookingID, feePercent int32) (*domain.OwnerTransaction, error) {
	logger.EnterMethod("settlementService.ReleasePayment", "bookingID", bookingID, "feePercent", feePercent)

	if feePercent < 0 || feePercent > 100 {
		return nil, domain.NewValidationError("fee percent must be between 0 and 100")
	}

	var ownerTx *domain.OwnerTransaction
	var ownerID int32
	var ownerAmount int64
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		booking, err := r.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}

		trip, err := r.Trips.GetByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}
		if trip.Status != domain.TripStatusCompleted {
			return domain.NewInvalidStateError("trip is not completed")
		}

		payment, err := r.Payments.GetCompletedByBooking(ctx, bookingID)
		if domain.IsCode(err, domain.ErrCodeNotFound) {
			return domain.NewInvalidStateError("booking has no completed payment")
		}
		if err != nil {
			return err
		}

		ok, err := r.Bookings.TransitionStatus(ctx, bookingID, domain.BookingStatusCompleted, domain.BookingStatusConfirmed)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewInvalidStateError("escrow for this booking was already released")
		}

		gross := payment.AmountMinor
		fee, net := utils.SplitFee(gross, feePercent)
		ownerAmount = net

		car, err := r.Cars.GetByID(ctx, booking.CarID)
		if err != nil {
			return err
		}
		ownerID = car.OwnerID

		escrowWallet, err := r.Wallets.GetOrCreateByUserID(ctx, s.escrow.UserID, s.escrow.Currency)
		if err != nil {
			return err
		}
		applied, err := r.Wallets.ApplyTransaction(ctx, escrowWallet.ID, -gross,
			domain.WalletTxTypeEscrowHeld, "escrow release for "+bookingRef(bookingID),
			map[string]string{"booking_id": fmt.Sprint(bookingID)})
		if err != nil {
			return err
		}
		if !applied {
			return domain.NewInsufficientFundsError("escrow wallet cannot cover the release")
		}

		ownerWallet, err := r.Wallets.GetOrCreateByUserID(ctx, ownerID, s.escrow.Currency)
		if err != nil {
			return err
		}
		applied, err = r.Wallets.ApplyTransaction(ctx, ownerWallet.ID, net,
			domain.WalletTxTypeRentalIncome, "rental payout for "+bookingRef(bookingID),
			map[string]string{
				"booking_id":  fmt.Sprint(bookingID),
				"gross_minor": fmt.Sprint(gross),
				"fee_minor":   fmt.Sprint(fee),
			})
		if err != nil {
			return err
		}
		if !applied {
			return domain.NewInvalidStateError("owner wallet rejected the payout")
		}

		ownerTx = &domain.OwnerTransaction{
			OwnerID:     ownerID,
			BookingID:   &bookingID,
			AmountMinor: net,
			Type:        domain.OwnerTxTypeRentalIncome,
			Status:      domain.OwnerTxStatusCompleted,
			Metadata: map[string]string{
				"gross_minor": fmt.Sprint(gross),
				"fee_minor":   fmt.Sprint(fee),
				"fee_percent": fmt.Sprint(feePercent),
			},
		}
		return r.OwnerTransactions.Create(ctx, ownerTx)
	})
	if err != nil {
		logger.ExitMethodWithError("settlementService.ReleasePayment", err, "bookingID", bookingID)
		return nil, err
	}

	if owner, err := s.userRepo.GetByID(ctx, ownerID); err == nil {
		_ = s.emailSvc.SendPayoutNotification(ctx, owner.Email, ownerAmount)
	}

	logger.ExitMethod("settlementService.ReleasePayment", "bookingID", bookingID, "ownerAmount", ownerAmount)
	return ownerTx, nil
}

// RefundPayment returns a slice of the escrowed funds to the customer's wallet
// and cancels the booking. refundPercent below 100 keeps the remainder in
// escrow for later arbitration.
func (s *settlementService) RefundPayment(ctx context.Context, bookingID, refundPercent int32, reason string) (*domain.Payment, error) {
	logger.EnterMethod("settlementService.RefundPayment", "bookingID", bookingID, "refundPercent", refundPercent)

	if refundPercent < 0 || refundPercent > 100 {
		return nil, domain.NewValidationError("refund percent must be between 0 and 100")
	}

	var payment *domain.Payment
	var booking *domain.Booking
	var refunded int64
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		booking, err = r.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}

		payment, err = r.Payments.GetCompletedByBooking(ctx, bookingID)
		if domain.IsCode(err, domain.ErrCodeNotFound) {
			return domain.NewInvalidStateError("booking has no completed payment")
		}
		if err != nil {
			return err
		}

		ok, err := r.Bookings.TransitionStatus(ctx, bookingID, domain.BookingStatusCancelled,
			domain.BookingStatusApproved, domain.BookingStatusConfirmed)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewInvalidStateError("booking cannot be refunded from its current status")
		}

		refunded, err = refundEscrowTx(ctx, r, s.escrow, booking, payment, refundPercent, reason)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("settlementService.RefundPayment", err, "bookingID", bookingID)
		return nil, err
	}

	payment.Status = domain.PaymentStatusRefunded
	payment.RefundReason = reason
	if customer, err := s.userRepo.GetByID(ctx, booking.CustomerID); err == nil {
		_ = s.emailSvc.SendRefundNotification(ctx, customer.Email, refunded, reason)
	}

	logger.ExitMethod("settlementService.RefundPayment", "bookingID", bookingID, "refunded", refunded)
	return payment, nil
}

// AutoReleaseSweep releases escrow for every completed trip whose booking is
// still holding funds. Failures on one booking do not stop the sweep.
func (s *settlementService) AutoReleaseSweep(ctx context.Context) (int32, error) {
	trips, err := s.tripRepo.ListReleasable(ctx)
	if err != nil {
		return 0, err
	}

	var released int32
	for _, trip := range trips {
		if _, err := s.ReleasePayment(ctx, trip.BookingID, s.feePercent); err != nil {
			// A concurrent manual release is expected to lose the guard here.
			if domain.IsCode(err, domain.ErrCodeInvalidState) {
				logger.Debug("auto-release skipped booking", "bookingID", trip.BookingID, "reason", err)
				continue
			}
			logger.Error("auto-release failed for booking", "bookingID", trip.BookingID, "error", err)
			continue
		}
		released++
	}
	return released, nil
}

// BuildOwnerSettlements rolls completed owner transactions for the period into
// one Settlement row per owner. Re-running a period overwrites the rollups.
func (s *settlementService) BuildOwnerSettlements(ctx context.Context, period string) (int32, error) {
	logger.EnterMethod("settlementService.BuildOwnerSettlements", "period", period)

	if _, err := time.Parse("2006-01", period); err != nil {
		return 0, domain.NewValidationError("invalid period, expected yyyy-mm")
	}

	owners, err := s.ownerTxRepo.ListOwnersWithActivity(ctx, period)
	if err != nil {
		return 0, err
	}

	var built int32
	for _, ownerID := range owners {
		earnings, payouts, err := s.ownerTxRepo.SummarizePeriod(ctx, ownerID, period)
		if err != nil {
			logger.Error("settlement rollup failed for owner", "ownerID", ownerID, "period", period, "error", err)
			continue
		}
		settlement := &domain.Settlement{
			OwnerID:            ownerID,
			Period:             period,
			TotalEarningsMinor: earnings,
			TotalPayoutsMinor:  payouts,
			NetAmountMinor:     earnings - payouts,
			Status:             "completed",
		}
		if err := s.settleRepo.Upsert(ctx, settlement); err != nil {
			logger.Error("settlement upsert failed for owner", "ownerID", ownerID, "period", period, "error", err)
			continue
		}
		built++
	}

	logger.ExitMethod("settlementService.BuildOwnerSettlements", "period", period, "built", built)
	return built, nil
}

func (s *settlementService) ListSettlements(ctx context.Context, ownerID int32) ([]domain.Settlement, error) {
	return s.settleRepo.ListByOwner(ctx, ownerID)
}

// refundEscrowTx performs the ledger half of a refund inside an already-open
// transaction: mark the payment refunded, debit the escrow wallet and credit
// the customer's wallet. The caller owns the booking status transition.
// Returns the amount credited back to the customer.
func refundEscrowTx(ctx context.Context, r *repository.Repositories, escrow EscrowAccount, booking *domain.Booking, payment *domain.Payment, refundPercent int32, reason string) (int64, error) {
	ok, err := r.Payments.MarkRefunded(ctx, payment.ID, reason, time.Now())
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, domain.NewInvalidStateError("payment was already refunded")
	}

	amount := utils.RefundAmount(payment.AmountMinor, refundPercent)
	if amount == 0 {
		return 0, nil
	}
	meta := map[string]string{
		"booking_id":     fmt.Sprint(booking.ID),
		"payment_id":     fmt.Sprint(payment.ID),
		"refund_percent": fmt.Sprint(refundPercent),
	}

	escrowWallet, err := r.Wallets.GetOrCreateByUserID(ctx, escrow.UserID, escrow.Currency)
	if err != nil {
		return 0, err
	}
	applied, err := r.Wallets.ApplyTransaction(ctx, escrowWallet.ID, -amount,
		domain.WalletTxTypeRefund, "refund for "+bookingRef(booking.ID), meta)
	if err != nil {
		return 0, err
	}
	if !applied {
		return 0, domain.NewInsufficientFundsError("escrow wallet cannot cover the refund")
	}

	customerWallet, err := r.Wallets.GetOrCreateByUserID(ctx, booking.CustomerID, escrow.Currency)
	if err != nil {
		return 0, err
	}
	applied, err = r.Wallets.ApplyTransaction(ctx, customerWallet.ID, amount,
		domain.WalletTxTypeRefund, "refund for "+bookingRef(booking.ID), meta)
	if err != nil {
		return 0, err
	}
	if !applied {
		return 0, domain.NewInvalidStateError("customer wallet rejected the refund credit")
	}
	return amount, nil
}
