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

const dateLayout = "2006-01-02"

type bookingService struct {
	store       repository.Atomic
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentRepository
	carRepo     repository.CarRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService
	escrow      EscrowAccount
}

// EscrowAccount identifies the platform treasury wallet funds are held in
// between payment and release. Injected from config so tests can point it at
// a sandbox account.
type EscrowAccount struct {
	UserID   int32
	Currency string
}

func NewBookingService(
	store repository.Atomic,
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	escrow EscrowAccount,
) BookingService {
	return &bookingService{
		store:       store,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		carRepo:     carRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		escrow:      escrow,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, customerID, carID int32, startDateStr, endDateStr, pickup, dropoff string) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CreateBooking", "customerID", customerID, "carID", carID)

	customer, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.KYCStatus != domain.KYCStatusApproved {
		return nil, domain.NewForbiddenError("identity verification is not approved")
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	start, err := time.Parse(dateLayout, startDateStr)
	if err != nil {
		return nil, domain.NewValidationError("invalid start date, expected yyyy-mm-dd")
	}
	end, err := time.Parse(dateLayout, endDateStr)
	if err != nil {
		return nil, domain.NewValidationError("invalid end date, expected yyyy-mm-dd")
	}

	total, err := utils.BookingTotal(start, end, car.PricePerDayMinor, 0)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.bookingRepo.CountOverlapping(ctx, carID, start, end)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, domain.NewConflictError("car is already booked for the requested dates")
	}

	blocked, err := s.carRepo.CountBlockedDays(ctx, carID, start, end)
	if err != nil {
		return nil, err
	}
	if blocked > 0 {
		return nil, domain.NewConflictError("owner has blocked one or more of the requested dates")
	}

	booking := &domain.Booking{
		CustomerID:      customerID,
		CarID:           carID,
		StartDate:       start,
		EndDate:         end,
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		TotalPriceMinor: total,
		Status:          domain.BookingStatusPending,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "customerID", customerID)
		return nil, err
	}

	// Notify owner, best effort.
	owner, err := s.userRepo.GetByID(ctx, car.OwnerID)
	if err == nil {
		_ = s.emailSvc.SendBookingRequestNotification(ctx, owner.Email, customer.Name, car.Name)
	}

	logger.ExitMethod("bookingService.CreateBooking", "bookingID", booking.ID, "total", total)
	return booking, nil
}

func (s *bookingService) ApproveBooking(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, error) {
	booking, car, err := s.getOwnedBooking(ctx, ownerID, bookingID)
	if err != nil {
		return nil, err
	}
	// Early reject on the loaded status; the conditional update below stays
	// the arbiter under concurrent writers.
	if !booking.Status.CanTransitionTo(domain.BookingStatusApproved) {
		return nil, domain.NewInvalidStateError("booking is not pending")
	}

	ok, err := s.bookingRepo.TransitionStatus(ctx, bookingID, domain.BookingStatusApproved, domain.BookingStatusPending)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewInvalidStateError("booking is not pending")
	}
	booking.Status = domain.BookingStatusApproved

	s.notifyDecision(ctx, booking.CustomerID, car.Name, "approved", "")
	return booking, nil
}

func (s *bookingService) RejectBooking(ctx context.Context, ownerID, bookingID int32, reason string) (*domain.Booking, error) {
	booking, car, err := s.getOwnedBooking(ctx, ownerID, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(domain.BookingStatusRejected) {
		return nil, domain.NewInvalidStateError("booking is not pending")
	}

	var refunded int64
	err = s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		ok, err := r.Bookings.TransitionStatus(ctx, bookingID, domain.BookingStatusRejected, domain.BookingStatusPending)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewInvalidStateError("booking is not pending")
		}
		if reason != "" {
			if err := r.Bookings.SetRejectionReason(ctx, bookingID, reason); err != nil {
				return err
			}
		}

		// Defensive: normally payment only happens after approval, but if a
		// completed payment exists it must be returned with the rejection.
		payment, err := r.Payments.GetCompletedByBooking(ctx, bookingID)
		if domain.IsCode(err, domain.ErrCodeNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		refunded, err = refundEscrowTx(ctx, r, s.escrow, booking, payment, 100, "booking rejected: "+reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	booking.Status = domain.BookingStatusRejected
	booking.RejectionReason = reason

	s.notifyDecision(ctx, booking.CustomerID, car.Name, "rejected", reason)
	if refunded > 0 {
		s.notifyRefund(ctx, booking.CustomerID, refunded, "booking rejected")
	}
	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, customerID, bookingID int32) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CancelBooking", "customerID", customerID, "bookingID", bookingID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, domain.NewNotFoundError("booking")
	}
	if booking.Status.IsTerminal() {
		return nil, domain.NewInvalidStateError("booking is already finished")
	}

	var refunded int64
	err = s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		ok, err := r.Bookings.TransitionStatus(ctx, bookingID, domain.BookingStatusCancelled,
			domain.BookingStatusPending, domain.BookingStatusApproved, domain.BookingStatusConfirmed)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewInvalidStateError("booking cannot be cancelled from its current status")
		}

		payment, err := r.Payments.GetCompletedByBooking(ctx, bookingID)
		if domain.IsCode(err, domain.ErrCodeNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		refunded, err = refundEscrowTx(ctx, r, s.escrow, booking, payment, 100, "booking cancelled by customer")
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.CancelBooking", err, "bookingID", bookingID)
		return nil, err
	}
	booking.Status = domain.BookingStatusCancelled

	if refunded > 0 {
		s.notifyRefund(ctx, customerID, refunded, "booking cancelled")
	}
	logger.ExitMethod("bookingService.CancelBooking", "bookingID", bookingID, "refunded", refunded)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID == userID {
		return booking, nil
	}
	car, err := s.carRepo.GetByID(ctx, booking.CarID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID != userID {
		return nil, domain.NewNotFoundError("booking")
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByCustomer(ctx, customerID, status, page, pageSize)
}

func (s *bookingService) ListOwnerBookings(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByOwner(ctx, ownerID, status, page, pageSize)
}

func (s *bookingService) getOwnedBooking(ctx context.Context, ownerID, bookingID int32) (*domain.Booking, *domain.Car, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	car, err := s.carRepo.GetByID(ctx, booking.CarID)
	if err != nil {
		return nil, nil, err
	}
	if car.OwnerID != ownerID {
		return nil, nil, domain.NewForbiddenError("only the car owner may act on this booking")
	}
	return booking, car, nil
}

func (s *bookingService) notifyDecision(ctx context.Context, customerID int32, carName, decision, reason string) {
	customer, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return
	}
	_ = s.emailSvc.SendBookingDecisionNotification(ctx, customer.Email, carName, decision, reason)
}

func (s *bookingService) notifyRefund(ctx context.Context, customerID int32, amount int64, reason string) {
	customer, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return
	}
	_ = s.emailSvc.SendRefundNotification(ctx, customer.Email, amount, reason)
}

// bookingRef is the description stem used on ledger entries tied to a booking.
func bookingRef(bookingID int32) string {
	return fmt.Sprintf("booking %d", bookingID)
}
