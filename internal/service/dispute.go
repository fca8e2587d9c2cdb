package service

import (
	"context"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository"
)

type disputeService struct {
	disputeRepo repository.DisputeRepository
	bookingRepo repository.BookingRepository
	carRepo     repository.CarRepository
}

func NewDisputeService(
	disputeRepo repository.DisputeRepository,
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
) DisputeService {
	return &disputeService{
		disputeRepo: disputeRepo,
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
	}
}

func (s *disputeService) CreateDispute(ctx context.Context, userID int32, bookingID *int32, title, description string) (*domain.Dispute, error) {
	logger.EnterMethod("disputeService.CreateDispute", "userID", userID)

	if title == "" {
		return nil, domain.NewValidationError("dispute title is required")
	}
	if description == "" {
		return nil, domain.NewValidationError("dispute description is required")
	}

	if bookingID != nil {
		booking, err := s.bookingRepo.GetByID(ctx, *bookingID)
		if err != nil {
			return nil, err
		}
		if booking.CustomerID != userID {
			car, err := s.carRepo.GetByID(ctx, booking.CarID)
			if err != nil {
				return nil, err
			}
			if car.OwnerID != userID {
				return nil, domain.NewForbiddenError("only a party to the booking may open a dispute on it")
			}
		}
	}

	dispute := &domain.Dispute{
		BookingID:   bookingID,
		InitiatedBy: userID,
		Title:       title,
		Description: description,
		Status:      domain.DisputeStatusOpen,
	}
	if err := s.disputeRepo.Create(ctx, dispute); err != nil {
		logger.ExitMethodWithError("disputeService.CreateDispute", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("disputeService.CreateDispute", "disputeID", dispute.ID)
	return dispute, nil
}

func (s *disputeService) ProcessDispute(ctx context.Context, disputeID int32) (*domain.Dispute, error) {
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	ok, err := s.disputeRepo.StartProgress(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewInvalidStateError("dispute is not open")
	}

	dispute.Status = domain.DisputeStatusInProgress
	return dispute, nil
}

// ResolveDispute moves the dispute to a terminal status with a resolution
// note. It never moves funds; refunds are the settlement engine's job.
func (s *disputeService) ResolveDispute(ctx context.Context, disputeID int32, status domain.DisputeStatus, resolution string) (*domain.Dispute, error) {
	logger.EnterMethod("disputeService.ResolveDispute", "disputeID", disputeID, "status", status)

	if !status.IsTerminal() {
		return nil, domain.NewValidationError("resolution status must be RESOLVED or CLOSED")
	}
	if resolution == "" {
		return nil, domain.NewValidationError("resolution note is required")
	}

	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ok, err := s.disputeRepo.Resolve(ctx, disputeID, status, resolution, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewInvalidStateError("dispute was already resolved")
	}

	dispute.Status = status
	dispute.ResolvedAt = &now

	logger.ExitMethod("disputeService.ResolveDispute", "disputeID", disputeID)
	return dispute, nil
}

func (s *disputeService) GetDispute(ctx context.Context, userID int32, isAdmin bool, disputeID int32) (*domain.Dispute, error) {
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if isAdmin || dispute.InitiatedBy == userID {
		return dispute, nil
	}
	return nil, domain.NewNotFoundError("dispute")
}

func (s *disputeService) ListDisputes(ctx context.Context, status string, page, pageSize int32) ([]domain.Dispute, int32, error) {
	return s.disputeRepo.List(ctx, status, page, pageSize)
}

func (s *disputeService) ListMyDisputes(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Dispute, int32, error) {
	return s.disputeRepo.ListByUser(ctx, userID, page, pageSize)
}
