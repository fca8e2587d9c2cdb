package service

import (
	"context"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository"
)

type tripService struct {
	tripRepo    repository.TripRepository
	bookingRepo repository.BookingRepository
	carRepo     repository.CarRepository
}

func NewTripService(
	tripRepo repository.TripRepository,
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
) TripService {
	return &tripService{
		tripRepo:    tripRepo,
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
	}
}

// Checkin records the vehicle handover. Only the car owner may check a trip
// in, and only while it is UPCOMING.
func (s *tripService) Checkin(ctx context.Context, ownerID, tripID, startOdometer, startFuelLevel int32, notes string) (*domain.Trip, error) {
	logger.EnterMethod("tripService.Checkin", "ownerID", ownerID, "tripID", tripID)

	trip, err := s.getOwnedTrip(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ok, err := s.tripRepo.Checkin(ctx, tripID, startOdometer, startFuelLevel, notes, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewInvalidStateError("trip is not upcoming")
	}

	trip.Status = domain.TripStatusOngoing
	trip.StartOdometer = &startOdometer
	trip.StartFuelLevel = &startFuelLevel
	trip.CheckinTime = &now
	trip.CheckinNotes = notes

	logger.ExitMethod("tripService.Checkin", "tripID", tripID)
	return trip, nil
}

// Checkout records the vehicle return. The booking must still be CONFIRMED;
// a cancelled or disputed booking keeps its trip out of the release path.
func (s *tripService) Checkout(ctx context.Context, ownerID, tripID, endOdometer, endFuelLevel int32, notes string) (*domain.Trip, error) {
	logger.EnterMethod("tripService.Checkout", "ownerID", ownerID, "tripID", tripID)

	trip, err := s.getOwnedTrip(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, trip.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusConfirmed {
		return nil, domain.NewInvalidStateError("booking is not confirmed")
	}

	now := time.Now()
	ok, err := s.tripRepo.Checkout(ctx, tripID, endOdometer, endFuelLevel, notes, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewInvalidStateError("trip is not ongoing")
	}

	trip.Status = domain.TripStatusCompleted
	trip.EndOdometer = &endOdometer
	trip.EndFuelLevel = &endFuelLevel
	trip.CheckoutTime = &now
	trip.CheckoutNotes = notes

	logger.ExitMethod("tripService.Checkout", "tripID", tripID)
	return trip, nil
}

func (s *tripService) GetTrip(ctx context.Context, userID, tripID int32) (*domain.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.CustomerID == userID {
		return trip, nil
	}
	car, err := s.carRepo.GetByID(ctx, trip.CarID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID != userID {
		return nil, domain.NewNotFoundError("trip")
	}
	return trip, nil
}

func (s *tripService) ListTrips(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Trip, int32, error) {
	return s.tripRepo.ListByCustomer(ctx, customerID, page, pageSize)
}

func (s *tripService) ListOwnerTrips(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Trip, int32, error) {
	return s.tripRepo.ListByOwner(ctx, ownerID, page, pageSize)
}

func (s *tripService) getOwnedTrip(ctx context.Context, ownerID, tripID int32) (*domain.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	car, err := s.carRepo.GetByID(ctx, trip.CarID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID != ownerID {
		return nil, domain.NewForbiddenError("only the car owner may record handover")
	}
	return trip, nil
}
