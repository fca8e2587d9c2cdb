package service

import (
	"context"
	"testing"

	"driveshare-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type disputeFixture struct {
	disputes *MockDisputeRepo
	bookings *MockBookingRepo
	cars     *MockCarRepo
	svc      DisputeService
}

func newDisputeFixture() *disputeFixture {
	f := &disputeFixture{
		disputes: new(MockDisputeRepo),
		bookings: new(MockBookingRepo),
		cars:     new(MockCarRepo),
	}
	f.svc = NewDisputeService(f.disputes, f.bookings, f.cars)
	return f
}

func TestDisputeService_CreateDispute(t *testing.T) {
	ctx := context.Background()
	bookingID := int32(5)

	t.Run("CustomerOnOwnBooking", func(t *testing.T) {
		f := newDisputeFixture()
		f.bookings.On("GetByID", ctx, bookingID).Return(
			&domain.Booking{ID: 5, CustomerID: 1, CarID: 7}, nil)
		f.disputes.On("Create", ctx, mock.MatchedBy(func(d *domain.Dispute) bool {
			return d.InitiatedBy == 1 && d.Status == domain.DisputeStatusOpen
		})).Return(nil)

		dispute, err := f.svc.CreateDispute(ctx, 1, &bookingID, "Damage", "Scratched bumper")
		assert.NoError(t, err)
		assert.Equal(t, domain.DisputeStatusOpen, dispute.Status)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		f := newDisputeFixture()
		f.bookings.On("GetByID", ctx, bookingID).Return(
			&domain.Booking{ID: 5, CustomerID: 1, CarID: 7}, nil)
		f.cars.On("GetByID", ctx, int32(7)).Return(&domain.Car{ID: 7, OwnerID: 2}, nil)

		_, err := f.svc.CreateDispute(ctx, 3, &bookingID, "Damage", "Not my booking")
		assert.True(t, domain.IsCode(err, domain.ErrCodeForbidden))
	})

	t.Run("MissingTitle", func(t *testing.T) {
		f := newDisputeFixture()
		_, err := f.svc.CreateDispute(ctx, 1, nil, "", "something happened")
		assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
	})
}

func TestDisputeService_ResolveDispute(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newDisputeFixture()
		f.disputes.On("GetByID", ctx, int32(8)).Return(
			&domain.Dispute{ID: 8, Status: domain.DisputeStatusInProgress}, nil)
		f.disputes.On("Resolve", ctx, int32(8), domain.DisputeStatusResolved,
			"refunded 50 percent", mock.Anything).Return(true, nil)

		dispute, err := f.svc.ResolveDispute(ctx, 8, domain.DisputeStatusResolved, "refunded 50 percent")
		assert.NoError(t, err)
		assert.Equal(t, domain.DisputeStatusResolved, dispute.Status)
		assert.NotNil(t, dispute.ResolvedAt)
	})

	t.Run("NonTerminalStatusRejected", func(t *testing.T) {
		f := newDisputeFixture()
		_, err := f.svc.ResolveDispute(ctx, 8, domain.DisputeStatusInProgress, "note")
		assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
	})

	t.Run("AlreadyResolved", func(t *testing.T) {
		f := newDisputeFixture()
		f.disputes.On("GetByID", ctx, int32(8)).Return(
			&domain.Dispute{ID: 8, Status: domain.DisputeStatusResolved}, nil)
		f.disputes.On("Resolve", ctx, int32(8), domain.DisputeStatusClosed,
			"note", mock.Anything).Return(false, nil)

		_, err := f.svc.ResolveDispute(ctx, 8, domain.DisputeStatusClosed, "note")
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidState))
	})
}

func TestDisputeService_ProcessDispute(t *testing.T) {
	ctx := context.Background()

	t.Run("MovesOpenToInProgress", func(t *testing.T) {
		f := newDisputeFixture()
		f.disputes.On("GetByID", ctx, int32(8)).Return(
			&domain.Dispute{ID: 8, Status: domain.DisputeStatusOpen}, nil)
		f.disputes.On("StartProgress", ctx, int32(8)).Return(true, nil)

		dispute, err := f.svc.ProcessDispute(ctx, 8)
		assert.NoError(t, err)
		assert.Equal(t, domain.DisputeStatusInProgress, dispute.Status)
	})
}

func TestDisputeService_GetDispute(t *testing.T) {
	ctx := context.Background()
	stored := &domain.Dispute{ID: 8, InitiatedBy: 1, Status: domain.DisputeStatusOpen}

	t.Run("AdminSeesAny", func(t *testing.T) {
		f := newDisputeFixture()
		f.disputes.On("GetByID", ctx, int32(8)).Return(stored, nil)

		_, err := f.svc.GetDispute(ctx, 42, true, 8)
		assert.NoError(t, err)
	})

	t.Run("OtherUserHidden", func(t *testing.T) {
		f := newDisputeFixture()
		f.disputes.On("GetByID", ctx, int32(8)).Return(stored, nil)

		_, err := f.svc.GetDispute(ctx, 42, false, 8)
		assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
	})
}
