package service

import (
	"context"
	"testing"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type withdrawalFixture struct {
	ownerTxs *MockOwnerTxRepo
	wallets  *MockWalletRepo
	users    *MockUserRepo
	svc      WithdrawalService
}

func newWithdrawalFixture() *withdrawalFixture {
	f := &withdrawalFixture{
		ownerTxs: new(MockOwnerTxRepo),
		wallets:  new(MockWalletRepo),
		users:    new(MockUserRepo),
	}
	store := &passthroughStore{repos: repository.Repositories{
		OwnerTransactions: f.ownerTxs,
		Wallets:           f.wallets,
		Users:             f.users,
	}}
	f.svc = NewWithdrawalService(store, f.ownerTxs, f.wallets, f.users, relaxedEmail{}, "VND")
	return f
}

func TestWithdrawalService_RequestWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("HoldsFundsImmediately", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.wallets.On("GetOrCreateByUserID", ctx, int32(2), "VND").Return(&domain.Wallet{ID: 52, UserID: 2, BalanceMinor: 1_000_000}, nil)
		f.ownerTxs.On("Create", ctx, mock.MatchedBy(func(tx *domain.OwnerTransaction) bool {
			return tx.OwnerID == 2 && tx.AmountMinor == 500_000 &&
				tx.Type == domain.OwnerTxTypeWithdraw && tx.Status == domain.OwnerTxStatusPending
		})).Return(nil)
		f.wallets.On("ApplyTransaction", ctx, int32(52), int64(-500_000),
			domain.WalletTxTypeWithdrawPending, mock.Anything, mock.Anything).Return(true, nil)

		ownerTx, err := f.svc.RequestWithdraw(ctx, 2, 500_000, "0123456789", "Bob")
		assert.NoError(t, err)
		assert.Equal(t, domain.OwnerTxStatusPending, ownerTx.Status)
		f.wallets.AssertExpectations(t)
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.wallets.On("GetOrCreateByUserID", ctx, int32(2), "VND").Return(&domain.Wallet{ID: 52, UserID: 2, BalanceMinor: 100_000}, nil)
		f.ownerTxs.On("Create", ctx, mock.Anything).Return(nil)
		f.wallets.On("ApplyTransaction", ctx, int32(52), int64(-500_000),
			domain.WalletTxTypeWithdrawPending, mock.Anything, mock.Anything).Return(false, nil)

		_, err := f.svc.RequestWithdraw(ctx, 2, 500_000, "0123456789", "Bob")
		assert.True(t, domain.IsCode(err, domain.ErrCodeInsufficientFunds))
	})

	t.Run("MissingBankDetails", func(t *testing.T) {
		f := newWithdrawalFixture()
		_, err := f.svc.RequestWithdraw(ctx, 2, 500_000, "", "Bob")
		assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		f := newWithdrawalFixture()
		_, err := f.svc.RequestWithdraw(ctx, 2, 0, "0123456789", "Bob")
		assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
	})
}

func TestWithdrawalService_ApproveWithdraw(t *testing.T) {
	ctx := context.Background()
	pendingTx := func() *domain.OwnerTransaction {
		return &domain.OwnerTransaction{ID: 20, OwnerID: 2, AmountMinor: 500_000,
			Type: domain.OwnerTxTypeWithdraw, Status: domain.OwnerTxStatusPending}
	}

	t.Run("RecordsHoldReleaseAndFinalDebit", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.ownerTxs.On("GetByID", ctx, int32(20)).Return(pendingTx(), nil)
		f.ownerTxs.On("TransitionStatus", ctx, int32(20),
			domain.OwnerTxStatusCompleted, domain.OwnerTxStatusPending).Return(true, nil)
		f.wallets.On("GetByUserID", ctx, int32(2)).Return(&domain.Wallet{ID: 52, UserID: 2}, nil)
		// The hold already removed the funds; approval nets to zero.
		f.wallets.On("ApplyTransaction", ctx, int32(52), int64(500_000),
			domain.WalletTxTypeWithdrawPending, mock.Anything, mock.Anything).Return(true, nil)
		f.wallets.On("ApplyTransaction", ctx, int32(52), int64(-500_000),
			domain.WalletTxTypeWithdraw, mock.Anything, mock.Anything).Return(true, nil)
		f.users.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Email: "owner@example.com"}, nil)

		ownerTx, err := f.svc.ApproveWithdraw(ctx, 20)
		assert.NoError(t, err)
		assert.Equal(t, domain.OwnerTxStatusCompleted, ownerTx.Status)
		f.wallets.AssertExpectations(t)
	})

	t.Run("SecondApproveLosesGuard", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.ownerTxs.On("GetByID", ctx, int32(20)).Return(pendingTx(), nil)
		f.ownerTxs.On("TransitionStatus", ctx, int32(20),
			domain.OwnerTxStatusCompleted, domain.OwnerTxStatusPending).Return(false, nil)

		_, err := f.svc.ApproveWithdraw(ctx, 20)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidState))
		f.wallets.AssertNotCalled(t, "ApplyTransaction", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotAWithdrawal", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.ownerTxs.On("GetByID", ctx, int32(20)).Return(&domain.OwnerTransaction{
			ID: 20, OwnerID: 2, Type: domain.OwnerTxTypeRentalIncome}, nil)

		_, err := f.svc.ApproveWithdraw(ctx, 20)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidState))
	})
}

func TestWithdrawalService_RejectWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsHeldFunds", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.ownerTxs.On("GetByID", ctx, int32(20)).Return(&domain.OwnerTransaction{
			ID: 20, OwnerID: 2, AmountMinor: 500_000,
			Type: domain.OwnerTxTypeWithdraw, Status: domain.OwnerTxStatusPending}, nil)
		f.ownerTxs.On("TransitionStatus", ctx, int32(20),
			domain.OwnerTxStatusFailed, domain.OwnerTxStatusPending).Return(true, nil)
		f.wallets.On("GetByUserID", ctx, int32(2)).Return(&domain.Wallet{ID: 52, UserID: 2}, nil)
		f.wallets.On("ApplyTransaction", ctx, int32(52), int64(500_000),
			domain.WalletTxTypeWithdrawPending, mock.Anything, mock.Anything).Return(true, nil)
		f.users.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Email: "owner@example.com"}, nil)

		ownerTx, err := f.svc.RejectWithdraw(ctx, 20, "bank details mismatch")
		assert.NoError(t, err)
		assert.Equal(t, domain.OwnerTxStatusFailed, ownerTx.Status)
		f.wallets.AssertExpectations(t)
	})
}
