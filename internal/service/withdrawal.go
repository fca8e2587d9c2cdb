package service

import (
	"context"
	"fmt"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository"
)

type withdrawalService struct {
	store       repository.Atomic
	ownerTxRepo repository.OwnerTransactionRepository
	walletRepo  repository.WalletRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService
	currency    string
}

func NewWithdrawalService(
	store repository.Atomic,
	ownerTxRepo repository.OwnerTransactionRepository,
	walletRepo repository.WalletRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	currency string,
) WithdrawalService {
	return &withdrawalService{
		store:       store,
		ownerTxRepo: ownerTxRepo,
		walletRepo:  walletRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		currency:    currency,
	}
}

// RequestWithdraw places a hold on the owner's wallet: the amount is debited
// immediately as WITHDRAW_PENDING so it cannot be double-spent while the
// request awaits review. The balance guard turns an over-draw into an
// InsufficientFundsError with nothing written.
func (s *withdrawalService) RequestWithdraw(ctx context.Context, ownerID int32, amount int64, bankAccountNumber, bankAccountName string) (*domain.OwnerTransaction, error) {
	logger.EnterMethod("withdrawalService.RequestWithdraw", "ownerID", ownerID, "amount", amount)

	if amount <= 0 {
		return nil, domain.NewValidationError("withdrawal amount must be positive")
	}
	if bankAccountNumber == "" || bankAccountName == "" {
		return nil, domain.NewValidationError("bank account details are required")
	}

	var ownerTx *domain.OwnerTransaction
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		wallet, err := r.Wallets.GetOrCreateByUserID(ctx, ownerID, s.currency)
		if err != nil {
			return err
		}

		ownerTx = &domain.OwnerTransaction{
			OwnerID:     ownerID,
			AmountMinor: amount,
			Type:        domain.OwnerTxTypeWithdraw,
			Status:      domain.OwnerTxStatusPending,
			Metadata: map[string]string{
				"bank_account_number": bankAccountNumber,
				"bank_account_name":   bankAccountName,
			},
		}
		if err := r.OwnerTransactions.Create(ctx, ownerTx); err != nil {
			return err
		}

		applied, err := r.Wallets.ApplyTransaction(ctx, wallet.ID, -amount,
			domain.WalletTxTypeWithdrawPending, "withdrawal hold",
			map[string]string{"owner_transaction_id": fmt.Sprint(ownerTx.ID)})
		if err != nil {
			return err
		}
		if !applied {
			return domain.NewInsufficientFundsError("wallet balance cannot cover the withdrawal")
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("withdrawalService.RequestWithdraw", err, "ownerID", ownerID)
		return nil, err
	}

	logger.ExitMethod("withdrawalService.RequestWithdraw", "ownerTxID", ownerTx.ID)
	return ownerTx, nil
}

// ApproveWithdraw finalizes a pending withdrawal. The funds were already held
// at request time, so the ledger records the hold's reversal and the final
// WITHDRAW debit as a pair; the balance does not change here.
func (s *withdrawalService) ApproveWithdraw(ctx context.Context, id int32) (*domain.OwnerTransaction, error) {
	logger.EnterMethod("withdrawalService.ApproveWithdraw", "ownerTxID", id)

	var ownerTx *domain.OwnerTransaction
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		ownerTx, err = r.OwnerTransactions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ownerTx.Type != domain.OwnerTxTypeWithdraw {
			return domain.NewInvalidStateError("transaction is not a withdrawal")
		}

		ok, err := r.OwnerTransactions.TransitionStatus(ctx, id, domain.OwnerTxStatusCompleted, domain.OwnerTxStatusPending)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewInvalidStateError("withdrawal is not pending")
		}

		wallet, err := r.Wallets.GetByUserID(ctx, ownerTx.OwnerID)
		if err != nil {
			return err
		}
		meta := map[string]string{"owner_transaction_id": fmt.Sprint(id)}

		applied, err := r.Wallets.ApplyTransaction(ctx, wallet.ID, ownerTx.AmountMinor,
			domain.WalletTxTypeWithdrawPending, "withdrawal hold released", meta)
		if err != nil {
			return err
		}
		if !applied {
			return domain.NewInvalidStateError("wallet rejected the hold release")
		}

		applied, err = r.Wallets.ApplyTransaction(ctx, wallet.ID, -ownerTx.AmountMinor,
			domain.WalletTxTypeWithdraw, "withdrawal paid out", meta)
		if err != nil {
			return err
		}
		if !applied {
			return domain.NewInsufficientFundsError("wallet balance cannot cover the payout")
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("withdrawalService.ApproveWithdraw", err, "ownerTxID", id)
		return nil, err
	}

	ownerTx.Status = domain.OwnerTxStatusCompleted
	s.notifyDecision(ctx, ownerTx, "approved", "")

	logger.ExitMethod("withdrawalService.ApproveWithdraw", "ownerTxID", id)
	return ownerTx, nil
}

// RejectWithdraw releases the hold back to the owner's wallet and marks the
// request failed.
func (s *withdrawalService) RejectWithdraw(ctx context.Context, id int32, reason string) (*domain.OwnerTransaction, error) {
	logger.EnterMethod("withdrawalService.RejectWithdraw", "ownerTxID", id)

	var ownerTx *domain.OwnerTransaction
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		ownerTx, err = r.OwnerTransactions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ownerTx.Type != domain.OwnerTxTypeWithdraw {
			return domain.NewInvalidStateError("transaction is not a withdrawal")
		}

		ok, err := r.OwnerTransactions.TransitionStatus(ctx, id, domain.OwnerTxStatusFailed, domain.OwnerTxStatusPending)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewInvalidStateError("withdrawal is not pending")
		}

		wallet, err := r.Wallets.GetByUserID(ctx, ownerTx.OwnerID)
		if err != nil {
			return err
		}
		applied, err := r.Wallets.ApplyTransaction(ctx, wallet.ID, ownerTx.AmountMinor,
			domain.WalletTxTypeWithdrawPending, "withdrawal hold returned",
			map[string]string{"owner_transaction_id": fmt.Sprint(id)})
		if err != nil {
			return err
		}
		if !applied {
			return domain.NewInvalidStateError("wallet rejected the hold return")
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("withdrawalService.RejectWithdraw", err, "ownerTxID", id)
		return nil, err
	}

	ownerTx.Status = domain.OwnerTxStatusFailed
	s.notifyDecision(ctx, ownerTx, "rejected", reason)

	logger.ExitMethod("withdrawalService.RejectWithdraw", "ownerTxID", id)
	return ownerTx, nil
}

func (s *withdrawalService) ListWithdrawals(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.OwnerTransaction, int32, error) {
	return s.ownerTxRepo.ListByOwner(ctx, ownerID, string(domain.OwnerTxTypeWithdraw), status, page, pageSize)
}

func (s *withdrawalService) notifyDecision(ctx context.Context, ownerTx *domain.OwnerTransaction, decision, reason string) {
	owner, err := s.userRepo.GetByID(ctx, ownerTx.OwnerID)
	if err != nil {
		return
	}
	_ = s.emailSvc.SendWithdrawDecisionNotification(ctx, owner.Email, decision, ownerTx.AmountMinor, reason)
}
