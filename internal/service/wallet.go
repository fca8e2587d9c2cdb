package service

import (
	"context"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type walletService struct {
	walletRepo repository.WalletRepository
	currency   string
}

func NewWalletService(walletRepo repository.WalletRepository, currency string) WalletService {
	return &walletService{walletRepo: walletRepo, currency: currency}
}

func (s *walletService) GetWallet(ctx context.Context, userID int32) (*domain.Wallet, error) {
	return s.walletRepo.GetOrCreateByUserID(ctx, userID, s.currency)
}

func (s *walletService) ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	wallet, err := s.walletRepo.GetOrCreateByUserID(ctx, userID, s.currency)
	if err != nil {
		return nil, 0, err
	}
	return s.walletRepo.ListTransactions(ctx, wallet.ID, page, pageSize)
}
