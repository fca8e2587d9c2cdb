package domain

import "time"

// Wallet holds one account's cached balance. BalanceMinor is maintained
// transactionally with every WalletTransaction insert and must always equal
// the running sum of the wallet's transactions.
type Wallet struct {
	ID           int32     `json:"id"`
	UserID       int32     `json:"user_id"`
	BalanceMinor int64     `json:"balance_minor"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type WalletTransactionType string

const (
	WalletTxTypeEscrowHeld      WalletTransactionType = "ESCROW_HELD"
	WalletTxTypeRentalIncome    WalletTransactionType = "RENTAL_INCOME"
	WalletTxTypeRefund          WalletTransactionType = "REFUND"
	WalletTxTypeTopup           WalletTransactionType = "TOPUP"
	WalletTxTypeWithdrawPending WalletTransactionType = "WITHDRAW_PENDING"
	WalletTxTypeWithdraw        WalletTransactionType = "WITHDRAW"
)

// WalletTransaction is the append-only audit trail of balance changes.
// Amount is signed: positive credits, negative debits.
type WalletTransaction struct {
	ID          int64                 `json:"id"`
	WalletID    int32                 `json:"wallet_id"`
	AmountMinor int64                 `json:"amount_minor"`
	Type        WalletTransactionType `json:"type"`
	Description string                `json:"description"`
	Metadata    map[string]string     `json:"metadata,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}
