package domain

import "time"

type OwnerTransactionType string

const (
	OwnerTxTypeRentalIncome OwnerTransactionType = "RENTAL_INCOME"
	OwnerTxTypeWithdraw     OwnerTransactionType = "WITHDRAW"
)

type OwnerTransactionStatus string

const (
	OwnerTxStatusPending   OwnerTransactionStatus = "pending"
	OwnerTxStatusCompleted OwnerTransactionStatus = "completed"
	OwnerTxStatusFailed    OwnerTransactionStatus = "failed"
)

// OwnerTransaction is the owner-facing ledger entry mirroring the wallet
// movements for earnings and withdrawals. For RENTAL_INCOME the amount is the
// owner's net payout; the gross amount and platform fee are kept in Metadata
// for auditability.
type OwnerTransaction struct {
	ID          int32                  `json:"id"`
	OwnerID     int32                  `json:"owner_id"`
	BookingID   *int32                 `json:"booking_id,omitempty"`
	AmountMinor int64                  `json:"amount_minor"`
	Type        OwnerTransactionType   `json:"type"`
	Status      OwnerTransactionStatus `json:"status"`
	Metadata    map[string]string      `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// Settlement is a periodic per-owner rollup derived from completed
// OwnerTransactions. It is reporting data, not authoritative.
type Settlement struct {
	ID                 int32     `json:"id"`
	OwnerID            int32     `json:"owner_id"`
	Period             string    `json:"period"` // 'YYYY-MM'
	TotalEarningsMinor int64     `json:"total_earnings_minor"`
	TotalPayoutsMinor  int64     `json:"total_payouts_minor"`
	NetAmountMinor     int64     `json:"net_amount_minor"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}
