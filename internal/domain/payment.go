package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "CREDIT_CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodEWallet      PaymentMethod = "E_WALLET"
)

// Payment is either a booking payment (BookingID set) or a wallet top-up
// (WalletID set). RefundedAt doubles as the idempotency guard against double
// refunds.
type Payment struct {
	ID            int32         `json:"id"`
	BookingID     *int32        `json:"booking_id,omitempty"`
	UserID        int32         `json:"user_id"`
	WalletID      *int32        `json:"wallet_id,omitempty"`
	AmountMinor   int64         `json:"amount_minor"`
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	RefundedAt    *time.Time    `json:"refunded_at,omitempty"`
	RefundReason  string        `json:"refund_reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
