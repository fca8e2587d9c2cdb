package domain

import "time"

type DisputeStatus string

const (
	DisputeStatusOpen       DisputeStatus = "OPEN"
	DisputeStatusInProgress DisputeStatus = "IN_PROGRESS"
	DisputeStatusResolved   DisputeStatus = "RESOLVED"
	DisputeStatusClosed     DisputeStatus = "CLOSED"
)

// IsTerminal reports whether the dispute can no longer be transitioned.
func (s DisputeStatus) IsTerminal() bool {
	return s == DisputeStatusResolved || s == DisputeStatusClosed
}

// Dispute is administrative triage only. Resolving one never moves funds; an
// operator who decides a refund is warranted invokes the settlement engine's
// refund path separately.
type Dispute struct {
	ID          int32         `json:"id"`
	BookingID   *int32        `json:"booking_id,omitempty"`
	InitiatedBy int32         `json:"initiated_by"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      DisputeStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
}
