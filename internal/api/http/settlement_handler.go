package http

import (
	"net/http"

	"driveshare-backend/internal/service"

	"github.com/gorilla/mux"
)

type SettlementHandler struct {
	settlements service.SettlementService
	withdrawals service.WithdrawalService
	feePercent  int32
}

func NewSettlementHandler(settlements service.SettlementService, withdrawals service.WithdrawalService, feePercent int32) *SettlementHandler {
	return &SettlementHandler{
		settlements: settlements,
		withdrawals: withdrawals,
		feePercent:  feePercent,
	}
}

// Release pays a booking's escrowed funds out to the owner. Admin only; the
// platform fee comes from config unless the request overrides it.
func (h *SettlementHandler) Release(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid booking id"})
		return
	}
	var req struct {
		FeePercent *int32 `json:"fee_percent"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	feePercent := h.feePercent
	if req.FeePercent != nil {
		feePercent = *req.FeePercent
	}

	ownerTx, err := h.settlements.ReleasePayment(r.Context(), id, feePercent)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ownerTx)
}

func (h *SettlementHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid booking id"})
		return
	}
	var req struct {
		RefundPercent int32  `json:"refund_percent"`
		Reason        string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	payment, err := h.settlements.RefundPayment(r.Context(), id, req.RefundPercent, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

// AutoRelease runs the escrow release sweep on demand. The cron binary runs
// the same sweep on a schedule.
func (h *SettlementHandler) AutoRelease(w http.ResponseWriter, r *http.Request) {
	released, err := h.settlements.AutoReleaseSweep(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"released": released})
}

func (h *SettlementHandler) BuildSettlements(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Period string `json:"period"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	built, err := h.settlements.BuildOwnerSettlements(r.Context(), req.Period)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"built": built})
}

func (h *SettlementHandler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())

	settlements, err := h.settlements.ListSettlements(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlements)
}

func (h *SettlementHandler) RequestWithdraw(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req struct {
		AmountMinor       int64  `json:"amount_minor"`
		BankAccountNumber string `json:"bank_account_number"`
		BankAccountName   string `json:"bank_account_name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ownerTx, err := h.withdrawals.RequestWithdraw(r.Context(), claims.UserID, req.AmountMinor,
		req.BankAccountNumber, req.BankAccountName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ownerTx)
}

func (h *SettlementHandler) ApproveWithdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid withdrawal id"})
		return
	}

	ownerTx, err := h.withdrawals.ApproveWithdraw(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ownerTx)
}

func (h *SettlementHandler) RejectWithdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid withdrawal id"})
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ownerTx, err := h.withdrawals.RejectWithdraw(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ownerTx)
}

func (h *SettlementHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	page, pageSize := pagination(r)

	withdrawals, total, err := h.withdrawals.ListWithdrawals(r.Context(), claims.UserID,
		r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, withdrawals, page, pageSize, total)
}
