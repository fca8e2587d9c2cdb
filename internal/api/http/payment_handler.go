package http

import (
	"net/http"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"

	"github.com/gorilla/mux"
)

type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req struct {
		BookingID int32  `json:"booking_id"`
		Method    string `json:"method"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	payment, err := h.payments.CreatePayment(r.Context(), claims.UserID, req.BookingID, domain.PaymentMethod(req.Method))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid payment id"})
		return
	}

	payment, err := h.payments.ConfirmPayment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) CreateTopup(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req struct {
		AmountMinor int64  `json:"amount_minor"`
		Method      string `json:"method"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	payment, err := h.payments.CreateWalletTopup(r.Context(), claims.UserID, req.AmountMinor, domain.PaymentMethod(req.Method))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) ConfirmTopup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid payment id"})
		return
	}

	payment, err := h.payments.ConfirmTopup(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid payment id"})
		return
	}

	payment, err := h.payments.GetPayment(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	page, pageSize := pagination(r)

	payments, total, err := h.payments.ListPayments(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, payments, page, pageSize, total)
}
