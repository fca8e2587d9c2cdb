package http

import (
	"net/http"

	"driveshare-backend/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	CarID           int32  `json:"car_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req createBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), claims.UserID, req.CarID,
		req.StartDate, req.EndDate, req.PickupLocation, req.DropoffLocation)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid booking id"})
		return
	}

	booking, err := h.bookings.GetBooking(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	page, pageSize := pagination(r)

	bookings, total, err := h.bookings.ListBookings(r.Context(), claims.UserID, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, bookings, page, pageSize, total)
}

func (h *BookingHandler) ListOwner(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	page, pageSize := pagination(r)

	bookings, total, err := h.bookings.ListOwnerBookings(r.Context(), claims.UserID, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, bookings, page, pageSize, total)
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid booking id"})
		return
	}

	booking, err := h.bookings.ApproveBooking(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid booking id"})
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	booking, err := h.bookings.RejectBooking(r.Context(), claims.UserID, id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid booking id"})
		return
	}

	booking, err := h.bookings.CancelBooking(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
