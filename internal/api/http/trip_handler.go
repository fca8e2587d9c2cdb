package http

import (
	"net/http"

	"driveshare-backend/internal/service"

	"github.com/gorilla/mux"
)

type TripHandler struct {
	trips service.TripService
}

func NewTripHandler(trips service.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

type handoverRequest struct {
	Odometer  int32  `json:"odometer"`
	FuelLevel int32  `json:"fuel_level"`
	Notes     string `json:"notes"`
}

func (h *TripHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid trip id"})
		return
	}
	var req handoverRequest
	if !decodeBody(w, r, &req) {
		return
	}

	trip, err := h.trips.Checkin(r.Context(), claims.UserID, id, req.Odometer, req.FuelLevel, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (h *TripHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid trip id"})
		return
	}
	var req handoverRequest
	if !decodeBody(w, r, &req) {
		return
	}

	trip, err := h.trips.Checkout(r.Context(), claims.UserID, id, req.Odometer, req.FuelLevel, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid trip id"})
		return
	}

	trip, err := h.trips.GetTrip(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	page, pageSize := pagination(r)

	trips, total, err := h.trips.ListTrips(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, trips, page, pageSize, total)
}

func (h *TripHandler) ListOwner(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	page, pageSize := pagination(r)

	trips, total, err := h.trips.ListOwnerTrips(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, trips, page, pageSize, total)
}
