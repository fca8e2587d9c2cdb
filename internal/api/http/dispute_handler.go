package http

import (
	"net/http"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"

	"github.com/gorilla/mux"
)

type DisputeHandler struct {
	disputes service.DisputeService
}

func NewDisputeHandler(disputes service.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputes: disputes}
}

func (h *DisputeHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req struct {
		BookingID   *int32 `json:"booking_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	dispute, err := h.disputes.CreateDispute(r.Context(), claims.UserID, req.BookingID, req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dispute)
}

func (h *DisputeHandler) Process(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid dispute id"})
		return
	}

	dispute, err := h.disputes.ProcessDispute(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dispute)
}

func (h *DisputeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid dispute id"})
		return
	}
	var req struct {
		Status     string `json:"status"`
		Resolution string `json:"resolution"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	dispute, err := h.disputes.ResolveDispute(r.Context(), id, domain.DisputeStatus(req.Status), req.Resolution)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dispute)
}

func (h *DisputeHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	id, ok := pathID(r, mux.Vars(r), "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid dispute id"})
		return
	}

	dispute, err := h.disputes.GetDispute(r.Context(), claims.UserID, claims.HasRole("admin"), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dispute)
}

func (h *DisputeHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	disputes, total, err := h.disputes.ListDisputes(r.Context(), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, disputes, page, pageSize, total)
}

func (h *DisputeHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	page, pageSize := pagination(r)

	disputes, total, err := h.disputes.ListMyDisputes(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, disputes, page, pageSize, total)
}
