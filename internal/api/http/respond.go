package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type listMeta struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
	Total    int32 `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

func writeList(w http.ResponseWriter, items any, page, pageSize, total int32) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"meta":  listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

// writeError maps the service error taxonomy onto HTTP statuses. Untyped
// errors are logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, err error) {
	code := domain.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case domain.ErrCodeNotFound:
		status = http.StatusNotFound
	case domain.ErrCodeForbidden:
		status = http.StatusForbidden
	case domain.ErrCodeConflict, domain.ErrCodeInvalidState:
		status = http.StatusConflict
	case domain.ErrCodeValidation:
		status = http.StatusUnprocessableEntity
	case domain.ErrCodeInsufficientFunds:
		status = http.StatusPaymentRequired
	}
	if status == http.StatusInternalServerError {
		logger.Error("unexpected error", "error", err)
		writeJSON(w, status, errorBody{Code: "INTERNAL", Message: "internal server error"})
		return
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: err.Error()})
}

// decodeBody parses the JSON request body into dst. An empty body is valid
// and leaves dst at its zero value, so POSTs where every field has a default
// need no payload.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid request body"})
		return false
	}
	return true
}

func pathID(r *http.Request, vars map[string]string, key string) (int32, bool) {
	raw, ok := vars[key]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

// pagination reads ?page= and ?page_size= with sane defaults and caps.
func pagination(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 {
		pageSize = int32(v)
		if pageSize > 100 {
			pageSize = 100
		}
	}
	return page, pageSize
}
