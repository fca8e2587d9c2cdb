package http

import (
	"net/http"

	"driveshare-backend/internal/security"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Bookings    *BookingHandler
	Payments    *PaymentHandler
	Trips       *TripHandler
	Settlements *SettlementHandler
	Wallets     *WalletHandler
	Disputes    *DisputeHandler
}

// NewRouter builds the /api/v1 surface. Everything except /healthz sits
// behind bearer auth; admin routes additionally require the admin role.
func NewRouter(h Handlers, tokens security.TokenManager, requestsPerSecond float64, burst int) http.Handler {
	root := mux.NewRouter()
	root.Use(loggingMiddleware)
	root.Use(newRateLimiter(requestsPerSecond, burst).middleware)

	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := root.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware(tokens))

	// Bookings
	api.HandleFunc("/bookings", h.Bookings.Create).Methods(http.MethodPost)
	api.HandleFunc("/bookings", h.Bookings.List).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", h.Bookings.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}/approve", h.Bookings.Approve).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/reject", h.Bookings.Reject).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/cancel", h.Bookings.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/owner/bookings", h.Bookings.ListOwner).Methods(http.MethodGet)

	// Payments and wallet top-ups
	api.HandleFunc("/payments", h.Payments.Create).Methods(http.MethodPost)
	api.HandleFunc("/payments", h.Payments.List).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id:[0-9]+}", h.Payments.Get).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id:[0-9]+}/confirm", h.Payments.Confirm).Methods(http.MethodPost)
	api.HandleFunc("/wallet/topups", h.Payments.CreateTopup).Methods(http.MethodPost)
	api.HandleFunc("/wallet/topups/{id:[0-9]+}/confirm", h.Payments.ConfirmTopup).Methods(http.MethodPost)

	// Trips
	api.HandleFunc("/trips", h.Trips.List).Methods(http.MethodGet)
	api.HandleFunc("/trips/{id:[0-9]+}", h.Trips.Get).Methods(http.MethodGet)
	api.HandleFunc("/trips/{id:[0-9]+}/checkin", h.Trips.Checkin).Methods(http.MethodPost)
	api.HandleFunc("/trips/{id:[0-9]+}/checkout", h.Trips.Checkout).Methods(http.MethodPost)
	api.HandleFunc("/owner/trips", h.Trips.ListOwner).Methods(http.MethodGet)

	// Wallet
	api.HandleFunc("/wallet", h.Wallets.Get).Methods(http.MethodGet)
	api.HandleFunc("/wallet/transactions", h.Wallets.ListTransactions).Methods(http.MethodGet)

	// Withdrawals and settlements
	api.HandleFunc("/withdrawals", h.Settlements.RequestWithdraw).Methods(http.MethodPost)
	api.HandleFunc("/withdrawals", h.Settlements.ListWithdrawals).Methods(http.MethodGet)
	api.HandleFunc("/owner/settlements", h.Settlements.ListSettlements).Methods(http.MethodGet)

	// Disputes
	api.HandleFunc("/disputes", h.Disputes.Create).Methods(http.MethodPost)
	api.HandleFunc("/disputes", h.Disputes.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/disputes/{id:[0-9]+}", h.Disputes.Get).Methods(http.MethodGet)

	// Admin
	api.HandleFunc("/admin/bookings/{id:[0-9]+}/release",
		requireRole("admin", h.Settlements.Release)).Methods(http.MethodPost)
	api.HandleFunc("/admin/bookings/{id:[0-9]+}/refund",
		requireRole("admin", h.Settlements.Refund)).Methods(http.MethodPost)
	api.HandleFunc("/admin/settlements/build",
		requireRole("admin", h.Settlements.BuildSettlements)).Methods(http.MethodPost)
	api.HandleFunc("/admin/settlements/auto-release",
		requireRole("admin", h.Settlements.AutoRelease)).Methods(http.MethodPost)
	api.HandleFunc("/admin/withdrawals/{id:[0-9]+}/approve",
		requireRole("admin", h.Settlements.ApproveWithdraw)).Methods(http.MethodPost)
	api.HandleFunc("/admin/withdrawals/{id:[0-9]+}/reject",
		requireRole("admin", h.Settlements.RejectWithdraw)).Methods(http.MethodPost)
	api.HandleFunc("/admin/disputes",
		requireRole("admin", h.Disputes.ListAll)).Methods(http.MethodGet)
	api.HandleFunc("/admin/disputes/{id:[0-9]+}/process",
		requireRole("admin", h.Disputes.Process)).Methods(http.MethodPost)
	api.HandleFunc("/admin/disputes/{id:[0-9]+}/resolve",
		requireRole("admin", h.Disputes.Resolve)).Methods(http.MethodPost)

	return root
}
