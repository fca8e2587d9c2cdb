package service

import (
	"context"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

// memStore is an in-memory implementation of the repository bundle for
// end-to-end flow tests. It enforces the same status guards and balance
// guards as the postgres layer so the services behave identically.
type memStore struct {
	repos repository.Repositories

	bookings  map[int32]*domain.Booking
	payments  map[int32]*domain.Payment
	trips     map[int32]*domain.Trip
	wallets   map[int32]*domain.Wallet
	walletTxs []domain.WalletTransaction
	ownerTxs  map[int32]*domain.OwnerTransaction
	cars      map[int32]*domain.Car
	users     map[int32]*domain.User
	nextID    int32
}

func newMemStore() *memStore {
	s := &memStore{
		bookings: make(map[int32]*domain.Booking),
		payments: make(map[int32]*domain.Payment),
		trips:    make(map[int32]*domain.Trip),
		wallets:  make(map[int32]*domain.Wallet),
		ownerTxs: make(map[int32]*domain.OwnerTransaction),
		cars:     make(map[int32]*domain.Car),
		users:    make(map[int32]*domain.User),
	}
	s.repos = repository.Repositories{
		Bookings:          (*memBookings)(s),
		Payments:          (*memPayments)(s),
		Trips:             (*memTrips)(s),
		Wallets:           (*memWallets)(s),
		OwnerTransactions: (*memOwnerTxs)(s),
		Cars:              (*memCars)(s),
		Users:             (*memUsers)(s),
	}
	return s
}

func (s *memStore) WithinTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return fn(&s.repos)
}

func (s *memStore) id() int32 {
	s.nextID++
	return s.nextID
}

func (s *memStore) walletBalance(userID int32) int64 {
	for _, w := range s.wallets {
		if w.UserID == userID {
			return w.BalanceMinor
		}
	}
	return 0
}

type memBookings memStore

func (s *memBookings) Create(ctx context.Context, b *domain.Booking) error {
	b.ID = (*memStore)(s).id()
	s.bookings[b.ID] = b
	return nil
}
func (s *memBookings) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking")
	}
	copied := *b
	return &copied, nil
}
func (s *memBookings) TransitionStatus(ctx context.Context, id int32, to domain.BookingStatus, from ...domain.BookingStatus) (bool, error) {
	b, ok := s.bookings[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if b.Status == f {
			b.Status = to
			return true, nil
		}
	}
	return false, nil
}
func (s *memBookings) SetRejectionReason(ctx context.Context, id int32, reason string) error {
	if b, ok := s.bookings[id]; ok {
		b.RejectionReason = reason
	}
	return nil
}
func (s *memBookings) CountOverlapping(ctx context.Context, carID int32, start, end time.Time) (int32, error) {
	var n int32
	for _, b := range s.bookings {
		if b.CarID != carID ||
			b.Status == domain.BookingStatusCancelled || b.Status == domain.BookingStatusRejected {
			continue
		}
		if b.StartDate.Before(end) && start.Before(b.EndDate) {
			n++
		}
	}
	return n, nil
}
func (s *memBookings) ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	var out []domain.Booking
	for _, b := range s.bookings {
		if b.CustomerID == customerID && (status == "" || string(b.Status) == status) {
			out = append(out, *b)
		}
	}
	return out, int32(len(out)), nil
}
func (s *memBookings) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	var out []domain.Booking
	for _, b := range s.bookings {
		car, ok := s.cars[b.CarID]
		if ok && car.OwnerID == ownerID && (status == "" || string(b.Status) == status) {
			out = append(out, *b)
		}
	}
	return out, int32(len(out)), nil
}

type memPayments memStore

func (s *memPayments) Create(ctx context.Context, p *domain.Payment) error {
	p.ID = (*memStore)(s).id()
	s.payments[p.ID] = p
	return nil
}
func (s *memPayments) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	p, ok := s.payments[id]
	if !ok {
		return nil, domain.NewNotFoundError("payment")
	}
	copied := *p
	return &copied, nil
}
func (s *memPayments) GetCompletedByBooking(ctx context.Context, bookingID int32) (*domain.Payment, error) {
	for _, p := range s.payments {
		if p.BookingID != nil && *p.BookingID == bookingID &&
			p.Status == domain.PaymentStatusCompleted && p.RefundedAt == nil {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.NewNotFoundError("payment")
}
func (s *memPayments) MarkCompleted(ctx context.Context, id int32, paidAt time.Time) (bool, error) {
	p, ok := s.payments[id]
	if !ok || p.Status != domain.PaymentStatusPending {
		return false, nil
	}
	p.Status = domain.PaymentStatusCompleted
	p.PaidAt = &paidAt
	return true, nil
}
func (s *memPayments) MarkRefunded(ctx context.Context, id int32, reason string, refundedAt time.Time) (bool, error) {
	p, ok := s.payments[id]
	if !ok || p.Status != domain.PaymentStatusCompleted || p.RefundedAt != nil {
		return false, nil
	}
	p.Status = domain.PaymentStatusRefunded
	p.RefundReason = reason
	p.RefundedAt = &refundedAt
	return true, nil
}
func (s *memPayments) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error) {
	var out []domain.Payment
	for _, p := range s.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, int32(len(out)), nil
}

type memTrips memStore

func (s *memTrips) Create(ctx context.Context, t *domain.Trip) error {
	t.ID = (*memStore)(s).id()
	s.trips[t.ID] = t
	return nil
}
func (s *memTrips) GetByID(ctx context.Context, id int32) (*domain.Trip, error) {
	t, ok := s.trips[id]
	if !ok {
		return nil, domain.NewNotFoundError("trip")
	}
	copied := *t
	return &copied, nil
}
func (s *memTrips) GetByBookingID(ctx context.Context, bookingID int32) (*domain.Trip, error) {
	for _, t := range s.trips {
		if t.BookingID == bookingID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, domain.NewNotFoundError("trip")
}
func (s *memTrips) Checkin(ctx context.Context, id int32, odometer, fuelLevel int32, notes string, at time.Time) (bool, error) {
	t, ok := s.trips[id]
	if !ok || t.Status != domain.TripStatusUpcoming {
		return false, nil
	}
	t.Status = domain.TripStatusOngoing
	t.StartOdometer = &odometer
	t.StartFuelLevel = &fuelLevel
	t.CheckinNotes = notes
	t.CheckinTime = &at
	return true, nil
}
func (s *memTrips) Checkout(ctx context.Context, id int32, odometer, fuelLevel int32, notes string, at time.Time) (bool, error) {
	t, ok := s.trips[id]
	if !ok || t.Status != domain.TripStatusOngoing {
		return false, nil
	}
	t.Status = domain.TripStatusCompleted
	t.EndOdometer = &odometer
	t.EndFuelLevel = &fuelLevel
	t.CheckoutNotes = notes
	t.CheckoutTime = &at
	return true, nil
}
func (s *memTrips) ListByCustomer(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Trip, int32, error) {
	var out []domain.Trip
	for _, t := range s.trips {
		if t.CustomerID == customerID {
			out = append(out, *t)
		}
	}
	return out, int32(len(out)), nil
}
func (s *memTrips) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Trip, int32, error) {
	var out []domain.Trip
	for _, t := range s.trips {
		car, ok := s.cars[t.CarID]
		if ok && car.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, int32(len(out)), nil
}
func (s *memTrips) ListReleasable(ctx context.Context) ([]domain.Trip, error) {
	var out []domain.Trip
	for _, t := range s.trips {
		b, ok := s.bookings[t.BookingID]
		if ok && t.Status == domain.TripStatusCompleted && b.Status == domain.BookingStatusConfirmed {
			out = append(out, *t)
		}
	}
	return out, nil
}

type memWallets memStore

func (s *memWallets) GetByID(ctx context.Context, id int32) (*domain.Wallet, error) {
	w, ok := s.wallets[id]
	if !ok {
		return nil, domain.NewNotFoundError("wallet")
	}
	copied := *w
	return &copied, nil
}
func (s *memWallets) GetByUserID(ctx context.Context, userID int32) (*domain.Wallet, error) {
	for _, w := range s.wallets {
		if w.UserID == userID {
			copied := *w
			return &copied, nil
		}
	}
	return nil, domain.NewNotFoundError("wallet")
}
func (s *memWallets) GetOrCreateByUserID(ctx context.Context, userID int32, currency string) (*domain.Wallet, error) {
	if w, err := s.GetByUserID(ctx, userID); err == nil {
		return w, nil
	}
	w := &domain.Wallet{ID: (*memStore)(s).id(), UserID: userID, Currency: currency}
	s.wallets[w.ID] = w
	copied := *w
	return &copied, nil
}
func (s *memWallets) ApplyTransaction(ctx context.Context, walletID int32, amount int64, txType domain.WalletTransactionType, description string, metadata map[string]string) (bool, error) {
	w, ok := s.wallets[walletID]
	if !ok {
		return false, domain.NewNotFoundError("wallet")
	}
	if w.BalanceMinor+amount < 0 {
		return false, nil
	}
	w.BalanceMinor += amount
	s.walletTxs = append(s.walletTxs, domain.WalletTransaction{
		ID:          int64(len(s.walletTxs) + 1),
		WalletID:    walletID,
		AmountMinor: amount,
		Type:        txType,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   time.Now(),
	})
	return true, nil
}
func (s *memWallets) ListTransactions(ctx context.Context, walletID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	var out []domain.WalletTransaction
	for _, tx := range s.walletTxs {
		if tx.WalletID == walletID {
			out = append(out, tx)
		}
	}
	return out, int32(len(out)), nil
}

type memOwnerTxs memStore

func (s *memOwnerTxs) Create(ctx context.Context, t *domain.OwnerTransaction) error {
	t.ID = (*memStore)(s).id()
	t.CreatedAt = time.Now()
	s.ownerTxs[t.ID] = t
	return nil
}
func (s *memOwnerTxs) GetByID(ctx context.Context, id int32) (*domain.OwnerTransaction, error) {
	t, ok := s.ownerTxs[id]
	if !ok {
		return nil, domain.NewNotFoundError("transaction")
	}
	copied := *t
	return &copied, nil
}
func (s *memOwnerTxs) TransitionStatus(ctx context.Context, id int32, to, from domain.OwnerTransactionStatus) (bool, error) {
	t, ok := s.ownerTxs[id]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	return true, nil
}
func (s *memOwnerTxs) ListByOwner(ctx context.Context, ownerID int32, txType, status string, page, pageSize int32) ([]domain.OwnerTransaction, int32, error) {
	var out []domain.OwnerTransaction
	for _, t := range s.ownerTxs {
		if t.OwnerID != ownerID {
			continue
		}
		if txType != "" && string(t.Type) != txType {
			continue
		}
		if status != "" && string(t.Status) != status {
			continue
		}
		out = append(out, *t)
	}
	return out, int32(len(out)), nil
}
func (s *memOwnerTxs) ListOwnersWithActivity(ctx context.Context, period string) ([]int32, error) {
	seen := make(map[int32]bool)
	var out []int32
	for _, t := range s.ownerTxs {
		if t.Status == domain.OwnerTxStatusCompleted &&
			t.CreatedAt.Format("2006-01") == period && !seen[t.OwnerID] {
			seen[t.OwnerID] = true
			out = append(out, t.OwnerID)
		}
	}
	return out, nil
}
func (s *memOwnerTxs) SummarizePeriod(ctx context.Context, ownerID int32, period string) (int64, int64, error) {
	var earnings, payouts int64
	for _, t := range s.ownerTxs {
		if t.OwnerID != ownerID || t.Status != domain.OwnerTxStatusCompleted ||
			t.CreatedAt.Format("2006-01") != period {
			continue
		}
		switch t.Type {
		case domain.OwnerTxTypeRentalIncome:
			earnings += t.AmountMinor
		case domain.OwnerTxTypeWithdraw:
			payouts += t.AmountMinor
		}
	}
	return earnings, payouts, nil
}

type memCars memStore

func (s *memCars) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	c, ok := s.cars[id]
	if !ok {
		return nil, domain.NewNotFoundError("car")
	}
	copied := *c
	return &copied, nil
}
func (s *memCars) CountBlockedDays(ctx context.Context, carID int32, start, end time.Time) (int32, error) {
	return 0, nil
}

type memUsers memStore

func (s *memUsers) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user")
	}
	copied := *u
	return &copied, nil
}
