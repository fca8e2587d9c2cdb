package domain

import "time"

type TripStatus string

const (
	TripStatusUpcoming  TripStatus = "UPCOMING"
	TripStatusOngoing   TripStatus = "ONGOING"
	TripStatusCompleted TripStatus = "COMPLETED"
)

// Trip tracks the physical handover and return of the vehicle. A trip is
// created the moment its booking's payment completes, and its COMPLETED
// status is the sole precondition for releasing escrowed funds.
type Trip struct {
	ID             int32      `json:"id"`
	BookingID      int32      `json:"booking_id"`
	CarID          int32      `json:"car_id"`
	CustomerID     int32      `json:"customer_id"`
	Status         TripStatus `json:"status"`
	StartOdometer  *int32     `json:"start_odometer,omitempty"`
	EndOdometer    *int32     `json:"end_odometer,omitempty"`
	StartFuelLevel *int32     `json:"start_fuel_level,omitempty"`
	EndFuelLevel   *int32     `json:"end_fuel_level,omitempty"`
	CheckinTime    *time.Time `json:"checkin_time,omitempty"`
	CheckoutTime   *time.Time `json:"checkout_time,omitempty"`
	CheckinNotes   string     `json:"checkin_notes,omitempty"`
	CheckoutNotes  string     `json:"checkout_notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
