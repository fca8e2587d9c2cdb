package domain

import "time"

// Car is the read model consumed from the car catalog collaborator. Only the
// fields the booking and settlement paths need are mapped.
type Car struct {
	ID               int32     `json:"id"`
	OwnerID          int32     `json:"owner_id"`
	Name             string    `json:"name"`
	PricePerDayMinor int64     `json:"price_per_day_minor"`
	CreatedAt        time.Time `json:"created_at"`
}

// CarAvailability marks a single owner-blocked calendar day for a car.
type CarAvailability struct {
	CarID       int32     `json:"car_id"`
	Day         time.Time `json:"day"`
	IsAvailable bool      `json:"is_available"`
}
