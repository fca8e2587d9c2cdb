package utils

import (
	"time"

	"driveshare-backend/internal/domain"
)

// Nights returns the number of chargeable nights in the half-open range
// [start, end), rounding any partial day up. end must be after start.
func Nights(start, end time.Time) (int32, error) {
	if !end.After(start) {
		return 0, domain.NewValidationError("end date must be after start date")
	}
	d := end.Sub(start)
	nights := int32(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		nights++
	}
	return nights, nil
}

// BookingTotal computes the price snapshot fixed at booking creation:
// nights x pricePerDay minus the discount.
func BookingTotal(start, end time.Time, pricePerDayMinor, discountMinor int64) (int64, error) {
	nights, err := Nights(start, end)
	if err != nil {
		return 0, err
	}
	total := int64(nights)*pricePerDayMinor - discountMinor
	if total < 0 {
		return 0, domain.NewValidationError("discount exceeds booking price")
	}
	return total, nil
}

// SplitFee divides a gross escrowed amount into the platform fee and the
// owner payout. The fee rounds half-up on integer minor units; the payout is
// the remainder, so fee + payout always equals gross exactly.
func SplitFee(grossMinor int64, feePercent int32) (fee int64, ownerAmount int64) {
	fee = (grossMinor*int64(feePercent) + 50) / 100
	return fee, grossMinor - fee
}

// RefundAmount computes the partial refund for a given percentage of the
// original payment, truncating toward zero.
func RefundAmount(grossMinor int64, refundPercent int32) int64 {
	return grossMinor * int64(refundPercent) / 100
}
