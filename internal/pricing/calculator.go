// Package pricing derives the amounts fixed on a booking at creation time.
package pricing

import (
	"math"

	"tourbook/internal/shared/apperrors"
)

var (
	ErrInvalidGuests         = apperrors.Validation("guests must be at least 1")
	ErrGroupSizeExceeded     = apperrors.Validation("guests exceed the tour's maximum group size")
	ErrInvalidUnitPrice      = apperrors.Validation("unit price must be positive")
	ErrInvalidCommissionRate = apperrors.Validation("commission rate must be between 0 and 100")
)

// Quote is the priced breakdown of a booking. The commission is taken out
// of the guide's share, so the traveler pays the subtotal.
type Quote struct {
	UnitPrice        float64 `json:"unit_price"`
	Guests           int     `json:"guests"`
	Subtotal         float64 `json:"subtotal"`
	CommissionRate   float64 `json:"commission_rate"`
	CommissionAmount float64 `json:"commission_amount"`
	GuideEarnings    float64 `json:"guide_earnings"`
	TotalPrice       float64 `json:"total_price"`
}

// Calculate prices guests seats at unitPrice under commissionRate percent
func Calculate(unitPrice float64, guests, maxGroupSize int, commissionRate float64) (Quote, error) {
	if guests < 1 {
		return Quote{}, ErrInvalidGuests
	}
	if guests > maxGroupSize {
		return Quote{}, ErrGroupSizeExceeded
	}
	if unitPrice <= 0 || math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		return Quote{}, ErrInvalidUnitPrice
	}
	if err := ValidateCommissionRate(commissionRate); err != nil {
		return Quote{}, err
	}

	subtotal := RoundCents(unitPrice * float64(guests))
	commission := RoundCents(subtotal * commissionRate / 100)
	// earnings derived by subtraction so the two shares always sum to subtotal
	earnings := RoundCents(subtotal - commission)

	return Quote{
		UnitPrice:        unitPrice,
		Guests:           guests,
		Subtotal:         subtotal,
		CommissionRate:   commissionRate,
		CommissionAmount: commission,
		GuideEarnings:    earnings,
		TotalPrice:       subtotal,
	}, nil
}

func ValidateCommissionRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 100 {
		return ErrInvalidCommissionRate
	}
	return nil
}

// RoundCents rounds half away from zero to two decimals
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToMinorUnits converts an amount to cents for the payment processor
func ToMinorUnits(v float64) int64 {
	return int64(math.Round(v * 100))
}
