package usecase

import "github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"

// The boost matrix is fixed: 3 levels x 3 durations. Anything outside it
// is a validation error, never a lookup miss.
var (
	BoostLevels   = []int{1, 2, 3}
	DurationsDays = []int{7, 15, 30}
)

type Price struct {
	Amount   float64
	Currency string
}

// PriceTable maps (boost level, duration in days) to a checkout amount.
type PriceTable struct {
	currency string
	amounts  map[int]map[int]float64
}

// DefaultPriceTable mirrors the marketplace's published sponsorship
// pricing.
func DefaultPriceTable() PriceTable {
	return PriceTable{
		currency: "USD",
		amounts: map[int]map[int]float64{
			1: {7: 4.99, 15: 8.99, 30: 14.99},
			2: {7: 9.99, 15: 17.99, 30: 29.99},
			3: {7: 14.99, 15: 26.99, 30: 44.99},
		},
	}
}

func (t PriceTable) Price(boostLevel, durationDays int) (Price, error) {
	byDuration, ok := t.amounts[boostLevel]
	if !ok {
		return Price{}, domain.ErrInvalidBoostLevel
	}
	amount, ok := byDuration[durationDays]
	if !ok {
		return Price{}, domain.ErrInvalidDuration
	}
	return Price{Amount: amount, Currency: t.currency}, nil
}
