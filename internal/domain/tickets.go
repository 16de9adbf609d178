package domain

import "github.com/shopspring/decimal"

type TicketType string

const (
	TicketStandard TicketType = "standard"
	TicketReduced  TicketType = "reduced"
)

// BasePrice is the standard admission price. The reduced tariff is 75% of
// it, rounded to the nearest cent.
var BasePrice = decimal.NewFromInt(12)

func TicketTypes() []TicketType {
	return []TicketType{TicketStandard, TicketReduced}
}

func TicketPrice(t TicketType) decimal.Decimal {
	switch t {
	case TicketReduced:
		return BasePrice.Mul(decimal.NewFromFloat(0.75)).Round(2)
	default:
		return BasePrice
	}
}

// TicketAllocation distributes the selected seats across ticket tariffs.
// Checkout requires the allocation to reconcile exactly with the number of
// selected seats.
type TicketAllocation map[TicketType]int

func NewTicketAllocation() TicketAllocation {
	alloc := make(TicketAllocation, len(TicketTypes()))
	for _, t := range TicketTypes() {
		alloc[t] = 0
	}

	return alloc
}

// Increment adds one ticket of the given tariff, but only while the total
// stays below the selected seat count. It reports whether it applied.
func (a TicketAllocation) Increment(t TicketType, selectedSeats int) bool {
	if !validTicketType(t) || a.Total() >= selectedSeats {
		return false
	}

	a[t]++

	return true
}

func (a TicketAllocation) Decrement(t TicketType) bool {
	if a[t] <= 0 {
		return false
	}

	a[t]--

	return true
}

func (a TicketAllocation) Total() int {
	total := 0
	for _, count := range a {
		total += count
	}

	return total
}

// Reconciled is the checkout gate: at least one seat selected and exactly
// one ticket per selected seat.
func (a TicketAllocation) Reconciled(selectedSeats int) bool {
	return selectedSeats > 0 && a.Total() == selectedSeats
}

func (a TicketAllocation) TotalPrice() decimal.Decimal {
	total := decimal.Zero

	for t, count := range a {
		if count <= 0 {
			continue
		}

		total = total.Add(TicketPrice(t).Mul(decimal.NewFromInt(int64(count))))
	}

	return total
}

func validTicketType(t TicketType) bool {
	return t == TicketStandard || t == TicketReduced
}
