// Package pricing is the single canonical charge calculation. Every
// surface that shows or stores a price (hotel booking, attraction
// booking, flash-sale display) goes through Calculate so the numbers
// never drift between call sites.
//
// All currency amounts are IDR in int64 minor units and all rates are
// integer basis points, so the arithmetic is exact. Divisions round
// half-up.
package pricing

import (
	"github.com/bagaskara/tripnusa/internal/domain"
)

// Calculate turns a rate quote, a quantity and an optional voucher into
// a charge breakdown. It is pure: the voucher is never mutated here,
// consumption happens at the booking boundary after the charge is
// accepted.
func Calculate(quote domain.RateQuote, quantity int32, voucher *domain.UserVoucher) (domain.ChargeBreakdown, error) {
	var b domain.ChargeBreakdown

	if quantity < 1 {
		return b, domain.ErrInvalidQuantity
	}
	if quote.DiscountPct < 0 || quote.DiscountPct > 100 {
		return b, domain.ErrInvalidDiscount
	}
	if quote.BaseUnitPrice < 0 || quote.TaxRateBP < 0 {
		return b, domain.ErrInvalidPrice
	}
	if voucher != nil {
		if voucher.IsUsed {
			return b, domain.ErrVoucherAlreadyUsed
		}
		if voucher.DiscountAmount < 0 {
			return b, domain.ErrInvalidPrice
		}
	}

	// Discount applies to the unit rate, not the subtotal: a 50% flash
	// sale halves the nightly/ticket price before multiplying out.
	b.EffectiveUnitPrice = quote.BaseUnitPrice - divRoundHalfUp(quote.BaseUnitPrice*int64(quote.DiscountPct), 100)
	b.Subtotal = b.EffectiveUnitPrice * int64(quantity)
	b.Tax = divRoundHalfUp(b.Subtotal*int64(quote.TaxRateBP), 10000)

	if voucher != nil {
		b.Discount = voucher.DiscountAmount
	}

	b.Total = b.Subtotal + b.Tax - b.Discount
	if b.Total < 0 {
		// A voucher larger than the charge zeroes it out, it never
		// produces a refund.
		b.Total = 0
	}

	return b, nil
}

func divRoundHalfUp(n, d int64) int64 {
	return (n + d/2) / d
}
