package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProductKind string

const (
	ProductHotel      ProductKind = "hotel"
	ProductAttraction ProductKind = "attraction"
)

// DateBound reports whether booking this kind of product requires a
// check-in date. Attractions are sold per ticket without one.
func (k ProductKind) DateBound() bool {
	return k == ProductHotel
}

// Product is a bookable hotel room or attraction. Prices are IDR in
// minor units; TaxRateBP is the tax rate in basis points (1000 = 10%).
type Product struct {
	ID               uuid.UUID   `json:"id"`
	Kind             ProductKind `json:"kind"`
	Name             string      `json:"name"`
	City             string      `json:"city"`
	BaseUnitPrice    int64       `json:"base_unit_price"`
	TaxRateBP        int32       `json:"tax_rate_bp"`
	FlashDiscountPct int32       `json:"flash_discount_pct"`
	FlashUntil       time.Time   `json:"flash_until"`
}

// RateQuote is the priceable offer for a product at a point in time.
// DiscountPct is zero unless a flash sale is active at quote time.
type RateQuote struct {
	ProductID     uuid.UUID `json:"product_id"`
	BaseUnitPrice int64     `json:"base_unit_price"`
	DiscountPct   int32     `json:"discount_pct"`
	TaxRateBP     int32     `json:"tax_rate_bp"`
}

// Quote snapshots the product's current rate. The flash-sale discount
// only applies while the sale window is open.
func (p *Product) Quote(now time.Time) RateQuote {
	q := RateQuote{
		ProductID:     p.ID,
		BaseUnitPrice: p.BaseUnitPrice,
		TaxRateBP:     p.TaxRateBP,
	}
	if p.FlashDiscountPct > 0 && now.Before(p.FlashUntil) {
		q.DiscountPct = p.FlashDiscountPct
	}
	return q
}

// ChargeBreakdown is the computed output of a checkout, all amounts in
// minor units.
type ChargeBreakdown struct {
	EffectiveUnitPrice int64 `json:"effective_unit_price"`
	Subtotal           int64 `json:"subtotal"`
	Tax                int64 `json:"tax"`
	Discount           int64 `json:"discount"`
	Total              int64 `json:"total"`
}

// VoucherOffer is a catalog entry users redeem points against. Stock is
// decremented per claim; an exhausted entry can no longer be redeemed.
type VoucherOffer struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	DiscountAmount int64     `json:"discount_amount"`
	PointsCost     int64     `json:"points_cost"`
	Stock          int32     `json:"stock"`
}

// UserVoucher is a user-owned copy created by redemption. It is
// consumed by at most one booking.
type UserVoucher struct {
	ID             uuid.UUID `json:"id"`
	UserID         string    `json:"user_id"`
	OfferID        uuid.UUID `json:"offer_id"`
	Code           string    `json:"code"`
	DiscountAmount int64     `json:"discount_amount"`
	IsUsed         bool      `json:"is_used"`
}

type GuestInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	CheckIn string `json:"check_in"`
}

type PaymentMethod string

const (
	PaymentQRIS     PaymentMethod = "qris"
	PaymentGopay    PaymentMethod = "gopay"
	PaymentTransfer PaymentMethod = "transfer"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentQRIS, PaymentGopay, PaymentTransfer:
		return true
	}
	return false
}

// Booking is a confirmed reservation. RequestID is the client-generated
// idempotency key: retrying a submission with the same id replays the
// stored booking instead of creating a second one.
type Booking struct {
	ID            uuid.UUID       `json:"id"`
	RequestID     uuid.UUID       `json:"request_id"`
	UserID        string          `json:"user_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Quantity      int32           `json:"quantity"`
	Guest         GuestInfo       `json:"guest"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	VoucherID     *uuid.UUID      `json:"voucher_id,omitempty"`
	Charge        ChargeBreakdown `json:"charge"`
	PointsEarned  int64           `json:"points_earned"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LoyaltyBalance is per-user cumulative loyalty state. Points only grow
// through accrual and only shrink through voucher redemption.
type LoyaltyBalance struct {
	UserID string `json:"user_id"`
	Points int64  `json:"points"`
}
