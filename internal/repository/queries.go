package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bagaskara/tripnusa/internal/domain"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// queries run standalone or inside ExecTx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

const getProduct = `
SELECT id, kind, name, city, base_unit_price, tax_rate_bp, flash_discount_pct, flash_until
FROM products
WHERE id = $1
`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	var p domain.Product
	err := q.db.QueryRow(ctx, getProduct, id).Scan(
		&p.ID, &p.Kind, &p.Name, &p.City,
		&p.BaseUnitPrice, &p.TaxRateBP, &p.FlashDiscountPct, &p.FlashUntil,
	)
	return p, err
}

const listProducts = `
SELECT id, kind, name, city, base_unit_price, tax_rate_bp, flash_discount_pct, flash_until
FROM products
ORDER BY name
`

func (q *Queries) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := q.db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Kind, &p.Name, &p.City,
			&p.BaseUnitPrice, &p.TaxRateBP, &p.FlashDiscountPct, &p.FlashUntil,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

const listVoucherOffers = `
SELECT id, code, discount_amount, points_cost, stock
FROM voucher_offers
WHERE stock > 0
ORDER BY points_cost
`

func (q *Queries) ListVoucherOffers(ctx context.Context) ([]domain.VoucherOffer, error) {
	rows, err := q.db.Query(ctx, listVoucherOffers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []domain.VoucherOffer
	for rows.Next() {
		var o domain.VoucherOffer
		if err := rows.Scan(&o.ID, &o.Code, &o.DiscountAmount, &o.PointsCost, &o.Stock); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

const getVoucherOffer = `
SELECT id, code, discount_amount, points_cost, stock
FROM voucher_offers
WHERE id = $1
`

func (q *Queries) GetVoucherOffer(ctx context.Context, id uuid.UUID) (domain.VoucherOffer, error) {
	var o domain.VoucherOffer
	err := q.db.QueryRow(ctx, getVoucherOffer, id).Scan(
		&o.ID, &o.Code, &o.DiscountAmount, &o.PointsCost, &o.Stock,
	)
	return o, err
}

const listUserVouchers = `
SELECT id, user_id, offer_id, code, discount_amount, is_used
FROM user_vouchers
WHERE user_id = $1 AND is_used = FALSE
ORDER BY code
`

func (q *Queries) ListUserVouchers(ctx context.Context, userID string) ([]domain.UserVoucher, error) {
	rows, err := q.db.Query(ctx, listUserVouchers, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouchers []domain.UserVoucher
	for rows.Next() {
		var v domain.UserVoucher
		if err := rows.Scan(&v.ID, &v.UserID, &v.OfferID, &v.Code, &v.DiscountAmount, &v.IsUsed); err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

const getUserVoucher = `
SELECT id, user_id, offer_id, code, discount_amount, is_used
FROM user_vouchers
WHERE id = $1
`

func (q *Queries) GetUserVoucher(ctx context.Context, id uuid.UUID) (domain.UserVoucher, error) {
	var v domain.UserVoucher
	err := q.db.QueryRow(ctx, getUserVoucher, id).Scan(
		&v.ID, &v.UserID, &v.OfferID, &v.Code, &v.DiscountAmount, &v.IsUsed,
	)
	return v, err
}

const getBalance = `
SELECT points FROM loyalty_balances WHERE user_id = $1
`

// GetBalance treats a missing row as a zero balance: every user starts
// at 0 points and a row only appears on first accrual.
func (q *Queries) GetBalance(ctx context.Context, userID string) (domain.LoyaltyBalance, error) {
	b := domain.LoyaltyBalance{UserID: userID}
	err := q.db.QueryRow(ctx, getBalance, userID).Scan(&b.Points)
	if errors.Is(err, pgx.ErrNoRows) {
		return b, nil
	}
	return b, err
}

const deductPoints = `
UPDATE loyalty_balances
SET points = points - $2
WHERE user_id = $1 AND points >= $2
`

// DeductPoints spends points atomically. Zero rows affected means the
// balance was insufficient and nothing changed.
func (q *Queries) DeductPoints(ctx context.Context, userID string, cost int64) (int64, error) {
	tag, err := q.db.Exec(ctx, deductPoints, userID, cost)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const addPoints = `
INSERT INTO loyalty_balances (user_id, points)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET points = loyalty_balances.points + EXCLUDED.points
`

func (q *Queries) AddPoints(ctx context.Context, userID string, points int64) error {
	_, err := q.db.Exec(ctx, addPoints, userID, points)
	return err
}

const decrementOfferStock = `
UPDATE voucher_offers
SET stock = stock - 1
WHERE id = $1 AND stock > 0
`

func (q *Queries) DecrementOfferStock(ctx context.Context, offerID uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, decrementOfferStock, offerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const insertUserVoucher = `
INSERT INTO user_vouchers (id, user_id, offer_id, code, discount_amount, is_used)
VALUES ($1, $2, $3, $4, $5, FALSE)
`

func (q *Queries) InsertUserVoucher(ctx context.Context, v domain.UserVoucher) error {
	_, err := q.db.Exec(ctx, insertUserVoucher, v.ID, v.UserID, v.OfferID, v.Code, v.DiscountAmount)
	return err
}

const consumeUserVoucher = `
UPDATE user_vouchers
SET is_used = TRUE
WHERE id = $1 AND user_id = $2 AND is_used = FALSE
`

// ConsumeUserVoucher marks a voucher used. The is_used guard makes the
// consume conditional, so exactly one booking wins a concurrent race.
func (q *Queries) ConsumeUserVoucher(ctx context.Context, id uuid.UUID, userID string) (int64, error) {
	tag, err := q.db.Exec(ctx, consumeUserVoucher, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const insertBooking = `
INSERT INTO bookings (
	id, request_id, user_id, product_id, quantity,
	guest_name, guest_email, guest_phone, check_in,
	payment_method, voucher_id,
	effective_unit_price, subtotal, tax, discount, total,
	points_earned, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
ON CONFLICT (request_id) DO NOTHING
`

// InsertBooking writes a booking keyed by the client request id. Zero
// rows affected means this request id was already booked and the caller
// should replay the stored booking.
func (q *Queries) InsertBooking(ctx context.Context, b domain.Booking) (int64, error) {
	tag, err := q.db.Exec(ctx, insertBooking,
		b.ID, b.RequestID, b.UserID, b.ProductID, b.Quantity,
		b.Guest.Name, b.Guest.Email, b.Guest.Phone, b.Guest.CheckIn,
		b.PaymentMethod, b.VoucherID,
		b.Charge.EffectiveUnitPrice, b.Charge.Subtotal, b.Charge.Tax, b.Charge.Discount, b.Charge.Total,
		b.PointsEarned, b.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getBookingByRequestID = `
SELECT id, request_id, user_id, product_id, quantity,
	guest_name, guest_email, guest_phone, check_in,
	payment_method, voucher_id,
	effective_unit_price, subtotal, tax, discount, total,
	points_earned, created_at
FROM bookings
WHERE request_id = $1
`

func (q *Queries) GetBookingByRequestID(ctx context.Context, requestID uuid.UUID) (domain.Booking, error) {
	var b domain.Booking
	err := q.db.QueryRow(ctx, getBookingByRequestID, requestID).Scan(
		&b.ID, &b.RequestID, &b.UserID, &b.ProductID, &b.Quantity,
		&b.Guest.Name, &b.Guest.Email, &b.Guest.Phone, &b.Guest.CheckIn,
		&b.PaymentMethod, &b.VoucherID,
		&b.Charge.EffectiveUnitPrice, &b.Charge.Subtotal, &b.Charge.Tax, &b.Charge.Discount, &b.Charge.Total,
		&b.PointsEarned, &b.CreatedAt,
	)
	return b, err
}

const insertAccrual = `
INSERT INTO loyalty_accruals (booking_id, user_id, points)
VALUES ($1, $2, $3)
ON CONFLICT (booking_id) DO NOTHING
`

// InsertAccrual records the per-booking point award. The booking_id
// primary key makes the award idempotent: a redelivered confirmation
// inserts zero rows and the caller skips the balance update.
func (q *Queries) InsertAccrual(ctx context.Context, bookingID uuid.UUID, userID string, points int64) (int64, error) {
	tag, err := q.db.Exec(ctx, insertAccrual, bookingID, userID, points)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
