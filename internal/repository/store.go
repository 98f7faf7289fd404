package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bagaskara/tripnusa/internal/domain"
)

// Querier is the subset of operations that run inside a transaction.
// Every mutation guards its business rule in the WHERE clause and
// reports rows affected, so callers never read-modify-write shared
// balances or voucher flags.
type Querier interface {
	DeductPoints(ctx context.Context, userID string, cost int64) (int64, error)
	AddPoints(ctx context.Context, userID string, points int64) error
	DecrementOfferStock(ctx context.Context, offerID uuid.UUID) (int64, error)
	InsertUserVoucher(ctx context.Context, v domain.UserVoucher) error
	ConsumeUserVoucher(ctx context.Context, id uuid.UUID, userID string) (int64, error)
	InsertBooking(ctx context.Context, b domain.Booking) (int64, error)
	GetBookingByRequestID(ctx context.Context, requestID uuid.UUID) (domain.Booking, error)
	InsertAccrual(ctx context.Context, bookingID uuid.UUID, userID string, points int64) (int64, error)
}

type Store interface {
	Querier
	ExecTx(ctx context.Context, fn func(Querier) error) error
	GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListVoucherOffers(ctx context.Context) ([]domain.VoucherOffer, error)
	GetVoucherOffer(ctx context.Context, id uuid.UUID) (domain.VoucherOffer, error)
	ListUserVouchers(ctx context.Context, userID string) ([]domain.UserVoucher, error)
	GetUserVoucher(ctx context.Context, id uuid.UUID) (domain.UserVoucher, error)
	GetBalance(ctx context.Context, userID string) (domain.LoyaltyBalance, error)
}

type store struct {
	pool    *pgxpool.Pool
	queries *Queries
}

func New(pool *pgxpool.Pool) Store {
	return &store{
		pool:    pool,
		queries: NewQueries(pool),
	}
}

func (s *store) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	q := s.queries.WithTx(tx)
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rollback err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *store) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	return s.queries.GetProduct(ctx, id)
}

func (s *store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.queries.ListProducts(ctx)
}

func (s *store) ListVoucherOffers(ctx context.Context) ([]domain.VoucherOffer, error) {
	return s.queries.ListVoucherOffers(ctx)
}

func (s *store) GetVoucherOffer(ctx context.Context, id uuid.UUID) (domain.VoucherOffer, error) {
	return s.queries.GetVoucherOffer(ctx, id)
}

func (s *store) ListUserVouchers(ctx context.Context, userID string) ([]domain.UserVoucher, error) {
	return s.queries.ListUserVouchers(ctx, userID)
}

func (s *store) GetUserVoucher(ctx context.Context, id uuid.UUID) (domain.UserVoucher, error) {
	return s.queries.GetUserVoucher(ctx, id)
}

func (s *store) GetBalance(ctx context.Context, userID string) (domain.LoyaltyBalance, error) {
	return s.queries.GetBalance(ctx, userID)
}

func (s *store) DeductPoints(ctx context.Context, userID string, cost int64) (int64, error) {
	return s.queries.DeductPoints(ctx, userID, cost)
}

func (s *store) AddPoints(ctx context.Context, userID string, points int64) error {
	return s.queries.AddPoints(ctx, userID, points)
}

func (s *store) DecrementOfferStock(ctx context.Context, offerID uuid.UUID) (int64, error) {
	return s.queries.DecrementOfferStock(ctx, offerID)
}

func (s *store) InsertUserVoucher(ctx context.Context, v domain.UserVoucher) error {
	return s.queries.InsertUserVoucher(ctx, v)
}

func (s *store) ConsumeUserVoucher(ctx context.Context, id uuid.UUID, userID string) (int64, error) {
	return s.queries.ConsumeUserVoucher(ctx, id, userID)
}

func (s *store) InsertBooking(ctx context.Context, b domain.Booking) (int64, error) {
	return s.queries.InsertBooking(ctx, b)
}

func (s *store) GetBookingByRequestID(ctx context.Context, requestID uuid.UUID) (domain.Booking, error) {
	return s.queries.GetBookingByRequestID(ctx, requestID)
}

func (s *store) InsertAccrual(ctx context.Context, bookingID uuid.UUID, userID string, points int64) (int64, error) {
	return s.queries.InsertAccrual(ctx, bookingID, userID, points)
}
