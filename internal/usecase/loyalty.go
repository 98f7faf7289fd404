package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bagaskara/tripnusa/internal/domain"
	"github.com/bagaskara/tripnusa/internal/loyalty"
	"github.com/bagaskara/tripnusa/internal/repository"
)

type LoyaltyService struct {
	store repository.Store
}

func NewLoyaltyService(store repository.Store) *LoyaltyService {
	return &LoyaltyService{store: store}
}

// BalanceView is the loyalty page payload: the stored balance plus the
// derived tier state. Tier is never stored, always recomputed.
type BalanceView struct {
	UserID          string        `json:"user_id"`
	Points          int64         `json:"points"`
	Tier            loyalty.Tier  `json:"tier"`
	NextTier        *loyalty.Tier `json:"next_tier,omitempty"`
	ProgressPercent int           `json:"progress_percent"`
}

func (s *LoyaltyService) Balance(ctx context.Context, userID string) (BalanceView, error) {
	balance, err := s.store.GetBalance(ctx, userID)
	if err != nil {
		return BalanceView{}, fmt.Errorf("get balance: %w", err)
	}

	view := BalanceView{
		UserID:          userID,
		Points:          balance.Points,
		Tier:            loyalty.TierFor(balance.Points),
		ProgressPercent: loyalty.Progress(balance.Points),
	}
	if next, ok := loyalty.NextTier(balance.Points); ok {
		view.NextTier = &next
	}

	return view, nil
}

func (s *LoyaltyService) ListVoucherOffers(ctx context.Context) ([]domain.VoucherOffer, error) {
	return s.store.ListVoucherOffers(ctx)
}

func (s *LoyaltyService) ListUserVouchers(ctx context.Context, userID string) ([]domain.UserVoucher, error) {
	return s.store.ListUserVouchers(ctx, userID)
}

// RedeemVoucher spends points on a catalog offer and hands the user an
// unused voucher copy. The point deduction and the stock decrement are
// both conditional updates inside one transaction, so two tabs racing
// on the same balance cannot double-spend it.
func (s *LoyaltyService) RedeemVoucher(ctx context.Context, userID string, offerID uuid.UUID) (domain.UserVoucher, error) {
	offer, err := s.store.GetVoucherOffer(ctx, offerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserVoucher{}, domain.ErrNotFound
		}
		return domain.UserVoucher{}, fmt.Errorf("get voucher offer: %w", err)
	}

	voucher := domain.UserVoucher{
		ID:             uuid.New(),
		UserID:         userID,
		OfferID:        offer.ID,
		Code:           offer.Code,
		DiscountAmount: offer.DiscountAmount,
	}

	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		rows, err := q.DeductPoints(ctx, userID, offer.PointsCost)
		if err != nil {
			return fmt.Errorf("deduct points: %w", err)
		}
		if rows == 0 {
			return domain.ErrInsufficientPoints
		}

		rows, err = q.DecrementOfferStock(ctx, offer.ID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if rows == 0 {
			return domain.ErrSoldOut
		}

		if err := q.InsertUserVoucher(ctx, voucher); err != nil {
			return fmt.Errorf("insert user voucher: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.UserVoucher{}, err
	}

	return voucher, nil
}

// AwardPoints credits the points a confirmed booking earned. It is
// idempotent per booking: a redelivered confirmation inserts nothing
// and the balance is left alone.
func (s *LoyaltyService) AwardPoints(ctx context.Context, bookingID uuid.UUID, userID string, points int64) error {
	if points < 0 {
		return fmt.Errorf("negative point award for booking %s", bookingID)
	}

	return s.store.ExecTx(ctx, func(q repository.Querier) error {
		rows, err := q.InsertAccrual(ctx, bookingID, userID, points)
		if err != nil {
			return fmt.Errorf("insert accrual: %w", err)
		}
		if rows == 0 {
			return nil
		}

		if err := q.AddPoints(ctx, userID, points); err != nil {
			return fmt.Errorf("add points: %w", err)
		}

		return nil
	})
}
