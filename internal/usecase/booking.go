package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bagaskara/tripnusa/internal/domain"
	"github.com/bagaskara/tripnusa/internal/loyalty"
	"github.com/bagaskara/tripnusa/internal/pricing"
	"github.com/bagaskara/tripnusa/internal/repository"
)

type BookingService struct {
	store      repository.Store
	dispatcher AccrualDispatcher
	now        func() time.Time
}

func NewBookingService(store repository.Store, dispatcher AccrualDispatcher) *BookingService {
	return &BookingService{
		store:      store,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Quote prices a product at the current instant, without a voucher.
// Browsing pages and the flash-sale display both read from here so the
// shown price always matches what checkout will charge.
func (s *BookingService) Quote(ctx context.Context, productID uuid.UUID, quantity int32) (domain.RateQuote, domain.ChargeBreakdown, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RateQuote{}, domain.ChargeBreakdown{}, domain.ErrNotFound
		}
		return domain.RateQuote{}, domain.ChargeBreakdown{}, fmt.Errorf("get product: %w", err)
	}

	quote := product.Quote(s.now())
	breakdown, err := pricing.Calculate(quote, quantity, nil)
	if err != nil {
		return domain.RateQuote{}, domain.ChargeBreakdown{}, err
	}

	return quote, breakdown, nil
}

func (s *BookingService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListProducts(ctx)
}

// SubmitInput carries the frozen state of a checkout session into the
// booking boundary. RequestID makes a retried submission replay the
// stored booking instead of double-booking.
type SubmitInput struct {
	RequestID     uuid.UUID
	UserID        string
	ProductID     uuid.UUID
	Quote         domain.RateQuote
	Quantity      int32
	Guest         domain.GuestInfo
	PaymentMethod domain.PaymentMethod
	Voucher       *domain.UserVoucher
}

// Submit confirms a booking. The charge is recomputed here from the
// session's quote and the voucher's stored row, never taken from the
// client, so the server stays authoritative for totals and point
// awards.
func (s *BookingService) Submit(ctx context.Context, in SubmitInput) (domain.Booking, error) {
	var voucher *domain.UserVoucher
	if in.Voucher != nil {
		// Re-read the voucher inside the submission so a copy consumed
		// from another tab is caught before we price with it.
		v, err := s.store.GetUserVoucher(ctx, in.Voucher.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.Booking{}, domain.ErrVoucherUnavailable
			}
			return domain.Booking{}, fmt.Errorf("get voucher: %w", err)
		}
		if v.UserID != in.UserID {
			return domain.Booking{}, domain.ErrVoucherUnavailable
		}
		if v.IsUsed {
			return domain.Booking{}, domain.ErrVoucherAlreadyUsed
		}
		voucher = &v
	}

	breakdown, err := pricing.Calculate(in.Quote, in.Quantity, voucher)
	if err != nil {
		return domain.Booking{}, err
	}

	booking := domain.Booking{
		ID:            uuid.New(),
		RequestID:     in.RequestID,
		UserID:        in.UserID,
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		Guest:         in.Guest,
		PaymentMethod: in.PaymentMethod,
		Charge:        breakdown,
		PointsEarned:  loyalty.PointsForCharge(breakdown.Total),
		CreatedAt:     s.now(),
	}
	if voucher != nil {
		booking.VoucherID = &voucher.ID
	}

	var replayed bool
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		rows, err := q.InsertBooking(ctx, booking)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		if rows == 0 {
			existing, err := q.GetBookingByRequestID(ctx, in.RequestID)
			if err != nil {
				return fmt.Errorf("load existing booking: %w", err)
			}
			booking = existing
			replayed = true
			return nil
		}

		if voucher != nil {
			rows, err := q.ConsumeUserVoucher(ctx, voucher.ID, in.UserID)
			if err != nil {
				return fmt.Errorf("consume voucher: %w", err)
			}
			if rows == 0 {
				return domain.ErrVoucherUnavailable
			}
		}

		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	if !replayed {
		if err := s.dispatcher.DispatchAccrual(ctx, booking); err != nil {
			// The booking is committed; the award is idempotent and can
			// be re-driven, so this is not a submission failure.
			log.Printf("Failed to dispatch accrual for booking %s: %v", booking.ID, err)
		}
	}

	return booking, nil
}
