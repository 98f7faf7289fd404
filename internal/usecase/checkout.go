package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bagaskara/tripnusa/internal/checkout"
	"github.com/bagaskara/tripnusa/internal/domain"
	"github.com/bagaskara/tripnusa/internal/repository"
)

// CheckoutService drives wizard sessions. Sessions live only in this
// process and are dropped once they reach a terminal step or the
// service restarts; abandoning one has no external side effect.
type CheckoutService struct {
	store    repository.Store
	bookings *BookingService
	now      func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*checkout.Session
}

func NewCheckoutService(store repository.Store, bookings *BookingService) *CheckoutService {
	return &CheckoutService{
		store:    store,
		bookings: bookings,
		now:      func() time.Time { return time.Now().UTC() },
		sessions: make(map[uuid.UUID]*checkout.Session),
	}
}

func (s *CheckoutService) Start(ctx context.Context, userID string, productID uuid.UUID, quantity int32) (*checkout.Session, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	session, err := checkout.NewSession(userID, product, quantity, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

func (s *CheckoutService) Get(sessionID uuid.UUID) (*checkout.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

func (s *CheckoutService) SubmitGuest(sessionID uuid.UUID, info domain.GuestInfo) (*checkout.Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.SubmitGuest(info); err != nil {
		return session, err
	}
	return session, nil
}

func (s *CheckoutService) ChoosePayment(sessionID uuid.UUID, method domain.PaymentMethod) (*checkout.Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.ChoosePayment(method); err != nil {
		return session, err
	}
	return session, nil
}

func (s *CheckoutService) Back(sessionID uuid.UUID) (*checkout.Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Back(); err != nil {
		return session, err
	}
	return session, nil
}

// SelectVoucher attaches one of the user's unused vouchers at the
// review step, or clears the selection when voucherID is nil.
func (s *CheckoutService) SelectVoucher(ctx context.Context, sessionID uuid.UUID, voucherID *uuid.UUID) (*checkout.Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if voucherID == nil {
		return session, session.AttachVoucher(nil)
	}

	voucher, err := s.store.GetUserVoucher(ctx, *voucherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session, domain.ErrNotFound
		}
		return session, fmt.Errorf("get voucher: %w", err)
	}
	if voucher.UserID != session.UserID {
		return session, domain.ErrNotFound
	}

	return session, session.AttachVoucher(&voucher)
}

// Submit freezes the charge and hands the session to the booking
// boundary. On boundary failure the session stays in review with the
// frozen charge intact, so the user retries without re-entering
// anything; the shared request id makes that retry safe.
func (s *CheckoutService) Submit(ctx context.Context, sessionID uuid.UUID) (domain.Booking, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return domain.Booking{}, err
	}

	if _, err := session.Freeze(); err != nil {
		return domain.Booking{}, err
	}

	booking, err := s.bookings.Submit(ctx, SubmitInput{
		RequestID:     session.RequestID,
		UserID:        session.UserID,
		ProductID:     session.Product.ID,
		Quote:         session.Quote,
		Quantity:      session.Quantity,
		Guest:         session.Guest(),
		PaymentMethod: session.Payment(),
		Voucher:       session.Voucher(),
	})
	if err != nil {
		return domain.Booking{}, err
	}

	if err := session.MarkSubmitted(); err != nil {
		return booking, err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	return booking, nil
}

func (s *CheckoutService) Abort(sessionID uuid.UUID) error {
	session, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	if err := session.Abort(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	return nil
}
