// Package checkout implements the guided booking wizard: a linear
// sequence of steps that gates progression on field validation and
// hands a frozen charge to the booking boundary on submit.
package checkout

import (
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/bagaskara/tripnusa/internal/domain"
	"github.com/bagaskara/tripnusa/internal/pricing"
)

type Step string

const (
	StepGuestDetails  Step = "guest_details"
	StepPaymentMethod Step = "payment_method"
	StepReview        Step = "review_and_confirm"
	StepSubmitted     Step = "submitted"
	StepAborted       Step = "aborted"
)

// Session is one booking attempt. It is owned by a single user's
// single browsing session, lives in memory only, and is never reused
// once it reaches a terminal step.
type Session struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	UserID    string
	Product   domain.Product
	Quote     domain.RateQuote
	Quantity  int32

	step    Step
	guest   domain.GuestInfo
	payment domain.PaymentMethod
	voucher *domain.UserVoucher
	frozen  *domain.ChargeBreakdown
}

// NewSession starts a wizard at the guest-details step. The quote is
// snapshotted here so a flash sale ending mid-checkout does not change
// the price under the user.
func NewSession(userID string, product domain.Product, quantity int32, now time.Time) (*Session, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	return &Session{
		ID:        uuid.New(),
		RequestID: uuid.New(),
		UserID:    userID,
		Product:   product,
		Quote:     product.Quote(now),
		Quantity:  quantity,
		step:      StepGuestDetails,
		payment:   domain.PaymentQRIS,
	}, nil
}

func (s *Session) Step() Step {
	return s.step
}

func (s *Session) Guest() domain.GuestInfo {
	return s.guest
}

func (s *Session) Payment() domain.PaymentMethod {
	return s.payment
}

func (s *Session) Voucher() *domain.UserVoucher {
	return s.voucher
}

func (s *Session) terminal() bool {
	return s.step == StepSubmitted || s.step == StepAborted
}

func validateGuest(info domain.GuestInfo, dateBound bool) error {
	fe := newFieldErrors()

	if info.Name == "" {
		fe.add("name", "provide guest name")
	}

	if _, err := mail.ParseAddress(info.Email); err != nil {
		fe.add("email", "provide valid email")
	}

	if dateBound {
		if info.CheckIn == "" {
			fe.add("check_in", "provide check-in date")
		} else if _, err := time.Parse("2006-01-02", info.CheckIn); err != nil {
			fe.add("check_in", "check-in date must be YYYY-MM-DD")
		}
	}

	if fe.Count() > 0 {
		return fe
	}

	return nil
}

// SubmitGuest validates the guest step and advances to payment. On
// validation failure the session stays in guest_details and the
// returned error carries the fields at fault.
func (s *Session) SubmitGuest(info domain.GuestInfo) error {
	if s.terminal() {
		return domain.ErrSessionFinished
	}
	if s.step != StepGuestDetails {
		return domain.ErrInvalidStep
	}

	if err := validateGuest(info, s.Product.Kind.DateBound()); err != nil {
		return err
	}

	s.guest = info
	s.step = StepPaymentMethod

	return nil
}

// ChoosePayment records the payment method and advances to review. An
// empty method falls back to the qris default, so the transition never
// blocks on a missing selection.
func (s *Session) ChoosePayment(method domain.PaymentMethod) error {
	if s.terminal() {
		return domain.ErrSessionFinished
	}
	if s.step != StepPaymentMethod {
		return domain.ErrInvalidStep
	}

	if method == "" {
		method = domain.PaymentQRIS
	}
	if !domain.ValidPaymentMethod(method) {
		return domain.ErrInvalidPayment
	}

	s.payment = method
	s.step = StepReview

	return nil
}

// Back steps backward exactly one step. Entered data is kept so the
// user does not retype it.
func (s *Session) Back() error {
	if s.terminal() {
		return domain.ErrSessionFinished
	}

	switch s.step {
	case StepPaymentMethod:
		s.step = StepGuestDetails
	case StepReview:
		s.step = StepPaymentMethod
		s.frozen = nil
	default:
		return domain.ErrInvalidStep
	}

	return nil
}

// AttachVoucher selects a voucher at the review step. Passing nil
// clears the selection.
func (s *Session) AttachVoucher(v *domain.UserVoucher) error {
	if s.terminal() {
		return domain.ErrSessionFinished
	}
	if s.step != StepReview {
		return domain.ErrInvalidStep
	}
	if v != nil && v.IsUsed {
		return domain.ErrVoucherAlreadyUsed
	}

	s.voucher = v
	s.frozen = nil

	return nil
}

// Freeze computes the charge breakdown for submission. The result is
// cached so a retried submission after a boundary failure uses the
// exact same numbers.
func (s *Session) Freeze() (domain.ChargeBreakdown, error) {
	if s.terminal() {
		return domain.ChargeBreakdown{}, domain.ErrSessionFinished
	}
	if s.step != StepReview {
		return domain.ChargeBreakdown{}, domain.ErrInvalidStep
	}

	if s.frozen != nil {
		return *s.frozen, nil
	}

	b, err := pricing.Calculate(s.Quote, s.Quantity, s.voucher)
	if err != nil {
		return domain.ChargeBreakdown{}, err
	}

	s.frozen = &b

	return b, nil
}

// MarkSubmitted moves the session to its success terminal step. Only
// valid after Freeze, i.e. when a charge has actually been handed to
// the booking boundary.
func (s *Session) MarkSubmitted() error {
	if s.terminal() {
		return domain.ErrSessionFinished
	}
	if s.step != StepReview || s.frozen == nil {
		return domain.ErrInvalidStep
	}

	s.step = StepSubmitted

	return nil
}

// Abort cancels the attempt from any non-terminal step. Nothing has
// been written anywhere yet, so there is no rollback.
func (s *Session) Abort() error {
	if s.terminal() {
		return domain.ErrSessionFinished
	}

	s.step = StepAborted

	return nil
}
