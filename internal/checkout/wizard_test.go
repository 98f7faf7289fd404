package checkout

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bagaskara/tripnusa/internal/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testHotel() domain.Product {
	return domain.Product{
		ID:            uuid.New(),
		Kind:          domain.ProductHotel,
		Name:          "Grand Santika Yogyakarta",
		BaseUnitPrice: 1_000_000,
		TaxRateBP:     1000,
	}
}

func testAttraction() domain.Product {
	return domain.Product{
		ID:            uuid.New(),
		Kind:          domain.ProductAttraction,
		Name:          "Borobudur Sunrise Tour",
		BaseUnitPrice: 150_000,
	}
}

func validGuest() domain.GuestInfo {
	return domain.GuestInfo{
		Name:    "Raka Pratama",
		Email:   "raka@example.com",
		CheckIn: "2025-07-01",
	}
}

func startedSession(t *testing.T, p domain.Product) *Session {
	t.Helper()
	s, err := NewSession("user-1", p, 2, testNow)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestNewSession_RejectsZeroQuantity(t *testing.T) {
	_, err := NewSession("user-1", testHotel(), 0, testNow)
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestNewSession_SnapshotsFlashSale(t *testing.T) {
	p := testHotel()
	p.FlashDiscountPct = 30
	p.FlashUntil = testNow.Add(time.Hour)

	s := startedSession(t, p)
	if s.Quote.DiscountPct != 30 {
		t.Fatalf("expected active flash discount in quote, got %d", s.Quote.DiscountPct)
	}

	p.FlashUntil = testNow.Add(-time.Hour)
	s2, err := NewSession("user-1", p, 2, testNow)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if s2.Quote.DiscountPct != 0 {
		t.Fatalf("expected expired flash sale to be ignored, got %d", s2.Quote.DiscountPct)
	}
}

func TestSubmitGuest_MissingFieldsRefused(t *testing.T) {
	s := startedSession(t, testHotel())

	err := s.SubmitGuest(domain.GuestInfo{Email: "not-an-email"})
	fe := AsFieldErrors(err)
	if fe == nil {
		t.Fatalf("expected field errors, got %v", err)
	}
	if _, ok := fe.Fields()["name"]; !ok {
		t.Fatal("expected name to be flagged")
	}
	if _, ok := fe.Fields()["email"]; !ok {
		t.Fatal("expected email to be flagged")
	}
	if _, ok := fe.Fields()["check_in"]; !ok {
		t.Fatal("expected check_in to be flagged for a hotel")
	}
	if s.Step() != StepGuestDetails {
		t.Fatalf("session must stay in guest_details, got %s", s.Step())
	}
}

func TestSubmitGuest_AttractionNeedsNoDate(t *testing.T) {
	s := startedSession(t, testAttraction())

	g := validGuest()
	g.CheckIn = ""
	if err := s.SubmitGuest(g); err != nil {
		t.Fatalf("expected no error for attraction without date, got %v", err)
	}
	if s.Step() != StepPaymentMethod {
		t.Fatalf("expected payment_method step, got %s", s.Step())
	}
}

func TestChoosePayment_DefaultsToQRIS(t *testing.T) {
	s := startedSession(t, testHotel())
	if err := s.SubmitGuest(validGuest()); err != nil {
		t.Fatalf("submit guest: %v", err)
	}

	if err := s.ChoosePayment(""); err != nil {
		t.Fatalf("expected default payment to pass, got %v", err)
	}
	if s.Payment() != domain.PaymentQRIS {
		t.Fatalf("expected qris default, got %s", s.Payment())
	}
	if s.Step() != StepReview {
		t.Fatalf("expected review step, got %s", s.Step())
	}
}

func TestChoosePayment_UnknownMethodRefused(t *testing.T) {
	s := startedSession(t, testHotel())
	if err := s.SubmitGuest(validGuest()); err != nil {
		t.Fatalf("submit guest: %v", err)
	}

	if err := s.ChoosePayment("paypal"); !errors.Is(err, domain.ErrInvalidPayment) {
		t.Fatalf("expected ErrInvalidPayment, got %v", err)
	}
	if s.Step() != StepPaymentMethod {
		t.Fatalf("session must stay in payment_method, got %s", s.Step())
	}
}

func TestWizard_NoSkippingForward(t *testing.T) {
	s := startedSession(t, testHotel())

	if err := s.ChoosePayment(domain.PaymentGopay); !errors.Is(err, domain.ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep choosing payment from guest_details, got %v", err)
	}
	if _, err := s.Freeze(); !errors.Is(err, domain.ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep freezing from guest_details, got %v", err)
	}
	if err := s.MarkSubmitted(); !errors.Is(err, domain.ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep submitting from guest_details, got %v", err)
	}
}

func TestBack_OneStepAtATime(t *testing.T) {
	s := startedSession(t, testHotel())
	if err := s.SubmitGuest(validGuest()); err != nil {
		t.Fatalf("submit guest: %v", err)
	}
	if err := s.ChoosePayment(domain.PaymentTransfer); err != nil {
		t.Fatalf("choose payment: %v", err)
	}

	if err := s.Back(); err != nil {
		t.Fatalf("back from review: %v", err)
	}
	if s.Step() != StepPaymentMethod {
		t.Fatalf("expected payment_method, got %s", s.Step())
	}

	if err := s.Back(); err != nil {
		t.Fatalf("back from payment: %v", err)
	}
	if s.Step() != StepGuestDetails {
		t.Fatalf("expected guest_details, got %s", s.Step())
	}

	if err := s.Back(); !errors.Is(err, domain.ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep at first step, got %v", err)
	}
}

func TestFreeze_CachesBreakdownForRetry(t *testing.T) {
	s := startedSession(t, testHotel())
	if err := s.SubmitGuest(validGuest()); err != nil {
		t.Fatalf("submit guest: %v", err)
	}
	if err := s.ChoosePayment(""); err != nil {
		t.Fatalf("choose payment: %v", err)
	}

	first, err := s.Freeze()
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if first.Total != 2_200_000 {
		t.Fatalf("expected total 2200000, got %d", first.Total)
	}

	// A retry after a failed boundary call sees the same numbers.
	second, err := s.Freeze()
	if err != nil {
		t.Fatalf("freeze retry: %v", err)
	}
	if first != second {
		t.Fatalf("retry changed the frozen charge: %+v vs %+v", first, second)
	}
}

func TestAttachVoucher_InvalidatesFrozenCharge(t *testing.T) {
	s := startedSession(t, testHotel())
	if err := s.SubmitGuest(validGuest()); err != nil {
		t.Fatalf("submit guest: %v", err)
	}
	if err := s.ChoosePayment(""); err != nil {
		t.Fatalf("choose payment: %v", err)
	}
	if _, err := s.Freeze(); err != nil {
		t.Fatalf("freeze: %v", err)
	}

	v := &domain.UserVoucher{ID: uuid.New(), DiscountAmount: 300_000}
	if err := s.AttachVoucher(v); err != nil {
		t.Fatalf("attach voucher: %v", err)
	}

	b, err := s.Freeze()
	if err != nil {
		t.Fatalf("freeze after voucher: %v", err)
	}
	if b.Total != 1_900_000 {
		t.Fatalf("expected total 1900000 with voucher, got %d", b.Total)
	}
}

func TestAttachVoucher_UsedVoucherRefused(t *testing.T) {
	s := startedSession(t, testHotel())
	if err := s.SubmitGuest(validGuest()); err != nil {
		t.Fatalf("submit guest: %v", err)
	}
	if err := s.ChoosePayment(""); err != nil {
		t.Fatalf("choose payment: %v", err)
	}

	v := &domain.UserVoucher{ID: uuid.New(), DiscountAmount: 300_000, IsUsed: true}
	if err := s.AttachVoucher(v); !errors.Is(err, domain.ErrVoucherAlreadyUsed) {
		t.Fatalf("expected ErrVoucherAlreadyUsed, got %v", err)
	}
}

func TestMarkSubmitted_RequiresFrozenCharge(t *testing.T) {
	s := startedSession(t, testHotel())
	if err := s.SubmitGuest(validGuest()); err != nil {
		t.Fatalf("submit guest: %v", err)
	}
	if err := s.ChoosePayment(""); err != nil {
		t.Fatalf("choose payment: %v", err)
	}

	if err := s.MarkSubmitted(); !errors.Is(err, domain.ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep before freeze, got %v", err)
	}

	if _, err := s.Freeze(); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if err := s.MarkSubmitted(); err != nil {
		t.Fatalf("mark submitted: %v", err)
	}
	if s.Step() != StepSubmitted {
		t.Fatalf("expected submitted, got %s", s.Step())
	}
}

func TestTerminalSession_RejectsEverything(t *testing.T) {
	s := startedSession(t, testHotel())
	if err := s.Abort(); err != nil {
		t.Fatalf("abort: %v", err)
	}

	if err := s.SubmitGuest(validGuest()); !errors.Is(err, domain.ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished, got %v", err)
	}
	if err := s.Back(); !errors.Is(err, domain.ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished, got %v", err)
	}
	if err := s.Abort(); !errors.Is(err, domain.ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished on double abort, got %v", err)
	}
}
