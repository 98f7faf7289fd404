package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bagaskara/tripnusa/internal/checkout"
	"github.com/bagaskara/tripnusa/internal/domain"
	"github.com/bagaskara/tripnusa/internal/usecase"
)

type StartCheckoutRequest struct {
	UserID    string    `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int32     `json:"quantity"`
}

type PaymentRequest struct {
	Method domain.PaymentMethod `json:"method"`
}

type SelectVoucherRequest struct {
	VoucherID *uuid.UUID `json:"voucher_id"`
}

type RedeemVoucherRequest struct {
	UserID  string    `json:"user_id"`
	OfferID uuid.UUID `json:"offer_id"`
}

type QuoteResponse struct {
	Quote     domain.RateQuote       `json:"quote"`
	Breakdown domain.ChargeBreakdown `json:"breakdown"`
}

type SessionResponse struct {
	SessionID     uuid.UUID            `json:"session_id"`
	Step          checkout.Step        `json:"step"`
	ProductID     uuid.UUID            `json:"product_id"`
	Quantity      int32                `json:"quantity"`
	Quote         domain.RateQuote     `json:"quote"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	VoucherID     *uuid.UUID           `json:"voucher_id,omitempty"`
}

type FieldErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

type Handler struct {
	bookings *usecase.BookingService
	loyalty  *usecase.LoyaltyService
	checkout *usecase.CheckoutService
}

func NewHandler(bookings *usecase.BookingService, loyalty *usecase.LoyaltyService, checkoutSvc *usecase.CheckoutService) *Handler {
	return &Handler{
		bookings: bookings,
		loyalty:  loyalty,
		checkout: checkoutSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}/quote", h.GetQuote)

		r.Post("/checkout", h.StartCheckout)
		r.Route("/checkout/{id}", func(r chi.Router) {
			r.Get("/", h.GetCheckout)
			r.Post("/guest", h.SubmitGuest)
			r.Post("/payment", h.ChoosePayment)
			r.Post("/back", h.StepBack)
			r.Post("/voucher", h.SelectVoucher)
			r.Post("/submit", h.Submit)
			r.Post("/abort", h.Abort)
		})

		r.Get("/vouchers", h.ListVoucherOffers)
		r.Post("/vouchers/redeem", h.RedeemVoucher)
		r.Get("/users/{userID}/vouchers", h.ListUserVouchers)
		r.Get("/users/{userID}/loyalty", h.GetLoyalty)
	})
}

func sessionResponse(s *checkout.Session) SessionResponse {
	resp := SessionResponse{
		SessionID:     s.ID,
		Step:          s.Step(),
		ProductID:     s.Product.ID,
		Quantity:      s.Quantity,
		Quote:         s.Quote,
		PaymentMethod: s.Payment(),
	}
	if v := s.Voucher(); v != nil {
		resp.VoucherID = &v.ID
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses. Validation failures
// carry the fields at fault so the client can highlight them.
func writeError(w http.ResponseWriter, err error) {
	if fe := checkout.AsFieldErrors(err); fe != nil {
		writeJSON(w, http.StatusBadRequest, FieldErrorResponse{Errors: fe.Fields()})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidDiscount),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidPayment):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrVoucherAlreadyUsed),
		errors.Is(err, domain.ErrVoucherUnavailable),
		errors.Is(err, domain.ErrSoldOut),
		errors.Is(err, domain.ErrInsufficientPoints),
		errors.Is(err, domain.ErrInvalidStep):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrSessionFinished):
		http.Error(w, err.Error(), http.StatusGone)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.bookings.ListProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	quantity := int32(1)
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid quantity", http.StatusBadRequest)
			return
		}
		quantity = int32(parsed)
	}

	quote, breakdown, err := h.bookings.Quote(r.Context(), productID, quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QuoteResponse{Quote: quote, Breakdown: breakdown})
}

func (h *Handler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	var req StartCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	session, err := h.checkout.Start(r.Context(), req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse(session))
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.checkout.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(session))
}

func (h *Handler) SubmitGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var info domain.GuestInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.checkout.SubmitGuest(id, info)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(session))
}

func (h *Handler) ChoosePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.checkout.ChoosePayment(id, req.Method)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(session))
}

func (h *Handler) StepBack(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.checkout.Back(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(session))
}

func (h *Handler) SelectVoucher(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req SelectVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.checkout.SelectVoucher(r.Context(), id, req.VoucherID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(session))
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	booking, err := h.checkout.Submit(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handler) Abort(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.checkout.Abort(id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListVoucherOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.loyalty.ListVoucherOffers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if offers == nil {
		offers = []domain.VoucherOffer{}
	}
	writeJSON(w, http.StatusOK, offers)
}

func (h *Handler) RedeemVoucher(w http.ResponseWriter, r *http.Request) {
	var req RedeemVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	voucher, err := h.loyalty.RedeemVoucher(r.Context(), req.UserID, req.OfferID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, voucher)
}

func (h *Handler) ListUserVouchers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	vouchers, err := h.loyalty.ListUserVouchers(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if vouchers == nil {
		vouchers = []domain.UserVoucher{}
	}
	writeJSON(w, http.StatusOK, vouchers)
}

func (h *Handler) GetLoyalty(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	view, err := h.loyalty.Balance(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
