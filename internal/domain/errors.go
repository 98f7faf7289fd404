package domain

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidDiscount    = errors.New("discount percent must be between 0 and 100")
	ErrInvalidPrice       = errors.New("unit price must not be negative")
	ErrVoucherAlreadyUsed = errors.New("voucher has already been used")
	ErrVoucherUnavailable = errors.New("voucher is no longer available")
	ErrInsufficientPoints = errors.New("not enough points to redeem voucher")
	ErrSoldOut            = errors.New("voucher offer is sold out")
	ErrSessionFinished    = errors.New("checkout session already finished")
	ErrInvalidStep        = errors.New("operation not allowed at current checkout step")
	ErrInvalidPayment     = errors.New("unknown payment method")
)
