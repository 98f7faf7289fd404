package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/bagaskara/tripnusa/internal/domain"
	"github.com/bagaskara/tripnusa/internal/repository"
)

type mockStore struct {
	getProductFn            func(ctx context.Context, id uuid.UUID) (domain.Product, error)
	listProductsFn          func(ctx context.Context) ([]domain.Product, error)
	listVoucherOffersFn     func(ctx context.Context) ([]domain.VoucherOffer, error)
	getVoucherOfferFn       func(ctx context.Context, id uuid.UUID) (domain.VoucherOffer, error)
	listUserVouchersFn      func(ctx context.Context, userID string) ([]domain.UserVoucher, error)
	getUserVoucherFn        func(ctx context.Context, id uuid.UUID) (domain.UserVoucher, error)
	getBalanceFn            func(ctx context.Context, userID string) (domain.LoyaltyBalance, error)
	deductPointsFn          func(ctx context.Context, userID string, cost int64) (int64, error)
	addPointsFn             func(ctx context.Context, userID string, points int64) error
	decrementOfferStockFn   func(ctx context.Context, offerID uuid.UUID) (int64, error)
	insertUserVoucherFn     func(ctx context.Context, v domain.UserVoucher) error
	consumeUserVoucherFn    func(ctx context.Context, id uuid.UUID, userID string) (int64, error)
	insertBookingFn         func(ctx context.Context, b domain.Booking) (int64, error)
	getBookingByRequestIDFn func(ctx context.Context, requestID uuid.UUID) (domain.Booking, error)
	insertAccrualFn         func(ctx context.Context, bookingID uuid.UUID, userID string, points int64) (int64, error)
	execTxFn                func(ctx context.Context, fn func(repository.Querier) error) error
}

func (m *mockStore) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	if m.getProductFn != nil {
		return m.getProductFn(ctx, id)
	}
	return domain.Product{}, nil
}

func (m *mockStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if m.listProductsFn != nil {
		return m.listProductsFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) ListVoucherOffers(ctx context.Context) ([]domain.VoucherOffer, error) {
	if m.listVoucherOffersFn != nil {
		return m.listVoucherOffersFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) GetVoucherOffer(ctx context.Context, id uuid.UUID) (domain.VoucherOffer, error) {
	if m.getVoucherOfferFn != nil {
		return m.getVoucherOfferFn(ctx, id)
	}
	return domain.VoucherOffer{}, nil
}

func (m *mockStore) ListUserVouchers(ctx context.Context, userID string) ([]domain.UserVoucher, error) {
	if m.listUserVouchersFn != nil {
		return m.listUserVouchersFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStore) GetUserVoucher(ctx context.Context, id uuid.UUID) (domain.UserVoucher, error) {
	if m.getUserVoucherFn != nil {
		return m.getUserVoucherFn(ctx, id)
	}
	return domain.UserVoucher{}, nil
}

func (m *mockStore) GetBalance(ctx context.Context, userID string) (domain.LoyaltyBalance, error) {
	if m.getBalanceFn != nil {
		return m.getBalanceFn(ctx, userID)
	}
	return domain.LoyaltyBalance{UserID: userID}, nil
}

func (m *mockStore) DeductPoints(ctx context.Context, userID string, cost int64) (int64, error) {
	if m.deductPointsFn != nil {
		return m.deductPointsFn(ctx, userID, cost)
	}
	return 1, nil
}

func (m *mockStore) AddPoints(ctx context.Context, userID string, points int64) error {
	if m.addPointsFn != nil {
		return m.addPointsFn(ctx, userID, points)
	}
	return nil
}

func (m *mockStore) DecrementOfferStock(ctx context.Context, offerID uuid.UUID) (int64, error) {
	if m.decrementOfferStockFn != nil {
		return m.decrementOfferStockFn(ctx, offerID)
	}
	return 1, nil
}

func (m *mockStore) InsertUserVoucher(ctx context.Context, v domain.UserVoucher) error {
	if m.insertUserVoucherFn != nil {
		return m.insertUserVoucherFn(ctx, v)
	}
	return nil
}

func (m *mockStore) ConsumeUserVoucher(ctx context.Context, id uuid.UUID, userID string) (int64, error) {
	if m.consumeUserVoucherFn != nil {
		return m.consumeUserVoucherFn(ctx, id, userID)
	}
	return 1, nil
}

func (m *mockStore) InsertBooking(ctx context.Context, b domain.Booking) (int64, error) {
	if m.insertBookingFn != nil {
		return m.insertBookingFn(ctx, b)
	}
	return 1, nil
}

func (m *mockStore) GetBookingByRequestID(ctx context.Context, requestID uuid.UUID) (domain.Booking, error) {
	if m.getBookingByRequestIDFn != nil {
		return m.getBookingByRequestIDFn(ctx, requestID)
	}
	return domain.Booking{}, nil
}

func (m *mockStore) InsertAccrual(ctx context.Context, bookingID uuid.UUID, userID string, points int64) (int64, error) {
	if m.insertAccrualFn != nil {
		return m.insertAccrualFn(ctx, bookingID, userID, points)
	}
	return 1, nil
}

func (m *mockStore) ExecTx(ctx context.Context, fn func(repository.Querier) error) error {
	if m.execTxFn != nil {
		return m.execTxFn(ctx, fn)
	}
	return fn(m)
}

type mockDispatcher struct {
	dispatched []domain.Booking
	err        error
}

func (d *mockDispatcher) DispatchAccrual(_ context.Context, b domain.Booking) error {
	if d.err != nil {
		return d.err
	}
	d.dispatched = append(d.dispatched, b)
	return nil
}
