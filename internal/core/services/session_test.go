// internal/core/services/session_test.go
package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/caissepos/caisse-be/internal/core/domain"
	"github.com/caissepos/caisse-be/internal/core/ports"
	"github.com/caissepos/caisse-be/internal/core/services"
	"github.com/caissepos/caisse-be/test/helpers"
	"github.com/caissepos/caisse-be/test/mocks"
)

type sessionFixture struct {
	catalog *mocks.MockCatalogRepository
	orders  *mocks.MockOrderRepository
	cache   *mocks.MockCacheRepository
	svc     *services.SessionService
}

func newSessionFixture(t *testing.T) *sessionFixture {
	ctrl := gomock.NewController(t)
	f := &sessionFixture{
		catalog: mocks.NewMockCatalogRepository(ctrl),
		orders:  mocks.NewMockOrderRepository(ctrl),
		cache:   mocks.NewMockCacheRepository(ctrl),
	}

	// Cache passthrough: run the fetch and round-trip the result through
	// JSON into dest, exactly like a cold cache would.
	f.cache.EXPECT().
		GetOrSet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, dest interface{}, fetch func() (interface{}, error), _ time.Duration) error {
			v, err := fetch()
			if err != nil {
				return err
			}
			b, err := json.Marshal(v)
			if err != nil {
				return err
			}
			return json.Unmarshal(b, dest)
		}).
		AnyTimes()

	f.svc = services.NewSessionService(f.catalog, f.orders, f.cache, nil, time.Minute, helpers.TestLogger())
	return f
}

func (f *sessionFixture) openSession(t *testing.T) uuid.UUID {
	t.Helper()
	view, err := f.svc.Open(context.Background(), "cashier-1")
	require.NoError(t, err)
	return view.SessionID
}

func (f *sessionFixture) expectNoScaleConfigs() {
	f.catalog.EXPECT().ScaleConfigs(gomock.Any()).Return(nil, nil).AnyTimes()
}

func TestSessionService_ScanStandardCode(t *testing.T) {
	f := newSessionFixture(t)
	f.expectNoScaleConfigs()
	sessionID := f.openSession(t)

	product := helpers.CreateTestProduct()
	f.catalog.EXPECT().
		FindByCode(gomock.Any(), product.Code).
		Return(product, nil)

	out, err := f.svc.Scan(context.Background(), sessionID, product.Code)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(1).Equal(out.Line.Quantity))
	assert.True(t, product.EffectiveUnitPrice().Equal(out.Line.UnitPrice))
	assert.Nil(t, out.Clamp)
	assert.True(t, out.View.GrossTotal.Equal(out.Line.TotalPrice))

	// Same barcode again merges into the existing line.
	out, err = f.svc.Scan(context.Background(), sessionID, product.Code)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(out.Line.Quantity))
	require.Len(t, out.View.Lines, 1)
}

func TestSessionService_ScanScaleBarcode(t *testing.T) {
	f := newSessionFixture(t)

	f.catalog.EXPECT().ScaleConfigs(gomock.Any()).Return([]domain.ScaleConfig{
		{
			BarcodeLength: 13,
			BalanceCode:   "22",
			Product:       domain.ScaleField{Start: 2, Length: 5},
			Price:         domain.ScaleField{Start: 7, Length: 5},
		},
	}, nil).AnyTimes()

	// Base 60 + 10% tax = 66 with tax; ticket 14.850 -> 0.225 kg.
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.BasePrice = decimal.NewFromInt(60)
		p.TaxRate = decimal.NewFromInt(10)
		p.Stock = decimal.NewFromInt(50)
	})
	f.catalog.EXPECT().
		FindByScaleCode(gomock.Any(), "01234").
		Return(product, nil)

	sessionID := f.openSession(t)
	out, err := f.svc.Scan(context.Background(), sessionID, "2201234148509")
	require.NoError(t, err)

	assert.True(t, decimal.New(225, -3).Equal(out.Line.Quantity), "got %s", out.Line.Quantity)
	assert.True(t, decimal.NewFromInt(66).Equal(out.Line.UnitPrice))
	assert.True(t, decimal.New(14850, -3).Equal(out.Line.TotalPrice), "got %s", out.Line.TotalPrice)
}

func TestSessionService_ScanUnknownProduct(t *testing.T) {
	f := newSessionFixture(t)
	f.expectNoScaleConfigs()
	sessionID := f.openSession(t)

	f.catalog.EXPECT().
		FindByCode(gomock.Any(), "9999999000001").
		Return(nil, nil)

	_, err := f.svc.Scan(context.Background(), sessionID, "9999999000001")
	require.Error(t, err)
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.RejectUnknownProduct, rej.Code)
}

func TestSessionService_ScanUnknownSession(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.Scan(context.Background(), uuid.New(), "3560070048786")
	require.Error(t, err)
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.RejectSessionNotFound, rej.Code)
}

func TestSessionService_CommitLifecycle(t *testing.T) {
	f := newSessionFixture(t)
	f.expectNoScaleConfigs()
	sessionID := f.openSession(t)

	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.BasePrice = decimal.NewFromInt(100)
		p.TaxRate = decimal.Zero
	})
	f.catalog.EXPECT().FindByCode(gomock.Any(), product.Code).Return(product, nil).AnyTimes()

	_, err := f.svc.Scan(context.Background(), sessionID, product.Code)
	require.NoError(t, err)

	// Committing before the balance is settled is refused.
	_, err = f.svc.Commit(context.Background(), sessionID)
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.RejectNotSettled, rej.Code)

	tv, err := f.svc.ApplyTender(context.Background(), sessionID, domain.TenderCash, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.True(t, tv.Outcome.Settled)

	var committed *ports.TransactionPayload
	f.orders.EXPECT().
		Commit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *ports.TransactionPayload) error {
			committed = p
			return nil
		})

	view, err := f.svc.Commit(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, ports.TransactionStatusPaid, view.Status)
	require.NotNil(t, committed)
	assert.True(t, decimal.NewFromInt(100).Equal(committed.NetTotal))
	assert.True(t, decimal.NewFromInt(100).Equal(committed.Breakdown.Cash))
	require.Len(t, committed.Lines, 1)

	// The session is gone after a successful commit.
	_, err = f.svc.Get(context.Background(), sessionID)
	rej, ok = domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.RejectSessionNotFound, rej.Code)
}

func TestSessionService_CommitRetryAfterFailure(t *testing.T) {
	f := newSessionFixture(t)
	f.expectNoScaleConfigs()
	sessionID := f.openSession(t)

	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.BasePrice = decimal.NewFromInt(50)
		p.TaxRate = decimal.Zero
	})
	f.catalog.EXPECT().FindByCode(gomock.Any(), product.Code).Return(product, nil)

	_, err := f.svc.Scan(context.Background(), sessionID, product.Code)
	require.NoError(t, err)
	_, err = f.svc.ApplyTender(context.Background(), sessionID, domain.TenderCash, decimal.NewFromInt(50))
	require.NoError(t, err)

	gomock.InOrder(
		f.orders.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(errors.New("connection reset")),
		f.orders.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil),
	)

	_, err = f.svc.Commit(context.Background(), sessionID)
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err), "persistence failure must be retryable, got %v", err)

	// The session survived with its tender intact; the retry succeeds.
	view, err := f.svc.Get(context.Background(), sessionID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(view.Tendered))

	_, err = f.svc.Commit(context.Background(), sessionID)
	require.NoError(t, err)
}

func TestSessionService_CommitAfterFullDiscount(t *testing.T) {
	f := newSessionFixture(t)
	f.expectNoScaleConfigs()
	sessionID := f.openSession(t)

	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.BasePrice = decimal.NewFromInt(100)
		p.TaxRate = decimal.Zero
	})
	f.catalog.EXPECT().FindByCode(gomock.Any(), product.Code).Return(product, nil)

	_, err := f.svc.Scan(context.Background(), sessionID, product.Code)
	require.NoError(t, err)

	// A 100% remise leaves nothing to pay: the session settles without a
	// single tender and commits at a zero net total.
	view, err := f.svc.SetDiscount(context.Background(), sessionID, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementSettled, view.State)
	assert.True(t, view.Remaining.IsZero())

	var committed *ports.TransactionPayload
	f.orders.EXPECT().
		Commit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *ports.TransactionPayload) error {
			committed = p
			return nil
		})

	cv, err := f.svc.Commit(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, ports.TransactionStatusPaid, cv.Status)
	assert.True(t, cv.NetTotal.IsZero())
	require.NotNil(t, committed)
	assert.True(t, decimal.NewFromInt(100).Equal(committed.GrossTotal))
	assert.True(t, committed.NetTotal.IsZero())
}

func TestSessionService_CommitEmptyCart(t *testing.T) {
	f := newSessionFixture(t)
	sessionID := f.openSession(t)

	_, err := f.svc.Commit(context.Background(), sessionID)
	require.Error(t, err)
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.RejectEmptyCart, rej.Code)
}

func TestSessionService_TenderAgainstEmptyCart(t *testing.T) {
	f := newSessionFixture(t)
	sessionID := f.openSession(t)

	_, err := f.svc.ApplyTender(context.Background(), sessionID, domain.TenderCash, decimal.NewFromInt(10))
	require.Error(t, err)
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.RejectEmptyCart, rej.Code)
}

func TestSessionService_RemoveItemBlockedBelowTendered(t *testing.T) {
	f := newSessionFixture(t)
	f.expectNoScaleConfigs()
	sessionID := f.openSession(t)

	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.BasePrice = decimal.NewFromInt(40)
		p.TaxRate = decimal.Zero
	})
	f.catalog.EXPECT().FindByCode(gomock.Any(), product.Code).Return(product, nil)

	out, err := f.svc.Scan(context.Background(), sessionID, product.Code)
	require.NoError(t, err)
	_, err = f.svc.ApplyTender(context.Background(), sessionID, domain.TenderCash, decimal.NewFromInt(30))
	require.NoError(t, err)

	// Removing the only line would drop the target below the 30 tendered.
	_, err = f.svc.RemoveItem(context.Background(), sessionID, out.Line.ProductID)
	require.Error(t, err)
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.RejectBelowTendered, rej.Code)

	view, err := f.svc.Get(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
}

func TestSessionService_ParkAndResume(t *testing.T) {
	f := newSessionFixture(t)
	f.expectNoScaleConfigs()
	sessionID := f.openSession(t)

	product := helpers.CreateTestProduct()
	f.catalog.EXPECT().FindByCode(gomock.Any(), product.Code).Return(product, nil)
	f.catalog.EXPECT().FindByID(gomock.Any(), product.ID).Return(product, nil).AnyTimes()

	_, err := f.svc.Scan(context.Background(), sessionID, product.Code)
	require.NoError(t, err)

	var parked *ports.TransactionPayload
	f.orders.EXPECT().
		Commit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *ports.TransactionPayload) error {
			parked = p
			return nil
		})

	view, err := f.svc.Park(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, ports.TransactionStatusParked, view.Status)
	require.NotNil(t, parked)

	// Resume rebuilds a fresh session from the parked record.
	f.orders.EXPECT().FindByID(gomock.Any(), parked.ID).Return(&ports.TransactionRecord{
		ID:     parked.ID,
		Status: ports.TransactionStatusParked,
		Lines: []ports.TransactionLine{
			{
				LineID:     uuid.New(),
				ProductID:  product.ID,
				Code:       product.Code,
				Label:      product.Label,
				Quantity:   decimal.NewFromInt(1),
				UnitPrice:  product.EffectiveUnitPrice(),
				TotalPrice: product.EffectiveUnitPrice(),
			},
		},
		GrossTotal: parked.GrossTotal,
		NetTotal:   parked.NetTotal,
	}, nil)
	f.cache.EXPECT().
		SetNX(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil)

	resumed, err := f.svc.Resume(context.Background(), parked.ID, "cashier-2")
	require.NoError(t, err)
	require.Len(t, resumed.Lines, 1)
	assert.True(t, parked.GrossTotal.Equal(resumed.GrossTotal))

	// Paying the resumed session updates the parked row instead of
	// inserting a new transaction.
	_, err = f.svc.ApplyTender(context.Background(), resumed.SessionID, domain.TenderCash, resumed.Remaining)
	require.NoError(t, err)

	f.orders.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *ports.TransactionPayload) error {
			assert.Equal(t, parked.ID, p.ID)
			assert.Equal(t, ports.TransactionStatusPaid, p.Status)
			return nil
		})
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	commit, err := f.svc.Commit(context.Background(), resumed.SessionID)
	require.NoError(t, err)
	assert.Equal(t, parked.ID, commit.TransactionID)
}

func TestSessionService_ParkWithTendersRefused(t *testing.T) {
	f := newSessionFixture(t)
	f.expectNoScaleConfigs()
	sessionID := f.openSession(t)

	product := helpers.CreateTestProduct()
	f.catalog.EXPECT().FindByCode(gomock.Any(), product.Code).Return(product, nil)

	_, err := f.svc.Scan(context.Background(), sessionID, product.Code)
	require.NoError(t, err)
	_, err = f.svc.ApplyTender(context.Background(), sessionID, domain.TenderCash, decimal.NewFromInt(1))
	require.NoError(t, err)

	_, err = f.svc.Park(context.Background(), sessionID)
	require.Error(t, err)
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.RejectParkWithTenders, rej.Code)
}

func TestSessionService_ResumeRejections(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name       string
		setupMocks func(f *sessionFixture)
		wantReject domain.RejectCode
	}{
		{
			name: "unknown_transaction",
			setupMocks: func(f *sessionFixture) {
				f.orders.EXPECT().FindByID(gomock.Any(), orderID).Return(nil, nil)
			},
			wantReject: domain.RejectUnknownTransaction,
		},
		{
			name: "not_parked",
			setupMocks: func(f *sessionFixture) {
				f.orders.EXPECT().FindByID(gomock.Any(), orderID).Return(&ports.TransactionRecord{
					ID:     orderID,
					Status: ports.TransactionStatusPaid,
				}, nil)
			},
			wantReject: domain.RejectNotParked,
		},
		{
			name: "resume_already_in_flight",
			setupMocks: func(f *sessionFixture) {
				f.orders.EXPECT().FindByID(gomock.Any(), orderID).Return(&ports.TransactionRecord{
					ID:     orderID,
					Status: ports.TransactionStatusParked,
				}, nil)
				f.cache.EXPECT().
					SetNX(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantReject: domain.RejectSubmissionInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t)
			tt.setupMocks(f)

			_, err := f.svc.Resume(context.Background(), orderID, "cashier-1")
			require.Error(t, err)
			rej, ok := domain.AsRejection(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantReject, rej.Code)
		})
	}
}

func TestSessionService_SetDiscount(t *testing.T) {
	f := newSessionFixture(t)
	f.expectNoScaleConfigs()
	sessionID := f.openSession(t)

	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.BasePrice = decimal.NewFromInt(200)
		p.TaxRate = decimal.Zero
	})
	f.catalog.EXPECT().FindByCode(gomock.Any(), product.Code).Return(product, nil)

	_, err := f.svc.Scan(context.Background(), sessionID, product.Code)
	require.NoError(t, err)

	view, err := f.svc.SetDiscount(context.Background(), sessionID, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(180).Equal(view.Target))
	assert.True(t, decimal.NewFromInt(180).Equal(view.Remaining))
}
