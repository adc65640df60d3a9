// internal/core/services/transactions_test.go
package services_test

import (
	"context"
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

func TestTransactionsService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	svc := services.NewTransactionsService(orders, helpers.TestLogger())

	// Out-of-range paging is normalized before it reaches the repository.
	orders.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params ports.ListParams) (*ports.ListResult, error) {
			assert.Equal(t, 1, params.Page)
			assert.Equal(t, 50, params.PageSize)
			return &ports.ListResult{Page: params.Page, PageSize: params.PageSize}, nil
		})

	result, err := svc.List(context.Background(), ports.ListParams{Page: 0, PageSize: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
}

func TestTransactionsService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	svc := services.NewTransactionsService(orders, helpers.TestLogger())

	id := uuid.New()
	orders.EXPECT().FindByID(gomock.Any(), id).Return(nil, nil)

	_, err := svc.GetByID(context.Background(), id)
	require.Error(t, err)
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.RejectUnknownTransaction, rej.Code)
}

func TestTransactionsService_DayReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	svc := services.NewTransactionsService(orders, helpers.TestLogger())

	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	orders.EXPECT().ListByDay(gomock.Any(), day).Return([]*ports.TransactionRecord{
		{
			GrossTotal: decimal.NewFromInt(100),
			NetTotal:   decimal.NewFromInt(90),
			Breakdown: domain.TenderBreakdown{
				Cash: decimal.NewFromInt(40),
				Card: decimal.NewFromInt(50),
			},
		},
		{
			GrossTotal: decimal.New(14850, -3),
			NetTotal:   decimal.New(14850, -3),
			Breakdown: domain.TenderBreakdown{
				Cash:    decimal.New(4850, -3),
				Voucher: decimal.NewFromInt(10),
			},
		},
	}, nil)

	report, err := svc.DayReport(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TransactionCount)
	assert.True(t, decimal.New(114850, -3).Equal(report.GrossTotal), "got %s", report.GrossTotal)
	assert.True(t, decimal.New(104850, -3).Equal(report.NetTotal))
	assert.True(t, decimal.New(44850, -3).Equal(report.Cash))
	assert.True(t, decimal.NewFromInt(50).Equal(report.Card))
	assert.True(t, decimal.NewFromInt(10).Equal(report.Voucher))
}
