package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caissepos/caisse-be/internal/core/domain"
)

func saleLinesFixture() []domain.SaleLine {
	return []domain.SaleLine{
		{
			LineID:       uuid.New(),
			ProductID:    uuid.New(),
			Label:        "Olive oil 1L",
			QuantitySold: decimal.NewFromInt(3),
			UnitTotal:    decimal.NewFromInt(30),
		},
		{
			LineID:       uuid.New(),
			ProductID:    uuid.New(),
			Label:        "Comte, sliced",
			QuantitySold: decimal.New(225, -3),
			UnitTotal:    decimal.New(14850, -3),
		},
	}
}

func TestBuildReturn(t *testing.T) {
	orderID := uuid.New()

	t.Run("full_return_refunds_line_totals", func(t *testing.T) {
		lines := saleLinesFixture()
		rec, err := domain.BuildReturn(orderID, lines, decimal.Zero, map[uuid.UUID]decimal.Decimal{
			lines[0].LineID: decimal.NewFromInt(3),
			lines[1].LineID: decimal.New(225, -3),
		})
		require.NoError(t, err)

		require.Len(t, rec.Lines, 2)
		assert.Equal(t, orderID, rec.OrderID)
		assert.True(t, decimal.NewFromInt(30).Equal(rec.Lines[0].Refund))
		assert.True(t, decimal.New(14850, -3).Equal(rec.Lines[1].Refund))
		assert.True(t, decimal.New(44850, -3).Equal(rec.TotalRefund), "got %s", rec.TotalRefund)
	})

	t.Run("partial_return_refunds_proportionally", func(t *testing.T) {
		lines := saleLinesFixture()
		rec, err := domain.BuildReturn(orderID, lines, decimal.Zero, map[uuid.UUID]decimal.Decimal{
			lines[0].LineID: decimal.NewFromInt(1),
		})
		require.NoError(t, err)

		require.Len(t, rec.Lines, 1)
		assert.True(t, decimal.NewFromInt(10).Equal(rec.Lines[0].Refund))
	})

	t.Run("zero_quantities_skipped", func(t *testing.T) {
		lines := saleLinesFixture()
		rec, err := domain.BuildReturn(orderID, lines, decimal.Zero, map[uuid.UUID]decimal.Decimal{
			lines[0].LineID: decimal.NewFromInt(2),
			lines[1].LineID: decimal.Zero,
		})
		require.NoError(t, err)
		require.Len(t, rec.Lines, 1)
		assert.Equal(t, lines[0].LineID, rec.Lines[0].LineID)
	})

	t.Run("lines_keep_sale_order", func(t *testing.T) {
		lines := saleLinesFixture()
		rec, err := domain.BuildReturn(orderID, lines, decimal.Zero, map[uuid.UUID]decimal.Decimal{
			lines[1].LineID: decimal.New(100, -3),
			lines[0].LineID: decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		require.Len(t, rec.Lines, 2)
		assert.Equal(t, lines[0].LineID, rec.Lines[0].LineID)
		assert.Equal(t, lines[1].LineID, rec.Lines[1].LineID)
	})
}

func TestBuildReturn_Rejections(t *testing.T) {
	orderID := uuid.New()
	lines := saleLinesFixture()

	tests := []struct {
		name       string
		requested  func() map[uuid.UUID]decimal.Decimal
		wantReject domain.RejectCode
	}{
		{
			name: "unknown_line",
			requested: func() map[uuid.UUID]decimal.Decimal {
				return map[uuid.UUID]decimal.Decimal{uuid.New(): decimal.NewFromInt(1)}
			},
			wantReject: domain.RejectUnknownSaleLine,
		},
		{
			name: "negative_quantity",
			requested: func() map[uuid.UUID]decimal.Decimal {
				return map[uuid.UUID]decimal.Decimal{lines[0].LineID: decimal.NewFromInt(-1)}
			},
			wantReject: domain.RejectQuantityOutOfRange,
		},
		{
			name: "exceeds_quantity_sold",
			requested: func() map[uuid.UUID]decimal.Decimal {
				return map[uuid.UUID]decimal.Decimal{lines[0].LineID: decimal.NewFromInt(4)}
			},
			wantReject: domain.RejectQuantityOutOfRange,
		},
		{
			name: "empty_request",
			requested: func() map[uuid.UUID]decimal.Decimal {
				return map[uuid.UUID]decimal.Decimal{}
			},
			wantReject: domain.RejectEmptyReturn,
		},
		{
			name: "all_zero_request",
			requested: func() map[uuid.UUID]decimal.Decimal {
				return map[uuid.UUID]decimal.Decimal{lines[0].LineID: decimal.Zero}
			},
			wantReject: domain.RejectEmptyReturn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.BuildReturn(orderID, lines, decimal.Zero, tt.requested())
			requireReject(t, err, tt.wantReject)
		})
	}
}

func TestBuildReturn_AllOrNothing(t *testing.T) {
	orderID := uuid.New()
	lines := saleLinesFixture()

	// One valid and one out-of-range line: nothing is accepted.
	_, err := domain.BuildReturn(orderID, lines, decimal.Zero, map[uuid.UUID]decimal.Decimal{
		lines[0].LineID: decimal.NewFromInt(1),
		lines[1].LineID: decimal.NewFromInt(99),
	})
	requireReject(t, err, domain.RejectQuantityOutOfRange)
}

func TestBuildReturn_RespectsAlreadyReturned(t *testing.T) {
	orderID := uuid.New()
	lines := saleLinesFixture()
	lines[0].QuantityReturned = decimal.NewFromInt(2)

	// Only one of three units remains returnable.
	_, err := domain.BuildReturn(orderID, lines, decimal.Zero, map[uuid.UUID]decimal.Decimal{
		lines[0].LineID: decimal.NewFromInt(2),
	})
	requireReject(t, err, domain.RejectQuantityOutOfRange)

	rec, err := domain.BuildReturn(orderID, lines, decimal.Zero, map[uuid.UUID]decimal.Decimal{
		lines[0].LineID: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(rec.TotalRefund))
}

func TestBuildReturn_DiscountedSaleRefundsWhatWasPaid(t *testing.T) {
	orderID := uuid.New()
	line := domain.SaleLine{
		LineID:       uuid.New(),
		ProductID:    uuid.New(),
		QuantitySold: decimal.NewFromInt(1),
		UnitTotal:    decimal.NewFromInt(100),
	}

	t.Run("full_return_refunds_net", func(t *testing.T) {
		rec, err := domain.BuildReturn(orderID, []domain.SaleLine{line}, decimal.NewFromInt(10), map[uuid.UUID]decimal.Decimal{
			line.LineID: decimal.NewFromInt(1),
		})
		require.NoError(t, err)

		// The customer paid 90 after the 10% remise, so 90 comes back, not
		// the pre-remise 100.
		assert.True(t, decimal.NewFromInt(90).Equal(rec.TotalRefund), "got %s", rec.TotalRefund)
	})

	t.Run("partial_return_scales_net", func(t *testing.T) {
		multi := line
		multi.QuantitySold = decimal.NewFromInt(4)
		rec, err := domain.BuildReturn(orderID, []domain.SaleLine{multi}, decimal.NewFromInt(10), map[uuid.UUID]decimal.Decimal{
			multi.LineID: decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		assert.True(t, decimal.New(22500, -3).Equal(rec.TotalRefund), "got %s", rec.TotalRefund)
	})

	t.Run("full_discount_refunds_nothing_owed", func(t *testing.T) {
		rec, err := domain.BuildReturn(orderID, []domain.SaleLine{line}, decimal.NewFromInt(100), map[uuid.UUID]decimal.Decimal{
			line.LineID: decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		assert.True(t, rec.TotalRefund.IsZero())
	})

	t.Run("out_of_range_discount_rejected", func(t *testing.T) {
		_, err := domain.BuildReturn(orderID, []domain.SaleLine{line}, decimal.NewFromInt(101), map[uuid.UUID]decimal.Decimal{
			line.LineID: decimal.NewFromInt(1),
		})
		requireReject(t, err, domain.RejectDiscountOutOfRange)
	})
}

func TestBuildReturn_RefundNeverExceedsLineTotal(t *testing.T) {
	// A quantity whose proportional share rounds up must still be clamped to
	// the original line total.
	line := domain.SaleLine{
		LineID:       uuid.New(),
		ProductID:    uuid.New(),
		QuantitySold: decimal.NewFromInt(3),
		UnitTotal:    decimal.New(10, -3),
	}

	rec, err := domain.BuildReturn(uuid.New(), []domain.SaleLine{line}, decimal.Zero, map[uuid.UUID]decimal.Decimal{
		line.LineID: decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	assert.True(t, rec.TotalRefund.LessThanOrEqual(line.UnitTotal),
		"refund %s exceeds sale total %s", rec.TotalRefund, line.UnitTotal)
}
