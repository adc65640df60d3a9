package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caissepos/caisse-be/internal/core/domain"
)

func addItemFixture(productID uuid.UUID, qty, stock int64) domain.AddItem {
	return domain.AddItem{
		ProductID:      productID,
		Code:           "3560070048786",
		Label:          "Olive oil 1L",
		Quantity:       decimal.NewFromInt(qty),
		UnitPrice:      decimal.NewFromInt(10),
		AvailableStock: decimal.NewFromInt(stock),
	}
}

func TestCart_AddOrMerge(t *testing.T) {
	productID := uuid.New()

	t.Run("adds_new_line", func(t *testing.T) {
		cart := domain.NewCart()

		line, clamp, err := cart.AddOrMerge(addItemFixture(productID, 2, 100))
		require.NoError(t, err)
		assert.Nil(t, clamp)
		assert.True(t, decimal.NewFromInt(2).Equal(line.Quantity))
		assert.True(t, decimal.NewFromInt(20).Equal(line.TotalPrice))
		assert.Len(t, cart.Lines(), 1)
	})

	t.Run("merges_repeated_scan_into_one_line", func(t *testing.T) {
		cart := domain.NewCart()

		_, _, err := cart.AddOrMerge(addItemFixture(productID, 2, 100))
		require.NoError(t, err)
		line, clamp, err := cart.AddOrMerge(addItemFixture(productID, 3, 100))
		require.NoError(t, err)

		assert.Nil(t, clamp)
		assert.True(t, decimal.NewFromInt(5).Equal(line.Quantity))
		assert.Len(t, cart.Lines(), 1)
	})

	t.Run("clamps_to_available_stock", func(t *testing.T) {
		cart := domain.NewCart()

		_, _, err := cart.AddOrMerge(addItemFixture(productID, 4, 5))
		require.NoError(t, err)
		line, clamp, err := cart.AddOrMerge(addItemFixture(productID, 4, 5))
		require.NoError(t, err)

		require.NotNil(t, clamp)
		assert.True(t, decimal.NewFromInt(8).Equal(clamp.Requested))
		assert.True(t, decimal.NewFromInt(5).Equal(clamp.Clamped))
		assert.True(t, decimal.NewFromInt(5).Equal(line.Quantity))
	})

	t.Run("rejects_non_positive_quantity", func(t *testing.T) {
		cart := domain.NewCart()

		_, _, err := cart.AddOrMerge(addItemFixture(productID, 0, 100))
		require.Error(t, err)
		rej, ok := domain.AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, domain.RejectNonPositiveQuantity, rej.Code)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("preserves_insertion_order", func(t *testing.T) {
		cart := domain.NewCart()
		first, second := uuid.New(), uuid.New()

		_, _, err := cart.AddOrMerge(addItemFixture(first, 1, 100))
		require.NoError(t, err)
		_, _, err = cart.AddOrMerge(addItemFixture(second, 1, 100))
		require.NoError(t, err)
		_, _, err = cart.AddOrMerge(addItemFixture(first, 1, 100))
		require.NoError(t, err)

		lines := cart.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, first, lines[0].ProductID)
		assert.Equal(t, second, lines[1].ProductID)
	})
}

func TestCart_SetQuantity(t *testing.T) {
	productID := uuid.New()
	stock := decimal.NewFromInt(10)

	newCartWithLine := func(t *testing.T) *domain.Cart {
		cart := domain.NewCart()
		_, _, err := cart.AddOrMerge(addItemFixture(productID, 2, 10))
		require.NoError(t, err)
		return cart
	}

	tests := []struct {
		name       string
		productID  uuid.UUID
		quantity   decimal.Decimal
		wantReject domain.RejectCode
		wantQty    decimal.Decimal
	}{
		{
			name:      "updates_quantity_and_total",
			productID: productID,
			quantity:  decimal.NewFromInt(7),
			wantQty:   decimal.NewFromInt(7),
		},
		{
			name:      "zero_keeps_line_at_zero_total",
			productID: productID,
			quantity:  decimal.Zero,
			wantQty:   decimal.Zero,
		},
		{
			name:       "unknown_line_rejected",
			productID:  uuid.New(),
			quantity:   decimal.NewFromInt(1),
			wantReject: domain.RejectLineNotFound,
		},
		{
			name:       "negative_rejected",
			productID:  productID,
			quantity:   decimal.NewFromInt(-1),
			wantReject: domain.RejectNonPositiveQuantity,
		},
		{
			name:       "exceeds_stock_rejected",
			productID:  productID,
			quantity:   decimal.NewFromInt(11),
			wantReject: domain.RejectExceedsStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := newCartWithLine(t)

			line, err := cart.SetQuantity(tt.productID, tt.quantity, stock)

			if tt.wantReject != "" {
				require.Error(t, err)
				rej, ok := domain.AsRejection(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantReject, rej.Code)

				// Rejected updates leave the line untouched.
				kept, found := cart.Line(productID)
				require.True(t, found)
				assert.True(t, decimal.NewFromInt(2).Equal(kept.Quantity))
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.wantQty.Equal(line.Quantity))
			assert.True(t, domain.ComputeLineTotal(line.UnitPrice, line.LotTiers, tt.wantQty).Equal(line.TotalPrice))
		})
	}
}

func TestCart_Remove(t *testing.T) {
	cart := domain.NewCart()
	first, second, third := uuid.New(), uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{first, second, third} {
		_, _, err := cart.AddOrMerge(addItemFixture(id, 1, 100))
		require.NoError(t, err)
	}

	assert.True(t, cart.Remove(second))
	assert.False(t, cart.Remove(second), "second removal of the same line must report false")

	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, first, lines[0].ProductID)
	assert.Equal(t, third, lines[1].ProductID)

	// The index must have been rebuilt: mutate the surviving tail line.
	_, err := cart.SetQuantity(third, decimal.NewFromInt(4), decimal.NewFromInt(100))
	require.NoError(t, err)
	line, ok := cart.Line(third)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(4).Equal(line.Quantity))
}

func TestCart_Total(t *testing.T) {
	cart := domain.NewCart()
	assert.True(t, cart.Total().IsZero())

	_, _, err := cart.AddOrMerge(domain.AddItem{
		ProductID:      uuid.New(),
		Quantity:       decimal.NewFromInt(14),
		UnitPrice:      decimal.NewFromInt(10),
		LotTiers:       []domain.LotTier{{Quantity: 6, Price: decimal.NewFromInt(50)}},
		AvailableStock: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	_, _, err = cart.AddOrMerge(domain.AddItem{
		ProductID:      uuid.New(),
		Quantity:       decimal.New(225, -3),
		UnitPrice:      decimal.NewFromInt(66),
		AvailableStock: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// 120 from the lot-priced line + 14.850 from the weighed line.
	assert.True(t, decimal.New(134850, -3).Equal(cart.Total()), "got %s", cart.Total())

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())
}
