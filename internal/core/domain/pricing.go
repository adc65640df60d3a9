// internal/core/domain/pricing.go
package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// LotTier is a bulk-pack price: buying Quantity units at once costs Price
// instead of Quantity times the unit price.
type LotTier struct {
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ComputeLineTotal prices quantity units using greedy largest-tier-first
// decomposition: each tier is consumed in whole multiples, largest pack
// first, and whatever is left is charged at the unit price. Tiers with a
// non-positive quantity are ignored. Processing tiers in a fixed total order
// keeps the result deterministic and tie-break-free.
func ComputeLineTotal(unitPrice decimal.Decimal, tiers []LotTier, quantity decimal.Decimal) decimal.Decimal {
	if !quantity.IsPositive() {
		return decimal.Zero
	}
	if len(tiers) == 0 {
		return RoundAmount(unitPrice.Mul(quantity))
	}

	ordered := make([]LotTier, 0, len(tiers))
	for _, t := range tiers {
		if t.Quantity > 0 {
			ordered = append(ordered, t)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Quantity > ordered[j].Quantity
	})

	total := decimal.Zero
	remaining := quantity
	for _, tier := range ordered {
		tierQty := decimal.NewFromInt(tier.Quantity)
		if remaining.LessThan(tierQty) {
			continue
		}
		count := remaining.Div(tierQty).Floor()
		total = total.Add(tier.Price.Mul(count))
		remaining = remaining.Sub(count.Mul(tierQty))
	}

	total = total.Add(unitPrice.Mul(remaining))
	return RoundAmount(total)
}
