// internal/core/domain/retour.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLine is a line of a previously committed transaction, read-only to the
// return reconciler.
type SaleLine struct {
	LineID           uuid.UUID       `json:"line_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	Label            string          `json:"label"`
	QuantitySold     decimal.Decimal `json:"quantity_sold"`
	QuantityReturned decimal.Decimal `json:"quantity_returned"`
	UnitTotal        decimal.Decimal `json:"unit_total"`
}

// AvailableForReturn is the quantity that may still be returned.
func (l SaleLine) AvailableForReturn() decimal.Decimal {
	return l.QuantitySold.Sub(l.QuantityReturned)
}

// ReturnLine is one accepted return line with its computed refund.
type ReturnLine struct {
	LineID    uuid.UUID       `json:"line_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Refund    decimal.Decimal `json:"refund"`
}

// ReturnRecord is the outcome of an accepted return request. Immutable after
// creation except for an explicit cancel, which reverses its effect.
type ReturnRecord struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	Lines       []ReturnLine    `json:"lines"`
	TotalRefund decimal.Decimal `json:"total_refund"`
	CreatedAt   time.Time       `json:"created_at"`
	Cancelled   bool            `json:"cancelled"`
}

// BuildReturn validates a requested-quantity map against the sale lines of
// transaction orderID and computes the refund. Acceptance is all-or-nothing:
// any out-of-range or unknown line rejects the whole request. The refund per
// line is a proportional share of the line's original total scaled by the
// transaction-level remise, never a recomputation from current catalog
// prices: price drift between sale and return cannot change what the
// customer gets back, and a discounted sale refunds what was actually paid,
// not the pre-remise amount.
func BuildReturn(orderID uuid.UUID, saleLines []SaleLine, discountPercent decimal.Decimal, requested map[uuid.UUID]decimal.Decimal) (*ReturnRecord, error) {
	byLine := make(map[uuid.UUID]SaleLine, len(saleLines))
	for _, l := range saleLines {
		byLine[l.LineID] = l
	}

	for lineID, qty := range requested {
		line, ok := byLine[lineID]
		if !ok {
			return nil, Reject(RejectUnknownSaleLine, "line %s is not part of transaction %s", lineID, orderID)
		}
		if qty.IsNegative() || qty.GreaterThan(line.AvailableForReturn()) {
			return nil, Reject(RejectQuantityOutOfRange,
				"requested %s for line %s, available for return %s", qty, lineID, line.AvailableForReturn())
		}
	}

	if discountPercent.IsNegative() || discountPercent.GreaterThan(oneHundred) {
		return nil, Reject(RejectDiscountOutOfRange, "discount must be between 0 and 100, got %s", discountPercent)
	}
	paidFactor := decimal.NewFromInt(1).Sub(discountPercent.Div(oneHundred))

	rec := &ReturnRecord{
		ID:          uuid.New(),
		OrderID:     orderID,
		TotalRefund: decimal.Zero,
		CreatedAt:   time.Now(),
	}

	// Walk the sale lines in their original order so refund rows come out
	// deterministic regardless of map iteration.
	for _, line := range saleLines {
		qty, ok := requested[line.LineID]
		if !ok || qty.IsZero() {
			continue
		}
		linePaid := RoundAmount(line.UnitTotal.Mul(paidFactor))
		refund := RoundAmount(line.UnitTotal.DivRound(line.QuantitySold, CurrencyScale+2).Mul(qty).Mul(paidFactor))
		if refund.GreaterThan(linePaid) {
			refund = linePaid
		}
		rec.Lines = append(rec.Lines, ReturnLine{
			LineID:    line.LineID,
			ProductID: line.ProductID,
			Quantity:  RoundQuantity(qty),
			Refund:    refund,
		})
		rec.TotalRefund = rec.TotalRefund.Add(refund)
	}

	if len(rec.Lines) == 0 {
		return nil, Reject(RejectEmptyReturn, "return request carries no positive quantities")
	}

	rec.TotalRefund = RoundAmount(rec.TotalRefund)
	return rec, nil
}
