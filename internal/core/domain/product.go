// internal/core/domain/product.go
package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog view the settlement engine consumes. The catalog
// itself is an external collaborator; this is a read-only snapshot of the
// fields pricing needs. Stock is advisory: it may have moved by the time a
// line is written, so callers re-check it at every clamp point.
type Product struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	ScaleCode    string          `json:"scale_code,omitempty"`
	Label        string          `json:"label"`
	BasePrice    decimal.Decimal `json:"base_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Stock        decimal.Decimal `json:"stock"`
	LotTiers     []LotTier       `json:"lot_tiers,omitempty"`
}

var oneHundred = decimal.NewFromInt(100)

// UnitPriceWithTax is the base price grossed up by the tax rate. This is the
// price a weighing scale prints against, before any discount.
func (p *Product) UnitPriceWithTax() decimal.Decimal {
	return RoundAmount(p.BasePrice.Mul(decimal.NewFromInt(1).Add(p.TaxRate.Div(oneHundred))))
}

// EffectiveUnitPrice is the post-tax, post-discount price charged per unit on
// a cart line.
func (p *Product) EffectiveUnitPrice() decimal.Decimal {
	withTax := p.BasePrice.Mul(decimal.NewFromInt(1).Add(p.TaxRate.Div(oneHundred)))
	if p.DiscountRate.IsPositive() {
		withTax = withTax.Mul(decimal.NewFromInt(1).Sub(p.DiscountRate.Div(oneHundred)))
	}
	return RoundAmount(withTax)
}
