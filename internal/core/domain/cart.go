// internal/core/domain/cart.go
package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one priced line of the open transaction. TotalPrice is always
// derived from UnitPrice, LotTiers and Quantity; it is never mutated
// independently.
type CartLine struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Code       string          `json:"code"`
	Label      string          `json:"label"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LotTiers   []LotTier       `json:"lot_tiers,omitempty"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func (l *CartLine) recompute() {
	l.TotalPrice = ComputeLineTotal(l.UnitPrice, l.LotTiers, l.Quantity)
}

// StockClamp reports that a requested quantity was cut back to the available
// stock. It is a notification, not an error: the clamped line is kept.
type StockClamp struct {
	ProductID uuid.UUID       `json:"product_id"`
	Requested decimal.Decimal `json:"requested"`
	Clamped   decimal.Decimal `json:"clamped"`
}

// AddItem carries everything needed to add or merge one cart line. Available
// stock is a snapshot the caller fetched from the catalog at call time.
type AddItem struct {
	ProductID      uuid.UUID
	Code           string
	Label          string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	LotTiers       []LotTier
	AvailableStock decimal.Decimal
}

// Cart owns the line-item collection of one open transaction. Lines keep
// insertion order; repeated scans of the same product merge into one line.
type Cart struct {
	lines []*CartLine
	index map[uuid.UUID]int
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{index: make(map[uuid.UUID]int)}
}

// AddOrMerge adds a new line or merges into the existing line for the same
// product, clamping the resulting quantity to the available stock. The
// returned StockClamp is nil when no clamping occurred.
func (c *Cart) AddOrMerge(item AddItem) (CartLine, *StockClamp, error) {
	if !item.Quantity.IsPositive() {
		return CartLine{}, nil, Reject(RejectNonPositiveQuantity, "quantity must be positive, got %s", item.Quantity)
	}

	var line *CartLine
	if i, ok := c.index[item.ProductID]; ok {
		line = c.lines[i]
	} else {
		line = &CartLine{
			ProductID: item.ProductID,
			Code:      item.Code,
			Label:     item.Label,
			UnitPrice: item.UnitPrice,
			LotTiers:  item.LotTiers,
		}
		c.index[item.ProductID] = len(c.lines)
		c.lines = append(c.lines, line)
	}

	requested := RoundQuantity(line.Quantity.Add(item.Quantity))
	var clamp *StockClamp
	if requested.GreaterThan(item.AvailableStock) {
		clamp = &StockClamp{
			ProductID: item.ProductID,
			Requested: requested,
			Clamped:   item.AvailableStock,
		}
		requested = item.AvailableStock
	}
	line.Quantity = requested
	line.recompute()
	return *line, clamp, nil
}

// SetQuantity replaces a line's quantity. The caller re-fetches available
// stock from the catalog because it may have moved since the line was added.
// On rejection the line is left unchanged.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity, availableStock decimal.Decimal) (CartLine, error) {
	i, ok := c.index[productID]
	if !ok {
		return CartLine{}, Reject(RejectLineNotFound, "no cart line for product %s", productID)
	}
	if quantity.IsNegative() {
		return CartLine{}, Reject(RejectNonPositiveQuantity, "quantity cannot be negative, got %s", quantity)
	}
	if quantity.GreaterThan(availableStock) {
		return CartLine{}, Reject(RejectExceedsStock, "quantity %s exceeds available stock %s", quantity, availableStock)
	}

	line := c.lines[i]
	line.Quantity = RoundQuantity(quantity)
	line.recompute()
	return *line, nil
}

// Remove deletes the line unconditionally. Reports whether a line existed.
func (c *Cart) Remove(productID uuid.UUID) bool {
	i, ok := c.index[productID]
	if !ok {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ProductID] = j
	}
	return true
}

// Clear empties the cart. Used after a settled commit or when parking.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[uuid.UUID]int)
}

// Line returns a copy of the line for productID.
func (c *Cart) Line(productID uuid.UUID) (CartLine, bool) {
	i, ok := c.index[productID]
	if !ok {
		return CartLine{}, false
	}
	return *c.lines[i], true
}

// Lines returns a copy of all lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	for i, l := range c.lines {
		out[i] = *l
	}
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Total is the aggregate consumed by settlement: the sum of line totals.
// There is no side channel that can diverge from this.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.TotalPrice)
	}
	return RoundAmount(total)
}
