// internal/core/domain/settlement.go
package domain

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// TenderKind enumerates the payment instruments a transaction accepts.
type TenderKind string

const (
	TenderCash    TenderKind = "cash"
	TenderCard    TenderKind = "card"
	TenderCheque  TenderKind = "cheque"
	TenderVoucher TenderKind = "voucher"
)

// SettlementState is the settlement state machine.
type SettlementState string

const (
	SettlementOpen    SettlementState = "open"
	SettlementSettled SettlementState = "settled"
)

// TenderRecord is one accepted payment event. Amount never exceeds the
// remaining balance at the moment it was accepted.
type TenderRecord struct {
	Kind       TenderKind      `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  string          `json:"reference,omitempty"`
	AcceptedAt time.Time       `json:"accepted_at"`
}

// TenderOutcome reports the effect of one applied tender. ChangeDue is
// transient display-only information for cash overpayment; it is never
// persisted.
type TenderOutcome struct {
	Accepted  decimal.Decimal `json:"accepted"`
	ChangeDue decimal.Decimal `json:"change_due"`
	Remaining decimal.Decimal `json:"remaining"`
	Settled   bool            `json:"settled"`
}

// TenderBreakdown is the per-kind total carried on the commit payload.
type TenderBreakdown struct {
	Cash            decimal.Decimal `json:"cash"`
	Card            decimal.Decimal `json:"card"`
	Cheque          decimal.Decimal `json:"cheque"`
	Voucher         decimal.Decimal `json:"voucher"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// Meal-voucher serials as printed: at least four alphanumeric characters,
// dashes allowed.
var voucherCodePattern = regexp.MustCompile(`^[A-Za-z0-9-]{4,}$`)

// Settlement accumulates tenders against a target amount until the remaining
// balance reaches zero. It is a pure in-memory state machine; persistence of
// the settled transaction belongs to the caller.
type Settlement struct {
	grossTotal      decimal.Decimal
	discountPercent decimal.Decimal
	tenders         []TenderRecord
	usedVouchers    map[string]struct{}
	state           SettlementState
	now             func() time.Time
}

// NewSettlement opens a settlement against grossTotal (the cart total before
// the transaction-level discount).
func NewSettlement(grossTotal decimal.Decimal) *Settlement {
	return &Settlement{
		grossTotal:   grossTotal,
		usedVouchers: make(map[string]struct{}),
		state:        SettlementOpen,
		now:          time.Now,
	}
}

// State returns the current machine state.
func (s *Settlement) State() SettlementState { return s.state }

// GrossTotal returns the pre-discount target.
func (s *Settlement) GrossTotal() decimal.Decimal { return s.grossTotal }

// DiscountPercent returns the transaction-level discount.
func (s *Settlement) DiscountPercent() decimal.Decimal { return s.discountPercent }

// Target is the amount due: gross total minus the percentage discount.
func (s *Settlement) Target() decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(s.discountPercent.Div(oneHundred))
	return RoundAmount(s.grossTotal.Mul(factor))
}

// TenderedTotal sums the accepted tenders in order.
func (s *Settlement) TenderedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.tenders {
		total = total.Add(t.Amount)
	}
	return total
}

// Remaining is the balance still due after the ordered tender sequence.
func (s *Settlement) Remaining() decimal.Decimal {
	return s.Target().Sub(s.TenderedTotal())
}

// Tenders returns a copy of the accepted tender sequence.
func (s *Settlement) Tenders() []TenderRecord {
	out := make([]TenderRecord, len(s.tenders))
	copy(out, s.tenders)
	return out
}

// SetGrossTotal re-targets the settlement after a cart mutation. Accepted
// tenders are never rescaled; the change is rejected if they would exceed the
// new target.
func (s *Settlement) SetGrossTotal(grossTotal decimal.Decimal) error {
	if s.state == SettlementSettled {
		return Reject(RejectAlreadySettled, "transaction already settled")
	}
	prev := s.grossTotal
	s.grossTotal = grossTotal
	if s.Remaining().IsNegative() {
		s.grossTotal = prev
		return Reject(RejectBelowTendered, "tendered %s exceeds new target %s", s.TenderedTotal(), grossTotal)
	}
	s.maybeSettle()
	return nil
}

// SetDiscount sets the transaction-level percentage discount. Only allowed
// while open; recomputes target and remaining for subsequent tenders without
// touching already-accepted ones. A discount that drives the remaining
// balance to zero settles the transaction on the spot.
func (s *Settlement) SetDiscount(percent decimal.Decimal) error {
	if s.state == SettlementSettled {
		return Reject(RejectAlreadySettled, "transaction already settled")
	}
	if percent.IsNegative() || percent.GreaterThan(oneHundred) {
		return Reject(RejectDiscountOutOfRange, "discount must be between 0 and 100, got %s", percent)
	}
	prev := s.discountPercent
	s.discountPercent = percent
	if s.Remaining().IsNegative() {
		s.discountPercent = prev
		return Reject(RejectDiscountBelowTendered, "tendered %s exceeds discounted target %s", s.TenderedTotal(), s.Target())
	}
	s.maybeSettle()
	return nil
}

// maybeSettle flips the machine once nothing is left to pay. A full discount
// wipes the balance and settles exactly like a covering tender would; an
// emptied cart stays open since there is nothing to commit.
func (s *Settlement) maybeSettle() {
	if s.grossTotal.IsPositive() && s.Remaining().IsZero() {
		s.state = SettlementSettled
	}
}

// ApplyTender accepts min(requested, remaining) of the given kind. Cash
// overpayment is reported back as change due, never stored. The settlement
// flips to settled the instant remaining reaches zero.
func (s *Settlement) ApplyTender(kind TenderKind, requested decimal.Decimal) (TenderOutcome, error) {
	if s.state == SettlementSettled {
		return TenderOutcome{}, Reject(RejectAlreadySettled, "transaction already settled")
	}
	if !requested.IsPositive() {
		return TenderOutcome{}, Reject(RejectNonPositiveAmount, "tender amount must be positive, got %s", requested)
	}
	remaining := s.Remaining()
	if !remaining.IsPositive() {
		return TenderOutcome{}, Reject(RejectEmptyCart, "nothing due: remaining balance is %s", remaining)
	}

	accepted := requested
	change := decimal.Zero
	if requested.GreaterThan(remaining) {
		accepted = remaining
		if kind == TenderCash {
			change = RoundAmount(requested.Sub(remaining))
		}
	}

	s.tenders = append(s.tenders, TenderRecord{
		Kind:       kind,
		Amount:     RoundAmount(accepted),
		AcceptedAt: s.now(),
	})

	return s.settleOutcome(accepted, change), nil
}

// ApplyVoucher folds one meal-voucher into the running total. Vouchers are
// discrete fixed-value instruments: a code whose value exceeds the remaining
// balance is rejected outright, never partially accepted.
func (s *Settlement) ApplyVoucher(code string, value decimal.Decimal) (TenderOutcome, error) {
	if s.state == SettlementSettled {
		return TenderOutcome{}, Reject(RejectAlreadySettled, "transaction already settled")
	}
	if !voucherCodePattern.MatchString(code) {
		return TenderOutcome{}, Reject(RejectVoucherInvalidFormat, "voucher code %q is not valid", code)
	}
	if _, used := s.usedVouchers[code]; used {
		return TenderOutcome{}, Reject(RejectVoucherAlreadyUsed, "voucher %s already used in this transaction", code)
	}
	if !value.IsPositive() {
		return TenderOutcome{}, Reject(RejectNonPositiveAmount, "voucher value must be positive, got %s", value)
	}
	if value.GreaterThan(s.Remaining()) {
		return TenderOutcome{}, Reject(RejectVoucherExceedsRemaining, "voucher value %s exceeds remaining balance %s", value, s.Remaining())
	}

	s.usedVouchers[code] = struct{}{}
	s.tenders = append(s.tenders, TenderRecord{
		Kind:       TenderVoucher,
		Amount:     RoundAmount(value),
		Reference:  code,
		AcceptedAt: s.now(),
	})

	return s.settleOutcome(value, decimal.Zero), nil
}

func (s *Settlement) settleOutcome(accepted, change decimal.Decimal) TenderOutcome {
	remaining := s.Remaining()
	settled := remaining.IsZero()
	if settled {
		s.state = SettlementSettled
	}
	return TenderOutcome{
		Accepted:  RoundAmount(accepted),
		ChangeDue: change,
		Remaining: RoundAmount(remaining),
		Settled:   settled,
	}
}

// Breakdown totals the accepted tenders per kind for the commit payload.
func (s *Settlement) Breakdown() TenderBreakdown {
	b := TenderBreakdown{
		Cash:            decimal.Zero,
		Card:            decimal.Zero,
		Cheque:          decimal.Zero,
		Voucher:         decimal.Zero,
		DiscountPercent: s.discountPercent,
	}
	for _, t := range s.tenders {
		switch t.Kind {
		case TenderCash:
			b.Cash = b.Cash.Add(t.Amount)
		case TenderCard:
			b.Card = b.Card.Add(t.Amount)
		case TenderCheque:
			b.Cheque = b.Cheque.Add(t.Amount)
		case TenderVoucher:
			b.Voucher = b.Voucher.Add(t.Amount)
		}
	}
	return b
}
