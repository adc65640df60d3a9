// internal/core/ports/orders.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caissepos/caisse-be/internal/core/domain"
)

// Transaction statuses as persisted. Parked transactions carry no tender
// breakdown and can be resumed into a live session; paid transactions are
// final except through the return flow.
const (
	TransactionStatusParked = "parked"
	TransactionStatusPaid   = "paid"
)

// TransactionPayload is everything the settlement engine hands over for one
// atomic commit: lines, totals and the per-kind tender breakdown.
type TransactionPayload struct {
	ID         uuid.UUID
	Status     string
	Lines      []domain.CartLine
	GrossTotal decimal.Decimal
	NetTotal   decimal.Decimal
	Breakdown  domain.TenderBreakdown
	CashierID  string
	CreatedAt  time.Time
}

// TransactionLine is one persisted line of a committed transaction.
type TransactionLine struct {
	LineID           uuid.UUID       `json:"line_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	Code             string          `json:"code"`
	Label            string          `json:"label"`
	Quantity         decimal.Decimal `json:"quantity"`
	QuantityReturned decimal.Decimal `json:"quantity_returned"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
}

// TransactionRecord is a committed transaction as read back from storage.
type TransactionRecord struct {
	ID         uuid.UUID              `json:"id"`
	Status     string                 `json:"status"`
	Lines      []TransactionLine      `json:"lines"`
	GrossTotal decimal.Decimal        `json:"gross_total"`
	NetTotal   decimal.Decimal        `json:"net_total"`
	Breakdown  domain.TenderBreakdown `json:"breakdown"`
	CashierID  string                 `json:"cashier_id"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// ListParams narrows and pages the transaction listing.
type ListParams struct {
	Status    string
	CashierID string
	From      time.Time
	To        time.Time
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListResult is one page of transactions.
type ListResult struct {
	Transactions []*TransactionRecord `json:"transactions"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	TotalCount   int64                `json:"total_count"`
	TotalPages   int                  `json:"total_pages"`
}

// DayReport aggregates one business day of paid transactions for the till
// closing report.
type DayReport struct {
	Day              time.Time       `json:"day"`
	TransactionCount int             `json:"transaction_count"`
	GrossTotal       decimal.Decimal `json:"gross_total"`
	NetTotal         decimal.Decimal `json:"net_total"`
	Cash             decimal.Decimal `json:"cash"`
	Card             decimal.Decimal `json:"card"`
	Cheque           decimal.Decimal `json:"cheque"`
	Voucher          decimal.Decimal `json:"voucher"`
}

// TransactionService is the read-side port over committed transactions.
type TransactionService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*TransactionRecord, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	DayReport(ctx context.Context, day time.Time) (*DayReport, error)
}

// OrderRepository persists committed and parked transactions. Commit and
// Update run their line writes and stock adjustments in one database
// transaction; a failure leaves nothing behind.
type OrderRepository interface {
	Commit(ctx context.Context, payload *TransactionPayload) error
	// Update rewrites a previously parked transaction in place, used when a
	// resumed park is finally paid.
	Update(ctx context.Context, payload *TransactionPayload) error
	FindByID(ctx context.Context, id uuid.UUID) (*TransactionRecord, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	// ListByDay returns the paid transactions of one business day for the
	// export worker and the day report.
	ListByDay(ctx context.Context, day time.Time) ([]*TransactionRecord, error)
}
