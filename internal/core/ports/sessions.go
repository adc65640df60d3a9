// internal/core/ports/sessions.go
package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caissepos/caisse-be/internal/core/domain"
)

// SessionService is the application port for live checkout sessions: one open
// cart plus its settlement, driven by scans and tender events until commit.
// This interface is implemented by the session service and mocked in handler
// tests.
type SessionService interface {
	Open(ctx context.Context, cashierID string) (*SessionView, error)
	Get(ctx context.Context, sessionID uuid.UUID) (*SessionView, error)
	Cancel(ctx context.Context, sessionID uuid.UUID) error

	// Scan classifies the barcode, resolves the product and adds or merges a
	// cart line. Scale-printed barcodes turn into weighed quantities.
	Scan(ctx context.Context, sessionID uuid.UUID, barcode string) (*ScanOutcome, error)
	SetQuantity(ctx context.Context, sessionID, productID uuid.UUID, quantity decimal.Decimal) (*SessionView, error)
	RemoveItem(ctx context.Context, sessionID, productID uuid.UUID) (*SessionView, error)
	ClearCart(ctx context.Context, sessionID uuid.UUID) (*SessionView, error)

	SetDiscount(ctx context.Context, sessionID uuid.UUID, percent decimal.Decimal) (*SessionView, error)
	ApplyTender(ctx context.Context, sessionID uuid.UUID, kind domain.TenderKind, amount decimal.Decimal) (*TenderView, error)
	ApplyVoucher(ctx context.Context, sessionID uuid.UUID, code string, value decimal.Decimal) (*TenderView, error)

	Commit(ctx context.Context, sessionID uuid.UUID) (*CommitView, error)
	Park(ctx context.Context, sessionID uuid.UUID) (*CommitView, error)
	Resume(ctx context.Context, orderID uuid.UUID, cashierID string) (*SessionView, error)
}

// SessionView is the full snapshot handed back after every session mutation,
// so the till UI never has to aggregate on its own.
type SessionView struct {
	SessionID       uuid.UUID              `json:"session_id"`
	CashierID       string                 `json:"cashier_id"`
	Lines           []domain.CartLine      `json:"lines"`
	GrossTotal      decimal.Decimal        `json:"gross_total"`
	DiscountPercent decimal.Decimal        `json:"discount_percent"`
	Target          decimal.Decimal        `json:"target"`
	Tendered        decimal.Decimal        `json:"tendered"`
	Remaining       decimal.Decimal        `json:"remaining"`
	State           domain.SettlementState `json:"state"`
}

// ScanOutcome is a SessionView plus the line the scan touched and, when stock
// cut the quantity back, the clamp notification.
type ScanOutcome struct {
	Line  domain.CartLine    `json:"line"`
	Clamp *domain.StockClamp `json:"clamp,omitempty"`
	View  *SessionView       `json:"session"`
}

// TenderView pairs the tender outcome with the refreshed session snapshot.
type TenderView struct {
	Outcome domain.TenderOutcome `json:"outcome"`
	View    *SessionView         `json:"session"`
}

// CommitView reports a persisted commit or park.
type CommitView struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Status        string          `json:"status"`
	NetTotal      decimal.Decimal `json:"net_total"`
}
