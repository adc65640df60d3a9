// internal/core/ports/returns.go
package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caissepos/caisse-be/internal/core/domain"
)

// ReturnRepository persists accepted returns. Submit must atomically store the
// record, bump the per-line returned quantities on the sale, and restore
// stock; Cancel reverses all three.
type ReturnRepository interface {
	Submit(ctx context.Context, record *domain.ReturnRecord) error
	Cancel(ctx context.Context, returnID uuid.UUID) (*domain.ReturnRecord, error)
	FindByID(ctx context.Context, returnID uuid.UUID) (*domain.ReturnRecord, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.ReturnRecord, error)
	// SaleLines reads the returnable view of a committed transaction.
	SaleLines(ctx context.Context, orderID uuid.UUID) ([]domain.SaleLine, error)
}

// ReturnService is the application port for post-sale returns. At most one
// return submission per source transaction is in flight at a time; a second
// concurrent request is rejected, not queued.
type ReturnService interface {
	SaleLines(ctx context.Context, orderID uuid.UUID) ([]domain.SaleLine, error)
	RequestReturn(ctx context.Context, orderID uuid.UUID, requested map[uuid.UUID]decimal.Decimal) (*domain.ReturnRecord, error)
	CancelReturn(ctx context.Context, returnID uuid.UUID) (*domain.ReturnRecord, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.ReturnRecord, error)
}
