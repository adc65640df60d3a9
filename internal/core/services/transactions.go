// internal/core/services/transactions.go
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caissepos/caisse-be/internal/core/domain"
	"github.com/caissepos/caisse-be/internal/core/ports"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// TransactionsService is the read side over committed transactions: lookup,
// filtered listing and the end-of-day report.
type TransactionsService struct {
	orders ports.OrderRepository
	logger *slog.Logger
}

var _ ports.TransactionService = (*TransactionsService)(nil)

// NewTransactionsService creates a new transactions service.
func NewTransactionsService(orders ports.OrderRepository, logger *slog.Logger) *TransactionsService {
	return &TransactionsService{
		orders: orders,
		logger: logger.With(slog.String("service", "transactions")),
	}
}

// GetByID retrieves one transaction with its lines.
func (s *TransactionsService) GetByID(ctx context.Context, id uuid.UUID) (*ports.TransactionRecord, error) {
	record, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Retryable("load transaction", err)
	}
	if record == nil {
		return nil, domain.Reject(domain.RejectUnknownTransaction, "no transaction %s", id)
	}
	return record, nil
}

// List pages through transactions with optional status, cashier and time
// filters.
func (s *TransactionsService) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	result, err := s.orders.List(ctx, params)
	if err != nil {
		return nil, domain.Retryable("list transactions", err)
	}
	return result, nil
}

// DayReport aggregates the paid transactions of one business day.
func (s *TransactionsService) DayReport(ctx context.Context, day time.Time) (*ports.DayReport, error) {
	records, err := s.orders.ListByDay(ctx, day)
	if err != nil {
		return nil, domain.Retryable("load day transactions", err)
	}

	report := &ports.DayReport{
		Day:        day.Truncate(24 * time.Hour),
		GrossTotal: decimal.Zero,
		NetTotal:   decimal.Zero,
		Cash:       decimal.Zero,
		Card:       decimal.Zero,
		Cheque:     decimal.Zero,
		Voucher:    decimal.Zero,
	}
	for _, r := range records {
		report.TransactionCount++
		report.GrossTotal = report.GrossTotal.Add(r.GrossTotal)
		report.NetTotal = report.NetTotal.Add(r.NetTotal)
		report.Cash = report.Cash.Add(r.Breakdown.Cash)
		report.Card = report.Card.Add(r.Breakdown.Card)
		report.Cheque = report.Cheque.Add(r.Breakdown.Cheque)
		report.Voucher = report.Voucher.Add(r.Breakdown.Voucher)
	}

	s.logger.DebugContext(ctx, "day report built",
		slog.Time("day", report.Day),
		slog.Int("transactions", report.TransactionCount))

	return report, nil
}
