// internal/core/services/returns.go
package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caissepos/caisse-be/internal/core/domain"
	"github.com/caissepos/caisse-be/internal/core/ports"
	"github.com/caissepos/caisse-be/internal/pkg/metrics"
)

// ReturnService validates return requests against the original sale and
// drives the all-or-nothing submission through the return repository.
type ReturnService struct {
	returns ports.ReturnRepository
	orders  ports.OrderRepository
	logger  *slog.Logger

	// inflight holds the transaction IDs with a submission or cancellation
	// currently running. One at a time per transaction; the window between
	// validation and the repository write stays race-free on a single node.
	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

var _ ports.ReturnService = (*ReturnService)(nil)

// NewReturnService creates a new return service.
func NewReturnService(returns ports.ReturnRepository, orders ports.OrderRepository, logger *slog.Logger) *ReturnService {
	return &ReturnService{
		returns:  returns,
		orders:   orders,
		logger:   logger.With(slog.String("service", "returns")),
		inflight: make(map[uuid.UUID]struct{}),
	}
}

// SaleLines returns the returnable view of a paid transaction.
func (s *ReturnService) SaleLines(ctx context.Context, orderID uuid.UUID) ([]domain.SaleLine, error) {
	if _, err := s.loadPaid(ctx, orderID); err != nil {
		return nil, err
	}
	lines, err := s.returns.SaleLines(ctx, orderID)
	if err != nil {
		return nil, domain.Retryable("load sale lines", err)
	}
	return lines, nil
}

// RequestReturn validates the requested quantities against what the sale can
// still give back and submits the refund. The whole request is refused if any
// line is out of range; nothing is partially accepted.
func (s *ReturnService) RequestReturn(ctx context.Context, orderID uuid.UUID, requested map[uuid.UUID]decimal.Decimal) (*domain.ReturnRecord, error) {
	order, err := s.loadPaid(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !s.acquire(orderID) {
		metrics.ReturnsTotal.WithLabelValues("in_progress").Inc()
		return nil, domain.Reject(domain.RejectSubmissionInProgress,
			"a return for transaction %s is already being processed", orderID)
	}
	defer s.release(orderID)

	saleLines, err := s.returns.SaleLines(ctx, orderID)
	if err != nil {
		return nil, domain.Retryable("load sale lines", err)
	}

	// Refunds are scaled by the remise recorded on the sale, so the customer
	// gets back what they paid, never the pre-discount amount.
	record, err := domain.BuildReturn(orderID, saleLines, order.Breakdown.DiscountPercent, requested)
	if err != nil {
		metrics.ReturnsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if err := s.returns.Submit(ctx, record); err != nil {
		metrics.ReturnsTotal.WithLabelValues("error").Inc()
		return nil, domain.Retryable("submit return", err)
	}
	metrics.ReturnsTotal.WithLabelValues("ok").Inc()

	s.logger.InfoContext(ctx, "return accepted",
		slog.String("return_id", record.ID.String()),
		slog.String("transaction_id", orderID.String()),
		slog.String("total_refund", record.TotalRefund.String()))

	return record, nil
}

// CancelReturn reverses a previously accepted return: returned quantities and
// stock go back to where they were, and the refund is voided.
func (s *ReturnService) CancelReturn(ctx context.Context, returnID uuid.UUID) (*domain.ReturnRecord, error) {
	existing, err := s.returns.FindByID(ctx, returnID)
	if err != nil {
		return nil, domain.Retryable("load return", err)
	}
	if existing == nil {
		return nil, domain.Reject(domain.RejectUnknownTransaction, "no return %s", returnID)
	}
	if existing.Cancelled {
		return nil, domain.Reject(domain.RejectReturnAlreadyCancelled, "return %s already cancelled", returnID)
	}

	if !s.acquire(existing.OrderID) {
		return nil, domain.Reject(domain.RejectSubmissionInProgress,
			"a return for transaction %s is already being processed", existing.OrderID)
	}
	defer s.release(existing.OrderID)

	record, err := s.returns.Cancel(ctx, returnID)
	if err != nil {
		return nil, domain.Retryable("cancel return", err)
	}

	s.logger.InfoContext(ctx, "return cancelled",
		slog.String("return_id", returnID.String()),
		slog.String("transaction_id", record.OrderID.String()))

	return record, nil
}

// ListByOrder returns every return recorded against a transaction.
func (s *ReturnService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.ReturnRecord, error) {
	records, err := s.returns.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, domain.Retryable("list returns", err)
	}
	return records, nil
}

func (s *ReturnService) loadPaid(ctx context.Context, orderID uuid.UUID) (*ports.TransactionRecord, error) {
	record, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, domain.Retryable("load transaction", err)
	}
	if record == nil {
		return nil, domain.Reject(domain.RejectUnknownTransaction, "no transaction %s", orderID)
	}
	if record.Status != ports.TransactionStatusPaid {
		return nil, domain.Reject(domain.RejectNotSettled, "transaction %s is %s, only paid transactions can be returned", orderID, record.Status)
	}
	return record, nil
}

func (s *ReturnService) acquire(orderID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[orderID]; busy {
		return false
	}
	s.inflight[orderID] = struct{}{}
	return true
}

func (s *ReturnService) release(orderID uuid.UUID) {
	s.mu.Lock()
	delete(s.inflight, orderID)
	s.mu.Unlock()
}
