// internal/core/services/session.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"github.com/caissepos/caisse-be/internal/core/domain"
	"github.com/caissepos/caisse-be/internal/core/ports"
	"github.com/caissepos/caisse-be/internal/pkg/metrics"
	"github.com/caissepos/caisse-be/internal/workers"
)

// TaskEnqueuer is the slice of asynq.Client the session service needs.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type sessionPhase int

const (
	phaseIdle sessionPhase = iota
	phaseCommitting
	phaseDone
)

// session is one live checkout: a cart plus its settlement, owned by a single
// till. All access goes through its mutex; the commit phase flag keeps a
// second commit from racing the first through the persistence call.
type session struct {
	mu         sync.Mutex
	id         uuid.UUID
	cashierID  string
	cart       *domain.Cart
	settlement *domain.Settlement
	phase      sessionPhase
	// orderID is set when this session resumed a parked transaction; commit
	// then updates that row instead of inserting a new one.
	orderID  uuid.UUID
	resumed  bool
	openedAt time.Time
}

var errProductMiss = errors.New("product not in catalog")

// SessionService keeps the in-memory session registry and drives scans,
// tendering and commit against the catalog and order stores.
type SessionService struct {
	catalog   ports.CatalogRepository
	orders    ports.OrderRepository
	cache     ports.CacheRepository
	tasks     TaskEnqueuer
	logger    *slog.Logger
	cacheTTL  time.Duration
	resumeTTL time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// Statically assert that *SessionService implements the SessionService port.
var _ ports.SessionService = (*SessionService)(nil)

// NewSessionService creates a new session service. tasks may be nil when
// receipt rendering is disabled.
func NewSessionService(
	catalog ports.CatalogRepository,
	orders ports.OrderRepository,
	cache ports.CacheRepository,
	tasks TaskEnqueuer,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		catalog:   catalog,
		orders:    orders,
		cache:     cache,
		tasks:     tasks,
		logger:    logger.With(slog.String("service", "session")),
		cacheTTL:  cacheTTL,
		resumeTTL: 15 * time.Minute,
		sessions:  make(map[uuid.UUID]*session),
	}
}

// Open starts an empty session for the given cashier.
func (svc *SessionService) Open(ctx context.Context, cashierID string) (*ports.SessionView, error) {
	s := &session{
		id:         uuid.New(),
		cashierID:  cashierID,
		cart:       domain.NewCart(),
		settlement: domain.NewSettlement(decimal.Zero),
		openedAt:   time.Now(),
	}

	svc.mu.Lock()
	svc.sessions[s.id] = s
	svc.mu.Unlock()
	metrics.OpenSessions.Inc()

	svc.logger.InfoContext(ctx, "session opened",
		slog.String("session_id", s.id.String()),
		slog.String("cashier_id", cashierID))

	return svc.snapshot(s), nil
}

// Get returns the current snapshot of a session.
func (svc *SessionService) Get(_ context.Context, sessionID uuid.UUID) (*ports.SessionView, error) {
	s, err := svc.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return svc.snapshot(s), nil
}

// Cancel drops a session and everything in it. Parked transactions the
// session resumed stay parked.
func (svc *SessionService) Cancel(ctx context.Context, sessionID uuid.UUID) error {
	s, err := svc.lookup(sessionID)
	if err != nil {
		return err
	}

	svc.drop(s)
	if s.resumed {
		svc.releaseResumeLock(ctx, s.orderID)
	}

	svc.logger.InfoContext(ctx, "session cancelled",
		slog.String("session_id", sessionID.String()))
	return nil
}

// Scan runs one barcode through classification, catalog resolution and the
// cart. A standard code adds one unit at the discounted shelf price; a scale
// reading back-computes the weighed quantity from the printed ticket price.
func (svc *SessionService) Scan(ctx context.Context, sessionID uuid.UUID, barcode string) (*ports.ScanOutcome, error) {
	s, err := svc.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	configs, err := svc.scaleConfigs(ctx)
	if err != nil {
		return nil, domain.Retryable("load scale configs", err)
	}

	result, err := domain.Classify(barcode, configs)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	var item domain.AddItem
	switch r := result.(type) {
	case domain.StandardCode:
		product, err := svc.productByCode(ctx, r.Code)
		if err != nil {
			return nil, domain.Retryable("resolve product", err)
		}
		if product == nil {
			metrics.ScansTotal.WithLabelValues("unknown").Inc()
			return nil, domain.Reject(domain.RejectUnknownProduct, "no product for barcode %s", r.Code)
		}
		item = domain.AddItem{
			ProductID:      product.ID,
			Code:           product.Code,
			Label:          product.Label,
			Quantity:       decimal.NewFromInt(1),
			UnitPrice:      product.EffectiveUnitPrice(),
			LotTiers:       product.LotTiers,
			AvailableStock: product.Stock,
		}

	case domain.ScaleReading:
		product, err := svc.productByScaleCode(ctx, r.ProductCode)
		if err != nil {
			return nil, domain.Retryable("resolve scale product", err)
		}
		if product == nil {
			metrics.ScansTotal.WithLabelValues("unknown").Inc()
			return nil, domain.Reject(domain.RejectUnknownProduct, "no product for scale code %s", r.ProductCode)
		}
		unit := product.UnitPriceWithTax()
		quantity, err := domain.WeighedQuantity(r.TicketPrice, unit)
		if err != nil {
			metrics.ScansTotal.WithLabelValues("rejected").Inc()
			return nil, err
		}
		item = domain.AddItem{
			ProductID:      product.ID,
			Code:           product.Code,
			Label:          product.Label,
			Quantity:       quantity,
			UnitPrice:      unit,
			AvailableStock: product.Stock,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := svc.guardOpen(s); err != nil {
		return nil, err
	}

	line, clamp, err := s.cart.AddOrMerge(item)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	// The total only grows on a scan, so re-targeting cannot be refused.
	if err := s.settlement.SetGrossTotal(s.cart.Total()); err != nil {
		return nil, err
	}

	metrics.ScansTotal.WithLabelValues("ok").Inc()
	svc.logger.DebugContext(ctx, "scan accepted",
		slog.String("session_id", sessionID.String()),
		slog.String("product_id", line.ProductID.String()),
		slog.String("quantity", line.Quantity.String()))

	return &ports.ScanOutcome{Line: line, Clamp: clamp, View: svc.viewLocked(s)}, nil
}

// SetQuantity replaces a line quantity, re-checking stock at call time.
func (svc *SessionService) SetQuantity(ctx context.Context, sessionID, productID uuid.UUID, quantity decimal.Decimal) (*ports.SessionView, error) {
	s, err := svc.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	product, err := svc.productByID(ctx, productID)
	if err != nil {
		return nil, domain.Retryable("resolve product", err)
	}
	if product == nil {
		return nil, domain.Reject(domain.RejectUnknownProduct, "product %s no longer in catalog", productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := svc.guardOpen(s); err != nil {
		return nil, err
	}

	prev, ok := s.cart.Line(productID)
	if !ok {
		return nil, domain.Reject(domain.RejectLineNotFound, "no cart line for product %s", productID)
	}
	if _, err := s.cart.SetQuantity(productID, quantity, product.Stock); err != nil {
		return nil, err
	}
	if err := s.settlement.SetGrossTotal(s.cart.Total()); err != nil {
		// Shrinking below the tendered total is refused; put the line back.
		_, _ = s.cart.SetQuantity(productID, prev.Quantity, prev.Quantity)
		return nil, err
	}
	return svc.viewLocked(s), nil
}

// RemoveItem deletes a line. Refused when the accepted tenders would exceed
// the shrunken total.
func (svc *SessionService) RemoveItem(_ context.Context, sessionID, productID uuid.UUID) (*ports.SessionView, error) {
	s, err := svc.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := svc.guardOpen(s); err != nil {
		return nil, err
	}

	line, ok := s.cart.Line(productID)
	if !ok {
		return nil, domain.Reject(domain.RejectLineNotFound, "no cart line for product %s", productID)
	}
	prospective := s.cart.Total().Sub(line.TotalPrice)
	if err := s.settlement.SetGrossTotal(prospective); err != nil {
		return nil, err
	}
	s.cart.Remove(productID)
	return svc.viewLocked(s), nil
}

// ClearCart empties the cart. Refused once any tender has been accepted.
func (svc *SessionService) ClearCart(_ context.Context, sessionID uuid.UUID) (*ports.SessionView, error) {
	s, err := svc.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := svc.guardOpen(s); err != nil {
		return nil, err
	}

	if err := s.settlement.SetGrossTotal(decimal.Zero); err != nil {
		return nil, err
	}
	s.cart.Clear()
	return svc.viewLocked(s), nil
}

// SetDiscount applies the transaction-level percentage discount.
func (svc *SessionService) SetDiscount(_ context.Context, sessionID uuid.UUID, percent decimal.Decimal) (*ports.SessionView, error) {
	s, err := svc.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := svc.guardOpen(s); err != nil {
		return nil, err
	}

	if err := s.settlement.SetDiscount(percent); err != nil {
		return nil, err
	}
	return svc.viewLocked(s), nil
}

// ApplyTender accepts one payment against the remaining balance.
func (svc *SessionService) ApplyTender(ctx context.Context, sessionID uuid.UUID, kind domain.TenderKind, amount decimal.Decimal) (*ports.TenderView, error) {
	s, err := svc.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := svc.guardOpen(s); err != nil {
		return nil, err
	}
	if s.cart.IsEmpty() {
		return nil, domain.Reject(domain.RejectEmptyCart, "cannot tender against an empty cart")
	}

	outcome, err := s.settlement.ApplyTender(kind, amount)
	if err != nil {
		return nil, err
	}
	metrics.TendersTotal.WithLabelValues(string(kind)).Inc()

	svc.logger.InfoContext(ctx, "tender accepted",
		slog.String("session_id", sessionID.String()),
		slog.String("kind", string(kind)),
		slog.String("accepted", outcome.Accepted.String()),
		slog.String("remaining", outcome.Remaining.String()))

	return &ports.TenderView{Outcome: outcome, View: svc.viewLocked(s)}, nil
}

// ApplyVoucher folds one meal voucher into the settlement.
func (svc *SessionService) ApplyVoucher(ctx context.Context, sessionID uuid.UUID, code string, value decimal.Decimal) (*ports.TenderView, error) {
	s, err := svc.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := svc.guardOpen(s); err != nil {
		return nil, err
	}
	if s.cart.IsEmpty() {
		return nil, domain.Reject(domain.RejectEmptyCart, "cannot tender against an empty cart")
	}

	outcome, err := s.settlement.ApplyVoucher(code, value)
	if err != nil {
		return nil, err
	}
	metrics.TendersTotal.WithLabelValues(string(domain.TenderVoucher)).Inc()

	svc.logger.InfoContext(ctx, "voucher accepted",
		slog.String("session_id", sessionID.String()),
		slog.String("code", code))

	return &ports.TenderView{Outcome: outcome, View: svc.viewLocked(s)}, nil
}

// Commit persists the settled transaction exactly once. A failed persistence
// call leaves the session intact, every accepted tender included, and the
// commit can be retried; a concurrent second commit is refused while the
// first is in flight.
func (svc *SessionService) Commit(ctx context.Context, sessionID uuid.UUID) (*ports.CommitView, error) {
	s, err := svc.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	switch s.phase {
	case phaseCommitting:
		s.mu.Unlock()
		return nil, domain.Reject(domain.RejectSubmissionInProgress, "commit already in flight for session %s", sessionID)
	case phaseDone:
		s.mu.Unlock()
		return nil, domain.Reject(domain.RejectAlreadySettled, "session %s already committed", sessionID)
	}
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		return nil, domain.Reject(domain.RejectEmptyCart, "cannot commit an empty cart")
	}
	if s.settlement.State() != domain.SettlementSettled {
		remaining := s.settlement.Remaining()
		s.mu.Unlock()
		return nil, domain.Reject(domain.RejectNotSettled, "balance of %s still due", remaining)
	}

	s.phase = phaseCommitting
	payload := svc.payloadLocked(s, ports.TransactionStatusPaid)
	s.mu.Unlock()

	persist := svc.orders.Commit
	if s.resumed {
		persist = svc.orders.Update
	}
	if err := persist(ctx, payload); err != nil {
		s.mu.Lock()
		s.phase = phaseIdle
		s.mu.Unlock()
		metrics.CommitsTotal.WithLabelValues("error").Inc()
		return nil, domain.Retryable("persist transaction", err)
	}

	s.mu.Lock()
	s.phase = phaseDone
	s.mu.Unlock()
	svc.drop(s)
	if s.resumed {
		svc.releaseResumeLock(ctx, s.orderID)
	}
	metrics.CommitsTotal.WithLabelValues("ok").Inc()

	svc.enqueueReceipt(ctx, payload.ID)

	svc.logger.InfoContext(ctx, "transaction committed",
		slog.String("session_id", sessionID.String()),
		slog.String("transaction_id", payload.ID.String()),
		slog.String("net_total", payload.NetTotal.String()))

	return &ports.CommitView{
		TransactionID: payload.ID,
		Status:        ports.TransactionStatusPaid,
		NetTotal:      payload.NetTotal,
	}, nil
}

// Park persists the cart as a parked transaction and closes the session. A
// session that has already accepted tenders cannot be parked.
func (svc *SessionService) Park(ctx context.Context, sessionID uuid.UUID) (*ports.CommitView, error) {
	s, err := svc.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.phase != phaseIdle {
		s.mu.Unlock()
		return nil, domain.Reject(domain.RejectSubmissionInProgress, "session %s is mid-commit", sessionID)
	}
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		return nil, domain.Reject(domain.RejectEmptyCart, "cannot park an empty cart")
	}
	if s.settlement.TenderedTotal().IsPositive() {
		s.mu.Unlock()
		return nil, domain.Reject(domain.RejectParkWithTenders, "session %s has accepted tenders", sessionID)
	}
	payload := svc.payloadLocked(s, ports.TransactionStatusParked)
	s.mu.Unlock()

	persist := svc.orders.Commit
	if s.resumed {
		persist = svc.orders.Update
	}
	if err := persist(ctx, payload); err != nil {
		return nil, domain.Retryable("park transaction", err)
	}

	svc.drop(s)
	if s.resumed {
		svc.releaseResumeLock(ctx, s.orderID)
	}

	svc.logger.InfoContext(ctx, "transaction parked",
		slog.String("session_id", sessionID.String()),
		slog.String("transaction_id", payload.ID.String()))

	return &ports.CommitView{
		TransactionID: payload.ID,
		Status:        ports.TransactionStatusParked,
		NetTotal:      payload.NetTotal,
	}, nil
}

// Resume reopens a parked transaction as a fresh session. A short-lived cache
// lock keeps two tills from resuming the same park at once.
func (svc *SessionService) Resume(ctx context.Context, orderID uuid.UUID, cashierID string) (*ports.SessionView, error) {
	record, err := svc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, domain.Retryable("load parked transaction", err)
	}
	if record == nil {
		return nil, domain.Reject(domain.RejectUnknownTransaction, "no transaction %s", orderID)
	}
	if record.Status != ports.TransactionStatusParked {
		return nil, domain.Reject(domain.RejectNotParked, "transaction %s is %s, not parked", orderID, record.Status)
	}

	locked, err := svc.cache.SetNX(ctx, resumeLockKey(orderID), cashierID, svc.resumeTTL)
	if err != nil {
		return nil, domain.Retryable("acquire resume lock", err)
	}
	if !locked {
		return nil, domain.Reject(domain.RejectSubmissionInProgress, "transaction %s is already being resumed", orderID)
	}

	s := &session{
		id:         uuid.New(),
		cashierID:  cashierID,
		cart:       domain.NewCart(),
		settlement: domain.NewSettlement(decimal.Zero),
		orderID:    orderID,
		resumed:    true,
		openedAt:   time.Now(),
	}

	for _, line := range record.Lines {
		stock := line.Quantity
		if product, err := svc.productByID(ctx, line.ProductID); err == nil && product != nil {
			stock = decimal.Max(product.Stock, line.Quantity)
		}
		if _, _, err := s.cart.AddOrMerge(domain.AddItem{
			ProductID:      line.ProductID,
			Code:           line.Code,
			Label:          line.Label,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			AvailableStock: stock,
		}); err != nil {
			svc.releaseResumeLock(ctx, orderID)
			return nil, fmt.Errorf("rebuild parked cart: %w", err)
		}
	}
	if err := s.settlement.SetGrossTotal(s.cart.Total()); err != nil {
		svc.releaseResumeLock(ctx, orderID)
		return nil, err
	}

	svc.mu.Lock()
	svc.sessions[s.id] = s
	svc.mu.Unlock()
	metrics.OpenSessions.Inc()

	svc.logger.InfoContext(ctx, "parked transaction resumed",
		slog.String("transaction_id", orderID.String()),
		slog.String("session_id", s.id.String()))

	return svc.snapshot(s), nil
}

func (svc *SessionService) lookup(sessionID uuid.UUID) (*session, error) {
	svc.mu.RLock()
	s, ok := svc.sessions[sessionID]
	svc.mu.RUnlock()
	if !ok {
		return nil, domain.Reject(domain.RejectSessionNotFound, "no open session %s", sessionID)
	}
	return s, nil
}

func (svc *SessionService) drop(s *session) {
	svc.mu.Lock()
	if _, ok := svc.sessions[s.id]; ok {
		delete(svc.sessions, s.id)
		metrics.OpenSessions.Dec()
	}
	svc.mu.Unlock()
}

// guardOpen refuses mutations while a commit is in flight or finished.
func (svc *SessionService) guardOpen(s *session) error {
	switch s.phase {
	case phaseCommitting:
		return domain.Reject(domain.RejectSubmissionInProgress, "commit in flight for session %s", s.id)
	case phaseDone:
		return domain.Reject(domain.RejectAlreadySettled, "session %s already committed", s.id)
	}
	return nil
}

func (svc *SessionService) snapshot(s *session) *ports.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return svc.viewLocked(s)
}

func (svc *SessionService) viewLocked(s *session) *ports.SessionView {
	return &ports.SessionView{
		SessionID:       s.id,
		CashierID:       s.cashierID,
		Lines:           s.cart.Lines(),
		GrossTotal:      s.cart.Total(),
		DiscountPercent: s.settlement.DiscountPercent(),
		Target:          s.settlement.Target(),
		Tendered:        s.settlement.TenderedTotal(),
		Remaining:       s.settlement.Remaining(),
		State:           s.settlement.State(),
	}
}

func (svc *SessionService) payloadLocked(s *session, status string) *ports.TransactionPayload {
	id := uuid.New()
	if s.resumed {
		id = s.orderID
	}
	return &ports.TransactionPayload{
		ID:         id,
		Status:     status,
		Lines:      s.cart.Lines(),
		GrossTotal: s.cart.Total(),
		NetTotal:   s.settlement.Target(),
		Breakdown:  s.settlement.Breakdown(),
		CashierID:  s.cashierID,
		CreatedAt:  time.Now(),
	}
}

func (svc *SessionService) enqueueReceipt(ctx context.Context, transactionID uuid.UUID) {
	if svc.tasks == nil {
		return
	}
	b, err := json.Marshal(workers.ReceiptPayload{TransactionID: transactionID})
	if err != nil {
		return
	}
	task := asynq.NewTask(workers.TypeReceiptRender, b)
	if _, err := svc.tasks.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour)); err != nil {
		// Receipts are best-effort; the sale is already durable.
		svc.logger.WarnContext(ctx, "failed to enqueue receipt task",
			slog.String("transaction_id", transactionID.String()),
			slog.String("error", err.Error()))
	}
}

func (svc *SessionService) scaleConfigs(ctx context.Context) ([]domain.ScaleConfig, error) {
	var configs []domain.ScaleConfig
	err := svc.cache.GetOrSet(ctx, "catalog:scale_configs", &configs, func() (interface{}, error) {
		return svc.catalog.ScaleConfigs(ctx)
	}, svc.cacheTTL)
	if err != nil {
		return svc.catalog.ScaleConfigs(ctx)
	}
	return configs, nil
}

func (svc *SessionService) productByCode(ctx context.Context, code string) (*domain.Product, error) {
	return svc.cachedProduct(ctx, "catalog:product:code:"+code, func() (*domain.Product, error) {
		return svc.catalog.FindByCode(ctx, code)
	})
}

func (svc *SessionService) productByScaleCode(ctx context.Context, scaleCode string) (*domain.Product, error) {
	return svc.cachedProduct(ctx, "catalog:product:scale:"+scaleCode, func() (*domain.Product, error) {
		return svc.catalog.FindByScaleCode(ctx, scaleCode)
	})
}

func (svc *SessionService) productByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return svc.cachedProduct(ctx, "catalog:product:id:"+id.String(), func() (*domain.Product, error) {
		return svc.catalog.FindByID(ctx, id)
	})
}

// cachedProduct reads through the cache. A catalog miss is reported as
// errProductMiss by the fetch closure so it is never cached as an empty
// product; a cache infrastructure failure falls back to the catalog.
func (svc *SessionService) cachedProduct(ctx context.Context, key string, fetch func() (*domain.Product, error)) (*domain.Product, error) {
	var product domain.Product
	err := svc.cache.GetOrSet(ctx, key, &product, func() (interface{}, error) {
		p, err := fetch()
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, errProductMiss
		}
		return p, nil
	}, svc.cacheTTL)

	switch {
	case err == nil:
		return &product, nil
	case errors.Is(err, errProductMiss):
		return nil, nil
	default:
		return fetch()
	}
}

func (svc *SessionService) releaseResumeLock(ctx context.Context, orderID uuid.UUID) {
	if err := svc.cache.Delete(ctx, resumeLockKey(orderID)); err != nil {
		// The lock has a TTL; a missed delete only delays the next resume.
		svc.logger.WarnContext(ctx, "failed to release resume lock",
			slog.String("transaction_id", orderID.String()),
			slog.String("error", err.Error()))
	}
}

func resumeLockKey(orderID uuid.UUID) string {
	return "session:resume:" + orderID.String()
}
