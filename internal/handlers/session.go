// internal/handlers/session.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caissepos/caisse-be/internal/core/domain"
	"github.com/caissepos/caisse-be/internal/core/ports"
)

// SessionHandler drives live checkout sessions over HTTP: open, scan, tender,
// commit, park and resume.
type SessionHandler struct {
	service ports.SessionService
	logger  *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service ports.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "session")),
	}
}

// OpenSession handles POST /api/v1/sessions
func (h *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CashierID == "" {
		h.respondError(w, http.StatusBadRequest, "cashier_id is required")
		return
	}

	view, err := h.service.Open(ctx, req.CashierID)
	if err != nil {
		h.respondServiceError(ctx, w, "open session", err)
		return
	}

	h.logger.InfoContext(ctx, "session opened",
		slog.String("session_id", view.SessionID.String()),
		slog.String("cashier_id", req.CashierID))

	h.respondJSON(w, http.StatusCreated, view)
}

// GetSession handles GET /api/v1/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.service.Get(ctx, sessionID)
	if err != nil {
		h.respondServiceError(ctx, w, "get session", err)
		return
	}

	h.respondJSON(w, http.StatusOK, view)
}

// CancelSession handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(ctx, sessionID); err != nil {
		h.respondServiceError(ctx, w, "cancel session", err)
		return
	}

	h.logger.InfoContext(ctx, "session cancelled",
		slog.String("session_id", sessionID.String()))

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message":    "Session cancelled",
		"session_id": sessionID.String(),
	})
}

// Scan handles POST /api/v1/sessions/{id}/scan
func (h *SessionHandler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Barcode == "" {
		h.respondError(w, http.StatusBadRequest, "barcode is required")
		return
	}

	outcome, err := h.service.Scan(ctx, sessionID, req.Barcode)
	if err != nil {
		h.respondServiceError(ctx, w, "scan", err)
		return
	}

	h.respondJSON(w, http.StatusOK, outcome)
}

// SetQuantity handles PUT /api/v1/sessions/{id}/items/{productId}
func (h *SessionHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}
	productID, ok := h.pathUUID(w, r, "productId")
	if !ok {
		return
	}

	var req QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.service.SetQuantity(ctx, sessionID, productID, req.Quantity)
	if err != nil {
		h.respondServiceError(ctx, w, "set quantity", err)
		return
	}

	h.respondJSON(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /api/v1/sessions/{id}/items/{productId}
func (h *SessionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}
	productID, ok := h.pathUUID(w, r, "productId")
	if !ok {
		return
	}

	view, err := h.service.RemoveItem(ctx, sessionID, productID)
	if err != nil {
		h.respondServiceError(ctx, w, "remove item", err)
		return
	}

	h.respondJSON(w, http.StatusOK, view)
}

// ClearCart handles DELETE /api/v1/sessions/{id}/items
func (h *SessionHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.service.ClearCart(ctx, sessionID)
	if err != nil {
		h.respondServiceError(ctx, w, "clear cart", err)
		return
	}

	h.respondJSON(w, http.StatusOK, view)
}

// SetDiscount handles PUT /api/v1/sessions/{id}/discount
func (h *SessionHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req DiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.service.SetDiscount(ctx, sessionID, req.Percent)
	if err != nil {
		h.respondServiceError(ctx, w, "set discount", err)
		return
	}

	h.respondJSON(w, http.StatusOK, view)
}

// ApplyTender handles POST /api/v1/sessions/{id}/tenders
func (h *SessionHandler) ApplyTender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req TenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.service.ApplyTender(ctx, sessionID, domain.TenderKind(req.Kind), req.Amount)
	if err != nil {
		h.respondServiceError(ctx, w, "apply tender", err)
		return
	}

	h.respondJSON(w, http.StatusOK, view)
}

// ApplyVoucher handles POST /api/v1/sessions/{id}/vouchers
func (h *SessionHandler) ApplyVoucher(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req VoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Code == "" {
		h.respondError(w, http.StatusBadRequest, "code is required")
		return
	}

	view, err := h.service.ApplyVoucher(ctx, sessionID, req.Code, req.Value)
	if err != nil {
		h.respondServiceError(ctx, w, "apply voucher", err)
		return
	}

	h.respondJSON(w, http.StatusOK, view)
}

// Commit handles POST /api/v1/sessions/{id}/commit
func (h *SessionHandler) Commit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.service.Commit(ctx, sessionID)
	if err != nil {
		h.respondServiceError(ctx, w, "commit", err)
		return
	}

	h.logger.InfoContext(ctx, "session committed",
		slog.String("session_id", sessionID.String()),
		slog.String("transaction_id", view.TransactionID.String()))

	h.respondJSON(w, http.StatusCreated, view)
}

// Park handles POST /api/v1/sessions/{id}/park
func (h *SessionHandler) Park(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.service.Park(ctx, sessionID)
	if err != nil {
		h.respondServiceError(ctx, w, "park", err)
		return
	}

	h.respondJSON(w, http.StatusCreated, view)
}

// Resume handles POST /api/v1/sessions/resume
func (h *SessionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CashierID == "" {
		h.respondError(w, http.StatusBadRequest, "cashier_id is required")
		return
	}

	view, err := h.service.Resume(ctx, req.TransactionID, req.CashierID)
	if err != nil {
		h.respondServiceError(ctx, w, "resume", err)
		return
	}

	h.respondJSON(w, http.StatusCreated, view)
}

// Helper methods

func (h *SessionHandler) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return uuid.Nil, false
	}
	return id, true
}

func (h *SessionHandler) respondServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status, body := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "session operation failed",
			slog.String("op", op),
			slog.String("error", err.Error()))
	}
	h.respondJSON(w, status, body)
}

func (h *SessionHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *SessionHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// OpenSessionRequest represents the request body for opening a session
type OpenSessionRequest struct {
	CashierID string `json:"cashier_id"`
}

// ScanRequest represents one barcode scan
type ScanRequest struct {
	Barcode string `json:"barcode"`
}

// QuantityRequest represents a line quantity change
type QuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// DiscountRequest represents the transaction-level discount
type DiscountRequest struct {
	Percent decimal.Decimal `json:"percent"`
}

// TenderRequest represents one payment event
type TenderRequest struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// Validate validates the tender request
func (r *TenderRequest) Validate() error {
	switch domain.TenderKind(r.Kind) {
	case domain.TenderCash, domain.TenderCard, domain.TenderCheque:
		return nil
	case domain.TenderVoucher:
		return fmt.Errorf("vouchers go through the vouchers endpoint")
	default:
		return fmt.Errorf("unknown tender kind %q", r.Kind)
	}
}

// VoucherRequest represents one meal voucher
type VoucherRequest struct {
	Code  string          `json:"code"`
	Value decimal.Decimal `json:"value"`
}

// ResumeRequest asks to reopen a parked transaction
type ResumeRequest struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	CashierID     string    `json:"cashier_id"`
}
