// internal/handlers/returns.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caissepos/caisse-be/internal/core/ports"
)

// ReturnHandler handles post-sale return requests against paid transactions.
type ReturnHandler struct {
	service ports.ReturnService
	logger  *slog.Logger
}

// NewReturnHandler creates a new return handler
func NewReturnHandler(service ports.ReturnService, logger *slog.Logger) *ReturnHandler {
	return &ReturnHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "returns")),
	}
}

// SaleLines handles GET /api/v1/transactions/{id}/sale-lines and returns the
// returnable view of a paid transaction.
func (h *ReturnHandler) SaleLines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	lines, err := h.service.SaleLines(ctx, orderID)
	if err != nil {
		h.respondServiceError(ctx, w, "sale lines", err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"transaction_id": orderID,
		"lines":          lines,
	})
}

// RequestReturn handles POST /api/v1/transactions/{id}/returns
func (h *ReturnHandler) RequestReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	var req ReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	requested, err := req.Quantities()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.RequestReturn(ctx, orderID, requested)
	if err != nil {
		h.respondServiceError(ctx, w, "request return", err)
		return
	}

	h.logger.InfoContext(ctx, "return accepted",
		slog.String("return_id", record.ID.String()),
		slog.String("transaction_id", orderID.String()),
		slog.String("total_refund", record.TotalRefund.String()))

	h.respondJSON(w, http.StatusCreated, record)
}

// ListReturns handles GET /api/v1/transactions/{id}/returns
func (h *ReturnHandler) ListReturns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	records, err := h.service.ListByOrder(ctx, orderID)
	if err != nil {
		h.respondServiceError(ctx, w, "list returns", err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"transaction_id": orderID,
		"returns":        records,
	})
}

// CancelReturn handles DELETE /api/v1/returns/{id}
func (h *ReturnHandler) CancelReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	returnID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid return ID format")
		return
	}

	record, err := h.service.CancelReturn(ctx, returnID)
	if err != nil {
		h.respondServiceError(ctx, w, "cancel return", err)
		return
	}

	h.logger.InfoContext(ctx, "return cancelled",
		slog.String("return_id", returnID.String()))

	h.respondJSON(w, http.StatusOK, record)
}

// Helper methods

func (h *ReturnHandler) respondServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status, body := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "return operation failed",
			slog.String("op", op),
			slog.String("error", err.Error()))
	}
	h.respondJSON(w, status, body)
}

func (h *ReturnHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ReturnHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// ReturnRequestLine is one requested line of a return
type ReturnRequestLine struct {
	LineID   uuid.UUID       `json:"line_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ReturnRequest represents the request body for submitting a return
type ReturnRequest struct {
	Lines []ReturnRequestLine `json:"lines"`
}

// Quantities folds the request lines into the per-line quantity map the
// service validates. Duplicate line IDs are refused here rather than silently
// summed.
func (r *ReturnRequest) Quantities() (map[uuid.UUID]decimal.Decimal, error) {
	if len(r.Lines) == 0 {
		return nil, fmt.Errorf("lines is required")
	}

	requested := make(map[uuid.UUID]decimal.Decimal, len(r.Lines))
	for _, line := range r.Lines {
		if line.LineID == uuid.Nil {
			return nil, fmt.Errorf("line_id is required")
		}
		if _, dup := requested[line.LineID]; dup {
			return nil, fmt.Errorf("duplicate line_id %s", line.LineID)
		}
		requested[line.LineID] = line.Quantity
	}
	return requested, nil
}
