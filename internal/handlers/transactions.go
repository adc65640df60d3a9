// internal/handlers/transactions.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/caissepos/caisse-be/internal/adapters/storage"
	"github.com/caissepos/caisse-be/internal/core/ports"
	"github.com/caissepos/caisse-be/internal/core/services"
	"github.com/caissepos/caisse-be/internal/workers"
)

// receiptLinkTTL bounds how long a handed-out receipt download link stays
// valid.
const receiptLinkTTL = 15 * time.Minute

// TransactionHandler serves the read side of committed transactions plus the
// day export trigger and receipt downloads.
type TransactionHandler struct {
	service  ports.TransactionService
	tasks    services.TaskEnqueuer
	receipts storage.StorageClient
	logger   *slog.Logger
}

// NewTransactionHandler creates a new transaction handler. tasks may be nil
// when the export worker is not deployed; receipts may be nil when no archive
// bucket is configured.
func NewTransactionHandler(service ports.TransactionService, tasks services.TaskEnqueuer, receipts storage.StorageClient, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		service:  service,
		tasks:    tasks,
		receipts: receipts,
		logger:   logger.With(slog.String("handler", "transactions")),
	}
}

// GetTransaction handles GET /api/v1/transactions/{id}
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	record, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.respondServiceError(ctx, w, "get transaction", err)
		return
	}

	h.respondJSON(w, http.StatusOK, record)
}

// ListTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := h.parseListParams(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.respondServiceError(ctx, w, "list transactions", err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetReceiptLink handles GET /api/v1/transactions/{id}/receipt. The receipt
// bytes never transit the API; the caller gets a short-lived download link
// into the archive bucket.
func (h *TransactionHandler) GetReceiptLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.receipts == nil {
		h.respondError(w, http.StatusServiceUnavailable, "Receipt archive is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	record, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.respondServiceError(ctx, w, "get transaction", err)
		return
	}
	if record.Status != ports.TransactionStatusPaid {
		h.respondError(w, http.StatusUnprocessableEntity, "Only paid transactions have receipts")
		return
	}

	key := storage.ReceiptKey(record.ID, record.CreatedAt)
	exists, err := h.receipts.Exists(ctx, key)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to check receipt archive",
			slog.String("transaction_id", id.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to check receipt archive")
		return
	}
	if !exists {
		h.respondError(w, http.StatusNotFound, "Receipt not rendered yet")
		return
	}

	url, err := h.receipts.GetPresignedURL(ctx, key, receiptLinkTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to presign receipt link",
			slog.String("transaction_id", id.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to build receipt link")
		return
	}

	h.respondJSON(w, http.StatusOK, ReceiptLinkResponse{
		URL:       url,
		ExpiresIn: int(receiptLinkTTL.Seconds()),
	})
}

// DayReport handles GET /api/v1/reports/day
func (h *TransactionHandler) DayReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	day := time.Now()
	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	report, err := h.service.DayReport(ctx, day)
	if err != nil {
		h.respondServiceError(ctx, w, "day report", err)
		return
	}

	h.respondJSON(w, http.StatusOK, report)
}

// ExportDay handles POST /api/v1/exports/day and queues the spreadsheet
// export of one business day.
func (h *TransactionHandler) ExportDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.tasks == nil {
		h.respondError(w, http.StatusServiceUnavailable, "Export worker is not configured")
		return
	}

	var req ExportDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Day == "" {
		req.Day = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", req.Day); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid day, expected YYYY-MM-DD")
		return
	}

	payload, err := json.Marshal(workers.DayExportPayload{Day: req.Day})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to build export task")
		return
	}

	info, err := h.tasks.Enqueue(
		asynq.NewTask(workers.TypeDayExport, payload),
		asynq.Queue("exports"),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue day export",
			slog.String("day", req.Day),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue export")
		return
	}

	h.logger.InfoContext(ctx, "day export queued",
		slog.String("day", req.Day),
		slog.String("task_id", info.ID))

	h.respondJSON(w, http.StatusAccepted, map[string]string{
		"task_id": info.ID,
		"day":     req.Day,
		"status":  "queued",
	})
}

// parseListParams parses query parameters for listing transactions
func (h *TransactionHandler) parseListParams(r *http.Request) (ports.ListParams, error) {
	params := ports.ListParams{
		Page:      1,
		PageSize:  50,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	query := r.URL.Query()

	if page := query.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}
	if limit := query.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			params.PageSize = l
		}
	}

	params.Status = query.Get("status")
	params.CashierID = query.Get("cashier_id")

	if from := query.Get("from"); from != "" {
		parsed, err := parseTimeParam(from)
		if err != nil {
			return params, err
		}
		params.From = parsed
	}
	if to := query.Get("to"); to != "" {
		parsed, err := parseTimeParam(to)
		if err != nil {
			return params, err
		}
		params.To = parsed
	}

	if sortBy := query.Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	return params, nil
}

// parseTimeParam accepts either a full RFC 3339 timestamp or a bare date.
func parseTimeParam(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// Helper methods

func (h *TransactionHandler) respondServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status, body := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "transaction operation failed",
			slog.String("op", op),
			slog.String("error", err.Error()))
	}
	h.respondJSON(w, status, body)
}

func (h *TransactionHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *TransactionHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// ExportDayRequest asks for one day's transactions as a spreadsheet
type ExportDayRequest struct {
	Day string `json:"day"`
}

// ReceiptLinkResponse carries a time-limited receipt download link
type ReceiptLinkResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}
