// internal/workers/receipt_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"github.com/caissepos/caisse-be/internal/adapters/storage"
	"github.com/caissepos/caisse-be/internal/core/ports"
	"github.com/caissepos/caisse-be/internal/pkg/config"
)

const (
	TypeReceiptRender    = "receipt:render"
	TypeDayExport        = "export:day"
	TypeCleanupParked    = "cleanup:parked"
	TypeCleanupTempFiles = "cleanup:temp_files"
)

// ReceiptPayload identifies the committed transaction a receipt is rendered
// for.
type ReceiptPayload struct {
	TransactionID uuid.UUID `json:"transaction_id"`
}

// ReceiptProcessor renders till receipts for settled transactions and
// archives them in object storage.
type ReceiptProcessor struct {
	orders  ports.OrderRepository
	storage storage.StorageClient
	config  *config.Config
	logger  *slog.Logger
}

// NewReceiptProcessor creates a new receipt processor
func NewReceiptProcessor(orders ports.OrderRepository, st storage.StorageClient, cfg *config.Config, logger *slog.Logger) *ReceiptProcessor {
	return &ReceiptProcessor{
		orders:  orders,
		storage: st,
		config:  cfg,
		logger:  logger.With(slog.String("processor", "receipt")),
	}
}

// ProcessReceipt renders the receipt for one transaction and uploads it.
func (p *ReceiptProcessor) ProcessReceipt(ctx context.Context, t *asynq.Task) error {
	var payload ReceiptPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	record, err := p.orders.FindByID(ctx, payload.TransactionID)
	if err != nil {
		return fmt.Errorf("failed to load transaction %s: %w", payload.TransactionID, err)
	}
	if record == nil {
		// The transaction is gone; retrying will not bring it back.
		p.logger.WarnContext(ctx, "transaction not found for receipt",
			slog.String("transaction_id", payload.TransactionID.String()))
		return fmt.Errorf("transaction %s not found: %w", payload.TransactionID, asynq.SkipRetry)
	}

	receipt := RenderReceipt(record, p.config.Pos.ReceiptHeader, p.config.Pos.ReceiptFooter)

	key := storage.ReceiptKey(record.ID, record.CreatedAt)
	location, err := p.storage.Upload(ctx, key, strings.NewReader(receipt), "text/plain; charset=utf-8")
	if err != nil {
		return fmt.Errorf("failed to upload receipt: %w", err)
	}

	p.logger.InfoContext(ctx, "receipt archived",
		slog.String("transaction_id", record.ID.String()),
		slog.String("location", location))

	return nil
}

const receiptWidth = 40

// RenderReceipt formats a committed transaction as a fixed-width till
// receipt. Amounts always carry three decimals; quantities print as scanned,
// so weighed lines keep their fractional quantity.
func RenderReceipt(record *ports.TransactionRecord, header, footer string) string {
	var b strings.Builder

	rule := strings.Repeat("-", receiptWidth)

	if header != "" {
		b.WriteString(centerText(header, receiptWidth) + "\n")
	}
	b.WriteString(centerText(record.CreatedAt.Format("02/01/2006 15:04"), receiptWidth) + "\n")
	fmt.Fprintf(&b, "Ticket %s\n", record.ID)
	if record.CashierID != "" {
		fmt.Fprintf(&b, "Caisse %s\n", record.CashierID)
	}
	b.WriteString(rule + "\n")

	for _, l := range record.Lines {
		b.WriteString(l.Label + "\n")
		detail := fmt.Sprintf("  %s x %s", l.Quantity, l.UnitPrice.StringFixed(3))
		writeAmountLine(&b, detail, l.TotalPrice)
	}

	b.WriteString(rule + "\n")
	writeAmountLine(&b, "TOTAL", record.GrossTotal)
	if record.Breakdown.DiscountPercent.IsPositive() {
		writeAmountLine(&b, fmt.Sprintf("NET (remise %s%%)", record.Breakdown.DiscountPercent), record.NetTotal)
	}
	if record.Breakdown.Cash.IsPositive() {
		writeAmountLine(&b, "ESPECES", record.Breakdown.Cash)
	}
	if record.Breakdown.Card.IsPositive() {
		writeAmountLine(&b, "CARTE", record.Breakdown.Card)
	}
	if record.Breakdown.Cheque.IsPositive() {
		writeAmountLine(&b, "CHEQUE", record.Breakdown.Cheque)
	}
	if record.Breakdown.Voucher.IsPositive() {
		writeAmountLine(&b, "TITRES", record.Breakdown.Voucher)
	}
	b.WriteString(rule + "\n")

	if footer != "" {
		b.WriteString(centerText(footer, receiptWidth) + "\n")
	}

	return b.String()
}

func writeAmountLine(b *strings.Builder, label string, amount decimal.Decimal) {
	value := amount.StringFixed(3)
	pad := receiptWidth - len(label) - len(value)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(label + strings.Repeat(" ", pad) + value + "\n")
}

func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s
}
