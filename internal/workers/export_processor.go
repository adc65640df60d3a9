// internal/workers/export_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/caissepos/caisse-be/internal/adapters/storage"
	"github.com/caissepos/caisse-be/internal/core/ports"
	"github.com/caissepos/caisse-be/internal/pkg/config"
)

// DayExportPayload names the business day to export, formatted 2006-01-02.
type DayExportPayload struct {
	Day string `json:"day"`
}

// ExportProcessor builds the end-of-day spreadsheet for the back office and
// uploads it to object storage.
type ExportProcessor struct {
	orders  ports.OrderRepository
	storage storage.StorageClient
	config  *config.Config
	logger  *slog.Logger
}

// NewExportProcessor creates a new export processor
func NewExportProcessor(orders ports.OrderRepository, st storage.StorageClient, cfg *config.Config, logger *slog.Logger) *ExportProcessor {
	return &ExportProcessor{
		orders:  orders,
		storage: st,
		config:  cfg,
		logger:  logger.With(slog.String("processor", "export")),
	}
}

// ProcessDayExport exports one business day of paid transactions as an xlsx
// workbook.
func (p *ExportProcessor) ProcessDayExport(ctx context.Context, t *asynq.Task) error {
	var payload DayExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	day, err := time.Parse("2006-01-02", payload.Day)
	if err != nil {
		return fmt.Errorf("invalid export day %q: %w", payload.Day, asynq.SkipRetry)
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Export.ExportTimeout)
	defer cancel()

	p.logger.InfoContext(ctx, "exporting day", slog.String("day", payload.Day))

	records, err := p.orders.ListByDay(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to list transactions for %s: %w", payload.Day, err)
	}

	workbook, err := buildDayWorkbook(day, records)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		return fmt.Errorf("failed to serialize workbook: %w", err)
	}

	key := storage.ExportKey(payload.Day)
	location, err := p.storage.Upload(ctx, key, &buf,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err != nil {
		return fmt.Errorf("failed to upload export: %w", err)
	}

	p.logger.InfoContext(ctx, "day export completed",
		slog.String("day", payload.Day),
		slog.Int("transactions", len(records)),
		slog.String("location", location))

	return nil
}

func buildDayWorkbook(day time.Time, records []*ports.TransactionRecord) (*xlsx.File, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Transactions")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"Ticket", "Heure", "Caisse", "Articles",
		"Total brut", "Remise %", "Total net",
		"Especes", "Carte", "Cheque", "Titres",
	} {
		header.AddCell().SetString(h)
	}

	totals := ports.DayReport{Day: day}
	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(rec.ID.String())
		row.AddCell().SetString(rec.CreatedAt.Format("15:04:05"))
		row.AddCell().SetString(rec.CashierID)
		row.AddCell().SetInt(len(rec.Lines))
		setAmount(row, rec.GrossTotal)
		setAmount(row, rec.Breakdown.DiscountPercent)
		setAmount(row, rec.NetTotal)
		setAmount(row, rec.Breakdown.Cash)
		setAmount(row, rec.Breakdown.Card)
		setAmount(row, rec.Breakdown.Cheque)
		setAmount(row, rec.Breakdown.Voucher)

		totals.TransactionCount++
		totals.GrossTotal = totals.GrossTotal.Add(rec.GrossTotal)
		totals.NetTotal = totals.NetTotal.Add(rec.NetTotal)
		totals.Cash = totals.Cash.Add(rec.Breakdown.Cash)
		totals.Card = totals.Card.Add(rec.Breakdown.Card)
		totals.Cheque = totals.Cheque.Add(rec.Breakdown.Cheque)
		totals.Voucher = totals.Voucher.Add(rec.Breakdown.Voucher)
	}

	summary, err := file.AddSheet("Cloture")
	if err != nil {
		return nil, err
	}

	addSummaryRow := func(label string, value decimal.Decimal) {
		row := summary.AddRow()
		row.AddCell().SetString(label)
		setAmountCell(row.AddCell(), value)
	}

	dayRow := summary.AddRow()
	dayRow.AddCell().SetString("Journee")
	dayRow.AddCell().SetString(day.Format("2006-01-02"))

	countRow := summary.AddRow()
	countRow.AddCell().SetString("Tickets")
	countRow.AddCell().SetInt(totals.TransactionCount)

	addSummaryRow("Total brut", totals.GrossTotal)
	addSummaryRow("Total net", totals.NetTotal)
	addSummaryRow("Especes", totals.Cash)
	addSummaryRow("Carte", totals.Card)
	addSummaryRow("Cheque", totals.Cheque)
	addSummaryRow("Titres", totals.Voucher)

	return file, nil
}

func setAmount(row *xlsx.Row, d decimal.Decimal) {
	setAmountCell(row.AddCell(), d)
}

// setAmountCell writes the decimal as a spreadsheet number. Three decimals is
// the till's currency scale; float conversion is safe at that precision for
// daily totals.
func setAmountCell(cell *xlsx.Cell, d decimal.Decimal) {
	f, _ := d.Float64()
	cell.SetFloatWithFormat(f, "0.000")
}
