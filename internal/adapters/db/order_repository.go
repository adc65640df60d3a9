// internal/adapters/db/order_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caissepos/caisse-be/internal/core/ports"
)

// orderRepository implements ports.OrderRepository
type orderRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *Database, logger *slog.Logger) ports.OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "orders")),
	}
}

const insertLineQuery = `
	INSERT INTO transaction_lines (
		line_id, transaction_id, product_id, code, label,
		quantity, quantity_returned, unit_price, total_price, position
	) VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9)`

// Commit writes one settled or parked transaction atomically: the header row,
// its lines, and for paid transactions the stock decrement per line.
func (r *orderRepository) Commit(ctx context.Context, payload *ports.TransactionPayload) error {
	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO transactions (
				id, status, gross_total, net_total, discount_percent,
				cash, card, cheque, voucher, cashier_id, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`

		_, err := tx.Exec(ctx, query,
			payload.ID, payload.Status, payload.GrossTotal, payload.NetTotal,
			payload.Breakdown.DiscountPercent,
			payload.Breakdown.Cash, payload.Breakdown.Card,
			payload.Breakdown.Cheque, payload.Breakdown.Voucher,
			payload.CashierID, payload.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		return r.writeLines(ctx, tx, payload)
	})
	if err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "transaction committed",
		slog.String("transaction_id", payload.ID.String()),
		slog.String("status", payload.Status),
		slog.Int("lines", len(payload.Lines)))

	return nil
}

// Update rewrites a previously parked transaction in place. The park's lines
// are replaced wholesale; what the till resumed with is the only truth.
func (r *orderRepository) Update(ctx context.Context, payload *ports.TransactionPayload) error {
	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE transactions SET
				status = $2, gross_total = $3, net_total = $4, discount_percent = $5,
				cash = $6, card = $7, cheque = $8, voucher = $9, updated_at = $10
			WHERE id = $1`

		tag, err := tx.Exec(ctx, query,
			payload.ID, payload.Status, payload.GrossTotal, payload.NetTotal,
			payload.Breakdown.DiscountPercent,
			payload.Breakdown.Cash, payload.Breakdown.Card,
			payload.Breakdown.Cheque, payload.Breakdown.Voucher,
			time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("transaction not found: %s", payload.ID)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM transaction_lines WHERE transaction_id = $1`, payload.ID); err != nil {
			return fmt.Errorf("failed to clear transaction lines: %w", err)
		}

		return r.writeLines(ctx, tx, payload)
	})
	if err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "transaction updated",
		slog.String("transaction_id", payload.ID.String()),
		slog.String("status", payload.Status))

	return nil
}

func (r *orderRepository) writeLines(ctx context.Context, tx pgx.Tx, payload *ports.TransactionPayload) error {
	batch := &pgx.Batch{}

	for i, line := range payload.Lines {
		batch.Queue(insertLineQuery,
			uuid.New(), payload.ID, line.ProductID, line.Code, line.Label,
			line.Quantity, line.UnitPrice, line.TotalPrice, i,
		)
		if payload.Status == ports.TransactionStatusPaid {
			// Stock is advisory; it never goes negative even when the shelf
			// count drifted below what was sold.
			batch.Queue(
				`UPDATE products SET stock = GREATEST(stock - $2, 0), updated_at = NOW() WHERE id = $1`,
				line.ProductID, line.Quantity,
			)
		}
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to write transaction line: %w", err)
		}
	}

	return nil
}

// FindByID retrieves a transaction with its lines
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ports.TransactionRecord, error) {
	query := `
		SELECT id, status, gross_total, net_total, discount_percent,
			cash, card, cheque, voucher, cashier_id, created_at, updated_at
		FROM transactions
		WHERE id = $1`

	record, err := r.scanTransaction(r.db.QueryRow(ctx, query, id))
	if err != nil || record == nil {
		return record, err
	}

	lines, err := r.linesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Lines = lines

	return record, nil
}

func (r *orderRepository) scanTransaction(row pgx.Row) (*ports.TransactionRecord, error) {
	record := &ports.TransactionRecord{}
	err := row.Scan(
		&record.ID, &record.Status, &record.GrossTotal, &record.NetTotal,
		&record.Breakdown.DiscountPercent,
		&record.Breakdown.Cash, &record.Breakdown.Card,
		&record.Breakdown.Cheque, &record.Breakdown.Voucher,
		&record.CashierID, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return record, nil
}

func (r *orderRepository) linesFor(ctx context.Context, id uuid.UUID) ([]ports.TransactionLine, error) {
	query := `
		SELECT line_id, product_id, code, label,
			quantity, quantity_returned, unit_price, total_price
		FROM transaction_lines
		WHERE transaction_id = $1
		ORDER BY position`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction lines: %w", err)
	}
	defer rows.Close()

	var lines []ports.TransactionLine
	for rows.Next() {
		var line ports.TransactionLine
		err := rows.Scan(
			&line.LineID, &line.ProductID, &line.Code, &line.Label,
			&line.Quantity, &line.QuantityReturned, &line.UnitPrice, &line.TotalPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lines, nil
}

// List retrieves transactions with filtering and pagination
func (r *orderRepository) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	qb := squirrel.Select(
		"id", "status", "gross_total", "net_total", "discount_percent",
		"cash", "card", "cheque", "voucher", "cashier_id", "created_at", "updated_at",
	).From("transactions").
		PlaceholderFormat(squirrel.Dollar)

	if params.Status != "" {
		qb = qb.Where(squirrel.Eq{"status": params.Status})
	}
	if params.CashierID != "" {
		qb = qb.Where(squirrel.Eq{"cashier_id": params.CashierID})
	}
	if !params.From.IsZero() {
		qb = qb.Where(squirrel.GtOrEq{"created_at": params.From})
	}
	if !params.To.IsZero() {
		qb = qb.Where(squirrel.Lt{"created_at": params.To})
	}

	countQb := qb.Column("COUNT(*) OVER()").Limit(1)
	countSQL, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	row := ports.TransactionRecord{}
	err = r.db.QueryRow(ctx, countSQL, countArgs...).Scan(
		&row.ID, &row.Status, &row.GrossTotal, &row.NetTotal,
		&row.Breakdown.DiscountPercent,
		&row.Breakdown.Cash, &row.Breakdown.Card,
		&row.Breakdown.Cheque, &row.Breakdown.Voucher,
		&row.CashierID, &row.CreatedAt, &row.UpdatedAt,
		&totalCount,
	)
	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	direction := "DESC"
	if params.SortOrder == "asc" {
		direction = "ASC"
	}
	orderBy := "created_at " + direction
	switch params.SortBy {
	case "total":
		orderBy = "net_total " + direction
	case "updated":
		orderBy = "updated_at " + direction
	}
	qb = qb.OrderBy(orderBy)

	qb = qb.Limit(uint64(params.PageSize)).
		Offset(uint64((params.Page - 1) * params.PageSize))

	querySQL, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var records []*ports.TransactionRecord
	for rows.Next() {
		record := &ports.TransactionRecord{}
		err := rows.Scan(
			&record.ID, &record.Status, &record.GrossTotal, &record.NetTotal,
			&record.Breakdown.DiscountPercent,
			&record.Breakdown.Cash, &record.Breakdown.Card,
			&record.Breakdown.Cheque, &record.Breakdown.Voucher,
			&record.CashierID, &record.CreatedAt, &record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	totalPages := int((totalCount + int64(params.PageSize) - 1) / int64(params.PageSize))

	return &ports.ListResult{
		Transactions: records,
		Page:         params.Page,
		PageSize:     params.PageSize,
		TotalCount:   totalCount,
		TotalPages:   totalPages,
	}, nil
}

// ListByDay returns every paid transaction of one business day, with lines,
// for the day report and the export worker.
func (r *orderRepository) ListByDay(ctx context.Context, day time.Time) ([]*ports.TransactionRecord, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT id, status, gross_total, net_total, discount_percent,
			cash, card, cheque, voucher, cashier_id, created_at, updated_at
		FROM transactions
		WHERE status = 'paid' AND created_at >= $1 AND created_at < $2
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query day transactions: %w", err)
	}
	defer rows.Close()

	var records []*ports.TransactionRecord
	for rows.Next() {
		record := &ports.TransactionRecord{}
		err := rows.Scan(
			&record.ID, &record.Status, &record.GrossTotal, &record.NetTotal,
			&record.Breakdown.DiscountPercent,
			&record.Breakdown.Cash, &record.Breakdown.Card,
			&record.Breakdown.Cheque, &record.Breakdown.Voucher,
			&record.CashierID, &record.CreatedAt, &record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	for _, record := range records {
		lines, err := r.linesFor(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		record.Lines = lines
	}

	return records, nil
}
