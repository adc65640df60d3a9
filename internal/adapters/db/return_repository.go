// internal/adapters/db/return_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caissepos/caisse-be/internal/core/domain"
	"github.com/caissepos/caisse-be/internal/core/ports"
)

// returnRepository implements ports.ReturnRepository
type returnRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewReturnRepository creates a new return repository
func NewReturnRepository(db *Database, logger *slog.Logger) ports.ReturnRepository {
	return &returnRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "returns")),
	}
}

// Submit stores an accepted return atomically: the record, the per-line
// returned-quantity bump on the sale, and the stock restore. The guarded
// UPDATE re-checks availability inside the transaction, so two tills racing
// on the same sale line cannot over-return it.
func (r *returnRepository) Submit(ctx context.Context, record *domain.ReturnRecord) error {
	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO returns (id, order_id, total_refund, cancelled, created_at)
			 VALUES ($1, $2, $3, FALSE, $4)`,
			record.ID, record.OrderID, record.TotalRefund, record.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert return: %w", err)
		}

		for _, line := range record.Lines {
			tag, err := tx.Exec(ctx,
				`UPDATE transaction_lines
				 SET quantity_returned = quantity_returned + $2
				 WHERE line_id = $1 AND quantity - quantity_returned >= $2`,
				line.LineID, line.Quantity,
			)
			if err != nil {
				return fmt.Errorf("failed to mark line returned: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("line %s no longer has %s available for return", line.LineID, line.Quantity)
			}

			_, err = tx.Exec(ctx,
				`UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1`,
				line.ProductID, line.Quantity,
			)
			if err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}

			_, err = tx.Exec(ctx,
				`INSERT INTO return_lines (return_id, line_id, product_id, quantity, refund)
				 VALUES ($1, $2, $3, $4, $5)`,
				record.ID, line.LineID, line.ProductID, line.Quantity, line.Refund,
			)
			if err != nil {
				return fmt.Errorf("failed to insert return line: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "return submitted",
		slog.String("return_id", record.ID.String()),
		slog.String("order_id", record.OrderID.String()),
		slog.String("refund", record.TotalRefund.String()))

	return nil
}

// Cancel reverses a return: the returned quantities go back on the sale lines
// and the restored stock comes back off the shelf.
func (r *returnRepository) Cancel(ctx context.Context, returnID uuid.UUID) (*domain.ReturnRecord, error) {
	var record *domain.ReturnRecord

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE returns SET cancelled = TRUE, cancelled_at = $2
			 WHERE id = $1 AND cancelled = FALSE`,
			returnID, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to cancel return: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("return %s not found or already cancelled", returnID)
		}

		rows, err := tx.Query(ctx,
			`SELECT line_id, product_id, quantity, refund FROM return_lines WHERE return_id = $1`,
			returnID,
		)
		if err != nil {
			return fmt.Errorf("failed to query return lines: %w", err)
		}

		var lines []domain.ReturnLine
		for rows.Next() {
			var line domain.ReturnLine
			if err := rows.Scan(&line.LineID, &line.ProductID, &line.Quantity, &line.Refund); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan return line: %w", err)
			}
			lines = append(lines, line)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating rows: %w", err)
		}

		for _, line := range lines {
			_, err := tx.Exec(ctx,
				`UPDATE transaction_lines
				 SET quantity_returned = GREATEST(quantity_returned - $2, 0)
				 WHERE line_id = $1`,
				line.LineID, line.Quantity,
			)
			if err != nil {
				return fmt.Errorf("failed to unmark line returned: %w", err)
			}

			_, err = tx.Exec(ctx,
				`UPDATE products SET stock = GREATEST(stock - $2, 0), updated_at = NOW() WHERE id = $1`,
				line.ProductID, line.Quantity,
			)
			if err != nil {
				return fmt.Errorf("failed to re-deduct stock: %w", err)
			}
		}

		record, err = r.findByIDTx(ctx, tx, returnID)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "return cancelled",
		slog.String("return_id", returnID.String()))

	return record, nil
}

// FindByID retrieves a return with its lines
func (r *returnRepository) FindByID(ctx context.Context, returnID uuid.UUID) (*domain.ReturnRecord, error) {
	record := &domain.ReturnRecord{}
	err := r.db.QueryRow(ctx,
		`SELECT id, order_id, total_refund, cancelled, created_at FROM returns WHERE id = $1`,
		returnID,
	).Scan(&record.ID, &record.OrderID, &record.TotalRefund, &record.Cancelled, &record.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find return: %w", err)
	}

	lines, err := r.returnLines(ctx, returnID)
	if err != nil {
		return nil, err
	}
	record.Lines = lines

	return record, nil
}

func (r *returnRepository) findByIDTx(ctx context.Context, tx pgx.Tx, returnID uuid.UUID) (*domain.ReturnRecord, error) {
	record := &domain.ReturnRecord{}
	err := tx.QueryRow(ctx,
		`SELECT id, order_id, total_refund, cancelled, created_at FROM returns WHERE id = $1`,
		returnID,
	).Scan(&record.ID, &record.OrderID, &record.TotalRefund, &record.Cancelled, &record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reload return: %w", err)
	}
	return record, nil
}

func (r *returnRepository) returnLines(ctx context.Context, returnID uuid.UUID) ([]domain.ReturnLine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT line_id, product_id, quantity, refund FROM return_lines WHERE return_id = $1`,
		returnID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query return lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.ReturnLine
	for rows.Next() {
		var line domain.ReturnLine
		if err := rows.Scan(&line.LineID, &line.ProductID, &line.Quantity, &line.Refund); err != nil {
			return nil, fmt.Errorf("failed to scan return line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lines, nil
}

// ListByOrder retrieves every return recorded against one transaction
func (r *returnRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.ReturnRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, total_refund, cancelled, created_at
		 FROM returns WHERE order_id = $1 ORDER BY created_at`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query returns: %w", err)
	}
	defer rows.Close()

	var records []*domain.ReturnRecord
	for rows.Next() {
		record := &domain.ReturnRecord{}
		err := rows.Scan(&record.ID, &record.OrderID, &record.TotalRefund, &record.Cancelled, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan return: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	for _, record := range records {
		lines, err := r.returnLines(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		record.Lines = lines
	}

	return records, nil
}

// SaleLines reads the returnable view of a committed transaction.
func (r *returnRepository) SaleLines(ctx context.Context, orderID uuid.UUID) ([]domain.SaleLine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT line_id, product_id, label, quantity, quantity_returned, total_price
		 FROM transaction_lines
		 WHERE transaction_id = $1
		 ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.SaleLine
	for rows.Next() {
		var line domain.SaleLine
		err := rows.Scan(
			&line.LineID, &line.ProductID, &line.Label,
			&line.QuantitySold, &line.QuantityReturned, &line.UnitTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lines, nil
}
