// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/caissepos/caisse-be/internal/adapters/db"
	"github.com/caissepos/caisse-be/internal/pkg/config"
)

// Parked transactions the till never resumed expire after a week; the goods
// went back on the shelf long before that.
const parkedRetention = 7 * 24 * time.Hour

// CleanupProcessor handles cleanup tasks
type CleanupProcessor struct {
	db     *db.Database
	config *config.Config
	logger *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(db *db.Database, config *config.Config, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		db:     db,
		config: config,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupParkedTransactions removes parked transactions nobody resumed.
func (p *CleanupProcessor) CleanupParkedTransactions(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up stale parked transactions")

	cutoff := time.Now().Add(-parkedRetention)

	// transaction_lines cascades on delete.
	query := `DELETE FROM transactions WHERE status = 'parked' AND created_at < $1`

	result, err := p.db.Exec(ctx, query, cutoff)
	if err != nil {
		return fmt.Errorf("failed to cleanup parked transactions: %w", err)
	}

	p.logger.InfoContext(ctx, "stale parked transactions removed",
		slog.Int64("rows_deleted", result.RowsAffected()))

	return nil
}

// CleanupTempFiles removes old temporary files
func (p *CleanupProcessor) CleanupTempFiles(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up temp files")

	tempDir := p.config.Export.TempDir
	maxAge := 24 * time.Hour

	var deletedCount int
	err := filepath.Walk(tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err != nil {
				p.logger.WarnContext(ctx, "failed to delete temp file",
					slog.String("file", path),
					slog.String("error", err.Error()))
			} else {
				deletedCount++
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to walk temp directory: %w", err)
	}

	p.logger.InfoContext(ctx, "temp files cleaned up",
		slog.Int("files_deleted", deletedCount))

	return nil
}
