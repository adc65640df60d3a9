// internal/adapters/db/catalog_repository.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caissepos/caisse-be/internal/core/domain"
	"github.com/caissepos/caisse-be/internal/core/ports"
)

// catalogRepository implements ports.CatalogRepository
type catalogRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *Database, logger *slog.Logger) ports.CatalogRepository {
	return &catalogRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "catalog")),
	}
}

const productColumns = `
	id, code, scale_code, label, base_price, tax_rate, discount_rate, stock, lot_tiers`

// Save upserts one product keyed by its retail barcode.
func (r *catalogRepository) Save(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (
			id, code, scale_code, label, base_price, tax_rate,
			discount_rate, stock, lot_tiers, created_at, updated_at
		) VALUES (
			$1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $10
		)
		ON CONFLICT (code) DO UPDATE SET
			scale_code = EXCLUDED.scale_code,
			label = EXCLUDED.label,
			base_price = EXCLUDED.base_price,
			tax_rate = EXCLUDED.tax_rate,
			discount_rate = EXCLUDED.discount_rate,
			stock = EXCLUDED.stock,
			lot_tiers = EXCLUDED.lot_tiers,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	tiers, err := json.Marshal(product.LotTiers)
	if err != nil {
		return fmt.Errorf("failed to encode lot tiers: %w", err)
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	err = r.db.QueryRow(ctx, query,
		product.ID, product.Code, product.ScaleCode, product.Label,
		product.BasePrice, product.TaxRate, product.DiscountRate,
		product.Stock, tiers, time.Now(),
	).Scan(&product.ID)

	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	r.logger.DebugContext(ctx, "product saved",
		slog.String("id", product.ID.String()),
		slog.String("code", product.Code))

	return nil
}

// SaveBatch upserts multiple products in one transaction.
func (r *catalogRepository) SaveBatch(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}

		query := `
			INSERT INTO products (
				id, code, scale_code, label, base_price, tax_rate,
				discount_rate, stock, lot_tiers, created_at, updated_at
			) VALUES (
				$1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $10
			)
			ON CONFLICT (code) DO UPDATE SET
				scale_code = EXCLUDED.scale_code,
				label = EXCLUDED.label,
				base_price = EXCLUDED.base_price,
				tax_rate = EXCLUDED.tax_rate,
				discount_rate = EXCLUDED.discount_rate,
				stock = EXCLUDED.stock,
				lot_tiers = EXCLUDED.lot_tiers,
				updated_at = EXCLUDED.updated_at`

		now := time.Now()
		for i := range products {
			if products[i].ID == uuid.Nil {
				products[i].ID = uuid.New()
			}
			tiers, err := json.Marshal(products[i].LotTiers)
			if err != nil {
				return fmt.Errorf("failed to encode lot tiers for %s: %w", products[i].Code, err)
			}
			batch.Queue(query,
				products[i].ID, products[i].Code, products[i].ScaleCode, products[i].Label,
				products[i].BasePrice, products[i].TaxRate, products[i].DiscountRate,
				products[i].Stock, tiers, now,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := range products {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to save product %d: %w", i, err)
			}
		}

		return nil
	})
}

// FindByID retrieves a product by ID
func (r *catalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE id = $1`
	return r.scanProduct(r.db.QueryRow(ctx, query, id))
}

// FindByCode retrieves a product by its retail barcode
func (r *catalogRepository) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE code = $1`
	return r.scanProduct(r.db.QueryRow(ctx, query, code))
}

// FindByScaleCode retrieves a product by the code embedded in scale barcodes
func (r *catalogRepository) FindByScaleCode(ctx context.Context, scaleCode string) (*domain.Product, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE scale_code = $1`
	return r.scanProduct(r.db.QueryRow(ctx, query, scaleCode))
}

func (r *catalogRepository) scanProduct(row pgx.Row) (*domain.Product, error) {
	product := &domain.Product{}
	var scaleCode sql.NullString
	var tiers []byte

	err := row.Scan(
		&product.ID, &product.Code, &scaleCode, &product.Label,
		&product.BasePrice, &product.TaxRate, &product.DiscountRate,
		&product.Stock, &tiers,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	product.ScaleCode = scaleCode.String
	if len(tiers) > 0 {
		if err := json.Unmarshal(tiers, &product.LotTiers); err != nil {
			return nil, fmt.Errorf("failed to decode lot tiers: %w", err)
		}
	}

	return product, nil
}

// ScaleConfigs returns every configured scale barcode layout, in priority
// order.
func (r *catalogRepository) ScaleConfigs(ctx context.Context) ([]domain.ScaleConfig, error) {
	query := `
		SELECT barcode_length, balance_code,
			product_start, product_length,
			price_start, price_length,
			seller_start, seller_length
		FROM scale_configs
		ORDER BY priority, balance_code`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scale configs: %w", err)
	}
	defer rows.Close()

	var configs []domain.ScaleConfig
	for rows.Next() {
		var cfg domain.ScaleConfig
		err := rows.Scan(
			&cfg.BarcodeLength, &cfg.BalanceCode,
			&cfg.Product.Start, &cfg.Product.Length,
			&cfg.Price.Start, &cfg.Price.Length,
			&cfg.Seller.Start, &cfg.Seller.Length,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scale config: %w", err)
		}
		configs = append(configs, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return configs, nil
}

// SaveScaleConfig stores one layout, rejecting inconsistent field positions
// before they can poison the classifier.
func (r *catalogRepository) SaveScaleConfig(ctx context.Context, cfg domain.ScaleConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO scale_configs (
			barcode_length, balance_code,
			product_start, product_length,
			price_start, price_length,
			seller_start, seller_length
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (balance_code, barcode_length) DO UPDATE SET
			product_start = EXCLUDED.product_start,
			product_length = EXCLUDED.product_length,
			price_start = EXCLUDED.price_start,
			price_length = EXCLUDED.price_length,
			seller_start = EXCLUDED.seller_start,
			seller_length = EXCLUDED.seller_length`

	_, err := r.db.Exec(ctx, query,
		cfg.BarcodeLength, cfg.BalanceCode,
		cfg.Product.Start, cfg.Product.Length,
		cfg.Price.Start, cfg.Price.Length,
		cfg.Seller.Start, cfg.Seller.Length,
	)
	if err != nil {
		return fmt.Errorf("failed to save scale config: %w", err)
	}

	r.logger.InfoContext(ctx, "scale config saved",
		slog.String("balance_code", cfg.BalanceCode),
		slog.Int("barcode_length", cfg.BarcodeLength))

	return nil
}

// Count returns the total number of products
func (r *catalogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
