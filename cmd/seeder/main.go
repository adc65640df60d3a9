// cmd/seeder/main.go
//
// Seeds the catalog from a spreadsheet of products plus an optional JSON file
// of scale barcode layouts, then drops the catalog cache so running tills pick
// up the new prices.
//
// Usage:
//
//	seeder -products catalog.xlsx [-scales scales.json] [-dry-run]
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/caissepos/caisse-be/internal/adapters/db"
	redis_a "github.com/caissepos/caisse-be/internal/adapters/redis_adapter"
	"github.com/caissepos/caisse-be/internal/core/domain"
	"github.com/caissepos/caisse-be/internal/pkg/config"
	"github.com/caissepos/caisse-be/internal/pkg/logger"
)

const batchSize = 500

func main() {
	productsPath := flag.String("products", "", "path to the product catalog (.xlsx or .csv)")
	scalesPath := flag.String("scales", "", "path to the scale layout file (.json)")
	dryRun := flag.Bool("dry-run", false, "parse and validate without writing")
	flag.Parse()

	slogger := logger.SetupLogger("info", "text")

	if *productsPath == "" && *scalesPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to seed: pass -products and/or -scales")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var products []domain.Product
	if *productsPath != "" {
		products, err = loadProducts(*productsPath)
		if err != nil {
			slogger.Error("failed to load products",
				slog.String("path", *productsPath),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		slogger.Info("products parsed",
			slog.String("path", *productsPath),
			slog.Int("count", len(products)))
	}

	var scales []domain.ScaleConfig
	if *scalesPath != "" {
		scales, err = loadScaleConfigs(*scalesPath)
		if err != nil {
			slogger.Error("failed to load scale layouts",
				slog.String("path", *scalesPath),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		slogger.Info("scale layouts parsed",
			slog.String("path", *scalesPath),
			slog.Int("count", len(scales)))
	}

	if *dryRun {
		slogger.Info("dry run, nothing written")
		return
	}

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Database:       cfg.Database.Name,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: 4,
		MinConnections: 1,
		ConnectTimeout: 10 * time.Second,
	}, slogger.Logger)
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	catalog := db.NewCatalogRepository(database, slogger.Logger)

	for start := 0; start < len(products); start += batchSize {
		end := start + batchSize
		if end > len(products) {
			end = len(products)
		}
		if err := catalog.SaveBatch(ctx, products[start:end]); err != nil {
			slogger.Error("failed to save product batch",
				slog.Int("offset", start),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	for _, scale := range scales {
		if err := catalog.SaveScaleConfig(ctx, scale); err != nil {
			slogger.Error("failed to save scale layout",
				slog.String("balance_code", scale.BalanceCode),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	total, err := catalog.Count(ctx)
	if err == nil {
		slogger.Info("catalog seeded",
			slog.Int("products_written", len(products)),
			slog.Int("scales_written", len(scales)),
			slog.Int64("catalog_size", total))
	}

	invalidateCache(ctx, cfg, slogger.Logger)
}

// invalidateCache is best-effort: a till that keeps a stale product for the
// cache TTL is acceptable, a failed seed is not.
func invalidateCache(ctx context.Context, cfg *config.Config, slogger *slog.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		slogger.Warn("redis unreachable, catalog cache not invalidated",
			slog.String("error", err.Error()))
		return
	}

	cache := redis_a.NewCache(client, cfg.Redis.TTL, slogger)
	redis_a.InvalidateCatalog(ctx, cache, slogger)
	slogger.Info("catalog cache invalidated")
}

func loadProducts(path string) ([]domain.Product, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadProductsXLSX(path)
	case ".csv":
		return loadProductsCSV(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q, want .xlsx or .csv", filepath.Ext(path))
	}
}

// Catalog columns, in order: code, scale_code, label, base_price, tax_rate,
// discount_rate, stock, lot_tiers (JSON array, optional).
const productColumns = 8

func loadProductsXLSX(path string) ([]domain.Product, error) {
	wb, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := wb.Sheets[0]
	defer sheet.Close()

	var products []domain.Product
	err = sheet.ForEachRow(func(row *xlsx.Row) error {
		if row.GetCoordinate() == 0 {
			return nil // header
		}
		fields := make([]string, 0, productColumns)
		_ = row.ForEachCell(func(cell *xlsx.Cell) error {
			value, err := cell.FormattedValue()
			if err != nil {
				value = cell.Value
			}
			fields = append(fields, strings.TrimSpace(value))
			return nil
		})
		if isBlankRow(fields) {
			return nil
		}
		product, err := parseProductRow(fields)
		if err != nil {
			return fmt.Errorf("row %d: %w", row.GetCoordinate()+1, err)
		}
		products = append(products, product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func loadProductsCSV(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var products []domain.Product
	for i, fields := range records {
		if i == 0 {
			continue // header
		}
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}
		if isBlankRow(fields) {
			continue
		}
		product, err := parseProductRow(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		products = append(products, product)
	}
	return products, nil
}

func parseProductRow(fields []string) (domain.Product, error) {
	if len(fields) < 4 {
		return domain.Product{}, fmt.Errorf("expected at least 4 columns, got %d", len(fields))
	}
	// Pad optional trailing columns.
	for len(fields) < productColumns {
		fields = append(fields, "")
	}

	code, scaleCode, label := fields[0], fields[1], fields[2]
	if code == "" {
		return domain.Product{}, fmt.Errorf("code is required")
	}
	if label == "" {
		return domain.Product{}, fmt.Errorf("label is required for code %s", code)
	}

	basePrice, err := decimal.NewFromString(fields[3])
	if err != nil {
		return domain.Product{}, fmt.Errorf("base_price for code %s: %w", code, err)
	}
	if basePrice.IsNegative() {
		return domain.Product{}, fmt.Errorf("base_price for code %s is negative", code)
	}

	taxRate, err := optionalDecimal(fields[4])
	if err != nil {
		return domain.Product{}, fmt.Errorf("tax_rate for code %s: %w", code, err)
	}
	discountRate, err := optionalDecimal(fields[5])
	if err != nil {
		return domain.Product{}, fmt.Errorf("discount_rate for code %s: %w", code, err)
	}
	stock, err := optionalDecimal(fields[6])
	if err != nil {
		return domain.Product{}, fmt.Errorf("stock for code %s: %w", code, err)
	}

	var tiers []domain.LotTier
	if fields[7] != "" {
		if err := json.Unmarshal([]byte(fields[7]), &tiers); err != nil {
			return domain.Product{}, fmt.Errorf("lot_tiers for code %s: %w", code, err)
		}
	}

	return domain.Product{
		ID:           uuid.New(),
		Code:         code,
		ScaleCode:    scaleCode,
		Label:        label,
		BasePrice:    basePrice,
		TaxRate:      taxRate,
		DiscountRate: discountRate,
		Stock:        stock,
		LotTiers:     tiers,
	}, nil
}

func optionalDecimal(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}

func isBlankRow(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}

func loadScaleConfigs(path string) ([]domain.ScaleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var configs []domain.ScaleConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("parse scale layouts: %w", err)
	}

	for i, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("scale layout %d: %w", i, err)
		}
	}
	return configs, nil
}
