// internal/core/ports/catalog.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/caissepos/caisse-be/internal/core/domain"
)

// CatalogRepository is the persistence port for products and scale barcode
// layouts. Lookups return (nil, nil) when nothing matches; callers turn that
// into a domain rejection.
type CatalogRepository interface {
	Save(ctx context.Context, product *domain.Product) error
	SaveBatch(ctx context.Context, products []domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindByCode(ctx context.Context, code string) (*domain.Product, error)
	// FindByScaleCode resolves the product field extracted from a
	// scale-printed barcode. Scale product codes are a separate namespace
	// from retail barcodes.
	FindByScaleCode(ctx context.Context, scaleCode string) (*domain.Product, error)
	ScaleConfigs(ctx context.Context) ([]domain.ScaleConfig, error)
	SaveScaleConfig(ctx context.Context, cfg domain.ScaleConfig) error
	Count(ctx context.Context) (int64, error)
}
