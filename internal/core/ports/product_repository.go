package ports

import (
	"context"

	"github.com/fieldops/catalog-system/internal/core/domain"
)

// ProductRepository defines persistence operations for catalog products.
// Products are append-only: there is no update or delete path.
type ProductRepository interface {
	// Create inserts a new product document. The repository stamps
	// created_at at insert time; any caller-supplied value is ignored.
	Create(ctx context.Context, p *domain.Product) error

	// RecentImageURLs returns the image URLs of the n most recently created
	// products, newest first. It is a read-only projection used to refresh
	// the preview strip.
	RecentImageURLs(ctx context.Context, n int) ([]string, error)
}
