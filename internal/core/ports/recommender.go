package ports

import (
	"context"

	"github.com/fieldops/catalog-system/internal/core/domain"
)

// Recommender fetches personalized recommendations for a user. Each call is
// a single fresh request: no retry, no caching.
type Recommender interface {
	Recommendations(ctx context.Context, userID string) ([]domain.Recommendation, error)
}
