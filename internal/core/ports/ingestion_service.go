package ports

import (
	"context"
	"time"
)

// SubmitProductInput carries one product submission from the form surface.
// Price arrives as the operator typed it and is parsed by the service.
type SubmitProductInput struct {
	Name     string
	Price    string
	Location [2]string
	// Image is the raw bytes of the selected photo; nil when the operator
	// skipped the picker (cancellation is not an error).
	Image            []byte
	ImageContentType string
}

// SubmitResult is returned after a successful product submission.
type SubmitResult struct {
	ProductID int64
	Name      string
	Price     float64
	ImageURL  string
	Location  [2]string
	CreatedAt time.Time
	// RecentImageURLs is the refreshed preview strip. It is best-effort:
	// nil when the read-back failed after the create succeeded.
	RecentImageURLs []string
}

// IngestionService is the catalog ingestion pipeline: validate, upload the
// image, create the record, refresh the preview strip.
type IngestionService interface {
	Submit(ctx context.Context, input SubmitProductInput) (*SubmitResult, error)
	RecentImages(ctx context.Context, limit int) ([]string, error)
}
