package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldops/catalog-system/internal/core/domain"
	"github.com/fieldops/catalog-system/internal/core/ports"
)

const recentStripSize = 10

// maxRecentLimit caps the recent read model so a careless client cannot pull
// the whole collection through the preview endpoint.
const maxRecentLimit = 50

// IngestionService is the catalog ingestion pipeline. A submission validates
// locally, uploads the image (when present), resolves its URL, and only then
// writes the product document. The upload strictly precedes the create so a
// record never points at a missing image.
//
// Upload policy is strict: when the upload or URL resolution fails, the
// product is not created and the operator retries with the form intact.
type IngestionService struct {
	repo     ports.ProductRepository
	blob     ports.BlobStore
	inFlight atomic.Bool
	logger   zerolog.Logger
}

func NewIngestionService(repo ports.ProductRepository, blob ports.BlobStore, logger zerolog.Logger) *IngestionService {
	return &IngestionService{repo: repo, blob: blob, logger: logger}
}

// Submit runs one product submission end to end. Only one submission may be
// outstanding per service instance; a concurrent call fails with
// domain.ErrSubmitInFlight without touching the network.
func (s *IngestionService) Submit(ctx context.Context, input ports.SubmitProductInput) (*ports.SubmitResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmitInFlight
	}
	defer s.inFlight.Store(false)

	now := time.Now().UTC()

	var imageURL string
	if len(input.Image) > 0 {
		imageURL, err = s.uploadImage(ctx, now, input.Image, input.ImageContentType)
		if err != nil {
			return nil, err
		}
	}

	product := &domain.Product{
		ProductID: now.UnixMilli(),
		Name:      name,
		Price:     price,
		ImageURL:  imageURL,
		Location:  input.Location,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create product")
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailed, err)
	}

	s.logger.Info().
		Int64("product_id", product.ProductID).
		Str("name", name).
		Bool("has_image", imageURL != "").
		Msg("product created")

	result := &ports.SubmitResult{
		ProductID: product.ProductID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
		Location:  product.Location,
		CreatedAt: product.CreatedAt,
	}

	// Best-effort refresh of the preview strip. The create already
	// succeeded; a failure here is logged and the strip stays empty.
	urls, err := s.repo.RecentImageURLs(ctx, recentStripSize)
	if err != nil {
		s.logger.Warn().Err(err).Msg("recent images refresh failed after create")
		return result, nil
	}
	result.RecentImageURLs = urls
	return result, nil
}

// RecentImages returns the image URLs of the most recent products, newest
// first. Limit defaults to the preview strip size and is capped.
func (s *IngestionService) RecentImages(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = recentStripSize
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	urls, err := s.repo.RecentImageURLs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailed, err)
	}
	return urls, nil
}

// uploadImage writes the photo under a timestamped key and resolves its URL.
// ResolveURL confirms the object is visible before returning, so the created
// record never embeds a URL the store cannot serve yet.
func (s *IngestionService) uploadImage(ctx context.Context, now time.Time, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	key := fmt.Sprintf("products/%d.jpg", now.UnixMilli())

	if err := s.blob.Put(ctx, key, data, contentType); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("image upload failed")
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	url, err := s.blob.ResolveURL(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("image url resolution failed")
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	return url, nil
}

func parsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: price is required", domain.ErrInvalidInput)
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: price must be a number", domain.ErrInvalidInput)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	return price, nil
}
