package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/fieldops/catalog-system/internal/core/domain"
	"github.com/fieldops/catalog-system/internal/core/ports"
)

// Debouncer suppresses repeats of the same scan payload inside the debounce
// window (Redis-backed in production).
type Debouncer interface {
	// FirstSeen atomically records value and reports whether this was its
	// first occurrence within the window.
	FirstSeen(ctx context.Context, value string) (bool, error)
}

// ActivationDispatcher hands a uid to the asynchronous activation lane.
type ActivationDispatcher interface {
	Enqueue(uid string)
}

// ScanService is the scan event pipeline. A fresh decode fans out into two
// independent effects: session activation (dispatched asynchronously, runs to
// completion regardless of the caller's lifetime) and the recommendation
// fetch (awaited in the request path). Failure of one never cancels the
// other.
type ScanService struct {
	debounce    Debouncer
	recommender ports.Recommender
	dispatcher  ActivationDispatcher
	loading     atomic.Bool
	log         zerolog.Logger
}

func NewScanService(debounce Debouncer, recommender ports.Recommender, dispatcher ActivationDispatcher, log zerolog.Logger) *ScanService {
	return &ScanService{
		debounce:    debounce,
		recommender: recommender,
		dispatcher:  dispatcher,
		log:         log,
	}
}

// HandleScan processes one decode event. The same payload re-emitted inside
// the debounce window (the decoder fires on consecutive frames) yields
// ScanResult{Duplicate: true} and no dispatch. A distinct payload is a new
// dispatch; it never cancels an in-flight one.
func (s *ScanService) HandleScan(ctx context.Context, input ports.ScanInput) (*ports.ScanResult, error) {
	if input.Value == "" {
		return nil, fmt.Errorf("%w: empty scan payload", domain.ErrInvalidInput)
	}

	first, err := s.debounce.FirstSeen(ctx, input.Value)
	if err != nil {
		// Fail open: a debounce store outage must not break scanning. The
		// worst case is one redundant dispatch, which activation tolerates.
		s.log.Warn().Err(err).Str("value", input.Value).Msg("debounce check failed, dispatching anyway")
	} else if !first {
		s.log.Debug().Str("value", input.Value).Msg("duplicate scan suppressed")
		return &ports.ScanResult{Duplicate: true}, nil
	}

	s.loading.Store(true)
	defer s.loading.Store(false)

	// Activation has no user-visible result of its own, so it does not gate
	// the response. The dispatcher runs it on a background context.
	s.dispatcher.Enqueue(input.Value)

	recs, err := s.recommender.Recommendations(ctx, input.Value)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", input.Value).Msg("recommendation fetch failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	s.log.Info().Str("user_id", input.Value).Int("recommendations", len(recs)).Msg("scan dispatched")
	return &ports.ScanResult{Recommendations: recs}, nil
}

// Loading reports whether a recommendation fetch is currently settling. It
// backs the presentation layer's spinner and the in-flight gauge.
func (s *ScanService) Loading() bool {
	return s.loading.Load()
}
