package ports

import (
	"context"
	"time"

	"github.com/fieldops/catalog-system/internal/core/domain"
)

// ScanInput is one decode event from the scanning surface.
type ScanInput struct {
	Type  string
	Value string
	At    time.Time
}

// ScanResult is returned once the recommendation fetch settles.
type ScanResult struct {
	// Duplicate is true when the same payload was already dispatched inside
	// the debounce window; nothing else in the result is populated then.
	Duplicate       bool
	Recommendations []domain.Recommendation
}

// ScanService is the scan event pipeline: debounce, dispatch activation
// asynchronously, fetch recommendations.
type ScanService interface {
	HandleScan(ctx context.Context, input ScanInput) (*ScanResult, error)
}

// ActivationOutcome distinguishes the two expected results of an activation.
type ActivationOutcome string

const (
	OutcomeActivated ActivationOutcome = "activated"
	// OutcomeNotFound means the payload did not denote a known user. This is
	// an expected case (malformed or foreign codes), not an error.
	OutcomeNotFound ActivationOutcome = "not_found"
)

// ActivationService flips the logged_in flag on a user record. Activation is
// idempotent: applying it N times equals applying it once.
type ActivationService interface {
	Activate(ctx context.Context, uid string) (ActivationOutcome, error)
}
