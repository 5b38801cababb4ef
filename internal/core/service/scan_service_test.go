package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fieldops/catalog-system/internal/core/domain"
	"github.com/fieldops/catalog-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubDebouncer struct {
	first   bool
	err     error
	checked []string
}

func (d *stubDebouncer) FirstSeen(_ context.Context, value string) (bool, error) {
	d.checked = append(d.checked, value)
	return d.first, d.err
}

type stubRecommender struct {
	fetchFn func(ctx context.Context, userID string) ([]domain.Recommendation, error)
	calls   []string
}

func (r *stubRecommender) Recommendations(ctx context.Context, userID string) ([]domain.Recommendation, error) {
	r.calls = append(r.calls, userID)
	if r.fetchFn != nil {
		return r.fetchFn(ctx, userID)
	}
	return nil, nil
}

type stubActivationDispatcher struct {
	enqueued []string
}

func (d *stubActivationDispatcher) Enqueue(uid string) {
	d.enqueued = append(d.enqueued, uid)
}

func newScanSvc(deb *stubDebouncer, rec *stubRecommender, disp *stubActivationDispatcher) *ScanService {
	return NewScanService(deb, rec, disp, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestScanService_HandleScan_FreshDispatch(t *testing.T) {
	deb := &stubDebouncer{first: true}
	rec := &stubRecommender{
		fetchFn: func(_ context.Context, _ string) ([]domain.Recommendation, error) {
			return []domain.Recommendation{{ProductID: 1, Name: "Widget", Score: 0.9}}, nil
		},
	}
	disp := &stubActivationDispatcher{}

	svc := newScanSvc(deb, rec, disp)
	result, err := svc.HandleScan(context.Background(), ports.ScanInput{Type: "qr", Value: "user-42"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if result.Duplicate {
		t.Error("fresh scan must not be flagged duplicate")
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].Name != "Widget" {
		t.Errorf("unexpected recommendations: %+v", result.Recommendations)
	}
	if len(disp.enqueued) != 1 || disp.enqueued[0] != "user-42" {
		t.Errorf("expected one activation dispatch, got: %v", disp.enqueued)
	}
	if len(rec.calls) != 1 || rec.calls[0] != "user-42" {
		t.Errorf("expected one fetch, got: %v", rec.calls)
	}
}

func TestScanService_HandleScan_DuplicateSuppressed(t *testing.T) {
	deb := &stubDebouncer{first: false} // payload already seen in the window
	rec := &stubRecommender{}
	disp := &stubActivationDispatcher{}

	svc := newScanSvc(deb, rec, disp)
	result, err := svc.HandleScan(context.Background(), ports.ScanInput{Type: "qr", Value: "user-42"})
	if err != nil {
		t.Fatalf("expected no error for duplicate, got: %v", err)
	}

	if !result.Duplicate {
		t.Error("expected duplicate flag")
	}
	if len(disp.enqueued) != 0 {
		t.Error("duplicate must not dispatch activation")
	}
	if len(rec.calls) != 0 {
		t.Error("duplicate must not trigger a fetch")
	}
}

func TestScanService_HandleScan_DebounceErrorFailsOpen(t *testing.T) {
	deb := &stubDebouncer{err: errors.New("redis timeout")}
	rec := &stubRecommender{}
	disp := &stubActivationDispatcher{}

	svc := newScanSvc(deb, rec, disp)
	result, err := svc.HandleScan(context.Background(), ports.ScanInput{Type: "qr", Value: "user-42"})
	if err != nil {
		t.Fatalf("expected dispatch despite debounce outage, got: %v", err)
	}
	if result.Duplicate {
		t.Error("debounce outage must not report duplicate")
	}
	if len(disp.enqueued) != 1 || len(rec.calls) != 1 {
		t.Error("expected both effects to run when the debounce store is down")
	}
}

func TestScanService_HandleScan_FetchFailureDoesNotBlockActivation(t *testing.T) {
	deb := &stubDebouncer{first: true}
	rec := &stubRecommender{
		fetchFn: func(_ context.Context, _ string) ([]domain.Recommendation, error) {
			return nil, errors.New("status 500")
		},
	}
	disp := &stubActivationDispatcher{}

	svc := newScanSvc(deb, rec, disp)
	_, err := svc.HandleScan(context.Background(), ports.ScanInput{Type: "ean-13", Value: "user-42"})

	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got: %v", err)
	}
	if len(disp.enqueued) != 1 {
		t.Error("activation must be dispatched before the fetch settles")
	}
	if svc.Loading() {
		t.Error("loading must be cleared after the fetch fails")
	}
}

func TestScanService_HandleScan_EmptyPayloadRejected(t *testing.T) {
	deb := &stubDebouncer{first: true}
	rec := &stubRecommender{}
	disp := &stubActivationDispatcher{}

	svc := newScanSvc(deb, rec, disp)
	_, err := svc.HandleScan(context.Background(), ports.ScanInput{Type: "qr"})

	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}
	if len(disp.enqueued) != 0 || len(rec.calls) != 0 {
		t.Error("empty payload must not dispatch anything")
	}
}

func TestScanService_LoadingTracksFetch(t *testing.T) {
	deb := &stubDebouncer{first: true}
	rec := &stubRecommender{}
	disp := &stubActivationDispatcher{}
	svc := newScanSvc(deb, rec, disp)

	rec.fetchFn = func(_ context.Context, _ string) ([]domain.Recommendation, error) {
		if !svc.Loading() {
			t.Error("loading must be set while the fetch is in flight")
		}
		return nil, nil
	}

	if _, err := svc.HandleScan(context.Background(), ports.ScanInput{Type: "code-128", Value: "user-7"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Loading() {
		t.Error("loading must be cleared once the fetch settles")
	}
}
