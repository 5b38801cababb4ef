package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fieldops/catalog-system/internal/core/domain"
	"github.com/fieldops/catalog-system/internal/core/ports"
)

type stubScanService struct {
	handleFn func(ctx context.Context, input ports.ScanInput) (*ports.ScanResult, error)
}

func (s *stubScanService) HandleScan(ctx context.Context, input ports.ScanInput) (*ports.ScanResult, error) {
	return s.handleFn(ctx, input)
}

type stubActivationService struct {
	activateFn func(ctx context.Context, uid string) (ports.ActivationOutcome, error)
}

func (s *stubActivationService) Activate(ctx context.Context, uid string) (ports.ActivationOutcome, error) {
	return s.activateFn(ctx, uid)
}

func newScanContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/v1/scans", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestScanHandler_Receive_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubScanService{
		handleFn: func(_ context.Context, input ports.ScanInput) (*ports.ScanResult, error) {
			if input.Type != "qr" || input.Value != "user-42" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.ScanResult{
				Recommendations: []domain.Recommendation{{ProductID: 1, Name: "Widget", Score: 0.9}},
			}, nil
		},
	}
	handler := NewScanHandler(stub, &stubActivationService{})

	c, rec := newScanContext(e, `{"type":"qr","value":"user-42"}`)
	if err := handler.Receive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp scanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Recommendations) != 1 || resp.Recommendations[0].Name != "Widget" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestScanHandler_Receive_EmptyRecommendationsIsAnArray(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubScanService{
		handleFn: func(_ context.Context, _ ports.ScanInput) (*ports.ScanResult, error) {
			return &ports.ScanResult{}, nil
		},
	}
	handler := NewScanHandler(stub, &stubActivationService{})

	c, rec := newScanContext(e, `{"type":"qr","value":"user-42"}`)
	if err := handler.Receive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"recommendations":[]`) {
		t.Fatalf("expected an empty array, got: %s", rec.Body.String())
	}
}

func TestScanHandler_Receive_Duplicate(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubScanService{
		handleFn: func(_ context.Context, _ ports.ScanInput) (*ports.ScanResult, error) {
			return &ports.ScanResult{Duplicate: true}, nil
		},
	}
	handler := NewScanHandler(stub, &stubActivationService{})

	c, rec := newScanContext(e, `{"type":"qr","value":"user-42"}`)
	if err := handler.Receive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	var resp duplicateScanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Duplicate {
		t.Fatal("expected duplicate flag")
	}
}

func TestScanHandler_Receive_InvalidPayload(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubScanService{
		handleFn: func(_ context.Context, _ ports.ScanInput) (*ports.ScanResult, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	handler := NewScanHandler(stub, &stubActivationService{})

	c, _ := newScanContext(e, "not-json")
	err := handler.Receive(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got: %v", err)
	}
}

func TestScanHandler_Receive_UnknownCodeType(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubScanService{
		handleFn: func(_ context.Context, _ ports.ScanInput) (*ports.ScanResult, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	handler := NewScanHandler(stub, &stubActivationService{})

	c, _ := newScanContext(e, `{"type":"pdf417","value":"user-42"}`)
	err := handler.Receive(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got: %v", err)
	}
}

func TestScanHandler_Receive_FetchFailurePropagates(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubScanService{
		handleFn: func(_ context.Context, _ ports.ScanInput) (*ports.ScanResult, error) {
			return nil, domain.ErrFetchFailed
		},
	}
	handler := NewScanHandler(stub, &stubActivationService{})

	c, _ := newScanContext(e, `{"type":"qr","value":"user-42"}`)
	if err := handler.Receive(c); !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got: %v", err)
	}
}

func TestScanHandler_Activate_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	activator := &stubActivationService{
		activateFn: func(_ context.Context, uid string) (ports.ActivationOutcome, error) {
			if uid != "user-42" {
				t.Fatalf("unexpected uid: %s", uid)
			}
			return ports.OutcomeActivated, nil
		},
	}
	handler := NewScanHandler(&stubScanService{}, activator)

	req := httptest.NewRequest(http.MethodPost, "/v1/scans/activate", strings.NewReader(`{"value":"user-42"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Activate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"outcome":"activated"`) {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestScanHandler_Activate_UnknownUser(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	activator := &stubActivationService{
		activateFn: func(_ context.Context, _ string) (ports.ActivationOutcome, error) {
			return ports.OutcomeNotFound, nil
		},
	}
	handler := NewScanHandler(&stubScanService{}, activator)

	req := httptest.NewRequest(http.MethodPost, "/v1/scans/activate", strings.NewReader(`{"value":"ghost"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Activate(c); err != nil {
		t.Fatalf("unknown user must not error, got: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"outcome":"not_found"`) {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}
