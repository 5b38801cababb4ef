package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fieldops/catalog-system/internal/core/domain"
	"github.com/fieldops/catalog-system/internal/core/ports"
)

type stubIngestionService struct {
	submitFn func(ctx context.Context, input ports.SubmitProductInput) (*ports.SubmitResult, error)
	recentFn func(ctx context.Context, limit int) ([]string, error)
}

func (s *stubIngestionService) Submit(ctx context.Context, input ports.SubmitProductInput) (*ports.SubmitResult, error) {
	return s.submitFn(ctx, input)
}

func (s *stubIngestionService) RecentImages(ctx context.Context, limit int) ([]string, error) {
	return s.recentFn(ctx, limit)
}

// multipartBody builds a multipart form with the given fields and an optional
// image part.
func multipartBody(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "photo.jpg")
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(image); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestProductHandler_Create_WithImage(t *testing.T) {
	e := echo.New()
	stub := &stubIngestionService{
		submitFn: func(_ context.Context, input ports.SubmitProductInput) (*ports.SubmitResult, error) {
			if input.Name != "Widget" || input.Price != "9.99" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.Location != [2]string{"Aisle 3", "Shelf B"} {
				t.Fatalf("unexpected location: %v", input.Location)
			}
			if string(input.Image) != "jpeg-bytes" {
				t.Fatalf("unexpected image payload: %q", input.Image)
			}
			return &ports.SubmitResult{
				ProductID:       1700000000000,
				Name:            input.Name,
				Price:           9.99,
				ImageURL:        "https://media.example.com/products/1700000000000.jpg",
				Location:        input.Location,
				CreatedAt:       time.Now().UTC(),
				RecentImageURLs: []string{"https://media.example.com/products/1700000000000.jpg"},
			}, nil
		},
	}
	handler := NewProductHandler(stub)

	body, contentType := multipartBody(t, map[string]string{
		"name":       "Widget",
		"price":      "9.99",
		"location_1": "Aisle 3",
		"location_2": "Shelf B",
	}, []byte("jpeg-bytes"))

	req := httptest.NewRequest(http.MethodPost, "/v1/products", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp submitProductResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Product.Name != "Widget" || resp.Product.ImageURL == "" {
		t.Fatalf("unexpected product payload: %+v", resp.Product)
	}
	if len(resp.RecentImages) != 1 {
		t.Fatalf("expected refreshed preview strip, got: %+v", resp.RecentImages)
	}
}

func TestProductHandler_Create_WithoutImage(t *testing.T) {
	e := echo.New()
	stub := &stubIngestionService{
		submitFn: func(_ context.Context, input ports.SubmitProductInput) (*ports.SubmitResult, error) {
			if input.Image != nil {
				t.Fatalf("expected no image, got %d bytes", len(input.Image))
			}
			return &ports.SubmitResult{Name: input.Name, CreatedAt: time.Now().UTC()}, nil
		},
	}
	handler := NewProductHandler(stub)

	// Plain urlencoded form, no multipart at all.
	form := url.Values{"name": {"Widget"}, "price": {"0"}}
	req := httptest.NewRequest(http.MethodPost, "/v1/products", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestProductHandler_Create_BusyPropagates(t *testing.T) {
	e := echo.New()
	stub := &stubIngestionService{
		submitFn: func(_ context.Context, _ ports.SubmitProductInput) (*ports.SubmitResult, error) {
			return nil, domain.ErrSubmitInFlight
		},
	}
	handler := NewProductHandler(stub)

	body, contentType := multipartBody(t, map[string]string{"name": "Widget", "price": "1"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/products", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Create(c)
	if err == nil || !strings.Contains(err.Error(), domain.ErrSubmitInFlight.Error()) {
		t.Fatalf("expected busy error to propagate, got: %v", err)
	}
}

func TestProductHandler_Recent_DefaultsAndEmpty(t *testing.T) {
	e := echo.New()
	var gotLimit int
	stub := &stubIngestionService{
		recentFn: func(_ context.Context, limit int) ([]string, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	handler := NewProductHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/products/recent?limit=25", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Recent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotLimit != 25 {
		t.Fatalf("expected limit 25 passed through, got %d", gotLimit)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Fatalf("expected empty array, got: %s", rec.Body.String())
	}
}

func TestProductHandler_Recent_ReturnsURLs(t *testing.T) {
	e := echo.New()
	stub := &stubIngestionService{
		recentFn: func(_ context.Context, _ int) ([]string, error) {
			return []string{"https://media.example.com/a.jpg", "https://media.example.com/b.jpg"}, nil
		},
	}
	handler := NewProductHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/products/recent", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Recent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp recentImagesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 urls, got: %v", resp.Data)
	}
}
