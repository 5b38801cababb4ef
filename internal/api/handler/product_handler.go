package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fieldops/catalog-system/internal/api/metrics"
	"github.com/fieldops/catalog-system/internal/core/domain"
	"github.com/fieldops/catalog-system/internal/core/ports"
)

// maxImageBytes caps the uploaded photo size.
const maxImageBytes = 10 << 20

// ProductHandler handles HTTP requests for the catalog ingestion pipeline.
type ProductHandler struct {
	service ports.IngestionService
}

func NewProductHandler(service ports.IngestionService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create handles POST /v1/products (multipart/form-data).
//
// @Summary      Register a product
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        name        formData  string  true   "Product name"
// @Param        price       formData  string  true   "Product price (non-negative decimal)"
// @Param        location_1  formData  string  false  "First location tag"
// @Param        location_2  formData  string  false  "Second location tag"
// @Param        image       formData  file    false  "Product photo"
// @Success      201  {object}  submitProductResponse
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	input := ports.SubmitProductInput{
		Name:  c.FormValue("name"),
		Price: c.FormValue("price"),
		Location: [2]string{
			c.FormValue("location_1"),
			c.FormValue("location_2"),
		},
	}

	// A missing image is not an error: the operator may skip the picker.
	file, err := c.FormFile("image")
	if err == nil {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable image")
		}
		defer src.Close()

		data, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable image")
		}
		if len(data) > maxImageBytes {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image too large")
		}
		input.Image = data
		input.ImageContentType = file.Header.Get("Content-Type")
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}

	result, err := h.service.Submit(c.Request().Context(), input)
	if err != nil {
		metrics.SubmitErrorsTotal.WithLabelValues(submitErrorReason(err)).Inc()
		return err
	}

	metrics.ProductsCreatedTotal.WithLabelValues(strconv.FormatBool(result.ImageURL != "")).Inc()

	return c.JSON(http.StatusCreated, submitProductResponse{
		Product: productResponse{
			ProductID: result.ProductID,
			Name:      result.Name,
			Price:     result.Price,
			ImageURL:  result.ImageURL,
			Location:  result.Location,
			CreatedAt: result.CreatedAt.UTC().Truncate(time.Millisecond),
		},
		RecentImages: result.RecentImageURLs,
	})
}

// Recent handles GET /v1/products/recent.
//
// @Summary      Recent product images
// @Tags         products
// @Produce      json
// @Param        limit  query     int  false  "Number of URLs to return (default 10, max 50)"
// @Success      200    {object}  recentImagesResponse
// @Failure      503    {object}  errorResponse
// @Router       /v1/products/recent [get]
func (h *ProductHandler) Recent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	urls, err := h.service.RecentImages(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if urls == nil {
		urls = []string{}
	}
	return c.JSON(http.StatusOK, recentImagesResponse{Data: urls})
}

func submitErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrSubmitInFlight):
		return "busy"
	case errors.Is(err, domain.ErrUploadFailed):
		return "upload"
	case errors.Is(err, domain.ErrStoreFailed):
		return "store"
	default:
		return "other"
	}
}
