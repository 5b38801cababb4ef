package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fieldops/catalog-system/internal/api/metrics"
	"github.com/fieldops/catalog-system/internal/core/domain"
	"github.com/fieldops/catalog-system/internal/core/ports"
)

// ScanHandler handles the scan event pipeline endpoints.
type ScanHandler struct {
	scans     ports.ScanService
	activator ports.ActivationService
}

func NewScanHandler(scans ports.ScanService, activator ports.ActivationService) *ScanHandler {
	return &ScanHandler{scans: scans, activator: activator}
}

// Receive handles POST /v1/scans — one decode event from the scanning surface.
//
// @Summary      Process a decoded code
// @Tags         scans
// @Accept       json
// @Produce      json
// @Param        body  body      scanRequest  true  "Decoded code"
// @Success      200   {object}  scanResponse
// @Success      202   {object}  duplicateScanResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/scans [post]
func (h *ScanHandler) Receive(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	start := time.Now()
	result, err := h.scans.HandleScan(c.Request().Context(), ports.ScanInput{
		Type:  req.Type,
		Value: req.Value,
		At:    start,
	})
	if err != nil {
		metrics.ScansTotal.WithLabelValues("fetch_error").Inc()
		metrics.RecommendationFetchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return err
	}

	if result.Duplicate {
		metrics.ScansTotal.WithLabelValues("duplicate").Inc()
		return c.JSON(http.StatusAccepted, duplicateScanResponse{
			Duplicate: true,
			Message:   "duplicate scan ignored",
		})
	}

	metrics.ScansTotal.WithLabelValues("dispatched").Inc()
	metrics.RecommendationFetchDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	recs := result.Recommendations
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	return c.JSON(http.StatusOK, scanResponse{Recommendations: recs})
}

// Activate handles POST /v1/scans/activate — synchronous activation without a
// recommendation fetch, used by the operator console to verify a badge.
//
// @Summary      Activate a session for a scanned badge
// @Tags         scans
// @Accept       json
// @Produce      json
// @Param        body  body      activateRequest  true  "Scan payload"
// @Success      200   {object}  activateResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/scans/activate [post]
func (h *ScanHandler) Activate(c echo.Context) error {
	var req activateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	outcome, err := h.activator.Activate(c.Request().Context(), req.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activateResponse{Outcome: string(outcome)})
}
