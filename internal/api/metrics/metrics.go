// Package metrics defines and registers all custom Prometheus metrics for
// the field catalog API. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics are registered with the default Prometheus registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Ingestion metrics ─────────────────────────────────────────────────────────

// ProductsCreatedTotal counts products written to the catalog.
// Label:
//   - with_image: "true" when the record carries an uploaded image URL
var ProductsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created, by image presence.",
	},
	[]string{"with_image"},
)

// SubmitErrorsTotal counts failed product submissions.
// Label:
//   - reason: "validation", "busy", "upload", "store"
var SubmitErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submit_errors_total",
		Help:      "Total number of product submissions that failed, by reason.",
	},
	[]string{"reason"},
)

// ── Scan metrics ──────────────────────────────────────────────────────────────

// ScansTotal counts scan dispatch decisions.
// Label:
//   - result: "dispatched", "duplicate", "fetch_error"
var ScansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Total number of scan events received, by dispatch result.",
	},
	[]string{"result"},
)

// ActivationsTotal counts completed activations on the async lane.
// Label:
//   - outcome: "activated", "not_found", "error"
var ActivationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activations_total",
		Help:      "Total number of session activations processed, by outcome.",
	},
	[]string{"outcome"},
)

// ActivationQueueDepth tracks pending activations per dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activation_queue_depth",
		Help:      "Current number of activations pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RecommendationFetchDuration measures the recommendation round trip.
// Label:
//   - result: "ok" or "error"
var RecommendationFetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommendation_fetch_duration_seconds",
		Help:      "Duration of recommendation service round trips.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"result"},
)
