package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldops/catalog-system/internal/api/metrics"
	"github.com/fieldops/catalog-system/internal/core/ports"
)

const (
	defaultWorkers    = 4
	channelBuffer     = 256
	activationTimeout = 15 * time.Second
)

// Dispatcher runs session activations on a fixed set of workers, sharded by
// uid so repeated scans of the same badge are applied in order. Activations
// are fire-and-forget: they run to completion on the dispatcher's own context
// even when the scan request that produced them is long gone.
type Dispatcher struct {
	workers []chan string
	service ports.ActivationService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a uid to the worker responsible for it. Non-blocking up to
// channelBuffer capacity.
func (d *Dispatcher) Enqueue(uid string) {
	idx := d.shardIndex(uid)
	d.workers[idx] <- uid
	metrics.ActivationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a uid deterministically to a worker index.
func (d *Dispatcher) shardIndex(uid string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(uid))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case uid, ok := <-ch:
			if !ok {
				return
			}
			d.activate(ctx, uid, worker)
			metrics.ActivationQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
		}
	}
}

func (d *Dispatcher) activate(ctx context.Context, uid, worker string) {
	// Bound each activation on its own; the parent ctx only ends at shutdown.
	ctx, cancel := context.WithTimeout(ctx, activationTimeout)
	defer cancel()

	outcome, err := d.service.Activate(ctx, uid)
	if err != nil {
		metrics.ActivationsTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("uid", uid).
			Str("worker_id", worker).
			Msg("activation failed")
		return
	}
	metrics.ActivationsTotal.WithLabelValues(string(outcome)).Inc()
}
