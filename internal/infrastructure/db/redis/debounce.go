package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultWindow = 2 * time.Second

// ScanDebouncer suppresses repeated scans of the same payload inside a short
// window, guarding against the decoder re-emitting a code on consecutive
// frames. Key format: scan:<payload>
type ScanDebouncer struct {
	client *redis.Client
	window time.Duration
}

// NewScanDebouncer creates a ScanDebouncer. A non-positive window falls back
// to the default.
func NewScanDebouncer(client *redis.Client, window time.Duration) *ScanDebouncer {
	if window <= 0 {
		window = defaultWindow
	}
	return &ScanDebouncer{client: client, window: window}
}

// FirstSeen atomically records the payload and reports whether this was its
// first occurrence within the window. SET NX keeps the check and the mark a
// single round trip, so two near-simultaneous frames cannot both pass.
func (d *ScanDebouncer) FirstSeen(ctx context.Context, value string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(value), "1", d.window).Result()
	if err != nil {
		return false, fmt.Errorf("debounce check: %w", err)
	}
	return ok, nil
}

func (d *ScanDebouncer) key(value string) string {
	return "scan:" + value
}
