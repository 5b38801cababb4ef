package ports

import "context"

// BlobStore writes opaque objects to remote storage and resolves durable
// retrieval URLs for them.
type BlobStore interface {
	// Put writes data under key. Either the object becomes fully durable or
	// an error is returned; there is no partial success.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// ResolveURL returns a retrievable URL for a previously written key.
	// Implementations must confirm the object is actually visible (with
	// bounded retries on transient failure) rather than waiting a fixed
	// delay and assuming success.
	ResolveURL(ctx context.Context, key string) (string, error)
}
