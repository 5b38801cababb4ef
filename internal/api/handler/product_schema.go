package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Response types ---
// Response-only types owned by the transport layer, kept separate from
// ports/domain types so the JSON contract is not coupled to internal changes.

type productResponse struct {
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"image_url,omitempty"`
	Location  [2]string `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

type submitProductResponse struct {
	Product productResponse `json:"product"`
	// RecentImages is the refreshed preview strip; omitted when the
	// best-effort read-back failed after the create succeeded.
	RecentImages []string `json:"recent_images,omitempty"`
}

type recentImagesResponse struct {
	Data []string `json:"data"`
}
