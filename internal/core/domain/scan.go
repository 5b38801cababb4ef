package domain

import "time"

// CodeType is the symbology reported by the decode surface.
type CodeType string

const (
	CodeQR      CodeType = "qr"
	CodeEAN13   CodeType = "ean-13"
	CodeCode128 CodeType = "code-128"
)

// ScanEvent is a single decoded code. It is never persisted; the pipeline
// consumes only Value (the user id encoded in the badge).
type ScanEvent struct {
	Type  CodeType
	Value string
	At    time.Time
}

// Recommendation is one entry returned by the remote recommendation service.
type Recommendation struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	Price     float64 `json:"price"`
	Score     float64 `json:"score"`
}
