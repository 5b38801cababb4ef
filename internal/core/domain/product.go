package domain

import (
	"errors"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")
var ErrSubmitInFlight = errors.New("submission already in flight")
var ErrUploadFailed = errors.New("image upload failed")
var ErrStoreFailed = errors.New("catalog store failure")
var ErrFetchFailed = errors.New("recommendation fetch failed")
var ErrActivationFailed = errors.New("session activation failed")
var ErrUserNotFound = errors.New("user not found")

// Product is a catalog entry registered by a field operator.
//
// ProductID is generated client-side from the submission's millisecond
// timestamp and is an advisory display tag only; it is not unique across
// concurrent operators. The document's store-assigned _id is canonical.
type Product struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	ProductID int64     `json:"product_id" bson:"product_id"`
	Name      string    `json:"name" bson:"name"`
	Price     float64   `json:"price" bson:"price"`
	ImageURL  string    `json:"image_url" bson:"image_url"`
	Location  [2]string `json:"location" bson:"location"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
