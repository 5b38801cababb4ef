package handler

import "github.com/fieldops/catalog-system/internal/core/domain"

type scanRequest struct {
	Type  string `json:"type"  validate:"required,oneof=qr ean-13 code-128"`
	Value string `json:"value" validate:"required,max=512"`
}

type scanResponse struct {
	Duplicate       bool                    `json:"duplicate"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

type duplicateScanResponse struct {
	Duplicate bool   `json:"duplicate"`
	Message   string `json:"message"`
}

type activateRequest struct {
	Value string `json:"value" validate:"required,max=512"`
}

type activateResponse struct {
	Outcome string `json:"outcome"`
}
