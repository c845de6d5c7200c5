package handler

import (
	"almanah/internal/ledger/models"
)

// ValidateResponse is the body of GET /cards/validate/{id}.
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// ReconcileResponse is the body of POST /album/reconcile.
type ReconcileResponse struct {
	Album    *models.Album `json:"album"`
	Repaired bool          `json:"repaired"`
}

// ItemsResponse wraps an unpaged list.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

func items[T any](list []T) ItemsResponse[T] {
	if list == nil {
		list = []T{}
	}
	return ItemsResponse[T]{Items: list}
}
