package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about rows, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: a unique constraint rejected the write
// - ErrAlreadyUsed: a one-shot resource (printed card) was already consumed
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: backend temporarily unavailable (cache, broker)
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
