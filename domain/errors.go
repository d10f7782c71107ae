package domain

import "errors"

var (
	// ErrInsufficientData aborts a training run whose rating matrix is too
	// small to correlate. The previously published model stays active.
	ErrInsufficientData = errors.New("insufficient data to build similarity model")

	// ErrModelNotFound means no model has been trained yet, or the version
	// pointer references an artifact that is gone from the store.
	ErrModelNotFound = errors.New("similarity model not found, train first")
)
