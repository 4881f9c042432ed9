package assignment

import (
	"fmt"

	"cleaningmanager/database/store"
)

// ErrAssignmentNotFound means no assignment matched the booking and date.
// It also matches store.ErrNotFound.
var ErrAssignmentNotFound = fmt.Errorf("assignment not found: %w", store.ErrNotFound)

// ItemFailure records one item of a batch operation that failed.
type ItemFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

func failure(id string, err error) ItemFailure {
	return ItemFailure{ID: id, Error: err.Error()}
}
