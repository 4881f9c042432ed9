// Package store is the record store adapter: string-keyed documents grouped in
// named collections, with server-assigned audit timestamps.
package store

import (
	"context"
	"fmt"
)

const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Document is a stored record: its key plus field data.
type Document struct {
	ID   string
	Data map[string]any
}

// Entry is one document of a batch create.
type Entry struct {
	ID   string
	Data map[string]any
}

// Operator is a comparison operator for GetWhere.
type Operator string

const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

func (o Operator) valid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return true
	}
	return false
}

// RecordStore is implemented by every backend. Errors carry one of the kinds in
// errors.go; none of the methods retry.
type RecordStore interface {
	GetAll(ctx context.Context, collection string) ([]Document, error)
	GetWhere(ctx context.Context, collection, field string, op Operator, value any) ([]Document, error)
	// GetByID reports found=false for an absent document instead of an error.
	GetByID(ctx context.Context, collection, id string) (Document, bool, error)
	// Add stores data under a backend-assigned id and returns it.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Update merges fields into an existing document; ErrNotFound if it is absent.
	Update(ctx context.Context, collection, id string, partial map[string]any) error
	// Delete is idempotent.
	Delete(ctx context.Context, collection, id string) error
	// SetWithID creates or replaces the document at id.
	SetWithID(ctx context.Context, collection, id string, data map[string]any) error
	// Create writes the document at id only if absent; ErrAlreadyExists otherwise.
	Create(ctx context.Context, collection, id string, data map[string]any) error
	// CreateBatch atomically creates every absent entry and leaves existing ones
	// untouched. It returns the ids it created.
	CreateBatch(ctx context.Context, collection string, entries []Entry) ([]string, error)
}

// HealthChecker is implemented by backends that can be probed.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

func checkQuery(collection, field string, op Operator) error {
	if !op.valid() {
		return newError("getWhere", collection, "", ErrValidationFailed, fmt.Errorf("unsupported operator %q", op))
	}
	if field == "" {
		return newError("getWhere", collection, "", ErrValidationFailed, fmt.Errorf("field is required"))
	}
	return nil
}

func checkID(op, collection, id string) error {
	if id == "" {
		return newError(op, collection, id, ErrValidationFailed, fmt.Errorf("document id is required"))
	}
	return nil
}

// stripAudit drops caller-supplied audit fields; the backend owns them.
func stripAudit(data map[string]any) map[string]any {
	out := make(map[string]any, len(data)+2)
	for k, v := range data {
		if k == FieldCreatedAt || k == FieldUpdatedAt || k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}
