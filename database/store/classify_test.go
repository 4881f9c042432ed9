package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyFirestoreStatus(t *testing.T) {
	cases := []struct {
		code codes.Code
		kind error
	}{
		{codes.NotFound, ErrNotFound},
		{codes.AlreadyExists, ErrAlreadyExists},
		{codes.PermissionDenied, ErrUnauthorized},
		{codes.Unauthenticated, ErrUnauthorized},
		{codes.Unavailable, ErrStoreUnavailable},
		{codes.DeadlineExceeded, ErrStoreUnavailable},
		{codes.Aborted, ErrStoreUnavailable},
		{codes.InvalidArgument, ErrValidationFailed},
	}
	for _, tc := range cases {
		t.Run(tc.code.String(), func(t *testing.T) {
			cause := status.Error(tc.code, "boom")
			err := classify("update", "cleaners", "c1", cause)
			assert.True(t, errors.Is(err, tc.kind))
			assert.True(t, errors.Is(err, cause))
		})
	}
}

func TestClassifyContextErrorsAsUnavailable(t *testing.T) {
	err := classify("getAll", "cleaners", "", context.DeadlineExceeded)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
}

func TestErrorMessageNamesTarget(t *testing.T) {
	err := newError("update", "cleaning-assignments", "2025-03-21_bk1", ErrNotFound, nil)
	assert.Equal(t, "store update cleaning-assignments/2025-03-21_bk1: record not found", err.Error())
}

func TestNormalizeBSONValues(t *testing.T) {
	at := time.Date(2025, 3, 21, 10, 0, 0, 0, time.UTC)
	doc := fromBSON(bson.M{
		"_id":            "2025-03",
		"availableDates": primitive.A{"2025-03-01", "2025-03-02"},
		"updatedAt":      primitive.NewDateTimeFromTime(at),
		"nested":         primitive.D{{Key: "k", Value: "v"}},
	})

	assert.Equal(t, "2025-03", doc.ID)
	assert.NotContains(t, doc.Data, "_id")
	assert.Equal(t, []any{"2025-03-01", "2025-03-02"}, doc.Data["availableDates"])
	assert.Equal(t, at, doc.Data["updatedAt"])
	assert.Equal(t, map[string]any{"k": "v"}, doc.Data["nested"])
}

func TestWhereFilterOperators(t *testing.T) {
	assert.Equal(t, bson.M{"isActive": true}, whereFilter("isActive", OpEqual, true))
	assert.Equal(t, bson.M{"role": bson.M{"$ne": "admin"}}, whereFilter("role", OpNotEqual, "admin"))
	assert.Equal(t, bson.M{"month": bson.M{"$gte": "2025-03"}}, whereFilter("month", OpGreaterEqual, "2025-03"))
}
