package assignment

import (
	"context"

	"cleaningmanager/database/repository/codec"
	"cleaningmanager/models"
	"cleaningmanager/utils"

	"go.uber.org/zap"
)

// SyncResult counts what one sync pass did with its bookings.
type SyncResult struct {
	Created    int           `json:"created"`
	Existing   int           `json:"existing"`
	Skipped    int           `json:"skipped"` // cleaning not required
	Invalid    int           `json:"invalid"`
	Malformed  int           `json:"malformed"` // stored records that do not match the schema
	CreatedIDs []string      `json:"createdIds"`
	Rejected   []ItemFailure `json:"rejected,omitempty"`
}

// ReconcileResult counts the outcome of one date reconciliation pass.
type ReconcileResult struct {
	Updated   int           `json:"updated"`
	Unchanged int           `json:"unchanged"`
	Missing   int           `json:"missing"` // bookings with no assignment yet
	Invalid   int           `json:"invalid"`
	Malformed int           `json:"malformed"` // stored records for the booking that do not match the schema
	Failed    int           `json:"failed"`
	Failures  []ItemFailure `json:"failures,omitempty"`
}

// NewAssignmentFor is the record sync creates for a booking.
func NewAssignmentFor(b models.Booking) models.CleaningAssignment {
	return models.CleaningAssignment{
		ID:                  CanonicalID(b.CheckOut, b.ID),
		OriginalBookingDate: b.CheckOut,
		CurrentCleaningDate: b.CheckOut,
		BookingID:           b.ID,
		GuestName:           b.GuestName,
	}
}

func (s *DefaultAssignmentService) SyncFromBookings(ctx context.Context, bookings []models.Booking) (*SyncResult, error) {
	existing, malformed, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(existing)+len(malformed))
	booked := make(map[string]bool, len(existing)+len(malformed))
	for _, a := range existing {
		ids[a.ID] = true
		if a.BookingID != "" {
			booked[a.BookingID] = true
		}
	}
	// Malformed records still hold their id and booking.
	for _, r := range malformed {
		s.Logger.Warn("Assignment does not match the schema", zap.String("id", r.ID), zap.Error(r.Err))
		ids[r.ID] = true
		if bookingID := codec.StringField(r.Data, "bookingId"); bookingID != "" {
			booked[bookingID] = true
		}
	}

	result := &SyncResult{CreatedIDs: []string{}, Malformed: len(malformed)}
	var pending []models.CleaningAssignment
	for _, b := range bookings {
		if !b.CleaningRequired {
			result.Skipped++
			continue
		}
		if err := codec.Validator().Struct(b); err != nil {
			result.Invalid++
			result.Rejected = append(result.Rejected, failure(b.ID, err))
			continue
		}
		id := CanonicalID(b.CheckOut, b.ID)
		// A booking whose checkout moved keeps its assignment under the old id.
		if ids[id] || booked[b.ID] {
			result.Existing++
			continue
		}
		booked[b.ID] = true
		pending = append(pending, NewAssignmentFor(b))
	}

	created, err := s.Repo.CreateMany(ctx, pending)
	if err != nil {
		s.Logger.Error("Assignment sync batch failed", zap.Int("pending", len(pending)), zap.Error(err))
		return nil, err
	}
	result.Created = len(created)
	// Records created concurrently between the read and the batch.
	result.Existing += len(pending) - len(created)
	if created != nil {
		result.CreatedIDs = created
	}

	utils.CountOutcome(utils.SyncOutcomes, "created", result.Created)
	utils.CountOutcome(utils.SyncOutcomes, "existing", result.Existing)
	utils.CountOutcome(utils.SyncOutcomes, "skipped", result.Skipped)
	utils.CountOutcome(utils.SyncOutcomes, "invalid", result.Invalid)
	utils.CountOutcome(utils.SyncOutcomes, "malformed", result.Malformed)
	s.Logger.Info("Assignments synced from bookings",
		zap.Int("bookings", len(bookings)),
		zap.Int("created", result.Created),
		zap.Int("existing", result.Existing),
		zap.Int("invalid", result.Invalid),
		zap.Int("malformed", result.Malformed),
	)
	return result, nil
}

func (s *DefaultAssignmentService) ReconcileBookingDates(ctx context.Context, bookings []models.Booking) (*ReconcileResult, error) {
	all, malformed, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byBooking := make(map[string][]models.CleaningAssignment)
	for _, a := range all {
		if a.BookingID != "" {
			byBooking[a.BookingID] = append(byBooking[a.BookingID], a)
		}
	}
	malformedByBooking := make(map[string]int)
	for _, r := range malformed {
		if bookingID := codec.StringField(r.Data, "bookingId"); bookingID != "" {
			malformedByBooking[bookingID]++
		}
	}

	result := &ReconcileResult{}
	for _, b := range bookings {
		if !b.CleaningRequired {
			continue
		}
		if err := codec.Validator().Struct(b); err != nil {
			result.Invalid++
			continue
		}
		records := byBooking[b.ID]
		if bad := malformedByBooking[b.ID]; bad > 0 {
			result.Malformed += bad
			s.Logger.Warn("Skipping malformed assignments for booking", zap.String("bookingId", b.ID), zap.Int("count", bad))
		} else if len(records) == 0 {
			result.Missing++
			continue
		}
		for _, a := range records {
			changed := b.CheckOut != OriginalDate(a)
			if a.CurrentCleaningDate == b.CheckOut && a.BookingDateChanged == changed {
				result.Unchanged++
				continue
			}
			err := s.Repo.Update(ctx, a.ID, map[string]any{
				"currentCleaningDate": b.CheckOut,
				"bookingDateChanged":  changed,
			})
			if err != nil {
				s.Logger.Warn("Failed to reconcile assignment date",
					zap.String("assignmentId", a.ID),
					zap.String("checkOut", b.CheckOut),
					zap.Error(err),
				)
				result.Failed++
				result.Failures = append(result.Failures, failure(a.ID, err))
				continue
			}
			result.Updated++
		}
	}

	utils.CountOutcome(utils.ReconcileOutcomes, "updated", result.Updated)
	utils.CountOutcome(utils.ReconcileOutcomes, "unchanged", result.Unchanged)
	utils.CountOutcome(utils.ReconcileOutcomes, "missing", result.Missing)
	utils.CountOutcome(utils.ReconcileOutcomes, "malformed", result.Malformed)
	utils.CountOutcome(utils.ReconcileOutcomes, "failed", result.Failed)
	s.Logger.Info("Booking dates reconciled",
		zap.Int("updated", result.Updated),
		zap.Int("missing", result.Missing),
		zap.Int("malformed", result.Malformed),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
