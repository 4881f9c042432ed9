package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cleaningmanager/database/repository"
	"cleaningmanager/database/store"
	"cleaningmanager/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrLinkNotFound is returned for unknown or deactivated link tokens.
	ErrLinkNotFound = fmt.Errorf("availability link not found: %w", store.ErrNotFound)
)

// AvailabilityService manages monthly cleaner availability and the links
// that let cleaners submit it without signing in.
type AvailabilityService interface {
	// GetCleanerAvailability returns the stored record, or an unsaved empty
	// one when the cleaner has not submitted the month yet.
	GetCleanerAvailability(ctx context.Context, cleanerID, month string) (*models.CleanerAvailability, error)
	UpdateAvailability(ctx context.Context, cleanerID, month string, dates []string) (*models.CleanerAvailability, error)
	GetMonth(ctx context.Context, month string) ([]models.CleanerAvailability, error)

	CreateLink(ctx context.Context, cleanerID, cleanerName, month string) (*models.AvailabilityLink, error)
	ListLinks(ctx context.Context) ([]models.AvailabilityLink, error)
	GetLinkByToken(ctx context.Context, token string) (*models.AvailabilityLink, error)
	DeactivateLink(ctx context.Context, id string) error
	SubmitViaLink(ctx context.Context, token string, dates []string) (*models.CleanerAvailability, error)
}

type DefaultAvailabilityService struct {
	Records repository.AvailabilityRepository
	Links   repository.LinkRepository
	Logger  *zap.Logger
	// NewToken generates link tokens.
	NewToken func() string
}

func NewDefaultAvailabilityService(records repository.AvailabilityRepository, links repository.LinkRepository, logger *zap.Logger) *DefaultAvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAvailabilityService{
		Records:  records,
		Links:    links,
		Logger:   logger,
		NewToken: func() string { return uuid.New().String() },
	}
}

func (s *DefaultAvailabilityService) GetCleanerAvailability(ctx context.Context, cleanerID, month string) (*models.CleanerAvailability, error) {
	if err := checkKey(cleanerID, month); err != nil {
		return nil, err
	}
	record, err := s.Records.GetByCleanerMonth(ctx, cleanerID, month)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &models.CleanerAvailability{CleanerID: cleanerID, Month: month, AvailableDates: []string{}}, nil
	}
	return record, nil
}

// UpdateAvailability replaces the cleaner's dates for month, creating the
// record if the month has none yet.
func (s *DefaultAvailabilityService) UpdateAvailability(ctx context.Context, cleanerID, month string, dates []string) (*models.CleanerAvailability, error) {
	if err := checkKey(cleanerID, month); err != nil {
		return nil, err
	}
	normalized, err := normalizeDates(month, dates)
	if err != nil {
		return nil, err
	}

	existing, err := s.Records.GetByCleanerMonth(ctx, cleanerID, month)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		_, err := s.Records.Create(ctx, models.CleanerAvailability{CleanerID: cleanerID, Month: month, AvailableDates: normalized})
		switch {
		case err == nil:
		case errors.Is(err, store.ErrAlreadyExists):
			// Created concurrently; fall through to an update of that record.
			existing, err = s.Records.GetByCleanerMonth(ctx, cleanerID, month)
			if err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}
	if existing != nil {
		if err := s.Records.UpdateDates(ctx, existing.ID, normalized); err != nil {
			return nil, err
		}
	}

	s.Logger.Info("Availability updated",
		zap.String("cleanerId", cleanerID),
		zap.String("month", month),
		zap.Int("dates", len(normalized)),
	)
	return s.GetCleanerAvailability(ctx, cleanerID, month)
}

func (s *DefaultAvailabilityService) GetMonth(ctx context.Context, month string) ([]models.CleanerAvailability, error) {
	if !validMonth(month) {
		return nil, store.Invalid("month must be YYYY-MM, got %q", month)
	}
	return s.Records.GetByMonth(ctx, month)
}

func (s *DefaultAvailabilityService) CreateLink(ctx context.Context, cleanerID, cleanerName, month string) (*models.AvailabilityLink, error) {
	if err := checkKey(cleanerID, month); err != nil {
		return nil, err
	}
	link := models.AvailabilityLink{
		CleanerID:   cleanerID,
		CleanerName: strings.TrimSpace(cleanerName),
		Month:       month,
		UniqueLink:  s.NewToken(),
		IsActive:    true,
	}
	id, err := s.Links.Create(ctx, link)
	if err != nil {
		return nil, err
	}
	link.ID = id
	s.Logger.Info("Availability link created", zap.String("linkId", id), zap.String("cleanerId", cleanerID), zap.String("month", month))
	return &link, nil
}

func (s *DefaultAvailabilityService) ListLinks(ctx context.Context) ([]models.AvailabilityLink, error) {
	return s.Links.GetAll(ctx)
}

// GetLinkByToken returns the active link carrying token.
func (s *DefaultAvailabilityService) GetLinkByToken(ctx context.Context, token string) (*models.AvailabilityLink, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrLinkNotFound
	}
	links, err := s.Links.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	for i := range links {
		if links[i].IsActive {
			return &links[i], nil
		}
	}
	return nil, ErrLinkNotFound
}

func (s *DefaultAvailabilityService) DeactivateLink(ctx context.Context, id string) error {
	if err := s.Links.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrLinkNotFound, id)
		}
		return err
	}
	s.Logger.Info("Availability link deactivated", zap.String("linkId", id))
	return nil
}

// SubmitViaLink records availability for the link's cleaner and month.
func (s *DefaultAvailabilityService) SubmitViaLink(ctx context.Context, token string, dates []string) (*models.CleanerAvailability, error) {
	link, err := s.GetLinkByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.UpdateAvailability(ctx, link.CleanerID, link.Month, dates)
}

func checkKey(cleanerID, month string) error {
	if strings.TrimSpace(cleanerID) == "" {
		return store.Invalid("cleanerId is required")
	}
	if !validMonth(month) {
		return store.Invalid("month must be YYYY-MM, got %q", month)
	}
	return nil
}

func validMonth(month string) bool {
	_, err := time.Parse("2006-01", month)
	return err == nil
}

// normalizeDates checks every date falls in month and returns them sorted
// without duplicates.
func normalizeDates(month string, dates []string) ([]string, error) {
	seen := make(map[string]bool, len(dates))
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, store.Invalid("date %q is not YYYY-MM-DD", d)
		}
		if !strings.HasPrefix(d, month+"-") {
			return nil, store.Invalid("date %s is outside %s", d, month)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

var _ AvailabilityService = (*DefaultAvailabilityService)(nil)
