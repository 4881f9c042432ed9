package cleaner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cleaningmanager/database/repository"
	"cleaningmanager/database/repository/codec"
	"cleaningmanager/database/store"
	"cleaningmanager/models"

	"go.uber.org/zap"
)

// ErrCleanerNotFound also matches store.ErrNotFound.
var ErrCleanerNotFound = fmt.Errorf("cleaner not found: %w", store.ErrNotFound)

// CleanerService manages the cleaning roster.
type CleanerService interface {
	// ListActive returns active cleaners, excluding admin accounts.
	ListActive(ctx context.Context) ([]models.Cleaner, error)
	ListAll(ctx context.Context) ([]models.Cleaner, error)
	Get(ctx context.Context, id string) (*models.Cleaner, error)
	Create(ctx context.Context, req CreateCleanerRequest) (*models.Cleaner, error)
	Update(ctx context.Context, id string, req UpdateCleanerRequest) (*models.Cleaner, error)
	// SoftDelete deactivates the cleaner; the record is kept.
	SoftDelete(ctx context.Context, id string) error
}

type CreateCleanerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin cleaner"`
}

// UpdateCleanerRequest changes only the fields that are set.
type UpdateCleanerRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" validate:"omitempty,email"`
	IsActive *bool   `json:"isActive"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin cleaner"`
}

func (r UpdateCleanerRequest) fields() map[string]any {
	out := map[string]any{}
	if r.Name != nil {
		out["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Phone != nil {
		out["phone"] = *r.Phone
	}
	if r.Email != nil {
		out["email"] = *r.Email
	}
	if r.IsActive != nil {
		out["isActive"] = *r.IsActive
	}
	if r.Role != nil {
		out["role"] = *r.Role
	}
	return out
}

type DefaultCleanerService struct {
	Repo   repository.CleanerRepository
	Logger *zap.Logger
}

func NewDefaultCleanerService(repo repository.CleanerRepository, logger *zap.Logger) *DefaultCleanerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCleanerService{Repo: repo, Logger: logger}
}

func (s *DefaultCleanerService) ListActive(ctx context.Context) ([]models.Cleaner, error) {
	active, err := s.Repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Cleaner, 0, len(active))
	for _, c := range active {
		if c.Assignable() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *DefaultCleanerService) ListAll(ctx context.Context) ([]models.Cleaner, error) {
	return s.Repo.GetAll(ctx)
}

func (s *DefaultCleanerService) Get(ctx context.Context, id string) (*models.Cleaner, error) {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrCleanerNotFound, id)
	}
	return c, nil
}

func (s *DefaultCleanerService) Create(ctx context.Context, req CreateCleanerRequest) (*models.Cleaner, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := codec.Validator().Struct(req); err != nil {
		return nil, store.Invalid("%v", err)
	}
	role := req.Role
	if role == "" {
		role = models.RoleCleaner
	}
	c := models.Cleaner{Name: req.Name, Phone: req.Phone, Email: req.Email, IsActive: true, Role: role}
	id, err := s.Repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Cleaner created", zap.String("cleanerId", id), zap.String("name", c.Name))
	return s.Get(ctx, id)
}

func (s *DefaultCleanerService) Update(ctx context.Context, id string, req UpdateCleanerRequest) (*models.Cleaner, error) {
	if err := codec.Validator().Struct(req); err != nil {
		return nil, store.Invalid("%v", err)
	}
	fields := req.fields()
	if len(fields) == 0 {
		return nil, store.Invalid("no fields to update")
	}
	if err := s.Repo.Update(ctx, id, fields); err != nil {
		return nil, notFound(err, id)
	}
	return s.Get(ctx, id)
}

func (s *DefaultCleanerService) SoftDelete(ctx context.Context, id string) error {
	if err := s.Repo.Update(ctx, id, map[string]any{"isActive": false}); err != nil {
		return notFound(err, id)
	}
	s.Logger.Info("Cleaner deactivated", zap.String("cleanerId", id))
	return nil
}

func notFound(err error, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s: %v", ErrCleanerNotFound, id, err)
	}
	return err
}

var _ CleanerService = (*DefaultCleanerService)(nil)
