// Package controller implements the core business logic (service layer)
// for managing Company entities, orchestrating repository operations
// and sending relevant events.
package controller

import (
	"context"
	"fmt"

	"github.com/gartstein/companies/internal/company/auth"
	"github.com/gartstein/companies/internal/company/db"
	e "github.com/gartstein/companies/internal/company/errors"
	"github.com/gartstein/companies/internal/company/events"
	"github.com/gartstein/companies/internal/company/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventProducer publishes change events; actor is the authenticated subject.
type EventProducer interface {
	Produce(eventType events.EventType, company *models.Company, actor string)
}

// Repository defines the storage interface for Company objects.
// Lookups return a nil company, not an error, when nothing matches.
type Repository interface {
	CreateCompany(ctx context.Context, form *models.CompanyForm) (*models.Company, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	GetCompanyByName(ctx context.Context, name string) (*models.Company, error)
	GetCompanyByNickname(ctx context.Context, nickname string) (*models.Company, error)
	ListCompanies(ctx context.Context, opts models.ListOptions) []models.Company
	UpdateCompany(ctx context.Context, id string, form *models.CompanyForm) (*models.Company, error)
	DeleteCompany(ctx context.Context, id string) (bool, error)
	DeleteAllCompanies(ctx context.Context) (bool, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// CompanyService provides methods to manage companies via repository
// operations and event production.
type CompanyService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewCompanyService constructs a CompanyService with a repository,
// an event producer, and a logger.
func NewCompanyService(repo Repository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// CreateCompany stores a new Company and triggers an event. A missing id is
// replaced by a random UUID. Name uniqueness is left to the store.
func (s *CompanyService) CreateCompany(ctx context.Context, form *models.CompanyForm) (*models.Company, error) {
	if form.Name == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	if form.ID == "" {
		withID := *form
		withID.ID = uuid.NewString()
		form = &withID
	}

	company, err := s.repo.CreateCompany(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	actor := auth.Subject(ctx)
	go func() {
		s.producer.Produce(events.CompanyCreated, company, actor)
	}()
	return company, nil
}

// GetCompany retrieves a Company by ID, returning ErrNotFound if absent.
func (s *CompanyService) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	return found(company, err, "failed to get company")
}

// GetCompanyByName retrieves a Company by its exact name.
func (s *CompanyService) GetCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	company, err := s.repo.GetCompanyByName(ctx, name)
	return found(company, err, "failed to get company by name")
}

// GetCompanyByNickname retrieves the oldest Company known by nickname.
func (s *CompanyService) GetCompanyByNickname(ctx context.Context, nickname string) (*models.Company, error) {
	company, err := s.repo.GetCompanyByNickname(ctx, nickname)
	return found(company, err, "failed to get company by nickname")
}

// ListCompanies returns companies newest first. Negative pagination values are rejected.
func (s *CompanyService) ListCompanies(ctx context.Context, opts models.ListOptions) ([]models.Company, error) {
	if opts.Skip != nil && *opts.Skip < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative", e.ErrInvalidInput)
	}
	if opts.Limit != nil && *opts.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", e.ErrInvalidInput)
	}
	return s.repo.ListCompanies(ctx, opts), nil
}

// UpdateCompany replaces the mutable fields of the specified Company
// and produces an update event.
func (s *CompanyService) UpdateCompany(ctx context.Context, id string, form *models.CompanyForm) (*models.Company, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: invalid company ID", e.ErrInvalidInput)
	}
	if form.Name == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}

	updated, err := s.repo.UpdateCompany(ctx, id, form)
	if err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	if updated == nil {
		return nil, e.ErrNotFound
	}
	actor := auth.Subject(ctx)
	go func() {
		s.producer.Produce(events.CompanyUpdated, updated, actor)
	}()
	return updated, nil
}

// DeleteCompany removes a Company by ID and fires a deletion event.
func (s *CompanyService) DeleteCompany(ctx context.Context, id string) error {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get company for deletion: %w", err)
	}
	if company == nil {
		return e.ErrNotFound
	}

	deleted, err := s.repo.DeleteCompany(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if !deleted {
		return e.ErrNotFound
	}

	actor := auth.Subject(ctx)
	go func() {
		s.producer.Produce(events.CompanyDeleted, company, actor)
	}()

	return nil
}

// DeleteAllCompanies removes every Company and fires a purge event.
func (s *CompanyService) DeleteAllCompanies(ctx context.Context) error {
	if _, err := s.repo.DeleteAllCompanies(ctx); err != nil {
		return fmt.Errorf("failed to delete companies: %w", err)
	}
	s.logger.Info("All companies deleted")

	actor := auth.Subject(ctx)
	go func() {
		s.producer.Produce(events.CompaniesPurged, nil, actor)
	}()
	return nil
}

func found(company *models.Company, err error, msg string) (*models.Company, error) {
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if company == nil {
		return nil, e.ErrNotFound
	}
	return company, nil
}
