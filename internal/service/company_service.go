package service

import (
	"context"
	"errors"
	"fmt"

	"invoice_server/internal/model"
	"invoice_server/internal/repository"
)

type CompanyService interface {
	Get(ctx context.Context) (model.CompanyDetails, error)
	Update(ctx context.Context, req model.UpdateCompanyRequest) (*model.CompanyDetails, error)
}

type companyService struct {
	repo repository.CompanyRepository
}

func NewCompanyService(repo repository.CompanyRepository) CompanyService {
	return &companyService{repo: repo}
}

// Get returns the saved profile, or the defaults when none exists yet.
func (s *companyService) Get(ctx context.Context) (model.CompanyDetails, error) {
	c, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.DefaultCompanyDetails(), nil
		}
		return model.CompanyDetails{}, fmt.Errorf("failed to load company details: %w", err)
	}
	return *c, nil
}

// Update merges req onto the current profile and saves it.
func (s *companyService) Update(ctx context.Context, req model.UpdateCompanyRequest) (*model.CompanyDetails, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	req.Apply(&current)
	if current.Name == "" || current.Address == "" || current.Phone == "" {
		return nil, invalid("name, address and phone are required")
	}
	if err := s.repo.Save(ctx, &current); err != nil {
		return nil, fmt.Errorf("failed to save company details: %w", err)
	}
	return &current, nil
}
