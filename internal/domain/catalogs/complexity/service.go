package complexity

import (
	"context"

	"furnicost/internal/core/numerator"
	"furnicost/internal/domain"
)

// Service provides business logic for the complexity catalog.
type Service struct {
	*domain.CatalogService[*Complexity]
	repo Repository
}

// NewService creates a new Complexity service.
func NewService(repo Repository, gen numerator.Generator) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Complexity]{
			Repo:       repo,
			Numerator:  gen,
			Codes:      numerator.ComplexityCodes,
			EntityName: "paint complexity",
		}),
		repo: repo,
	}
}

// ListActive returns all non-deleted complexities.
func (s *Service) ListActive(ctx context.Context) ([]*Complexity, error) {
	return s.repo.ListActive(ctx)
}
