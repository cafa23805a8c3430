package paintrecipe

import (
	"context"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/id"
	"furnicost/internal/core/numerator"
	"furnicost/internal/domain"
)

// ComplexityChecker reports whether a complexity exists.
type ComplexityChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// Service provides business logic for the paint recipe catalog.
type Service struct {
	*domain.CatalogService[*Recipe]
	repo         Repository
	complexities ComplexityChecker
}

// NewService creates a new Recipe service. complexities may be nil to skip the
// reference check.
func NewService(repo Repository, gen numerator.Generator, complexities ComplexityChecker) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Recipe]{
		Repo:       repo,
		Numerator:  gen,
		Codes:      numerator.RecipeCodes,
		EntityName: "paint recipe",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		complexities:   complexities,
	}

	base.Hooks().OnBeforeCreate(svc.checkComplexity)
	base.Hooks().OnBeforeUpdate(svc.checkComplexity)

	return svc
}

func (s *Service) checkComplexity(ctx context.Context, r *Recipe) error {
	if s.complexities == nil || r.ComplexityID == nil {
		return nil
	}
	ok, err := s.complexities.Exists(ctx, *r.ComplexityID)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if !ok {
		return apperror.NewValidation("complexity not found").
			WithDetail("field", "complexityId").
			WithDetail("value", r.ComplexityID.String())
	}
	return nil
}

// ListActive returns all non-deleted recipes.
func (s *Service) ListActive(ctx context.Context) ([]*Recipe, error) {
	return s.repo.ListActive(ctx)
}
