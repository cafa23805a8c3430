package product

import (
	"context"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/numerator"
	"furnicost/internal/domain"
)

// Service provides business logic for the products catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
}

// NewService creates a new Product service.
func NewService(repo Repository, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		Numerator:  gen,
		Codes:      numerator.ProductCodes,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)

	return svc
}

// prepare rejects duplicate articles and normalizes empty JSONB columns.
func (s *Service) prepare(ctx context.Context, p *Product) error {
	if article := p.ArticleValue(); article != "" {
		existing, err := s.repo.FindByArticle(ctx, article)
		switch {
		case err == nil && existing.ID != p.ID:
			return apperror.NewDuplicate("product", "article", article)
		case err != nil && !apperror.IsNotFound(err):
			return err
		}
	}
	if p.TechCard == nil {
		p.TechCard = TechCard{}
	}
	if p.PaintJobs == nil {
		p.PaintJobs = PaintJobs{}
	}
	return nil
}

// FindByArticle retrieves a product by article.
func (s *Service) FindByArticle(ctx context.Context, article string) (*Product, error) {
	return s.repo.FindByArticle(ctx, article)
}
