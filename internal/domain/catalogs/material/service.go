package material

import (
	"context"

	"furnicost/internal/core/apperror"
	"furnicost/internal/core/id"
	"furnicost/internal/core/numerator"
	"furnicost/internal/domain"
)

// Service provides business logic for the materials catalog.
type Service struct {
	*domain.CatalogService[*Material]
	repo Repository
}

// NewService creates a new Material service.
func NewService(repo Repository, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Material]{
		Repo:       repo,
		Numerator:  gen,
		Codes:      numerator.MaterialCodes,
		EntityName: "material",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkArticle)
	base.Hooks().OnBeforeUpdate(svc.checkArticle)

	return svc
}

func (s *Service) checkArticle(ctx context.Context, m *Material) error {
	article := m.ArticleValue()
	if article == "" {
		return nil
	}
	if exists, err := s.articleTaken(ctx, article, m.ID); err != nil {
		return err
	} else if exists {
		return apperror.NewDuplicate("material", "article", article)
	}
	return nil
}

func (s *Service) articleTaken(ctx context.Context, article string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByArticle(ctx, article)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}

// FindByArticle retrieves a material by article.
func (s *Service) FindByArticle(ctx context.Context, article string) (*Material, error) {
	return s.repo.FindByArticle(ctx, article)
}

// ListActive returns the materials visible to the pricing engine.
func (s *Service) ListActive(ctx context.Context) ([]*Material, error) {
	return s.repo.ListActive(ctx)
}

// UpsertResult reports what Upsert did.
type UpsertResult string

const (
	UpsertCreated UpsertResult = "created"
	UpsertUpdated UpsertResult = "updated"
)

// Upsert creates the material or, when a material with the same article exists,
// overwrites its name, unit, price, coefficient, category and kind.
func (s *Service) Upsert(ctx context.Context, m *Material) (UpsertResult, error) {
	article := m.ArticleValue()
	if article == "" {
		return UpsertCreated, s.Create(ctx, m)
	}

	existing, err := s.repo.FindByArticle(ctx, article)
	if err != nil {
		if apperror.IsNotFound(err) {
			return UpsertCreated, s.Create(ctx, m)
		}
		return "", err
	}

	existing.Name = m.Name
	existing.Unit = m.Unit
	existing.Price = m.Price
	existing.ConsumptionCoeff = m.ConsumptionCoeff
	if m.Category != "" {
		existing.Category = m.Category
	}
	if m.Kind != "" {
		existing.Kind = m.Kind
	}
	existing.IsActive = m.IsActive

	if err := s.Update(ctx, existing); err != nil {
		return "", err
	}
	*m = *existing
	return UpsertUpdated, nil
}
