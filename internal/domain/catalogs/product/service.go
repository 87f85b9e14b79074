package product

import (
	"context"
	"fmt"
	"time"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/id"
	"stockpile/internal/core/numerator"
	"stockpile/internal/core/tx"
	"stockpile/internal/domain"
)

// Service provides business logic for Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Product service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	numGen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numGen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate generates a SKU when none is provided and guards
// against duplicates.
func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	if p.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SKU"), time.Now())
		if err != nil {
			return fmt.Errorf("generate sku: %w", err)
		}
		p.Code = code
		return nil
	}

	exists, err := s.repo.ExistsByCode(ctx, p.Code)
	if err != nil {
		return fmt.Errorf("check sku: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("product", "sku", p.Code)
	}
	return nil
}

// --- Entity-specific methods ---

// GetManyByIDs retrieves products by IDs in one query.
func (s *Service) GetManyByIDs(ctx context.Context, ids []id.ID) ([]*Product, error) {
	return s.repo.GetManyByIDs(ctx, ids)
}

// ListLowStock retrieves products whose current stock is at or below
// the reorder level.
func (s *Service) ListLowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.ListLowStock(ctx)
}

// ReleaseIntegrityHold lifts the hold set by reconciliation.
// Meant to be called after the divergence has been investigated.
func (s *Service) ReleaseIntegrityHold(ctx context.Context, productID id.ID) error {
	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !p.IntegrityHold {
		return nil
	}
	return s.repo.SetIntegrityHold(ctx, productID, false)
}
