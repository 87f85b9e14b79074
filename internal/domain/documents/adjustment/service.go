// Package adjustment provides the Adjustment document service.
package adjustment

import (
	"context"
	"fmt"
	"time"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/core/numerator"
	"stockpile/internal/core/tx"
	"stockpile/internal/domain"
	"stockpile/internal/domain/posting"
	"stockpile/pkg/logger"
)

// BalanceSource supplies the stored balance for a warehouse/product
// pair. Satisfied by the stock register service.
type BalanceSource interface {
	GetBalance(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error)
}

// Service provides business operations for adjustment documents.
type Service struct {
	repo          Repository
	postingEngine *posting.Engine
	balances      BalanceSource
	numerator     numerator.Generator
	txManager     tx.Manager
	hooks         *domain.HookRegistry[*Adjustment]
}

// NewService creates a new adjustment service.
func NewService(
	repo Repository,
	postingEngine *posting.Engine,
	balances BalanceSource,
	numGen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:          repo,
		postingEngine: postingEngine,
		balances:      balances,
		numerator:     numGen,
		txManager:     txManager,
		hooks:         domain.NewHookRegistry[*Adjustment](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Adjustment] {
	return s.hooks
}

// Create creates a new adjustment document in draft.
// System quantities are snapshotted from the stored balances so the
// deviation is fixed at the moment the count is entered.
func (s *Service) Create(ctx context.Context, doc *Adjustment) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := s.fillSystemQuantities(ctx, doc); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(NumberPrefix), time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "adjustment created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves an adjustment with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Adjustment, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update updates an adjustment document. Editable only in draft.
// Changed lines get a fresh balance snapshot.
func (s *Service) Update(ctx context.Context, doc *Adjustment) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if err := doc.CanModify(); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := s.fillSystemQuantities(ctx, doc); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes an adjustment. Done documents cannot be deleted.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Status != entity.StatusDraft && doc.Status != entity.StatusCanceled {
		return doc.CanModify()
	}

	return s.repo.Delete(ctx, docID)
}

// Transition moves the document to the target status.
func (s *Service) Transition(ctx context.Context, docID id.ID, target entity.Status) (*Adjustment, error) {
	if target == entity.StatusDone {
		if err := s.post(ctx, docID); err != nil {
			return nil, err
		}
		doc, err := s.GetByID(ctx, docID)
		if err != nil {
			return nil, err
		}
		if err := s.hooks.RunAfterTransition(ctx, doc); err != nil {
			logger.Warn(ctx, "after-transition hook failed", "error", err)
		}
		return doc, nil
	}

	var doc *Adjustment
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := d.CheckTransition(DocumentType, target); err != nil {
			return err
		}
		if err := s.repo.UpdateStatus(ctx, docID, d.Status, target); err != nil {
			return err
		}
		d.SetStatus(target)
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.hooks.RunAfterTransition(ctx, doc); err != nil {
		logger.Warn(ctx, "after-transition hook failed", "error", err)
	}

	logger.Info(ctx, "adjustment transitioned", "id", docID, "status", target)
	return doc, nil
}

// post drives the posting engine under a document row lock.
func (s *Service) post(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		lines, err := s.repo.GetLines(ctx, docID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		doc.Lines = lines

		from := doc.Status
		claim := func(ctx context.Context) error {
			return s.repo.UpdateStatus(ctx, docID, from, entity.StatusDone)
		}

		return s.postingEngine.Post(ctx, doc, claim)
	})
}

// List retrieves adjustments with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Adjustment], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// fillSystemQuantities snapshots the stored balance into each line.
// A missing balance row means the product was never moved there, so
// the system figure is zero.
func (s *Service) fillSystemQuantities(ctx context.Context, doc *Adjustment) error {
	for i := range doc.Lines {
		balance, err := s.balances.GetBalance(ctx, doc.WarehouseID, doc.Lines[i].ProductID)
		if err != nil {
			if apperror.IsNotFound(err) {
				doc.Lines[i].SystemQuantity = 0
				continue
			}
			return fmt.Errorf("get balance: %w", err)
		}
		doc.Lines[i].SystemQuantity = balance.Quantity
	}
	return nil
}
