package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	Repository

	balances  map[[2]id.ID]types.Quantity
	created   []entity.StockMove
	applied   []entity.StockMove
	ledgerSum map[id.ID]types.Quantity
	balanceMM []BalanceMismatch
}

func (r *fakeRepo) GetBalanceForUpdate(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error) {
	return entity.StockBalance{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    r.balances[[2]id.ID{warehouseID, productID}],
	}, nil
}

func (r *fakeRepo) CreateMoves(ctx context.Context, moves []entity.StockMove) error {
	r.created = append(r.created, moves...)
	return nil
}

func (r *fakeRepo) ApplyToBalances(ctx context.Context, moves []entity.StockMove) error {
	r.applied = append(r.applied, moves...)
	return nil
}

func (r *fakeRepo) SumMovesByProduct(ctx context.Context) (map[id.ID]types.Quantity, error) {
	return r.ledgerSum, nil
}

func (r *fakeRepo) FindBalanceMismatches(ctx context.Context) ([]BalanceMismatch, error) {
	return r.balanceMM, nil
}

type fakeProductStore struct {
	stored map[id.ID]types.Quantity
	deltas map[id.ID]types.Quantity
	held   map[id.ID]bool
}

func (s *fakeProductStore) ApplyStockDeltas(ctx context.Context, deltas map[id.ID]types.Quantity) error {
	s.deltas = deltas
	return nil
}

func (s *fakeProductStore) GetStoredStock(ctx context.Context) (map[id.ID]types.Quantity, error) {
	return s.stored, nil
}

func (s *fakeProductStore) SetIntegrityHold(ctx context.Context, productID id.ID, held bool) error {
	if s.held == nil {
		s.held = make(map[id.ID]bool)
	}
	s.held[productID] = held
	return nil
}

func TestService_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	warehouseID := id.New()
	productID := id.New()

	repo := &fakeRepo{balances: map[[2]id.ID]types.Quantity{
		{warehouseID, productID}: types.NewQuantityFromFloat64(10),
	}}
	svc := NewService(repo, &fakeProductStore{}, fakeTxManager{})

	t.Run("sufficient", func(t *testing.T) {
		err := svc.CheckAvailability(ctx, []Demand{
			{WarehouseID: warehouseID, ProductID: productID, Quantity: types.NewQuantityFromFloat64(10)},
		})
		require.NoError(t, err)
	})

	t.Run("insufficient", func(t *testing.T) {
		err := svc.CheckAvailability(ctx, []Demand{
			{WarehouseID: warehouseID, ProductID: productID, Quantity: types.NewQuantityFromFloat64(11)},
		})
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	})

	t.Run("two lines summed before check", func(t *testing.T) {
		err := svc.CheckAvailability(ctx, []Demand{
			{WarehouseID: warehouseID, ProductID: productID, Quantity: types.NewQuantityFromFloat64(6)},
			{WarehouseID: warehouseID, ProductID: productID, Quantity: types.NewQuantityFromFloat64(6)},
		})
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	})

	t.Run("negative allowed skips check", func(t *testing.T) {
		err := svc.CheckAvailability(ctx, []Demand{
			{WarehouseID: warehouseID, ProductID: productID, Quantity: types.NewQuantityFromFloat64(100), AllowNegative: true},
		})
		require.NoError(t, err)
	})
}

func TestService_RecordMoves(t *testing.T) {
	ctx := context.Background()
	docID := id.New()
	warehouseID := id.New()
	productID := id.New()

	t.Run("records and aggregates deltas", func(t *testing.T) {
		repo := &fakeRepo{}
		products := &fakeProductStore{}
		svc := NewService(repo, products, fakeTxManager{})

		moves := []entity.StockMove{
			entity.NewStockMove(docID, "transfer", time.Now(), entity.DirectionOut, warehouseID, productID, types.NewQuantityFromFloat64(5)),
			entity.NewStockMove(docID, "transfer", time.Now(), entity.DirectionIn, id.New(), productID, types.NewQuantityFromFloat64(5)),
		}
		require.NoError(t, svc.RecordMoves(ctx, moves))

		assert.Len(t, repo.created, 2)
		assert.Len(t, repo.applied, 2)
		// -5 out and +5 in cancel at the product level
		assert.Equal(t, types.Quantity(0), products.deltas[productID])
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, &fakeProductStore{}, fakeTxManager{})

		moves := []entity.StockMove{
			entity.NewStockMove(docID, "receipt", time.Now(), entity.DirectionIn, warehouseID, productID, 0),
		}
		require.Error(t, svc.RecordMoves(ctx, moves))
		assert.Empty(t, repo.created)
	})

	t.Run("empty set is a no-op", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, &fakeProductStore{}, fakeTxManager{})
		require.NoError(t, svc.RecordMoves(ctx, nil))
	})
}

func TestService_Reconcile(t *testing.T) {
	ctx := context.Background()
	okProduct := id.New()
	badProduct := id.New()

	repo := &fakeRepo{
		ledgerSum: map[id.ID]types.Quantity{
			okProduct:  types.NewQuantityFromFloat64(10),
			badProduct: types.NewQuantityFromFloat64(7),
		},
	}
	products := &fakeProductStore{
		stored: map[id.ID]types.Quantity{
			okProduct:  types.NewQuantityFromFloat64(10),
			badProduct: types.NewQuantityFromFloat64(9),
		},
	}
	svc := NewService(repo, products, fakeTxManager{})

	report, err := svc.Reconcile(ctx)
	require.NoError(t, err)

	assert.False(t, report.Clean)
	require.Len(t, report.Products, 1)
	assert.Equal(t, badProduct, report.Products[0].ProductID)
	assert.Equal(t, types.NewQuantityFromFloat64(7), report.Products[0].Ledger)
	assert.Equal(t, types.NewQuantityFromFloat64(9), report.Products[0].Stored)

	// the divergent product is held, never auto-healed
	assert.True(t, products.held[badProduct])
	assert.False(t, products.held[okProduct])
	assert.Equal(t, types.NewQuantityFromFloat64(9), products.stored[badProduct])
}

func TestService_Reconcile_Clean(t *testing.T) {
	ctx := context.Background()
	productID := id.New()

	repo := &fakeRepo{ledgerSum: map[id.ID]types.Quantity{productID: 100}}
	products := &fakeProductStore{stored: map[id.ID]types.Quantity{productID: 100}}
	svc := NewService(repo, products, fakeTxManager{})

	report, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, report.Clean)
	assert.Empty(t, products.held)
}
