package posting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
	"stockpile/internal/domain/catalogs/product"
	"stockpile/internal/domain/catalogs/warehouse"
	"stockpile/internal/domain/registers/stock"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeProducts struct {
	byID map[id.ID]*product.Product
}

func (f *fakeProducts) GetManyByIDs(ctx context.Context, ids []id.ID) ([]*product.Product, error) {
	var out []*product.Product
	for _, pid := range ids {
		if p, ok := f.byID[pid]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeWarehouses struct {
	byID map[id.ID]*warehouse.Warehouse
}

func (f *fakeWarehouses) GetByID(ctx context.Context, whID id.ID) (*warehouse.Warehouse, error) {
	if wh, ok := f.byID[whID]; ok {
		return wh, nil
	}
	return nil, apperror.NewNotFound("warehouse", whID.String())
}

// fakeStockRepo embeds the interface so only the methods the engine
// reaches need an implementation.
type fakeStockRepo struct {
	stock.Repository

	balances map[[2]id.ID]types.Quantity
	moves    []entity.StockMove
}

func balanceKey(warehouseID, productID id.ID) [2]id.ID {
	return [2]id.ID{warehouseID, productID}
}

func (f *fakeStockRepo) GetBalanceForUpdate(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error) {
	return entity.StockBalance{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    f.balances[balanceKey(warehouseID, productID)],
	}, nil
}

func (f *fakeStockRepo) CreateMoves(ctx context.Context, moves []entity.StockMove) error {
	f.moves = append(f.moves, moves...)
	return nil
}

func (f *fakeStockRepo) ApplyToBalances(ctx context.Context, moves []entity.StockMove) error {
	if f.balances == nil {
		f.balances = make(map[[2]id.ID]types.Quantity)
	}
	for i := range moves {
		f.balances[balanceKey(moves[i].WarehouseID, moves[i].ProductID)] += moves[i].SignedQuantity()
	}
	return nil
}

type fakeProductStore struct {
	deltas map[id.ID]types.Quantity
}

func (f *fakeProductStore) ApplyStockDeltas(ctx context.Context, deltas map[id.ID]types.Quantity) error {
	if f.deltas == nil {
		f.deltas = make(map[id.ID]types.Quantity)
	}
	for pid, d := range deltas {
		f.deltas[pid] += d
	}
	return nil
}

func (f *fakeProductStore) GetStoredStock(ctx context.Context) (map[id.ID]types.Quantity, error) {
	return f.deltas, nil
}

func (f *fakeProductStore) SetIntegrityHold(ctx context.Context, pid id.ID, held bool) error {
	return nil
}

// fakeDoc is a minimal postable document for engine tests.
type fakeDoc struct {
	entity.Document

	docType     string
	warehouseID id.ID
	refs        []ProductRef
	demands     []stock.Demand
	moves       []entity.StockMove
}

func (d *fakeDoc) GetDocumentType() string                { return d.docType }
func (d *fakeDoc) Validate(ctx context.Context) error     { return nil }
func (d *fakeDoc) ProductRefs() []ProductRef              { return d.refs }
func (d *fakeDoc) WarehouseIDs() []id.ID                  { return []id.ID{d.warehouseID} }
func (d *fakeDoc) StockDemands() []stock.Demand           { return d.demands }
func (d *fakeDoc) GenerateMoves(ctx context.Context) ([]entity.StockMove, error) {
	return d.moves, nil
}

type fixture struct {
	engine     *Engine
	repo       *fakeStockRepo
	store      *fakeProductStore
	products   *fakeProducts
	warehouses *fakeWarehouses
}

func newFixture() *fixture {
	repo := &fakeStockRepo{balances: make(map[[2]id.ID]types.Quantity)}
	store := &fakeProductStore{}
	products := &fakeProducts{byID: make(map[id.ID]*product.Product)}
	warehouses := &fakeWarehouses{byID: make(map[id.ID]*warehouse.Warehouse)}

	stockSvc := stock.NewService(repo, store, fakeTxManager{})
	engine := NewEngine(stockSvc, products, warehouses, fakeTxManager{})

	return &fixture{
		engine:     engine,
		repo:       repo,
		store:      store,
		products:   products,
		warehouses: warehouses,
	}
}

func (f *fixture) addProduct() *product.Product {
	p := product.NewProduct("SKU-001", "Widget", "pcs")
	p.ID = id.New()
	f.products.byID[p.ID] = p
	return p
}

func (f *fixture) addWarehouse() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse("WH-001", "Main")
	wh.ID = id.New()
	f.warehouses.byID[wh.ID] = wh
	return wh
}

func newFakeDoc(docType string, whID id.ID) *fakeDoc {
	return &fakeDoc{
		Document:    entity.NewDocument(),
		docType:     docType,
		warehouseID: whID,
	}
}

func noopClaim(ctx context.Context) error { return nil }

func TestEngine_Post_WritesLedgerAndFlipsStatus(t *testing.T) {
	f := newFixture()
	p := f.addProduct()
	wh := f.addWarehouse()

	doc := newFakeDoc("receipt", wh.ID)
	doc.refs = []ProductRef{{LineNo: 1, ProductID: p.ID}}
	doc.moves = []entity.StockMove{
		entity.NewStockMove(doc.ID, "receipt", doc.Date, entity.DirectionIn, wh.ID, p.ID, types.NewQuantityFromFloat64(5)),
	}

	claimed := false
	err := f.engine.Post(context.Background(), doc, func(ctx context.Context) error {
		claimed = true
		return nil
	})
	require.NoError(t, err)

	assert.True(t, claimed)
	assert.Equal(t, entity.StatusDone, doc.GetStatus())
	require.Len(t, f.repo.moves, 1)
	assert.Equal(t, types.NewQuantityFromFloat64(5), f.repo.balances[balanceKey(wh.ID, p.ID)])
	assert.Equal(t, types.NewQuantityFromFloat64(5), f.store.deltas[p.ID])
}

func TestEngine_Post_AlreadyDone(t *testing.T) {
	f := newFixture()
	wh := f.addWarehouse()

	doc := newFakeDoc("receipt", wh.ID)
	doc.SetStatus(entity.StatusDone)

	err := f.engine.Post(context.Background(), doc, noopClaim)
	require.Error(t, err)
	assert.True(t, apperror.IsAlreadyProcessed(err))
	assert.Empty(t, f.repo.moves)
}

func TestEngine_Post_CanceledIsInvalidTransition(t *testing.T) {
	f := newFixture()
	wh := f.addWarehouse()

	doc := newFakeDoc("receipt", wh.ID)
	doc.SetStatus(entity.StatusCanceled)

	err := f.engine.Post(context.Background(), doc, noopClaim)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidTransition))
}

func TestEngine_Post_UnknownProduct(t *testing.T) {
	f := newFixture()
	wh := f.addWarehouse()

	doc := newFakeDoc("delivery", wh.ID)
	doc.refs = []ProductRef{{LineNo: 1, ProductID: id.New()}}

	err := f.engine.Post(context.Background(), doc, noopClaim)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidationFailed, appErr.Code)

	issues, ok := appErr.Details["lines"].([]apperror.LineIssue)
	require.True(t, ok)
	require.Len(t, issues, 1)
	assert.Equal(t, "product not found", issues[0].Reason)
}

func TestEngine_Post_IntegrityHoldBlocks(t *testing.T) {
	f := newFixture()
	p := f.addProduct()
	p.IntegrityHold = true
	wh := f.addWarehouse()

	doc := newFakeDoc("receipt", wh.ID)
	doc.refs = []ProductRef{{LineNo: 1, ProductID: p.ID}}

	err := f.engine.Post(context.Background(), doc, noopClaim)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeIntegrity))
	assert.Empty(t, f.repo.moves)
}

func TestEngine_Post_InsufficientStock(t *testing.T) {
	f := newFixture()
	p := f.addProduct()
	wh := f.addWarehouse()
	f.repo.balances[balanceKey(wh.ID, p.ID)] = types.NewQuantityFromFloat64(2)

	doc := newFakeDoc("delivery", wh.ID)
	doc.refs = []ProductRef{{LineNo: 1, ProductID: p.ID}}
	doc.demands = []stock.Demand{
		{WarehouseID: wh.ID, ProductID: p.ID, Quantity: types.NewQuantityFromFloat64(3)},
	}

	err := f.engine.Post(context.Background(), doc, noopClaim)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, entity.StatusDraft, doc.GetStatus())
}

func TestEngine_Post_NegativeStockPolicy(t *testing.T) {
	f := newFixture()
	p := f.addProduct()
	wh := f.addWarehouse()
	wh.AllowNegativeStock = true

	doc := newFakeDoc("delivery", wh.ID)
	doc.refs = []ProductRef{{LineNo: 1, ProductID: p.ID}}
	doc.demands = []stock.Demand{
		{WarehouseID: wh.ID, ProductID: p.ID, Quantity: types.NewQuantityFromFloat64(3)},
	}
	doc.moves = []entity.StockMove{
		entity.NewStockMove(doc.ID, "delivery", doc.Date, entity.DirectionOut, wh.ID, p.ID, types.NewQuantityFromFloat64(3)),
	}

	err := f.engine.Post(context.Background(), doc, noopClaim)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(-3), f.repo.balances[balanceKey(wh.ID, p.ID)])
}

func TestEngine_Post_InactiveWarehouse(t *testing.T) {
	f := newFixture()
	p := f.addProduct()
	wh := f.addWarehouse()
	wh.IsActive = false

	doc := newFakeDoc("receipt", wh.ID)
	doc.refs = []ProductRef{{LineNo: 1, ProductID: p.ID}}

	err := f.engine.Post(context.Background(), doc, noopClaim)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeBusinessRule))
}

func TestEngine_Post_ClaimFailureRollsBackStatus(t *testing.T) {
	f := newFixture()
	p := f.addProduct()
	wh := f.addWarehouse()

	doc := newFakeDoc("receipt", wh.ID)
	doc.refs = []ProductRef{{LineNo: 1, ProductID: p.ID}}
	doc.moves = []entity.StockMove{
		entity.NewStockMove(doc.ID, "receipt", doc.Date, entity.DirectionIn, wh.ID, p.ID, types.NewQuantityFromFloat64(1)),
	}

	err := f.engine.Post(context.Background(), doc, func(ctx context.Context) error {
		return apperror.NewAlreadyProcessed("receipt", doc.ID.String())
	})
	require.Error(t, err)
	assert.True(t, apperror.IsAlreadyProcessed(err))
	assert.NotEqual(t, entity.StatusDone, doc.GetStatus())
}
