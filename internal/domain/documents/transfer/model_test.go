package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
)

func TestTransfer_Validate_DistinctWarehouses(t *testing.T) {
	warehouseID := id.New()

	tr := NewTransfer(warehouseID, warehouseID)
	tr.Number = "TRF-2026-00001"
	tr.AddLine(id.New(), types.NewQuantityFromFloat64(1))

	err := tr.Validate(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	tr.DestWarehouseID = id.New()
	require.NoError(t, tr.Validate(context.Background()))
}

func TestTransfer_GenerateMoves_PairedRows(t *testing.T) {
	source := id.New()
	dest := id.New()
	productID := id.New()

	tr := NewTransfer(source, dest)
	tr.AddLine(productID, types.NewQuantityFromFloat64(5))

	moves, err := tr.GenerateMoves(context.Background())
	require.NoError(t, err)
	require.Len(t, moves, 2)

	out, in := moves[0], moves[1]
	assert.Equal(t, entity.DirectionOut, out.Direction)
	assert.Equal(t, source, out.WarehouseID)
	assert.Equal(t, entity.DirectionIn, in.Direction)
	assert.Equal(t, dest, in.WarehouseID)

	// both rows reference the same document
	assert.Equal(t, tr.ID, out.DocumentID)
	assert.Equal(t, tr.ID, in.DocumentID)
	assert.NotEqual(t, out.LineID, in.LineID)

	assert.Equal(t, out.Quantity, in.Quantity)
	assert.Equal(t, types.Quantity(0), out.SignedQuantity()+in.SignedQuantity())
}

func TestTransfer_StockDemands_SourceOnly(t *testing.T) {
	source := id.New()
	dest := id.New()

	tr := NewTransfer(source, dest)
	tr.AddLine(id.New(), types.NewQuantityFromFloat64(2))
	tr.AddLine(id.New(), types.NewQuantityFromFloat64(3))

	demands := tr.StockDemands()
	require.Len(t, demands, 2)
	for _, d := range demands {
		assert.Equal(t, source, d.WarehouseID)
	}
}
