package delivery

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

func TestDelivery_AddLine_Totals(t *testing.T) {
	d := NewDelivery("Northwind", id.New())
	d.AddLine(id.New(), types.NewQuantityFromFloat64(4), types.MustMoney("2.50"))
	d.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("10.00"))

	assert.Len(t, d.Lines, 2)
	assert.Equal(t, 1, d.Lines[0].LineNo)
	assert.Equal(t, 2, d.Lines[1].LineNo)
	assert.Equal(t, types.NewQuantityFromFloat64(5), d.TotalQuantity)
	assert.True(t, d.TotalAmount.Equal(types.MustMoney("20.00")))
}

func TestDelivery_Validate_RequiresWarehouseAndLines(t *testing.T) {
	d := NewDelivery("Northwind", id.Nil())
	d.Number = "DLV-2026-00001"
	err := d.Validate(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	d.WarehouseID = id.New()
	err = d.Validate(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidationFailed))
}

func TestDelivery_GenerateMoves_Outbound(t *testing.T) {
	warehouseID := id.New()
	productID := id.New()

	d := NewDelivery("Northwind", warehouseID)
	d.AddLine(productID, types.NewQuantityFromFloat64(3), types.MustMoney("5"))

	moves, err := d.GenerateMoves(context.Background())
	require.NoError(t, err)
	require.Len(t, moves, 1)

	assert.Equal(t, d.ID, moves[0].DocumentID)
	assert.Equal(t, DocumentType, moves[0].DocumentType)
	assert.Equal(t, entity.DirectionOut, moves[0].Direction)
	assert.Equal(t, warehouseID, moves[0].WarehouseID)
	assert.Equal(t, productID, moves[0].ProductID)
	assert.Equal(t, types.NewQuantityFromFloat64(3), moves[0].Quantity)
	assert.Equal(t, types.NewQuantityFromFloat64(-3), moves[0].SignedQuantity())
}

func TestDelivery_StockDemands_EveryLine(t *testing.T) {
	warehouseID := id.New()

	d := NewDelivery("Northwind", warehouseID)
	d.AddLine(id.New(), types.NewQuantityFromFloat64(3), types.MustMoney("5"))
	d.AddLine(id.New(), types.NewQuantityFromFloat64(8), types.MustMoney("1"))

	demands := d.StockDemands()
	require.Len(t, demands, 2)
	assert.Equal(t, warehouseID, demands[0].WarehouseID)
	assert.Equal(t, types.NewQuantityFromFloat64(3), demands[0].Quantity)
	assert.Equal(t, types.NewQuantityFromFloat64(8), demands[1].Quantity)
}
