package adjustment

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

func TestLine_Deviation(t *testing.T) {
	line := Line{
		CountedQuantity: types.NewQuantityFromFloat64(10),
		SystemQuantity:  types.NewQuantityFromFloat64(7),
	}
	assert.Equal(t, types.NewQuantityFromFloat64(3), line.Deviation())

	line.CountedQuantity = types.NewQuantityFromFloat64(4)
	assert.Equal(t, types.NewQuantityFromFloat64(-3), line.Deviation())
}

func TestAdjustment_Validate_NegativeCounted(t *testing.T) {
	a := NewAdjustment(id.New())
	a.Number = "ADJ-2026-00001"
	a.AddLine(id.New(), types.NewQuantityFromFloat64(-1), 0)
	a.AddLine(id.New(), 0, types.NewQuantityFromFloat64(5))

	err := a.Validate(context.Background())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidationFailed, appErr.Code)

	issues, ok := appErr.Details["lines"].([]apperror.LineIssue)
	require.True(t, ok)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, "countedQuantity", issues[0].Field)
}

func TestAdjustment_Validate_ZeroCountedAllowed(t *testing.T) {
	a := NewAdjustment(id.New())
	a.Number = "ADJ-2026-00001"
	a.AddLine(id.New(), 0, types.NewQuantityFromFloat64(5))

	require.NoError(t, a.Validate(context.Background()))
}

func TestAdjustment_GenerateMoves_SignedDeviation(t *testing.T) {
	warehouseID := id.New()
	surplus := id.New()
	shortage := id.New()
	exact := id.New()

	a := NewAdjustment(warehouseID)
	a.AddLine(surplus, types.NewQuantityFromFloat64(12), types.NewQuantityFromFloat64(10))
	a.AddLine(shortage, types.NewQuantityFromFloat64(1), types.NewQuantityFromFloat64(4))
	a.AddLine(exact, types.NewQuantityFromFloat64(6), types.NewQuantityFromFloat64(6))

	moves, err := a.GenerateMoves(context.Background())
	require.NoError(t, err)
	require.Len(t, moves, 2)

	assert.Equal(t, surplus, moves[0].ProductID)
	assert.Equal(t, entity.DirectionIn, moves[0].Direction)
	assert.Equal(t, types.NewQuantityFromFloat64(2), moves[0].Quantity)

	assert.Equal(t, shortage, moves[1].ProductID)
	assert.Equal(t, entity.DirectionOut, moves[1].Direction)
	assert.Equal(t, types.NewQuantityFromFloat64(3), moves[1].Quantity)

	for _, m := range moves {
		assert.Equal(t, warehouseID, m.WarehouseID)
		assert.Equal(t, DocumentType, m.DocumentType)
	}
}

func TestAdjustment_StockDemands_ShortagesOnly(t *testing.T) {
	warehouseID := id.New()
	shortage := id.New()

	a := NewAdjustment(warehouseID)
	a.AddLine(id.New(), types.NewQuantityFromFloat64(9), types.NewQuantityFromFloat64(5))
	a.AddLine(shortage, types.NewQuantityFromFloat64(2), types.NewQuantityFromFloat64(8))

	demands := a.StockDemands()
	require.Len(t, demands, 1)
	assert.Equal(t, shortage, demands[0].ProductID)
	assert.Equal(t, types.NewQuantityFromFloat64(6), demands[0].Quantity)
}
