package receipt

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

func TestReceipt_AddLine_Totals(t *testing.T) {
	r := NewReceipt("ACME Supplies", id.New())
	r.AddLine(id.New(), types.NewQuantityFromFloat64(2), types.MustMoney("10.50"))
	r.AddLine(id.New(), types.NewQuantityFromFloat64(3), types.MustMoney("4.00"))

	assert.Len(t, r.Lines, 2)
	assert.Equal(t, 1, r.Lines[0].LineNo)
	assert.Equal(t, 2, r.Lines[1].LineNo)
	assert.Equal(t, types.NewQuantityFromFloat64(5), r.TotalQuantity)
	assert.True(t, r.TotalAmount.Equal(types.MustMoney("33.00")))
}

func TestReceipt_RemoveLine_Renumbers(t *testing.T) {
	r := NewReceipt("ACME Supplies", id.New())
	r.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("1"))
	r.AddLine(id.New(), types.NewQuantityFromFloat64(2), types.MustMoney("1"))
	r.AddLine(id.New(), types.NewQuantityFromFloat64(3), types.MustMoney("1"))

	require.True(t, r.RemoveLine(2))

	require.Len(t, r.Lines, 2)
	assert.Equal(t, 1, r.Lines[0].LineNo)
	assert.Equal(t, 2, r.Lines[1].LineNo)
	assert.Equal(t, types.NewQuantityFromFloat64(4), r.TotalQuantity)

	assert.False(t, r.RemoveLine(99))
}

func TestReceipt_Validate_CollectsLineIssues(t *testing.T) {
	r := NewReceipt("ACME Supplies", id.New())
	r.Number = "RCP-2026-00001"
	r.AddLine(id.Nil(), types.NewQuantityFromFloat64(0), types.MustMoney("5"))
	r.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("-1"))

	err := r.Validate(context.Background())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidationFailed, appErr.Code)

	issues, ok := appErr.Details["lines"].([]apperror.LineIssue)
	require.True(t, ok)
	require.Len(t, issues, 3)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, "productId", issues[0].Field)
	assert.Equal(t, 1, issues[1].Line)
	assert.Equal(t, "quantity", issues[1].Field)
	assert.Equal(t, 2, issues[2].Line)
	assert.Equal(t, "unitPrice", issues[2].Field)
}

func TestReceipt_Validate_RequiresWarehouseAndLines(t *testing.T) {
	r := NewReceipt("ACME Supplies", id.Nil())
	r.Number = "RCP-2026-00001"
	err := r.Validate(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	r.WarehouseID = id.New()
	err = r.Validate(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidationFailed))
}

func TestReceipt_GenerateMoves_Inbound(t *testing.T) {
	warehouseID := id.New()
	productID := id.New()

	r := NewReceipt("ACME Supplies", warehouseID)
	r.AddLine(productID, types.NewQuantityFromFloat64(7), types.MustMoney("2"))

	moves, err := r.GenerateMoves(context.Background())
	require.NoError(t, err)
	require.Len(t, moves, 1)

	assert.Equal(t, r.ID, moves[0].DocumentID)
	assert.Equal(t, DocumentType, moves[0].DocumentType)
	assert.Equal(t, entity.DirectionIn, moves[0].Direction)
	assert.Equal(t, warehouseID, moves[0].WarehouseID)
	assert.Equal(t, productID, moves[0].ProductID)
	assert.Equal(t, types.NewQuantityFromFloat64(7), moves[0].Quantity)
	assert.Equal(t, types.NewQuantityFromFloat64(7), moves[0].SignedQuantity())
}

func TestReceipt_StockDemands_Empty(t *testing.T) {
	r := NewReceipt("ACME Supplies", id.New())
	r.AddLine(id.New(), types.NewQuantityFromFloat64(7), types.MustMoney("2"))
	assert.Empty(t, r.StockDemands())
}
