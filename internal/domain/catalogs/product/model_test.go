package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/types"
)

func TestProduct_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		p := NewProduct("SKU-001", "Widget", "pcs")
		require.NoError(t, p.Validate(ctx))
	})

	t.Run("missing name", func(t *testing.T) {
		p := NewProduct("SKU-001", "", "pcs")
		require.Error(t, p.Validate(ctx))
	})

	t.Run("missing unit", func(t *testing.T) {
		p := NewProduct("SKU-001", "Widget", "")
		require.Error(t, p.Validate(ctx))
	})

	t.Run("negative reorder level", func(t *testing.T) {
		p := NewProduct("SKU-001", "Widget", "pcs")
		p.ReorderLevel = types.Quantity(-1)
		require.Error(t, p.Validate(ctx))
	})
}

func TestProduct_IsLowStock(t *testing.T) {
	p := NewProduct("SKU-001", "Widget", "pcs")
	p.ReorderLevel = types.NewQuantityFromFloat64(10)

	p.CurrentStock = types.NewQuantityFromFloat64(5)
	assert.True(t, p.IsLowStock())

	p.CurrentStock = types.NewQuantityFromFloat64(10)
	assert.True(t, p.IsLowStock())

	p.CurrentStock = types.NewQuantityFromFloat64(11)
	assert.False(t, p.IsLowStock())
}

func TestProduct_CheckPostable(t *testing.T) {
	p := NewProduct("SKU-001", "Widget", "pcs")
	require.NoError(t, p.CheckPostable())

	p.IsActive = false
	require.Error(t, p.CheckPostable())

	p.IsActive = true
	p.IntegrityHold = true
	err := p.CheckPostable()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeIntegrity, appErr.Code)
}
