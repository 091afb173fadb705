package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TIF-2025-000007", FormatOrderNumber("TIF-", 2025, 7))
	assert.Equal(t, "TIF-2026-000001", FormatOrderNumber("TIF-", 2026, 1))
	// sequences past six digits keep growing rather than wrapping
	assert.Equal(t, "TIF-2025-1000000", FormatOrderNumber("TIF-", 2025, 1000000))
}

func TestProductPurchasable(t *testing.T) {
	t.Parallel()

	p := Product{Status: ProductActive, Stock: 3}
	assert.True(t, p.Purchasable())

	// out_of_stock wins over a positive numeric stock
	p = Product{Status: ProductOutOfStock, Stock: 3}
	assert.False(t, p.Purchasable())

	p = Product{Status: ProductActive, Stock: 0}
	assert.False(t, p.Purchasable())
}
