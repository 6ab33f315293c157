package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductDerivedMetrics(t *testing.T) {
	p := &Product{
		BuyPrice:  decimal.RequireFromString("20.00"),
		SellPrice: decimal.RequireFromString("30.00"),
		Quantity:  10,
		Status:    StatusActive,
	}

	assert.True(t, p.IsActive())
	assert.True(t, p.ProfitPerUnit().Equal(decimal.RequireFromString("10.00")))
	assert.True(t, p.ProfitMarginPct().Equal(decimal.RequireFromString("50")))
	assert.True(t, p.InventoryValueCost().Equal(decimal.RequireFromString("200.00")))
	assert.True(t, p.InventoryValueSell().Equal(decimal.RequireFromString("300.00")))
	assert.True(t, p.PotentialProfit().Equal(decimal.RequireFromString("100.00")))
}

func TestProductMarginZeroCost(t *testing.T) {
	p := &Product{
		BuyPrice:  decimal.Zero,
		SellPrice: decimal.RequireFromString("5.00"),
		Quantity:  3,
	}
	// Free stock has no meaningful margin percentage.
	assert.True(t, p.ProfitMarginPct().IsZero())
}
