package dto

import "github.com/shopspring/decimal"

// InventorySummaryResponse is served by GET /v1/dashboard/inventory.
type InventorySummaryResponse struct {
	ProductStatistics InventoryStatistics      `json:"product_statistics"`
	LowStockProducts  []LowStockProduct        `json:"low_stock_products"`
	CategoryInventory []CategoryInventoryEntry `json:"category_inventory"`
}

type InventoryStatistics struct {
	TotalProducts      int64           `json:"total_products"`
	ActiveProducts     int64           `json:"active_products"`
	InventoryValueCost decimal.Decimal `json:"inventory_value_cost"`
	InventoryValueSell decimal.Decimal `json:"inventory_value_sell"`
	PotentialProfit    decimal.Decimal `json:"potential_profit"`
	// AvgProfitMargin is the mean of per-product margins; products with
	// zero buy price contribute zero rather than dividing by zero.
	AvgProfitMargin decimal.Decimal `json:"avg_profit_margin"`
}

type LowStockProduct struct {
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	Quantity      int             `json:"quantity"`
	BuyPrice      decimal.Decimal `json:"buy_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	ProfitPerUnit decimal.Decimal `json:"profit_per_unit"`
}

type CategoryInventoryEntry struct {
	CategoryName    string          `json:"category_name"`
	TotalProducts   int             `json:"total_products"`
	TotalQuantity   int             `json:"total_quantity"`
	TotalValueCost  decimal.Decimal `json:"total_value_cost"`
	TotalValueSell  decimal.Decimal `json:"total_value_sell"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
}
