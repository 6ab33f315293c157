package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Status     string `form:"status"` // active (default) | inactive | all
	Name       string `form:"name"`
	CategoryID string `form:"category_id"`
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	CategoryID  string          `json:"category_id" validate:"required,uuid"`
	SupplierID  string          `json:"supplier_id" validate:"required,uuid"`
	BuyPrice    decimal.Decimal `json:"buy_price"   validate:"required,gt=0"`
	// SellPrice must exceed BuyPrice; enforced in the service where both
	// values are visible as decimals.
	SellPrice decimal.Decimal `json:"sell_price" validate:"required,gt=0"`
	Quantity  int             `json:"quantity"   validate:"min=0"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	BuyPrice    *decimal.Decimal `json:"buy_price"   validate:"omitempty,gt=0"`
	SellPrice   *decimal.Decimal `json:"sell_price"  validate:"omitempty,gt=0"`
	Quantity    *int             `json:"quantity"    validate:"omitempty,min=0"`
	Status      *string          `json:"status"      validate:"omitempty,oneof=active inactive"`
}

// ProductResponse carries the stored fields plus the derived profit figures.
type ProductResponse struct {
	ID                 string          `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	CategoryID         string          `json:"category_id"`
	CategoryName       string          `json:"category_name,omitempty"`
	SupplierID         string          `json:"supplier_id"`
	SupplierName       string          `json:"supplier_name,omitempty"`
	BuyPrice           decimal.Decimal `json:"buy_price"`
	SellPrice          decimal.Decimal `json:"sell_price"`
	Quantity           int             `json:"quantity"`
	Status             string          `json:"status"`
	ProfitPerUnit      decimal.Decimal `json:"profit_per_unit"`
	ProfitMarginPct    decimal.Decimal `json:"profit_margin_pct"`
	InventoryValueCost decimal.Decimal `json:"inventory_value_cost"`
	InventoryValueSell decimal.Decimal `json:"inventory_value_sell"`
	CreatedAt          string          `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
