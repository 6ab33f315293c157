package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date      string `form:"date"` // YYYY-MM-DD; empty = all
	CreatedBy string `form:"created_by"`
	Search    string `form:"search"` // matches invoice number, customer name/contact
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// SaleListItem is returned inside SaleListResponse for GET /v1/sales.
type SaleListItem struct {
	ID              string          `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerContact string          `json:"customer_contact"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	TotalProfit     decimal.Decimal `json:"total_profit"`
	ItemsCount      int             `json:"items_count"`
	CreatedByName   string          `json:"created_by_name"`
	CreatedAt       string          `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleListItem `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
	// UnitPrice overrides the current catalog sell price when present
	// (negotiated price); cost is always snapshotted from the catalog.
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gt=0"`
}

type CreateSaleRequest struct {
	CustomerName    string `json:"customer_name"    validate:"required,min=1,max=100"`
	CustomerContact string `json:"customer_contact" validate:"max=30"`
	// DiscountPercentage defaults to 5.00 when omitted.
	DiscountPercentage *decimal.Decimal  `json:"discount_percentage" validate:"omitempty,min=0,max=100"`
	Items              []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Profit      decimal.Decimal `json:"profit"`
}

type SaleResponse struct {
	ID                 string             `json:"id"`
	InvoiceNumber      string             `json:"invoice_number"`
	CustomerName       string             `json:"customer_name"`
	CustomerContact    string             `json:"customer_contact"`
	Items              []SaleItemResponse `json:"items"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	DiscountPercentage decimal.Decimal    `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal    `json:"discount_amount"`
	NetAmount          decimal.Decimal    `json:"net_amount"`
	TotalCost          decimal.Decimal    `json:"total_cost"`
	TotalProfit        decimal.Decimal    `json:"total_profit"`
	CreatedByName      string             `json:"created_by_name"`
	CreatedAt          string             `json:"created_at"`
}
