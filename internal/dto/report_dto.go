package dto

import "github.com/shopspring/decimal"

// ReportFilter is bound from the query string of GET /v1/reports/sales.
// Both bounds are optional, inclusive calendar dates.
type ReportFilter struct {
	StartDate string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   validate:"omitempty,datetime=2006-01-02"`
}

// SalesReportResponse is the full report payload.
type SalesReportResponse struct {
	DailyData           []ReportDailyEntry      `json:"daily_data"`
	DetailedSales       []SaleResponse          `json:"detailed_sales"`
	Summary             ReportSummary           `json:"summary"`
	ProductPerformance  []ReportProductEntry    `json:"product_performance"`
	CategoryPerformance []ReportCategoryEntry   `json:"category_performance"`
	EmployeePerformance []ReportEmployeeEntry   `json:"employee_performance"`
}

type ReportDailyEntry struct {
	Date                     string          `json:"date"` // YYYY-MM-DD
	DailySales               int             `json:"daily_sales"`
	DailyRevenue             decimal.Decimal `json:"daily_revenue"`
	DailyDiscount            decimal.Decimal `json:"daily_discount"`
	DailyTotalBeforeDiscount decimal.Decimal `json:"daily_total_before_discount"`
	DailyCost                decimal.Decimal `json:"daily_cost"`
	DailyProfit              decimal.Decimal `json:"daily_profit"`
}

type ReportSummary struct {
	TotalSales          int             `json:"total_sales"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalDiscount       decimal.Decimal `json:"total_discount"`
	TotalBeforeDiscount decimal.Decimal `json:"total_before_discount"`
	TotalProfit         decimal.Decimal `json:"total_profit"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	// Ratio metrics are informational; all are zero when their
	// denominator is zero.
	ProfitMargin       decimal.Decimal `json:"profit_margin"`
	AverageSaleValue   decimal.Decimal `json:"average_sale_value"`
	AverageDiscountPct decimal.Decimal `json:"average_discount_percentage"`
}

type ReportProductEntry struct {
	ProductName   string          `json:"product_name"`
	ProductCode   string          `json:"product_code"`
	CategoryName  string          `json:"category_name"`
	QuantitySold  int             `json:"total_quantity_sold"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	SalesCount    int             `json:"sales_count"`
}

type ReportCategoryEntry struct {
	CategoryName string          `json:"category_name"`
	QuantitySold int             `json:"total_quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	SalesCount   int             `json:"sales_count"`
}

type ReportEmployeeEntry struct {
	Username     string          `json:"username"`
	FullName     string          `json:"full_name"`
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}
