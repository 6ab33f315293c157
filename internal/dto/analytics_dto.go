package dto

import "github.com/shopspring/decimal"

// ProfitAnalyticsResponse is served by GET /v1/dashboard/profit-analytics
// for a trailing window of PeriodDays days.
type ProfitAnalyticsResponse struct {
	DailyProfits    []AnalyticsDailyEntry    `json:"daily_profits"`
	ProductProfits  []AnalyticsProductEntry  `json:"product_profits"`
	CategoryProfits []AnalyticsCategoryEntry `json:"category_profits"`
	EmployeeProfits []AnalyticsEmployeeEntry `json:"employee_profits"`
	PeriodDays      int                      `json:"period_days"`
}

type AnalyticsDailyEntry struct {
	Date         string          `json:"date"` // YYYY-MM-DD
	DailyProfit  decimal.Decimal `json:"daily_profit"`
	DailyRevenue decimal.Decimal `json:"daily_revenue"`
	DailyCost    decimal.Decimal `json:"daily_cost"`
	SalesCount   int             `json:"sales_count"`
}

type AnalyticsProductEntry struct {
	ProductName  string          `json:"product_name"`
	ProductCode  string          `json:"product_code"`
	CategoryName string          `json:"category_name"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	QuantitySold int             `json:"quantity_sold"`
	// AvgProfitMargin is the mean of per-line profit/cost percentages.
	AvgProfitMargin decimal.Decimal `json:"avg_profit_margin"`
}

type AnalyticsCategoryEntry struct {
	CategoryName string          `json:"category_name"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	QuantitySold int             `json:"quantity_sold"`
}

type AnalyticsEmployeeEntry struct {
	Username         string          `json:"username"`
	FullName         string          `json:"full_name"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalSales       int             `json:"total_sales"`
	AvgProfitPerSale decimal.Decimal `json:"avg_profit_per_sale"`
}

// ActivityEntry is one item in the GET /v1/dashboard/activities feed,
// merging recent sales and recent catalog additions newest-first.
type ActivityEntry struct {
	Type        string          `json:"type"` // "sale" or "product"
	Icon        string          `json:"icon"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Profit      decimal.Decimal `json:"profit"`
	CreatedAt   string          `json:"created_at"`
	CreatedBy   string          `json:"created_by"`
}
