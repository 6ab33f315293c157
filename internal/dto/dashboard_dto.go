package dto

import "github.com/shopspring/decimal"

// DashboardResponse is the snapshot served by GET /v1/dashboard.
type DashboardResponse struct {
	Overview   DashboardOverview  `json:"overview"`
	Revenue    PeriodTotals       `json:"revenue"`
	Profit     DashboardProfit    `json:"profit"`
	Cost       PeriodTotals       `json:"cost"`
	SalesStats DashboardSales     `json:"sales_stats"`
	Inventory  DashboardInventory `json:"inventory"`
	Charts     DashboardCharts    `json:"charts"`
}

type DashboardOverview struct {
	TotalEmployees  int64 `json:"total_employees"`
	TotalSuppliers  int64 `json:"total_suppliers"`
	TotalCategories int64 `json:"total_categories"`
	TotalProducts   int64 `json:"total_products"`
	TotalSales      int64 `json:"total_sales"`
}

// PeriodTotals holds one money metric across the standard windows:
// all-time, today, this week (Monday start), this calendar month.
type PeriodTotals struct {
	Total decimal.Decimal `json:"total"`
	Today decimal.Decimal `json:"today"`
	Week  decimal.Decimal `json:"week"`
	Month decimal.Decimal `json:"month"`
}

type DashboardProfit struct {
	PeriodTotals
	// ProfitMargin is all-time profit over all-time cost, as a percentage.
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

type DashboardSales struct {
	TodaySales int `json:"today_sales"`
	WeekSales  int `json:"week_sales"`
	MonthSales int `json:"month_sales"`
}

type DashboardInventory struct {
	ValueCost       decimal.Decimal `json:"value_cost"`
	ValueSell       decimal.Decimal `json:"value_sell"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
	AvgProfitMargin decimal.Decimal `json:"avg_profit_margin"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
}

type DashboardCharts struct {
	// RecentSales covers the trailing 7 days, oldest first.
	RecentSales []DailyPoint `json:"recent_sales"`
	// TopProfitProducts ranks the trailing 30 days, top 5.
	TopProfitProducts []ProductProfitEntry `json:"top_profit_products"`
	// CategoryProfits covers the trailing 30 days, by profit descending.
	CategoryProfits []CategoryProfitEntry `json:"category_profits"`
	// EmployeePerformance ranks the current month by profit, top 5.
	EmployeePerformance []EmployeeProfitEntry `json:"employee_performance"`
}

type DailyPoint struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
	Cost    decimal.Decimal `json:"cost"`
}

type ProductProfitEntry struct {
	ProductName  string          `json:"product_name"`
	ProductCode  string          `json:"product_code"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TotalSold    int             `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type CategoryProfitEntry struct {
	CategoryName string          `json:"category_name"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	ProductCount int             `json:"product_count"`
}

type EmployeeProfitEntry struct {
	Username         string          `json:"username"`
	FullName         string          `json:"full_name"`
	SalesCount       int             `json:"sales_count"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	AvgProfitPerSale decimal.Decimal `json:"avg_profit_per_sale"`
}
