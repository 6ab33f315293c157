package service

import (
	"context"
	"sort"
	"time"

	"shoptrack/internal/dto"
	"shoptrack/internal/model"
	"shoptrack/internal/repository"
)

type ReportService interface {
	SalesReport(ctx context.Context, filter dto.ReportFilter) (*dto.SalesReportResponse, error)
}

type reportService struct {
	saleRepo repository.SaleRepository
}

func NewReportService(saleRepo repository.SaleRepository) ReportService {
	return &reportService{saleRepo: saleRepo}
}

// SalesReport builds the period report: daily series, detailed sales,
// summary totals with guarded ratios, and product/category/employee
// breakdowns. An empty range returns empty collections and zeroed
// metrics rather than an error.
func (s *reportService) SalesReport(ctx context.Context, filter dto.ReportFilter) (*dto.SalesReportResponse, error) {
	start, err := parseReportDate(filter.StartDate)
	if err != nil {
		return nil, &ValidationError{Msg: "start_date must be YYYY-MM-DD"}
	}
	end, err := parseReportDate(filter.EndDate)
	if err != nil {
		return nil, &ValidationError{Msg: "end_date must be YYYY-MM-DD"}
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, &ValidationError{Msg: "end_date is before start_date"}
	}

	sales, err := s.saleRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	resp := &dto.SalesReportResponse{
		DailyData:           []dto.ReportDailyEntry{},
		DetailedSales:       []dto.SaleResponse{},
		ProductPerformance:  []dto.ReportProductEntry{},
		CategoryPerformance: []dto.ReportCategoryEntry{},
		EmployeePerformance: []dto.ReportEmployeeEntry{},
	}

	for i := range sales {
		resp.DetailedSales = append(resp.DetailedSales, *saleToResponse(&sales[i]))
	}

	resp.DailyData = reportDailySeries(sales)
	resp.Summary = reportSummary(sales)
	resp.ProductPerformance = reportProductPerformance(sales, 10)
	resp.CategoryPerformance = reportCategoryPerformance(sales)
	resp.EmployeePerformance = reportEmployeePerformance(sales)
	return resp, nil
}

func parseReportDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// reportDailySeries groups the sales by calendar day, ascending. Days
// with no sales inside the range are simply absent.
func reportDailySeries(sales []model.Sale) []dto.ReportDailyEntry {
	byDay := make(map[string]*dto.ReportDailyEntry)
	for _, sale := range sales {
		day := sale.CreatedAt.Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &dto.ReportDailyEntry{Date: day}
			byDay[day] = entry
		}
		entry.DailySales++
		entry.DailyRevenue = entry.DailyRevenue.Add(sale.NetAmount)
		entry.DailyDiscount = entry.DailyDiscount.Add(sale.DiscountAmount)
		entry.DailyTotalBeforeDiscount = entry.DailyTotalBeforeDiscount.Add(sale.TotalAmount)
		entry.DailyCost = entry.DailyCost.Add(sale.TotalCost)
		entry.DailyProfit = entry.DailyProfit.Add(sale.TotalProfit)
	}
	entries := make([]dto.ReportDailyEntry, 0, len(byDay))
	for _, entry := range byDay {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries
}

func reportSummary(sales []model.Sale) dto.ReportSummary {
	summary := dto.ReportSummary{TotalSales: len(sales)}
	for _, sale := range sales {
		summary.TotalRevenue = summary.TotalRevenue.Add(sale.NetAmount)
		summary.TotalDiscount = summary.TotalDiscount.Add(sale.DiscountAmount)
		summary.TotalBeforeDiscount = summary.TotalBeforeDiscount.Add(sale.TotalAmount)
		summary.TotalProfit = summary.TotalProfit.Add(sale.TotalProfit)
		summary.TotalCost = summary.TotalCost.Add(sale.TotalCost)
	}
	summary.ProfitMargin = safePct(summary.TotalProfit, summary.TotalCost)
	summary.AverageSaleValue = safeDivInt(summary.TotalRevenue, summary.TotalSales)
	// Volume weighted: money discounted over money billed, not the mean
	// of the per-sale percentages.
	summary.AverageDiscountPct = safePct(summary.TotalDiscount, summary.TotalBeforeDiscount)
	return summary
}

// reportProductPerformance ranks products by revenue, top limit.
func reportProductPerformance(sales []model.Sale, limit int) []dto.ReportProductEntry {
	type acc struct {
		entry dto.ReportProductEntry
		seen  map[string]bool
	}
	byProduct := make(map[string]*acc)
	for _, sale := range sales {
		for _, item := range sale.Items {
			key := item.ProductID.String()
			a, ok := byProduct[key]
			if !ok {
				a = &acc{seen: make(map[string]bool)}
				if item.Product != nil {
					a.entry.ProductName = item.Product.Name
					a.entry.ProductCode = item.Product.Code
					if item.Product.Category != nil {
						a.entry.CategoryName = item.Product.Category.Name
					}
				}
				byProduct[key] = a
			}
			a.entry.QuantitySold += item.Quantity
			a.entry.TotalRevenue = a.entry.TotalRevenue.Add(item.TotalPrice)
			a.entry.TotalProfit = a.entry.TotalProfit.Add(item.Profit)
			a.entry.TotalCost = a.entry.TotalCost.Add(item.TotalCost)
			if !a.seen[sale.ID.String()] {
				a.seen[sale.ID.String()] = true
				a.entry.SalesCount++
			}
		}
	}
	entries := make([]dto.ReportProductEntry, 0, len(byProduct))
	for _, a := range byProduct {
		entries = append(entries, a.entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TotalRevenue.GreaterThan(entries[j].TotalRevenue)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func reportCategoryPerformance(sales []model.Sale) []dto.ReportCategoryEntry {
	type acc struct {
		entry dto.ReportCategoryEntry
		seen  map[string]bool
	}
	byCategory := make(map[string]*acc)
	for _, sale := range sales {
		for _, item := range sale.Items {
			name := "Uncategorized"
			if item.Product != nil && item.Product.Category != nil {
				name = item.Product.Category.Name
			}
			a, ok := byCategory[name]
			if !ok {
				a = &acc{seen: make(map[string]bool)}
				a.entry.CategoryName = name
				byCategory[name] = a
			}
			a.entry.QuantitySold += item.Quantity
			a.entry.TotalRevenue = a.entry.TotalRevenue.Add(item.TotalPrice)
			a.entry.TotalProfit = a.entry.TotalProfit.Add(item.Profit)
			a.entry.TotalCost = a.entry.TotalCost.Add(item.TotalCost)
			if !a.seen[sale.ID.String()] {
				a.seen[sale.ID.String()] = true
				a.entry.SalesCount++
			}
		}
	}
	entries := make([]dto.ReportCategoryEntry, 0, len(byCategory))
	for _, a := range byCategory {
		entries = append(entries, a.entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TotalRevenue.GreaterThan(entries[j].TotalRevenue)
	})
	return entries
}

func reportEmployeePerformance(sales []model.Sale) []dto.ReportEmployeeEntry {
	byEmployee := make(map[string]*dto.ReportEmployeeEntry)
	for _, sale := range sales {
		if sale.CreatedBy == nil {
			continue
		}
		e, ok := byEmployee[sale.CreatedBy.Username]
		if !ok {
			e = &dto.ReportEmployeeEntry{
				Username: sale.CreatedBy.Username,
				FullName: sale.CreatedBy.FullName,
			}
			byEmployee[sale.CreatedBy.Username] = e
		}
		e.TotalSales++
		e.TotalRevenue = e.TotalRevenue.Add(sale.NetAmount)
		e.TotalProfit = e.TotalProfit.Add(sale.TotalProfit)
		e.TotalCost = e.TotalCost.Add(sale.TotalCost)
	}
	entries := make([]dto.ReportEmployeeEntry, 0, len(byEmployee))
	for _, e := range byEmployee {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TotalRevenue.GreaterThan(entries[j].TotalRevenue)
	})
	return entries
}
