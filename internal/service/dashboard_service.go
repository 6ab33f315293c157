package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"shoptrack/internal/dto"
	"shoptrack/internal/model"
	"shoptrack/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dashboardCacheKey = "shoptrack:dashboard"
const dashboardCacheTTL = 60 * time.Second

type DashboardService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	// ProfitAnalytics breaks profit down over a trailing window of days
	// (30 when days <= 0): daily series plus product, category and
	// employee rollups.
	ProfitAnalytics(ctx context.Context, days int) (*dto.ProfitAnalyticsResponse, error)
	// RecentActivities merges the newest sales and catalog additions
	// into a single feed, newest first.
	RecentActivities(ctx context.Context) ([]dto.ActivityEntry, error)
}

type dashboardService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	employeeRepo repository.EmployeeRepository
	cache        *redis.Client // nil disables caching
	now          func() time.Time
}

func NewDashboardService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	employeeRepo repository.EmployeeRepository,
	cache *redis.Client,
) DashboardService {
	return &dashboardService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		employeeRepo: employeeRepo,
		cache:        cache,
		now:          time.Now,
	}
}

// Dashboard folds every metric in memory from the full sale ledger and
// product catalog. The data set of a small shop fits comfortably; the
// short-lived Redis snapshot absorbs dashboard polling.
func (s *dashboardService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var cached dto.DashboardResponse
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	resp, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *dashboardService) build(ctx context.Context) (*dto.DashboardResponse, error) {
	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := startOfWeek(todayStart)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	sales, err := s.saleRepo.ListBetween(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{}

	resp.Overview.TotalSales = int64(len(sales))
	resp.Overview.TotalProducts = int64(len(products))
	if resp.Overview.TotalCategories, err = s.categoryRepo.Count(ctx); err != nil {
		return nil, err
	}
	if resp.Overview.TotalSuppliers, err = s.supplierRepo.Count(ctx); err != nil {
		return nil, err
	}
	if resp.Overview.TotalEmployees, err = s.employeeRepo.Count(ctx); err != nil {
		return nil, err
	}

	for _, sale := range sales {
		resp.Revenue.Total = resp.Revenue.Total.Add(sale.NetAmount)
		resp.Profit.Total = resp.Profit.Total.Add(sale.TotalProfit)
		resp.Cost.Total = resp.Cost.Total.Add(sale.TotalCost)

		if !sale.CreatedAt.Before(todayStart) {
			resp.Revenue.Today = resp.Revenue.Today.Add(sale.NetAmount)
			resp.Profit.Today = resp.Profit.Today.Add(sale.TotalProfit)
			resp.Cost.Today = resp.Cost.Today.Add(sale.TotalCost)
			resp.SalesStats.TodaySales++
		}
		if !sale.CreatedAt.Before(weekStart) {
			resp.Revenue.Week = resp.Revenue.Week.Add(sale.NetAmount)
			resp.Profit.Week = resp.Profit.Week.Add(sale.TotalProfit)
			resp.Cost.Week = resp.Cost.Week.Add(sale.TotalCost)
			resp.SalesStats.WeekSales++
		}
		if !sale.CreatedAt.Before(monthStart) {
			resp.Revenue.Month = resp.Revenue.Month.Add(sale.NetAmount)
			resp.Profit.Month = resp.Profit.Month.Add(sale.TotalProfit)
			resp.Cost.Month = resp.Cost.Month.Add(sale.TotalCost)
			resp.SalesStats.MonthSales++
		}
	}
	resp.Profit.ProfitMargin = safePct(resp.Profit.Total, resp.Cost.Total)

	resp.Inventory = foldInventory(products)
	resp.Charts.RecentSales = recentSalesChart(sales, todayStart)
	resp.Charts.TopProfitProducts = topProfitProducts(sales, now.AddDate(0, 0, -30), 5)
	resp.Charts.CategoryProfits = categoryProfits(sales, now.AddDate(0, 0, -30))
	resp.Charts.EmployeePerformance = employeePerformance(sales, monthStart, 5)
	return resp, nil
}

const defaultAnalyticsDays = 30

func (s *dashboardService) ProfitAnalytics(ctx context.Context, days int) (*dto.ProfitAnalyticsResponse, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	since := s.now().AddDate(0, 0, -days)
	sinceDay := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, since.Location())

	sales, err := s.saleRepo.ListBetween(ctx, &sinceDay, nil)
	if err != nil {
		return nil, err
	}

	return &dto.ProfitAnalyticsResponse{
		DailyProfits:    analyticsDailySeries(sales, since),
		ProductProfits:  analyticsProductProfits(sales, since, 20),
		CategoryProfits: analyticsCategoryProfits(sales, since),
		EmployeeProfits: analyticsEmployeeProfits(sales, since),
		PeriodDays:      days,
	}, nil
}

const (
	activitySaleLimit    = 15
	activityProductLimit = 10
	activityFeedLimit    = 20
)

func (s *dashboardService) RecentActivities(ctx context.Context) ([]dto.ActivityEntry, error) {
	sales, err := s.saleRepo.ListRecent(ctx, activitySaleLimit)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.ListRecent(ctx, activityProductLimit)
	if err != nil {
		return nil, err
	}

	type timedEntry struct {
		entry dto.ActivityEntry
		at    time.Time
	}
	feed := make([]timedEntry, 0, len(sales)+len(products))

	for i := range sales {
		sale := &sales[i]
		creator := "System"
		if sale.CreatedBy != nil {
			creator = sale.CreatedBy.Username
		}
		feed = append(feed, timedEntry{
			at: sale.CreatedAt,
			entry: dto.ActivityEntry{
				Type:  "sale",
				Icon:  "shopping_cart",
				Title: "Sale #" + sale.InvoiceNumber,
				Description: "Sale to " + sale.CustomerName +
					" | Revenue: " + sale.NetAmount.StringFixed(2) +
					" | Profit: " + sale.TotalProfit.StringFixed(2),
				Amount:    sale.NetAmount,
				Profit:    sale.TotalProfit,
				CreatedAt: sale.CreatedAt.Format(time.RFC3339),
				CreatedBy: creator,
			},
		})
	}
	for i := range products {
		p := &products[i]
		feed = append(feed, timedEntry{
			at: p.CreatedAt,
			entry: dto.ActivityEntry{
				Type:  "product",
				Icon:  "inventory",
				Title: "Product added",
				Description: p.Name + " added to inventory | Potential profit: " +
					p.PotentialProfit().StringFixed(2),
				Amount:    p.SellPrice,
				Profit:    p.PotentialProfit(),
				CreatedAt: p.CreatedAt.Format(time.RFC3339),
				CreatedBy: "System",
			},
		})
	}

	sort.Slice(feed, func(i, j int) bool { return feed[i].at.After(feed[j].at) })
	if len(feed) > activityFeedLimit {
		feed = feed[:activityFeedLimit]
	}
	entries := make([]dto.ActivityEntry, 0, len(feed))
	for _, te := range feed {
		entries = append(entries, te.entry)
	}
	return entries, nil
}

// analyticsDailySeries groups profit by calendar day, ascending. Days
// without sales are absent.
func analyticsDailySeries(sales []model.Sale, since time.Time) []dto.AnalyticsDailyEntry {
	byDay := make(map[string]*dto.AnalyticsDailyEntry)
	for _, sale := range sales {
		if sale.CreatedAt.Before(since) {
			continue
		}
		day := sale.CreatedAt.Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &dto.AnalyticsDailyEntry{Date: day}
			byDay[day] = entry
		}
		entry.SalesCount++
		entry.DailyProfit = entry.DailyProfit.Add(sale.TotalProfit)
		entry.DailyRevenue = entry.DailyRevenue.Add(sale.NetAmount)
		entry.DailyCost = entry.DailyCost.Add(sale.TotalCost)
	}
	entries := make([]dto.AnalyticsDailyEntry, 0, len(byDay))
	for _, entry := range byDay {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries
}

func analyticsProductProfits(sales []model.Sale, since time.Time, limit int) []dto.AnalyticsProductEntry {
	type acc struct {
		entry     dto.AnalyticsProductEntry
		marginSum decimal.Decimal
		lines     int
	}
	byProduct := make(map[string]*acc)
	for _, sale := range sales {
		if sale.CreatedAt.Before(since) {
			continue
		}
		for _, item := range sale.Items {
			key := item.ProductID.String()
			a, ok := byProduct[key]
			if !ok {
				a = &acc{}
				if item.Product != nil {
					a.entry.ProductName = item.Product.Name
					a.entry.ProductCode = item.Product.Code
					if item.Product.Category != nil {
						a.entry.CategoryName = item.Product.Category.Name
					}
				}
				byProduct[key] = a
			}
			a.entry.TotalProfit = a.entry.TotalProfit.Add(item.Profit)
			a.entry.TotalRevenue = a.entry.TotalRevenue.Add(item.TotalPrice)
			a.entry.TotalCost = a.entry.TotalCost.Add(item.TotalCost)
			a.entry.QuantitySold += item.Quantity
			a.marginSum = a.marginSum.Add(safePct(item.Profit, item.TotalCost))
			a.lines++
		}
	}
	entries := make([]dto.AnalyticsProductEntry, 0, len(byProduct))
	for _, a := range byProduct {
		a.entry.AvgProfitMargin = safeDivInt(a.marginSum, a.lines)
		entries = append(entries, a.entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TotalProfit.GreaterThan(entries[j].TotalProfit)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func analyticsCategoryProfits(sales []model.Sale, since time.Time) []dto.AnalyticsCategoryEntry {
	byCategory := make(map[string]*dto.AnalyticsCategoryEntry)
	for _, sale := range sales {
		if sale.CreatedAt.Before(since) {
			continue
		}
		for _, item := range sale.Items {
			name := "Uncategorized"
			if item.Product != nil && item.Product.Category != nil {
				name = item.Product.Category.Name
			}
			entry, ok := byCategory[name]
			if !ok {
				entry = &dto.AnalyticsCategoryEntry{CategoryName: name}
				byCategory[name] = entry
			}
			entry.TotalProfit = entry.TotalProfit.Add(item.Profit)
			entry.TotalRevenue = entry.TotalRevenue.Add(item.TotalPrice)
			entry.TotalCost = entry.TotalCost.Add(item.TotalCost)
			entry.QuantitySold += item.Quantity
		}
	}
	entries := make([]dto.AnalyticsCategoryEntry, 0, len(byCategory))
	for _, entry := range byCategory {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TotalProfit.GreaterThan(entries[j].TotalProfit)
	})
	return entries
}

func analyticsEmployeeProfits(sales []model.Sale, since time.Time) []dto.AnalyticsEmployeeEntry {
	byEmployee := make(map[string]*dto.AnalyticsEmployeeEntry)
	for _, sale := range sales {
		if sale.CreatedAt.Before(since) || sale.CreatedBy == nil {
			continue
		}
		e, ok := byEmployee[sale.CreatedBy.Username]
		if !ok {
			e = &dto.AnalyticsEmployeeEntry{
				Username: sale.CreatedBy.Username,
				FullName: sale.CreatedBy.FullName,
			}
			byEmployee[sale.CreatedBy.Username] = e
		}
		e.TotalSales++
		e.TotalProfit = e.TotalProfit.Add(sale.TotalProfit)
		e.TotalRevenue = e.TotalRevenue.Add(sale.NetAmount)
	}
	entries := make([]dto.AnalyticsEmployeeEntry, 0, len(byEmployee))
	for _, e := range byEmployee {
		e.AvgProfitPerSale = safeDivInt(e.TotalProfit, e.TotalSales)
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TotalProfit.GreaterThan(entries[j].TotalProfit)
	})
	return entries
}

// startOfWeek returns the Monday 00:00 of the week containing day.
func startOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// foldInventory values the whole catalog, deactivated stock included.
// Potential profit and the stock alarms only consider active products;
// a product that cannot be sold has nothing left to realize.
func foldInventory(products []model.Product) dto.DashboardInventory {
	inv := dto.DashboardInventory{}
	marginSum := decimal.Zero
	for i := range products {
		p := &products[i]
		inv.ValueCost = inv.ValueCost.Add(p.InventoryValueCost())
		inv.ValueSell = inv.ValueSell.Add(p.InventoryValueSell())
		marginSum = marginSum.Add(p.ProfitMarginPct())
		if !p.IsActive() {
			continue
		}
		inv.PotentialProfit = inv.PotentialProfit.Add(p.PotentialProfit())
		if p.Quantity <= model.LowStockThreshold {
			inv.LowStockCount++
		}
		if p.Quantity <= 0 {
			inv.OutOfStockCount++
		}
	}
	inv.AvgProfitMargin = safeDivInt(marginSum, len(products))
	return inv
}

// recentSalesChart emits one point per day for the trailing 7 days,
// oldest first, including empty days.
func recentSalesChart(sales []model.Sale, todayStart time.Time) []dto.DailyPoint {
	points := make([]dto.DailyPoint, 0, 7)
	byDay := make(map[string]*dto.DailyPoint, 7)
	for i := 6; i >= 0; i-- {
		day := todayStart.AddDate(0, 0, -i)
		points = append(points, dto.DailyPoint{
			Date:    day.Format("2006-01-02"),
			Revenue: decimal.Zero,
			Profit:  decimal.Zero,
			Cost:    decimal.Zero,
		})
	}
	for i := range points {
		byDay[points[i].Date] = &points[i]
	}
	for _, sale := range sales {
		point, ok := byDay[sale.CreatedAt.Format("2006-01-02")]
		if !ok {
			continue
		}
		point.Sales++
		point.Revenue = point.Revenue.Add(sale.NetAmount)
		point.Profit = point.Profit.Add(sale.TotalProfit)
		point.Cost = point.Cost.Add(sale.TotalCost)
	}
	return points
}

func topProfitProducts(sales []model.Sale, since time.Time, limit int) []dto.ProductProfitEntry {
	type acc struct {
		entry dto.ProductProfitEntry
	}
	byProduct := make(map[string]*acc)
	for _, sale := range sales {
		if sale.CreatedAt.Before(since) {
			continue
		}
		for _, item := range sale.Items {
			key := item.ProductID.String()
			a, ok := byProduct[key]
			if !ok {
				a = &acc{}
				if item.Product != nil {
					a.entry.ProductName = item.Product.Name
					a.entry.ProductCode = item.Product.Code
				}
				byProduct[key] = a
			}
			a.entry.TotalProfit = a.entry.TotalProfit.Add(item.Profit)
			a.entry.TotalRevenue = a.entry.TotalRevenue.Add(item.TotalPrice)
			a.entry.TotalSold += item.Quantity
		}
	}
	entries := make([]dto.ProductProfitEntry, 0, len(byProduct))
	for _, a := range byProduct {
		entries = append(entries, a.entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TotalProfit.GreaterThan(entries[j].TotalProfit)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func categoryProfits(sales []model.Sale, since time.Time) []dto.CategoryProfitEntry {
	type acc struct {
		entry    dto.CategoryProfitEntry
		products map[string]bool
	}
	byCategory := make(map[string]*acc)
	for _, sale := range sales {
		if sale.CreatedAt.Before(since) {
			continue
		}
		for _, item := range sale.Items {
			name := "Uncategorized"
			if item.Product != nil && item.Product.Category != nil {
				name = item.Product.Category.Name
			}
			a, ok := byCategory[name]
			if !ok {
				a = &acc{products: make(map[string]bool)}
				a.entry.CategoryName = name
				byCategory[name] = a
			}
			a.entry.TotalProfit = a.entry.TotalProfit.Add(item.Profit)
			a.entry.TotalRevenue = a.entry.TotalRevenue.Add(item.TotalPrice)
			a.products[item.ProductID.String()] = true
		}
	}
	entries := make([]dto.CategoryProfitEntry, 0, len(byCategory))
	for _, a := range byCategory {
		a.entry.ProductCount = len(a.products)
		entries = append(entries, a.entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TotalProfit.GreaterThan(entries[j].TotalProfit)
	})
	return entries
}

func employeePerformance(sales []model.Sale, since time.Time, limit int) []dto.EmployeeProfitEntry {
	byEmployee := make(map[string]*dto.EmployeeProfitEntry)
	for _, sale := range sales {
		if sale.CreatedAt.Before(since) || sale.CreatedBy == nil {
			continue
		}
		e, ok := byEmployee[sale.CreatedBy.Username]
		if !ok {
			e = &dto.EmployeeProfitEntry{
				Username: sale.CreatedBy.Username,
				FullName: sale.CreatedBy.FullName,
			}
			byEmployee[sale.CreatedBy.Username] = e
		}
		e.SalesCount++
		e.TotalRevenue = e.TotalRevenue.Add(sale.NetAmount)
		e.TotalProfit = e.TotalProfit.Add(sale.TotalProfit)
	}
	entries := make([]dto.EmployeeProfitEntry, 0, len(byEmployee))
	for _, e := range byEmployee {
		e.AvgProfitPerSale = safeDivInt(e.TotalProfit, e.SalesCount)
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TotalProfit.GreaterThan(entries[j].TotalProfit)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
