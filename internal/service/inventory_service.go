package service

import (
	"context"
	"sort"

	"shoptrack/internal/dto"
	"shoptrack/internal/model"
	"shoptrack/internal/repository"

	"github.com/shopspring/decimal"
)

type InventoryService interface {
	Summary(ctx context.Context) (*dto.InventorySummaryResponse, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
}

func NewInventoryService(productRepo repository.ProductRepository) InventoryService {
	return &inventoryService{productRepo: productRepo}
}

// Summary folds the catalog into stock statistics, the low-stock list
// and a per-category breakdown. Valuation, margin and the category
// rollup cover the whole catalog; deactivated stock stays on the books.
// Only the low-stock restock list is restricted to active products.
func (s *inventoryService) Summary(ctx context.Context) (*dto.InventorySummaryResponse, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.InventorySummaryResponse{
		LowStockProducts:  []dto.LowStockProduct{},
		CategoryInventory: []dto.CategoryInventoryEntry{},
	}
	resp.ProductStatistics.TotalProducts = int64(len(products))

	marginSum := decimal.Zero
	byCategory := make(map[string]*dto.CategoryInventoryEntry)

	for i := range products {
		p := &products[i]
		if p.IsActive() {
			resp.ProductStatistics.ActiveProducts++
		}
		resp.ProductStatistics.InventoryValueCost = resp.ProductStatistics.InventoryValueCost.Add(p.InventoryValueCost())
		resp.ProductStatistics.InventoryValueSell = resp.ProductStatistics.InventoryValueSell.Add(p.InventoryValueSell())
		resp.ProductStatistics.PotentialProfit = resp.ProductStatistics.PotentialProfit.Add(p.PotentialProfit())
		marginSum = marginSum.Add(p.ProfitMarginPct())

		if p.IsActive() && p.Quantity <= model.LowStockThreshold {
			resp.LowStockProducts = append(resp.LowStockProducts, dto.LowStockProduct{
				Name:          p.Name,
				Code:          p.Code,
				Quantity:      p.Quantity,
				BuyPrice:      p.BuyPrice,
				SellPrice:     p.SellPrice,
				ProfitPerUnit: p.ProfitPerUnit(),
			})
		}

		name := "Uncategorized"
		if p.Category != nil {
			name = p.Category.Name
		}
		entry, ok := byCategory[name]
		if !ok {
			entry = &dto.CategoryInventoryEntry{CategoryName: name}
			byCategory[name] = entry
		}
		entry.TotalProducts++
		entry.TotalQuantity += p.Quantity
		entry.TotalValueCost = entry.TotalValueCost.Add(p.InventoryValueCost())
		entry.TotalValueSell = entry.TotalValueSell.Add(p.InventoryValueSell())
		entry.PotentialProfit = entry.PotentialProfit.Add(p.PotentialProfit())
	}

	resp.ProductStatistics.AvgProfitMargin = safeDivInt(marginSum, len(products))

	// Scarcest first so the restock queue reads top to bottom.
	sort.Slice(resp.LowStockProducts, func(i, j int) bool {
		return resp.LowStockProducts[i].Quantity < resp.LowStockProducts[j].Quantity
	})
	if len(resp.LowStockProducts) > 10 {
		resp.LowStockProducts = resp.LowStockProducts[:10]
	}
	for _, entry := range byCategory {
		resp.CategoryInventory = append(resp.CategoryInventory, *entry)
	}
	sort.Slice(resp.CategoryInventory, func(i, j int) bool {
		return resp.CategoryInventory[i].PotentialProfit.GreaterThan(resp.CategoryInventory[j].PotentialProfit)
	})
	return resp, nil
}
