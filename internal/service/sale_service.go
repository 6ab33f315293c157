package service

import (
	"context"
	"time"

	"shoptrack/internal/codegen"
	"shoptrack/internal/dto"
	"shoptrack/internal/model"
	"shoptrack/internal/repository"
	"shoptrack/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultDiscountPct applies when a sale request omits the discount.
var DefaultDiscountPct = decimal.NewFromFloat(5.00)

var oneHundred = decimal.NewFromInt(100)

type SaleService interface {
	CreateSale(ctx context.Context, employeeID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	// RecalculateTotals re-derives the header money columns from the
	// current item rows. Idempotent; used for backfills.
	RecalculateTotals(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
}

type saleService struct {
	repo        repository.SaleRepository
	productRepo repository.ProductRepository
	dispatcher  *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{repo: repo, productRepo: productRepo, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CreateSale ────────────────────────────────────────────────────────────────
// One atomic unit per sale request:
//  1. Reject empty requests and duplicate products (pre-store validation)
//  2. Resolve each line: product lookup, price/cost snapshot, line arithmetic
//  3. Stock check over ALL lines before mutating ANY product
//  4. BEGIN TX: invoice number, insert sale+items, conditional stock
//     decrement (re-checked under the row lock), inactive flip at zero,
//     order totals
//  5. COMMIT
//  6. (async) receipt PDF and low-stock alert jobs — best effort

func (s *saleService) CreateSale(ctx context.Context, employeeID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, &ValidationError{Msg: "sale must contain at least one item"}
	}
	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Msg: "quantity must be positive for product: " + item.ProductID}
		}
		if seen[item.ProductID] {
			return nil, &ValidationError{Msg: "duplicate product in sale: " + item.ProductID}
		}
		seen[item.ProductID] = true
	}

	discountPct := DefaultDiscountPct
	if req.DiscountPercentage != nil {
		discountPct = *req.DiscountPercentage
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(oneHundred) {
		return nil, &ValidationError{Msg: "discount_percentage must be between 0 and 100"}
	}

	// Resolve products and compute line arithmetic (pre-flight, outside TX).
	// UnitPrice/UnitCost are snapshots: catalog price changes after the
	// sale must not rewrite this ledger entry.
	type resolvedLine struct {
		productID  uuid.UUID
		name       string
		code       string
		available  int
		quantity   int
		unitPrice  decimal.Decimal
		unitCost   decimal.Decimal
		totalPrice decimal.Decimal
		totalCost  decimal.Decimal
		profit     decimal.Decimal
	}

	resolved := make([]resolvedLine, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, &ValidationError{Msg: "invalid product_id: " + item.ProductID}
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}

		unitPrice := p.SellPrice
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		totalPrice := unitPrice.Mul(qty)
		totalCost := p.BuyPrice.Mul(qty)

		resolved = append(resolved, resolvedLine{
			productID:  pid,
			name:       p.Name,
			code:       p.Code,
			available:  p.Quantity,
			quantity:   item.Quantity,
			unitPrice:  unitPrice,
			unitCost:   p.BuyPrice,
			totalPrice: totalPrice,
			totalCost:  totalCost,
			profit:     totalPrice.Sub(totalCost),
		})
	}

	// Stock check over the whole order. Any shortfall aborts the entire
	// sale before a single product row is touched.
	for _, r := range resolved {
		if r.available < r.quantity {
			return nil, &InsufficientStockError{
				ProductID:   r.productID.String(),
				ProductName: r.name,
				Available:   r.available,
				Requested:   r.quantity,
			}
		}
	}

	// Order totals. The discount is an order-level adjustment: it reduces
	// Sale.TotalProfit but is never prorated into the item profit fields.
	totalAmount := decimal.Zero
	totalCost := decimal.Zero
	for _, r := range resolved {
		totalAmount = totalAmount.Add(r.totalPrice)
		totalCost = totalCost.Add(r.totalCost)
	}
	discountAmount := totalAmount.Mul(discountPct).Div(oneHundred).Round(2)
	netAmount := totalAmount.Sub(discountAmount)
	totalProfit := netAmount.Sub(totalCost)

	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		invoice, err := s.nextInvoiceNumber(ctx)
		if err != nil {
			return err
		}

		sale = model.Sale{
			InvoiceNumber:      invoice,
			CustomerName:       req.CustomerName,
			CustomerContact:    req.CustomerContact,
			DiscountPercentage: discountPct,
			TotalAmount:        decimal.Zero,
			DiscountAmount:     decimal.Zero,
			NetAmount:          decimal.Zero,
			TotalCost:          decimal.Zero,
			TotalProfit:        decimal.Zero,
			CreatedByID:        &employeeID,
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:  r.productID,
				Quantity:   r.quantity,
				UnitPrice:  r.unitPrice,
				UnitCost:   r.unitCost,
				TotalPrice: r.totalPrice,
				TotalCost:  r.totalCost,
				Profit:     r.profit,
			})
		}

		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		// Conditional decrement: the WHERE quantity >= ? guard re-checks
		// availability under the row lock, so two concurrent sales cannot
		// both take the last units. A conflict rolls back everything.
		for _, r := range resolved {
			if err := s.productRepo.DecrementStockTx(tx, r.productID, r.quantity); err != nil {
				if err == repository.ErrStockConflict {
					return s.stockConflictError(ctx, r.productID, r.name, r.quantity)
				}
				return err
			}
			if err := s.productRepo.DeactivateIfDepletedTx(tx, r.productID); err != nil {
				return err
			}
		}

		sale.TotalAmount = totalAmount
		sale.DiscountAmount = discountAmount
		sale.NetAmount = netAmount
		sale.TotalCost = totalCost
		sale.TotalProfit = totalProfit
		return s.repo.UpdateTotals(ctx, tx, &sale)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async side effects — fire & forget, never affect the committed sale.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
			SaleID: sale.ID.String(),
		})
		for _, r := range resolved {
			remaining := r.available - r.quantity
			// Alert only on the sale that crosses the threshold downward.
			if r.available > model.LowStockThreshold && remaining <= model.LowStockThreshold {
				_ = s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertJobPayload{
					ProductID:   r.productID.String(),
					ProductCode: r.code,
					ProductName: r.name,
					Remaining:   remaining,
				})
			}
		}
	}

	resp := saleToResponse(&sale)
	for i, r := range resolved {
		resp.Items[i].ProductName = r.name
		resp.Items[i].ProductCode = r.code
	}
	return resp, nil
}

// nextInvoiceNumber builds the INV + timestamp identifier and verifies it
// against the ledger. Two sales in the same second collide; subsequent
// candidates carry a random suffix. Bounded like every generator loop.
func (s *saleService) nextInvoiceNumber(ctx context.Context) (string, error) {
	candidate := codegen.InvoiceNumber(time.Now())
	for attempt := 0; attempt < codegen.MaxAttempts; attempt++ {
		taken, err := s.repo.InvoiceExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = codegen.InvoiceNumber(time.Now()) + codegen.RandomDigits(2)
	}
	return "", codegen.ErrExhausted
}

// stockConflictError rebuilds an InsufficientStockError with fresh
// availability after a conditional decrement matched no row.
func (s *saleService) stockConflictError(ctx context.Context, id uuid.UUID, name string, requested int) error {
	available := 0
	if p, err := s.productRepo.FindByID(ctx, id); err == nil {
		available = p.Quantity
	}
	return &InsufficientStockError{
		ProductID:   id.String(),
		ProductName: name,
		Available:   available,
		Requested:   requested,
	}
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "sale"}
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleListItem, 0, len(sales))
	for _, sale := range sales {
		createdBy := ""
		if sale.CreatedBy != nil {
			createdBy = sale.CreatedBy.FullName
		}
		items = append(items, dto.SaleListItem{
			ID:              sale.ID.String(),
			InvoiceNumber:   sale.InvoiceNumber,
			CustomerName:    sale.CustomerName,
			CustomerContact: sale.CustomerContact,
			TotalAmount:     sale.TotalAmount,
			NetAmount:       sale.NetAmount,
			TotalProfit:     sale.TotalProfit,
			ItemsCount:      len(sale.Items),
			CreatedByName:   createdBy,
			CreatedAt:       sale.CreatedAt.Format(time.RFC3339),
		})
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── RecalculateTotals ─────────────────────────────────────────────────────────

func (s *saleService) RecalculateTotals(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "sale"}
	}

	totalAmount := decimal.Zero
	totalCost := decimal.Zero
	for _, item := range sale.Items {
		totalAmount = totalAmount.Add(item.TotalPrice)
		totalCost = totalCost.Add(item.TotalCost)
	}
	sale.TotalAmount = totalAmount
	sale.DiscountAmount = totalAmount.Mul(sale.DiscountPercentage).Div(oneHundred).Round(2)
	sale.NetAmount = totalAmount.Sub(sale.DiscountAmount)
	sale.TotalCost = totalCost
	sale.TotalProfit = sale.NetAmount.Sub(totalCost)

	if err := s.repo.UpdateTotals(ctx, s.repo.DB(), sale); err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		name, code := "", ""
		if item.Product != nil {
			name = item.Product.Name
			code = item.Product.Code
		}
		items = append(items, dto.SaleItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: name,
			ProductCode: code,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			UnitCost:    item.UnitCost,
			TotalPrice:  item.TotalPrice,
			TotalCost:   item.TotalCost,
			Profit:      item.Profit,
		})
	}
	createdBy := ""
	if sale.CreatedBy != nil {
		createdBy = sale.CreatedBy.FullName
	}
	return &dto.SaleResponse{
		ID:                 sale.ID.String(),
		InvoiceNumber:      sale.InvoiceNumber,
		CustomerName:       sale.CustomerName,
		CustomerContact:    sale.CustomerContact,
		Items:              items,
		TotalAmount:        sale.TotalAmount,
		DiscountPercentage: sale.DiscountPercentage,
		DiscountAmount:     sale.DiscountAmount,
		NetAmount:          sale.NetAmount,
		TotalCost:          sale.TotalCost,
		TotalProfit:        sale.TotalProfit,
		CreatedByName:      createdBy,
		CreatedAt:          sale.CreatedAt.Format(time.RFC3339),
	}
}
