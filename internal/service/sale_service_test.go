package service

import (
	"context"
	"strings"
	"testing"

	"shoptrack/internal/codegen"
	"shoptrack/internal/dto"
	"shoptrack/internal/model"
	"shoptrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, actual.Equal(dec(expected)), "expected %s, got %s", expected, actual)
}

func newTestProduct(code string, buy, sell string, qty int) *model.Product {
	return &model.Product{
		ID:        uuid.New(),
		Code:      code,
		Name:      "Product " + code,
		BuyPrice:  dec(buy),
		SellPrice: dec(sell),
		Quantity:  qty,
		Status:    model.StatusActive,
	}
}

func saleRequest(items ...dto.SaleItemRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		CustomerName: "Walk-in",
		Items:        items,
	}
}

func TestCreateSale_ComputesTotalsAndProfit(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 50)
	products := newStubProductRepo(p)
	sales := newStubSaleRepo()
	svc := NewSaleService(sales, products, nil)

	resp, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 10},
	))
	require.NoError(t, err)

	decEqual(t, "300.00", resp.TotalAmount)
	decEqual(t, "5.00", resp.DiscountPercentage)
	decEqual(t, "15.00", resp.DiscountAmount)
	decEqual(t, "285.00", resp.NetAmount)
	decEqual(t, "200.00", resp.TotalCost)
	decEqual(t, "85.00", resp.TotalProfit)

	require.Len(t, resp.Items, 1)
	decEqual(t, "30.00", resp.Items[0].UnitPrice)
	decEqual(t, "20.00", resp.Items[0].UnitCost)
	// Item profit stays gross of the order-level discount.
	decEqual(t, "100.00", resp.Items[0].Profit)

	assert.Equal(t, 40, p.Quantity)
	assert.Equal(t, model.StatusActive, p.Status)
	assert.True(t, strings.HasPrefix(resp.InvoiceNumber, "INV"))
}

func TestCreateSale_ExplicitDiscount(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 50)
	svc := NewSaleService(newStubSaleRepo(), newStubProductRepo(p), nil)

	zero := decimal.Zero
	req := saleRequest(dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 2})
	req.DiscountPercentage = &zero

	resp, err := svc.CreateSale(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	decEqual(t, "0.00", resp.DiscountAmount)
	decEqual(t, "60.00", resp.NetAmount)
	decEqual(t, "20.00", resp.TotalProfit)
}

func TestCreateSale_DiscountRoundsToCents(t *testing.T) {
	p := newTestProduct("PRD0001", "5.00", "9.99", 50)
	svc := NewSaleService(newStubSaleRepo(), newStubProductRepo(p), nil)

	resp, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 3},
	))
	require.NoError(t, err)

	// 29.97 * 5% = 1.4985, rounded to 1.50
	decEqual(t, "29.97", resp.TotalAmount)
	decEqual(t, "1.50", resp.DiscountAmount)
	decEqual(t, "28.47", resp.NetAmount)
	decEqual(t, "13.47", resp.TotalProfit)
}

func TestCreateSale_UnitPriceOverride(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 50)
	svc := NewSaleService(newStubSaleRepo(), newStubProductRepo(p), nil)

	negotiated := dec("25.00")
	req := saleRequest(dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 2, UnitPrice: &negotiated})

	resp, err := svc.CreateSale(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	decEqual(t, "25.00", resp.Items[0].UnitPrice)
	decEqual(t, "50.00", resp.TotalAmount)
	// Cost still snapshots from the catalog.
	decEqual(t, "20.00", resp.Items[0].UnitCost)
}

func TestCreateSale_RejectsEmptyItems(t *testing.T) {
	svc := NewSaleService(newStubSaleRepo(), newStubProductRepo(), nil)

	_, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateSale_RejectsNonPositiveQuantity(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 50)
	svc := NewSaleService(newStubSaleRepo(), newStubProductRepo(p), nil)

	for _, qty := range []int{0, -3} {
		_, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
			dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: qty},
		))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	}
	// A negative quantity must never restock the product.
	assert.Equal(t, 50, p.Quantity)
}

func TestCreateSale_RejectsDuplicateProducts(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 50)
	svc := NewSaleService(newStubSaleRepo(), newStubProductRepo(p), nil)

	_, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 1},
		dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 2},
	))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 50, p.Quantity)
}

func TestCreateSale_UnknownProduct(t *testing.T) {
	svc := NewSaleService(newStubSaleRepo(), newStubProductRepo(), nil)

	_, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: uuid.NewString(), Quantity: 1},
	))
	var nferr *ProductNotFoundError
	require.ErrorAs(t, err, &nferr)
}

func TestCreateSale_InvalidProductID(t *testing.T) {
	svc := NewSaleService(newStubSaleRepo(), newStubProductRepo(), nil)

	_, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: "not-a-uuid", Quantity: 1},
	))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 25)
	svc := NewSaleService(newStubSaleRepo(), newStubProductRepo(p), nil)

	_, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 26},
	))

	var serr *InsufficientStockError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 25, serr.Available)
	assert.Equal(t, 26, serr.Requested)
	assert.Equal(t, p.Name, serr.ProductName)
	assert.Equal(t, 25, p.Quantity)
}

func TestCreateSale_ShortLineAbortsWholeOrder(t *testing.T) {
	a := newTestProduct("PRD0001", "10.00", "15.00", 10)
	b := newTestProduct("PRD0002", "10.00", "15.00", 1)
	sales := newStubSaleRepo()
	svc := NewSaleService(sales, newStubProductRepo(a, b), nil)

	_, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: a.ID.String(), Quantity: 2},
		dto.SaleItemRequest{ProductID: b.ID.String(), Quantity: 5},
	))

	var serr *InsufficientStockError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, b.ID.String(), serr.ProductID)
	// The satisfiable first line must not have been applied.
	assert.Equal(t, 10, a.Quantity)
	n, _ := sales.Count(context.Background())
	assert.Zero(t, n)
}

func TestCreateSale_DepletionDeactivatesProduct(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 3)
	svc := NewSaleService(newStubSaleRepo(), newStubProductRepo(p), nil)

	_, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 3},
	))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, model.StatusInactive, p.Status)
}

func TestCreateSale_StockConflictSurfacesAsInsufficientStock(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 10)
	products := newStubProductRepo(p)
	products.decrementErr = repository.ErrStockConflict
	svc := NewSaleService(newStubSaleRepo(), products, nil)

	_, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 2},
	))
	var serr *InsufficientStockError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 2, serr.Requested)
}

func TestCreateSale_InvoiceCollisionRetries(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 10)
	sales := newStubSaleRepo()
	calls := 0
	sales.invoiceTaken = func(string) (bool, error) {
		calls++
		return calls == 1, nil
	}
	svc := NewSaleService(sales, newStubProductRepo(p), nil)

	resp, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, strings.HasPrefix(resp.InvoiceNumber, "INV"))
}

func TestCreateSale_InvoiceExhaustion(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 10)
	sales := newStubSaleRepo()
	sales.invoiceTaken = func(string) (bool, error) { return true, nil }
	svc := NewSaleService(sales, newStubProductRepo(p), nil)

	_, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 1},
	))
	require.ErrorIs(t, err, codegen.ErrExhausted)
}

func TestCreateSale_InvoiceLookupErrorPropagates(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 10)
	sales := newStubSaleRepo()
	sales.invoiceTaken = func(string) (bool, error) { return false, errStubFailure }
	svc := NewSaleService(sales, newStubProductRepo(p), nil)

	_, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 1},
	))
	require.ErrorIs(t, err, errStubFailure)
}

func TestCreateSale_RejectsOutOfRangeDiscount(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 10)
	svc := NewSaleService(newStubSaleRepo(), newStubProductRepo(p), nil)

	over := dec("101")
	req := saleRequest(dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 1})
	req.DiscountPercentage = &over

	_, err := svc.CreateSale(context.Background(), uuid.New(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRecalculateTotals_Idempotent(t *testing.T) {
	p := newTestProduct("PRD0001", "20.00", "30.00", 50)
	sales := newStubSaleRepo()
	svc := NewSaleService(sales, newStubProductRepo(p), nil)

	created, err := svc.CreateSale(context.Background(), uuid.New(), saleRequest(
		dto.SaleItemRequest{ProductID: p.ID.String(), Quantity: 10},
	))
	require.NoError(t, err)
	saleID := uuid.MustParse(created.ID)

	// Corrupt the stored totals, then recalculate.
	stored, err := sales.FindByID(context.Background(), saleID)
	require.NoError(t, err)
	stored.TotalAmount = decimal.Zero
	stored.TotalProfit = dec("999")

	first, err := svc.RecalculateTotals(context.Background(), saleID)
	require.NoError(t, err)
	decEqual(t, "300.00", first.TotalAmount)
	decEqual(t, "85.00", first.TotalProfit)

	second, err := svc.RecalculateTotals(context.Background(), saleID)
	require.NoError(t, err)
	decEqual(t, "300.00", second.TotalAmount)
	decEqual(t, "15.00", second.DiscountAmount)
	decEqual(t, "285.00", second.NetAmount)
	decEqual(t, "85.00", second.TotalProfit)
}

func TestGetSale_NotFound(t *testing.T) {
	svc := NewSaleService(newStubSaleRepo(), newStubProductRepo(), nil)

	_, err := svc.GetSale(context.Background(), uuid.New())
	var nferr *NotFoundError
	require.ErrorAs(t, err, &nferr)
}
