package service

import (
	"context"
	"time"

	"shoptrack/internal/codegen"
	"shoptrack/internal/dto"
	"shoptrack/internal/model"
	"shoptrack/internal/repository"

	"github.com/google/uuid"
)

// CatalogService manages products, suppliers and categories. Codes are
// assigned here (PRD/SUP + 4 digits) so callers never pick their own.
type CatalogService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)

	CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error)

	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	categoryRepo repository.CategoryRepository
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	categoryRepo repository.CategoryRepository,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		categoryRepo: categoryRepo,
	}
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !req.SellPrice.GreaterThan(req.BuyPrice) {
		return nil, &ValidationError{Msg: "sell_price must be greater than buy_price"}
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, &ValidationError{Msg: "invalid category_id"}
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, &ValidationError{Msg: "invalid supplier_id"}
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, &NotFoundError{Entity: "category"}
	}
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return nil, &NotFoundError{Entity: "supplier"}
	}

	code, err := codegen.Generate("PRD", 4, func(c string) (bool, error) {
		return s.productRepo.CodeExists(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		Code:        code,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  categoryID,
		SupplierID:  supplierID,
		BuyPrice:    req.BuyPrice,
		SellPrice:   req.SellPrice,
		Quantity:    req.Quantity,
		Status:      model.StatusActive,
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "product"}
	}
	return productToResponse(p), nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Entity: "product"}
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.BuyPrice != nil {
		p.BuyPrice = *req.BuyPrice
	}
	if req.SellPrice != nil {
		p.SellPrice = *req.SellPrice
	}
	if !p.SellPrice.GreaterThan(p.BuyPrice) {
		return nil, &ValidationError{Msg: "sell_price must be greater than buy_price"}
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
		// Restocking an auto-deactivated product brings it back.
		if p.Quantity > 0 && p.Status == model.StatusInactive && req.Status == nil {
			p.Status = model.StatusActive
		}
	}
	if req.Status != nil {
		p.Status = *req.Status
	}

	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:                 p.ID.String(),
		Code:               p.Code,
		Name:               p.Name,
		Description:        p.Description,
		CategoryID:         p.CategoryID.String(),
		SupplierID:         p.SupplierID.String(),
		BuyPrice:           p.BuyPrice,
		SellPrice:          p.SellPrice,
		Quantity:           p.Quantity,
		Status:             p.Status,
		ProfitPerUnit:      p.ProfitPerUnit(),
		ProfitMarginPct:    p.ProfitMarginPct().Round(2),
		InventoryValueCost: p.InventoryValueCost(),
		InventoryValueSell: p.InventoryValueSell(),
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	if p.Supplier != nil {
		resp.SupplierName = p.Supplier.Name
	}
	return resp
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

func (s *catalogService) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	code, err := codegen.Generate("SUP", 4, func(c string) (bool, error) {
		return s.supplierRepo.CodeExists(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	sup := &model.Supplier{
		Code:    code,
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Address: req.Address,
	}
	if err := s.supplierRepo.Create(ctx, sup); err != nil {
		return nil, err
	}
	return supplierToResponse(sup), nil
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.supplierRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, *supplierToResponse(&suppliers[i]))
	}
	return out, nil
}

func supplierToResponse(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID.String(),
		Code:      s.Code,
		Name:      s.Name,
		Contact:   s.Contact,
		Email:     s.Email,
		Address:   s.Address,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

// ── Categories ────────────────────────────────────────────────────────────────

func (s *catalogService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c := &model.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return categoryToResponse(c), nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *categoryToResponse(&categories[i]))
	}
	return out, nil
}

func categoryToResponse(c *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}
