package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"shoptrack/internal/dto"
	"shoptrack/internal/model"
	"shoptrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository stubs. DB() returns nil, which makes runTx invoke
// the transaction body directly, so services run without a database.

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	// decrementErr forces DecrementStockTx to fail, simulating a
	// concurrent sale winning the row.
	decrementErr error
}

func newStubProductRepo(products ...*model.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.Status == "" {
			p.Status = model.StatusActive
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) ListRecent(_ context.Context, limit int) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) CodeExists(_ context.Context, code string) (bool, error) {
	for _, p := range r.products {
		if p.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	if r.decrementErr != nil {
		return r.decrementErr
	}
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.Quantity < qty {
		return repository.ErrStockConflict
	}
	p.Quantity -= qty
	return nil
}

func (r *stubProductRepo) DeactivateIfDepletedTx(_ *gorm.DB, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.Quantity <= 0 {
		p.Status = model.StatusInactive
	}
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

type stubSaleRepo struct {
	sales []*model.Sale
	// invoiceTaken overrides invoice lookups when set; falls back to the
	// stored sales otherwise.
	invoiceTaken func(number string) (bool, error)
}

func newStubSaleRepo(sales ...*model.Sale) *stubSaleRepo {
	r := &stubSaleRepo{}
	for _, s := range sales {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.sales = append(r.sales, s)
	}
	return r
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	for i := range s.Items {
		s.Items[i].SaleID = s.ID
	}
	r.sales = append(r.sales, s)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) InvoiceExists(_ context.Context, number string) (bool, error) {
	if r.invoiceTaken != nil {
		return r.invoiceTaken(number)
	}
	for _, s := range r.sales {
		if s.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSaleRepo) UpdateTotals(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	for _, stored := range r.sales {
		if stored.ID == s.ID {
			stored.TotalAmount = s.TotalAmount
			stored.DiscountAmount = s.DiscountAmount
			stored.NetAmount = s.NetAmount
			stored.TotalCost = s.TotalCost
			stored.TotalProfit = s.TotalProfit
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	out := []model.Sale{}
	for _, s := range r.sales {
		if filter.Search != "" && !strings.Contains(s.InvoiceNumber, filter.Search) &&
			!strings.Contains(s.CustomerName, filter.Search) {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) ListBetween(_ context.Context, start, end *time.Time) ([]model.Sale, error) {
	out := []model.Sale{}
	for _, s := range r.sales {
		day := s.CreatedAt.Truncate(24 * time.Hour)
		if start != nil && day.Before(start.Truncate(24*time.Hour)) {
			continue
		}
		if end != nil && day.After(end.Truncate(24*time.Hour)) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) ListRecent(_ context.Context, limit int) ([]model.Sale, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubSaleRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.sales)), nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newStubCategoryRepo(categories ...*model.Category) *stubCategoryRepo {
	r := &stubCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
	for _, c := range categories {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.categories[c.ID] = c
	}
	return r
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.categories)), nil
}

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo(suppliers ...*model.Supplier) *stubSupplierRepo {
	r := &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
	for _, s := range suppliers {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.suppliers[s.ID] = s
	}
	return r
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSupplierRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.suppliers)), nil
}

func (r *stubSupplierRepo) CodeExists(_ context.Context, code string) (bool, error) {
	for _, s := range r.suppliers {
		if s.Code == code {
			return true, nil
		}
	}
	return false, nil
}

type stubEmployeeRepo struct {
	employees map[uuid.UUID]*model.Employee
}

func newStubEmployeeRepo(employees ...*model.Employee) *stubEmployeeRepo {
	r := &stubEmployeeRepo{employees: make(map[uuid.UUID]*model.Employee)}
	for _, e := range employees {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		r.employees[e.ID] = e
	}
	return r
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.employees[e.ID] = e
	return nil
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *stubEmployeeRepo) FindByUsername(_ context.Context, username string) (*model.Employee, error) {
	for _, e := range r.employees {
		if e.Username == username {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEmployeeRepo) List(_ context.Context, includeInactive bool) ([]model.Employee, error) {
	out := []model.Employee{}
	for _, e := range r.employees {
		if !includeInactive && !e.Active {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	r.employees[e.ID] = e
	return nil
}

func (r *stubEmployeeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.employees)), nil
}

func (r *stubEmployeeRepo) CodeExists(_ context.Context, code string) (bool, error) {
	for _, e := range r.employees {
		if e.Code == code {
			return true, nil
		}
	}
	return false, nil
}

var errStubFailure = errors.New("stub failure")
