package repository

import (
	"context"
	"errors"

	"shoptrack/internal/dto"
	"shoptrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStockConflict is returned by DecrementStockTx when the conditional
// update matches no row: either the product vanished or a concurrent sale
// took the remaining stock first. The caller must roll back the transaction.
var ErrStockConflict = errors.New("repository: stock decrement conflict")

// ProductRepository defines the data access contract for the catalog store.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	// ListAll returns every product with category preloaded; the
	// aggregation engine folds inventory metrics over it.
	ListAll(ctx context.Context) ([]model.Product, error)
	// ListRecent returns the newest limit products for the activity feed.
	ListRecent(ctx context.Context, limit int) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Count(ctx context.Context) (int64, error)
	CodeExists(ctx context.Context, code string) (bool, error)

	// Used inside the sale transaction — callers must pass the tx instance.
	// DecrementStockTx only succeeds when qty units are actually available,
	// serializing concurrent sales on the same product via the row lock.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) error
	// DeactivateIfDepletedTx flips status to inactive when quantity reached zero.
	DeactivateIfDepletedTx(tx *gorm.DB, id uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").Preload("Supplier").First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	// Status filter: "inactive" | "all" | anything else = active (default)
	switch filter.Status {
	case "inactive":
		q = q.Where("status = ?", model.StatusInactive)
	case "all":
		// no filter
	default:
		q = q.Where("status = ?", model.StatusActive)
	}

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Category").Preload("Supplier").
		Order("name ASC").Limit(filter.Limit).Offset(offset).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Category").Find(&products).Error
	return products, err
}

func (r *productRepo) ListRecent(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *productRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("code = ?", code).Count(&n).Error
	return n > 0, err
}

func (r *productRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}

func (r *productRepo) DeactivateIfDepletedTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Product{}).
		Where("id = ? AND quantity <= 0", id).
		Update("status", model.StatusInactive).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
