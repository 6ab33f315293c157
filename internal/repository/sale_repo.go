package repository

import (
	"context"
	"time"

	"shoptrack/internal/dto"
	"shoptrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleRepository is the ledger: committed sales are append-only except for
// the totals recomputation utility.
type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	InvoiceExists(ctx context.Context, number string) (bool, error)
	UpdateTotals(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	// ListBetween returns sales whose creation date falls in the inclusive
	// calendar range, newest-first, with items, products (and their
	// categories) and creators preloaded. Nil bounds are open ends.
	ListBetween(ctx context.Context, start, end *time.Time) ([]model.Sale, error)
	// ListRecent returns the newest limit sales with creators preloaded,
	// for the activity feed.
	ListRecent(ctx context.Context, limit int) ([]model.Sale, error)
	Count(ctx context.Context) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product.Category").
		Preload("Items.Product.Supplier").
		Preload("CreatedBy").
		First(&s, id).Error
	return &s, err
}

func (r *saleRepo) InvoiceExists(ctx context.Context, number string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("invoice_number = ?", number).Count(&n).Error
	return n > 0, err
}

func (r *saleRepo) UpdateTotals(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Model(&model.Sale{}).Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"total_amount":    s.TotalAmount,
			"discount_amount": s.DiscountAmount,
			"net_amount":      s.NetAmount,
			"total_cost":      s.TotalCost,
			"total_profit":    s.TotalProfit,
		}).Error
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}
	if filter.CreatedBy != "" {
		q = q.Where("created_by_id = ?", filter.CreatedBy)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("invoice_number ILIKE ? OR customer_name ILIKE ? OR customer_contact ILIKE ?", like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Product").Preload("CreatedBy").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) ListBetween(ctx context.Context, start, end *time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if start != nil {
		q = q.Where("DATE(created_at) >= ?", start.Format("2006-01-02"))
	}
	if end != nil {
		q = q.Where("DATE(created_at) <= ?", end.Format("2006-01-02"))
	}
	err := q.Preload("Items.Product.Category").Preload("CreatedBy").
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) ListRecent(ctx context.Context, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Order("created_at DESC").Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).Count(&n).Error
	return n, err
}
