package repository

import (
	"context"

	"shoptrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	FindByUsername(ctx context.Context, username string) (*model.Employee, error)
	List(ctx context.Context, includeInactive bool) ([]model.Employee, error)
	Update(ctx context.Context, e *model.Employee) error
	Count(ctx context.Context) (int64, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}

type employeeRepo struct{ db *gorm.DB }

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository { return &employeeRepo{db: db} }

func (r *employeeRepo) Create(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *employeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *employeeRepo) FindByUsername(ctx context.Context, username string) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).Where("username = ? AND active = true", username).First(&e).Error
	return &e, err
}

func (r *employeeRepo) List(ctx context.Context, includeInactive bool) ([]model.Employee, error) {
	var employees []model.Employee
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Order("full_name ASC").Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) Update(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *employeeRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).Count(&n).Error
	return n, err
}

func (r *employeeRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).Where("code = ?", code).Count(&n).Error
	return n > 0, err
}
