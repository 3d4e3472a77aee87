package employee

import (
	"context"
	"fmt"

	"ymph-crud/internal/shared/filter"

	"gorm.io/gorm"
)

var distinctColumns = map[string]bool{
	"department": true,
	"position":   true,
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context, q filter.Query) ([]Employee, error)
	FindByID(ctx context.Context, id uint) (*Employee, error)
	FindActiveOptions(ctx context.Context) ([]Employee, error)
	DistinctValues(ctx context.Context, column string) ([]string, error)
	Update(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context, q filter.Query) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Scopes(q.Scope()).
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).First(&empl, id).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) FindActiveOptions(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Select("id", "employee_code", "first_name", "last_name").
		Where("status = ?", StatusActive).
		Order("last_name").
		Order("first_name").
		Find(&empls).Error
	return empls, err
}

func (r *repository) DistinctValues(ctx context.Context, column string) ([]string, error) {
	if !distinctColumns[column] {
		return nil, fmt.Errorf("employee: column %q is not filterable", column)
	}
	var values []string
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Distinct(column).
		Order(column).
		Pluck(column, &values).Error
	return values, err
}

// Update writes every column except id and created_at.
func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).
		Model(empl).
		Select("*").
		Omit("id", "created_at").
		Updates(empl).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Employee{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
