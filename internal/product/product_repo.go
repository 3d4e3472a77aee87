package product

import (
	"context"
	"time"

	"ymph-crud/internal/shared/filter"

	"gorm.io/gorm"
)

const withCreatorSelect = "products.*, " +
	"employees.employee_code AS creator_code, " +
	"employees.first_name AS creator_first_name, " +
	"employees.last_name AS creator_last_name"

//go:generate mockgen -source=product_repo.go -destination=mock/product_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, p *Product) error
	FindAll(ctx context.Context, q filter.Query) ([]ProductWithCreator, error)
	FindByID(ctx context.Context, id uint) (*ProductWithCreator, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, p *Product) error
	SoftDelete(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) withCreator(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products").
		Select(withCreatorSelect).
		Joins("LEFT JOIN employees ON employees.id = products.created_by")
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAll(ctx context.Context, q filter.Query) ([]ProductWithCreator, error) {
	var rows []ProductWithCreator
	err := r.withCreator(ctx).
		Scopes(q.Scope()).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id uint) (*ProductWithCreator, error) {
	var row ProductWithCreator
	err := r.withCreator(ctx).
		Where("products.id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&Product{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// Update writes every column except id and created_at.
func (r *repository) Update(ctx context.Context, p *Product) error {
	return r.db.WithContext(ctx).
		Model(p).
		Select("*").
		Omit("id", "created_at").
		Updates(p).Error
}

// SoftDelete marks the product discontinued and keeps the row.
func (r *repository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     StatusDiscontinued,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
