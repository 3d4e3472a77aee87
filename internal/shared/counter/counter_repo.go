package counter

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const (
	TypeEmployeeCode = "employee_code"
	TypeProductCode  = "product_code"
)

type sequence struct {
	table  string
	column string
}

var sequences = map[string]sequence{
	TypeEmployeeCode: {table: "employees", column: "employee_code"},
	TypeProductCode:  {table: "products", column: "product_code"},
}

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	// GetNextValue returns count(rows whose code starts with prefix) + 1.
	// No lock is taken; the unique index on the code column is the safety net.
	GetNextValue(ctx context.Context, counterType string, prefix string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetNextValue(ctx context.Context, counterType string, prefix string) (int64, error) {
	seq, ok := sequences[counterType]
	if !ok {
		return 0, fmt.Errorf("counter: unknown counter type %q", counterType)
	}

	var count int64
	err := r.db.WithContext(ctx).
		Table(seq.table).
		Where(seq.column+" LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count + 1, nil
}
