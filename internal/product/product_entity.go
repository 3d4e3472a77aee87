package product

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive       = "active"
	StatusDiscontinued = "discontinued"
	StatusOutOfStock   = "out_of_stock"

	DefaultUnit = "unit"
)

var Statuses = []string{StatusActive, StatusDiscontinued, StatusOutOfStock}

type Product struct {
	ID            uint                `gorm:"primaryKey"`
	ProductCode   string              `gorm:"size:20;not null;uniqueIndex:uq_product_code"`
	Name          string              `gorm:"size:150;not null"`
	Description   *string             `gorm:"type:text"`
	Category      string              `gorm:"size:100;not null;index"`
	Price         decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Cost          decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	StockQuantity int                 `gorm:"not null;default:0"`
	MinStockLevel int                 `gorm:"not null;default:0"`
	Unit          string              `gorm:"size:20;not null;default:unit"`
	Status        string              `gorm:"size:20;not null;default:active;index"`
	CreatedBy     *uint               `gorm:"index"` // weak reference to employees.id
	CreatedAt     time.Time           `gorm:"index"`
	UpdatedAt     time.Time
}

func (Product) TableName() string {
	return "products"
}

// ProductWithCreator is a product row joined with the employee named in
// created_by. The creator columns are nil when the reference is empty or
// points at a deleted employee.
type ProductWithCreator struct {
	Product
	CreatorCode      *string
	CreatorFirstName *string
	CreatorLastName  *string
}
