package product

import (
	"time"

	"ymph-crud/internal/shared/filter"
	"ymph-crud/internal/shared/validation"
)

type DeleteMode string

const (
	DeleteSoft DeleteMode = "soft"
	DeleteHard DeleteMode = "hard"
)

type CreateProductRequest struct {
	ProductCode   string                   `json:"product_code" form:"product_code"`
	Name          string                   `json:"name" form:"name"`
	Description   string                   `json:"description" form:"description"`
	Category      string                   `json:"category" form:"category"`
	Price         validation.NumericString `json:"price" form:"price"`
	Cost          validation.NumericString `json:"cost" form:"cost"`
	StockQuantity validation.NumericString `json:"stock_quantity" form:"stock_quantity"`
	MinStockLevel validation.NumericString `json:"min_stock_level" form:"min_stock_level"`
	Unit          string                   `json:"unit" form:"unit"`
	Status        string                   `json:"status" form:"status"`
	CreatedBy     validation.NumericString `json:"created_by" form:"created_by"`
}

// UpdateProductRequest replaces every field. product_code is required.
type UpdateProductRequest CreateProductRequest

type ListProductsQuery struct {
	Search   *string `form:"search"`
	Status   *string `form:"status"`
	Category *string `form:"category"`
}

// Normalize turns blank values into absent filters.
func (q ListProductsQuery) Normalize() ListProductsQuery {
	return ListProductsQuery{
		Search:   filter.OptionalPtr(q.Search),
		Status:   filter.OptionalPtr(q.Status),
		Category: filter.OptionalPtr(q.Category),
	}
}

// DeleteProductQuery takes the mode as ?mode= or, for older clients, ?type=.
type DeleteProductQuery struct {
	Mode string `form:"mode" binding:"omitempty,oneof=soft hard"`
	Type string `form:"type" binding:"omitempty,oneof=soft hard"`
}

func (q DeleteProductQuery) DeleteMode() DeleteMode {
	if q.Mode != "" {
		return DeleteMode(q.Mode)
	}
	return DeleteMode(q.Type)
}

type ProductCreator struct {
	ID           uint   `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
}

type ProductResponse struct {
	ID            uint            `json:"id"`
	ProductCode   string          `json:"product_code"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Category      string          `json:"category"`
	Price         string          `json:"price"`
	Cost          *string         `json:"cost"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	Unit          string          `json:"unit"`
	Status        string          `json:"status"`
	CreatedBy     *uint           `json:"created_by"`
	Creator       *ProductCreator `json:"creator"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ProductFilters struct {
	Categories []string `json:"categories"`
}

type ProductListResponse struct {
	Items   []ProductResponse `json:"items"`
	Filters ProductFilters    `json:"filters"`
}

type DeleteProductResponse struct {
	ID      uint       `json:"id"`
	Deleted bool       `json:"deleted"`
	Mode    DeleteMode `json:"mode"`
	Status  string     `json:"status,omitempty"`
}
