package product

import (
	"strconv"
	"strings"

	"ymph-crud/internal/shared/validation"
)

func validateProduct(req CreateProductRequest, requireCode bool) error {
	var required []validation.Rule
	if requireCode {
		required = append(required, validation.Required("Product code", req.ProductCode))
	}
	required = append(required,
		validation.Required("Name", req.Name),
		validation.Required("Category", req.Category),
		validation.Required("Price", req.Price.String()),
	)

	status := strings.TrimSpace(req.Status)
	createdBy := strings.TrimSpace(req.CreatedBy.String())
	format := []validation.Rule{
		validation.When(status, validation.Check("Status", func() bool { return isValidStatus(status) }, statusMessage)),
		validation.When(createdBy, validation.Check("Created by", func() bool { return isValidID(createdBy) },
			"Created by must be a valid employee ID.")),
	}

	price := req.Price.String()
	cost := req.Cost.String()
	stock := req.StockQuantity.String()
	minStock := req.MinStockLevel.String()
	numeric := []validation.Rule{
		validation.Check("Price", func() bool { return validation.IsNonNegativeMoney(price) },
			"Price must be a valid non-negative number."),
		validation.When(cost, validation.Check("Cost", func() bool { return validation.IsNonNegativeMoney(cost) },
			"Cost must be a valid non-negative number.")),
		validation.When(stock, validation.Check("Stock quantity", func() bool { return validation.IsNonNegativeInteger(stock) },
			"Stock quantity must be a non-negative whole number.")),
		validation.When(minStock, validation.Check("Min stock level", func() bool { return validation.IsNonNegativeInteger(minStock) },
			"Min stock level must be a non-negative whole number.")),
	}

	return validation.FirstError(required, format, numeric)
}

var statusMessage = "Status must be one of: " + strings.Join(Statuses, ", ") + "."

func isValidStatus(s string) bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

func isValidID(s string) bool {
	n, err := strconv.ParseUint(s, 10, 64)
	return err == nil && n > 0
}
