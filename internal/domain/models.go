package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    *string         `json:"category,omitempty"`
	Stock       *int            `json:"stock,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// NewProduct is the input of a create operation. Optional fields are nil when
// the caller did not send them.
type NewProduct struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Category    *string
	Stock       *int
}

// ProductPatch holds the fields of a partial update. A nil field is left
// untouched; there is no way to clear a field.
type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	Stock       *int
	Price       *decimal.Decimal
}

// Apply overwrites the fields of p that are present in the patch.
func (pp ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = pp.Description
	}
	if pp.Category != nil {
		p.Category = pp.Category
	}
	if pp.Stock != nil {
		p.Stock = pp.Stock
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
}

type Page struct {
	Products      []Product `json:"products"`
	CurrentPage   int       `json:"currentPage"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int64     `json:"totalElements"`
	IsLastPage    bool      `json:"isLastPage"`
}
