package domain

import "time"

// ProductCategory groups catalog entries.
type ProductCategory string

const (
	ProductCategoryIndoor  ProductCategory = "Indoor"
	ProductCategoryOutdoor ProductCategory = "Out Door"
)

// Product is a catalog entry referenced by orders. The order workflow
// treats products as read-only.
type Product struct {
	ID          string
	Name        string
	Price       float64
	Category    ProductCategory
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
