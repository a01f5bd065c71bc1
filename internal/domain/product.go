package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product belongs to exactly one category. ProductName is unique within its category.
type Product struct {
	ID            uuid.UUID       `json:"productId" db:"product_id"`
	ProductName   string          `json:"productName" db:"product_name"`
	Price         decimal.Decimal `json:"price" db:"price"`
	QtyInStock    *int            `json:"qtyInStock" db:"qty_in_stock"`
	CategoryID    int             `json:"categoryId" db:"category_id"`
	CreatedAtUTC  time.Time       `json:"createdAtUtc" db:"created_at_utc"`
	ModifiedAtUTC time.Time       `json:"modifiedAtUtc" db:"modified_at_utc"`
	RowVersion    []byte          `json:"-" db:"row_version"`

	// CategoryName is filled on reads only.
	CategoryName string `json:"categoryName" db:"category_name"`
}

// ProductWithCategory is a row of the vw_products_with_category view
type ProductWithCategory struct {
	ProductID    uuid.UUID       `json:"productId" db:"product_id"`
	ProductName  string          `json:"productName" db:"product_name"`
	Price        decimal.Decimal `json:"price" db:"price"`
	QtyInStock   *int            `json:"qtyInStock" db:"qty_in_stock"`
	CategoryID   int             `json:"categoryId" db:"category_id"`
	CategoryName string          `json:"categoryName" db:"category_name"`
}
