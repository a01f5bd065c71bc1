package dto

import (
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/result"
	"catalog-api/internal/rowversion"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var productMessages = fieldMessages{
	"productId":   "ProductId is required.",
	"productName": "Product name must be between 2 and 50 characters.",
	"price":       "Price must be between 0 and 32767.",
	"qtyInStock":  "Quantity cannot be negative.",
	"categoryId":  "CategoryId is required.",
	"rowVersion":  "RowVersion is required.",
}

// ProductCreateRequest is the payload of POST /api/products
type ProductCreateRequest struct {
	ProductName string          `json:"productName" validate:"required,min=2,max=50"`
	Price       decimal.Decimal `json:"price" validate:"gte=0,lte=32767"`
	QtyInStock  *int            `json:"qtyInStock" validate:"omitempty,gte=0"`
	CategoryID  int             `json:"categoryId" validate:"gt=0"`
}

func (r ProductCreateRequest) Validate() []result.FieldError {
	return validateStruct(r, productMessages)
}

// ProductUpdateRequest is the payload of PUT /api/products/{id}.
// Changing CategoryID moves the product to another category.
type ProductUpdateRequest struct {
	ProductID   uuid.UUID       `json:"productId" validate:"required"`
	ProductName string          `json:"productName" validate:"required,min=2,max=50"`
	Price       decimal.Decimal `json:"price" validate:"gte=0,lte=32767"`
	QtyInStock  *int            `json:"qtyInStock" validate:"omitempty,gte=0"`
	CategoryID  int             `json:"categoryId" validate:"gt=0"`
	RowVersion  string          `json:"rowVersion" validate:"required"`
}

func (r ProductUpdateRequest) Validate() []result.FieldError {
	return validateStruct(r, productMessages)
}

// ProductDeleteRequest is the payload of DELETE /api/products/{id}
type ProductDeleteRequest struct {
	ProductID  uuid.UUID `json:"productId" validate:"required"`
	RowVersion string    `json:"rowVersion" validate:"required"`
}

func (r ProductDeleteRequest) Validate() []result.FieldError {
	return validateStruct(r, productMessages)
}

// ProductView is the read model of a product, including its category name
type ProductView struct {
	ProductID     uuid.UUID       `json:"productId"`
	ProductName   string          `json:"productName"`
	Price         decimal.Decimal `json:"price"`
	QtyInStock    *int            `json:"qtyInStock"`
	CategoryID    int             `json:"categoryId"`
	CategoryName  string          `json:"categoryName"`
	CreatedAtUTC  time.Time       `json:"createdAtUtc"`
	ModifiedAtUTC time.Time       `json:"modifiedAtUtc"`
	RowVersion    string          `json:"rowVersion"`
}

func NewProductView(p *domain.Product) ProductView {
	return ProductView{
		ProductID:     p.ID,
		ProductName:   p.ProductName,
		Price:         p.Price,
		QtyInStock:    p.QtyInStock,
		CategoryID:    p.CategoryID,
		CategoryName:  p.CategoryName,
		CreatedAtUTC:  p.CreatedAtUTC,
		ModifiedAtUTC: p.ModifiedAtUTC,
		RowVersion:    rowversion.Encode(p.RowVersion),
	}
}
