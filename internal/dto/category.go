package dto

import (
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/result"
	"catalog-api/internal/rowversion"
)

var categoryMessages = fieldMessages{
	"categoryId":  "CategoryId is required.",
	"name":        "Category name must be between 2 and 100 characters.",
	"description": "Description cannot exceed 4000 characters.",
	"rowVersion":  "RowVersion is required.",
}

// CategoryCreateRequest is the payload of POST /api/categories
type CategoryCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
}

func (r CategoryCreateRequest) Validate() []result.FieldError {
	return validateStruct(r, categoryMessages)
}

// CategoryUpdateRequest is the payload of PUT /api/categories/{id}.
// RowVersion must be the value returned by the last read.
type CategoryUpdateRequest struct {
	CategoryID  int     `json:"categoryId" validate:"gt=0"`
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	RowVersion  string  `json:"rowVersion" validate:"required"`
}

func (r CategoryUpdateRequest) Validate() []result.FieldError {
	return validateStruct(r, categoryMessages)
}

// CategoryDeleteRequest is the payload of DELETE /api/categories/{id}
type CategoryDeleteRequest struct {
	CategoryID int    `json:"categoryId" validate:"gt=0"`
	RowVersion string `json:"rowVersion" validate:"required"`
}

func (r CategoryDeleteRequest) Validate() []result.FieldError {
	return validateStruct(r, categoryMessages)
}

// CategoryView is the read model of a category
type CategoryView struct {
	CategoryID    int       `json:"categoryId"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	CreatedAtUTC  time.Time `json:"createdAtUtc"`
	ModifiedAtUTC time.Time `json:"modifiedAtUtc"`
	RowVersion    string    `json:"rowVersion"`
}

// NewCategoryView projects an entity, encoding its row version for the client
func NewCategoryView(c *domain.Category) CategoryView {
	return CategoryView{
		CategoryID:    c.ID,
		Name:          c.Name,
		Description:   c.Description,
		CreatedAtUTC:  c.CreatedAtUTC,
		ModifiedAtUTC: c.ModifiedAtUTC,
		RowVersion:    rowversion.Encode(c.RowVersion),
	}
}
