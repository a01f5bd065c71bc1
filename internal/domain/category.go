package domain

import (
	"strings"
	"time"
)

// Category groups products. Name is unique among categories once trimmed and case-folded.
type Category struct {
	ID            int       `json:"categoryId" db:"category_id"`
	Name          string    `json:"name" db:"name"`
	Description   *string   `json:"description" db:"description"`
	CreatedAtUTC  time.Time `json:"createdAtUtc" db:"created_at_utc"`
	ModifiedAtUTC time.Time `json:"modifiedAtUtc" db:"modified_at_utc"`
	RowVersion    []byte    `json:"-" db:"row_version"`
}

// CategoryProductCount is one row of the category product count report
type CategoryProductCount struct {
	CategoryID   int    `json:"categoryId" db:"category_id"`
	CategoryName string `json:"categoryName" db:"category_name"`
	ProductCount int    `json:"productCount" db:"product_count"`
}

// NormalizeName returns the comparison key for a name: trimmed and upper-cased.
// The store keeps the trimmed original; only uniqueness checks use this form.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NullIfWhiteSpace maps nil, empty and whitespace-only strings to nil.
func NullIfWhiteSpace(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
