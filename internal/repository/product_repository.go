package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/rowversion"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access.
// Update and Delete only touch the row when its stored row version equals expected.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListWithCategory(ctx context.Context) ([]domain.ProductWithCategory, error)
	ExistsByName(ctx context.Context, categoryID int, name string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, product *domain.Product, expected []byte) error
	Delete(ctx context.Context, id uuid.UUID, expected []byte) error
}

type productRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db, now: utcNow}
}

const productColumns = `
	p.product_id, p.product_name, p.price, p.qty_in_stock, p.category_id,
	p.created_at_utc, p.modified_at_utc, p.row_version, c.name
`

// Create inserts a product, assigning its identity, audit timestamps and row version.
// A missing category surfaces as ErrCategoryNotFound.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (product_id, product_name, price, qty_in_stock, category_id,
		                      created_at_utc, modified_at_utc, row_version)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
	`

	id := uuid.New()
	now := r.now()
	version := rowversion.New()

	_, err := r.db.ExecContext(
		ctx,
		query,
		id,
		product.ProductName,
		product.Price,
		product.QtyInStock,
		product.CategoryID,
		now,
		version,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicateName
		case isForeignKeyViolation(err):
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	product.ID = id
	product.CreatedAtUTC = now
	product.ModifiedAtUTC = now
	product.RowVersion = version
	return nil
}

// FindByID retrieves a product and the name of its category
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.category_id = p.category_id
		WHERE p.product_id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves all products ordered by product name
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.category_id = p.category_id
		ORDER BY p.product_name ASC, p.product_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ListWithCategory reads the denormalized products view ordered by product name
func (r *productRepository) ListWithCategory(ctx context.Context) ([]domain.ProductWithCategory, error) {
	query := `
		SELECT product_id, product_name, price, qty_in_stock, category_id, category_name
		FROM vw_products_with_category
		ORDER BY product_name ASC, product_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products with category: %w", err)
	}
	defer rows.Close()

	items := []domain.ProductWithCategory{}
	for rows.Next() {
		var (
			item domain.ProductWithCategory
			qty  sql.NullInt64
		)
		err := rows.Scan(
			&item.ProductID,
			&item.ProductName,
			&item.Price,
			&qty,
			&item.CategoryID,
			&item.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product with category: %w", err)
		}
		item.QtyInStock = intPtr(qty)
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products with category: %w", err)
	}

	return items, nil
}

// ExistsByName reports whether there is a product in the category whose name equals name ignoring case,
// folded by the database like ux_products_category_name. excludeID of uuid.Nil excludes nothing.
func (r *productRepository) ExistsByName(ctx context.Context, categoryID int, name string, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM products
			WHERE category_id = $1 AND UPPER(product_name) = UPPER($2) AND product_id <> $3
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, categoryID, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product name: %w", err)
	}
	return exists, nil
}

// Update writes the mutable product fields if the stored row version still equals expected
func (r *productRepository) Update(ctx context.Context, product *domain.Product, expected []byte) error {
	query := `
		UPDATE products
		SET product_name = $2, price = $3, qty_in_stock = $4, category_id = $5,
		    modified_at_utc = $6, row_version = $7
		WHERE product_id = $1 AND row_version = $8
	`

	now := r.now()
	version := rowversion.New()

	res, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.ProductName,
		product.Price,
		product.QtyInStock,
		product.CategoryID,
		now,
		version,
		expected,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicateName
		case isForeignKeyViolation(err):
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrConcurrencyConflict
	}

	product.ModifiedAtUTC = now
	product.RowVersion = version
	return nil
}

// Delete hard-deletes the product if the stored row version still equals expected
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID, expected []byte) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM products WHERE product_id = $1 AND row_version = $2`, id, expected,
	)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrConcurrencyConflict
	}

	return nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var qty sql.NullInt64
	err := row.Scan(
		&product.ID,
		&product.ProductName,
		&product.Price,
		&qty,
		&product.CategoryID,
		&product.CreatedAtUTC,
		&product.ModifiedAtUTC,
		&product.RowVersion,
		&product.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	product.QtyInStock = intPtr(qty)
	product.CreatedAtUTC = product.CreatedAtUTC.UTC()
	product.ModifiedAtUTC = product.ModifiedAtUTC.UTC()
	return product, nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
