package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/rowversion"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category is referenced by products")
)

// CategoryRepository defines the interface for category data access.
// Update and Delete only touch the row when its stored row version equals expected.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id int) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Exists(ctx context.Context, id int) (bool, error)
	ExistsByName(ctx context.Context, name string, excludeID int) (bool, error)
	HasProducts(ctx context.Context, id int) (bool, error)
	Update(ctx context.Context, category *domain.Category, expected []byte) error
	Delete(ctx context.Context, id int, expected []byte) error
	ProductCounts(ctx context.Context) ([]domain.CategoryProductCount, error)
}

type categoryRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db, now: utcNow}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// Create inserts a category and fills in its identity, audit timestamps and row version
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, description, created_at_utc, modified_at_utc, row_version)
		VALUES ($1, $2, $3, $3, $4)
		RETURNING category_id
	`

	now := r.now()
	version := rowversion.New()

	var id int
	err := r.db.QueryRowContext(ctx, query, category.Name, category.Description, now, version).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	category.ID = id
	category.CreatedAtUTC = now
	category.ModifiedAtUTC = now
	category.RowVersion = version
	return nil
}

// FindByID retrieves a category by ID
func (r *categoryRepository) FindByID(ctx context.Context, id int) (*domain.Category, error) {
	query := `
		SELECT category_id, name, description, created_at_utc, modified_at_utc, row_version
		FROM categories
		WHERE category_id = $1
	`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// List retrieves all categories ordered by name
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT category_id, name, description, created_at_utc, modified_at_utc, row_version
		FROM categories
		ORDER BY name ASC, category_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE category_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}
	return exists, nil
}

// ExistsByName reports whether there is another category whose name equals name ignoring case.
// Case folding uses the same UPPER() as ux_categories_name. excludeID of 0 excludes nothing.
func (r *categoryRepository) ExistsByName(ctx context.Context, name string, excludeID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE UPPER(name) = UPPER($1) AND category_id <> $2
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

// HasProducts reports whether any product references the category
func (r *categoryRepository) HasProducts(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE category_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category products: %w", err)
	}
	return exists, nil
}

// Update writes name and description if the stored row version still equals expected.
// On success the category carries the new row version and modification time.
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category, expected []byte) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, modified_at_utc = $4, row_version = $5
		WHERE category_id = $1 AND row_version = $6
	`

	now := r.now()
	version := rowversion.New()

	res, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		now,
		version,
		expected,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrConcurrencyConflict
	}

	category.ModifiedAtUTC = now
	category.RowVersion = version
	return nil
}

// Delete removes the category if the stored row version still equals expected
func (r *categoryRepository) Delete(ctx context.Context, id int, expected []byte) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE category_id = $1 AND row_version = $2`, id, expected,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
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

// ProductCounts runs the server-side category summary function
func (r *categoryRepository) ProductCounts(ctx context.Context) ([]domain.CategoryProductCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, category_name, product_count FROM fn_category_product_summary()`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run category product summary: %w", err)
	}
	defer rows.Close()

	counts := []domain.CategoryProductCount{}
	for rows.Next() {
		var c domain.CategoryProductCount
		if err := rows.Scan(&c.CategoryID, &c.CategoryName, &c.ProductCount); err != nil {
			return nil, fmt.Errorf("failed to scan category product count: %w", err)
		}
		counts = append(counts, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category product counts: %w", err)
	}

	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	category := &domain.Category{}
	var description sql.NullString
	err := row.Scan(
		&category.ID,
		&category.Name,
		&description,
		&category.CreatedAtUTC,
		&category.ModifiedAtUTC,
		&category.RowVersion,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		category.Description = &description.String
	}
	category.CreatedAtUTC = category.CreatedAtUTC.UTC()
	category.ModifiedAtUTC = category.ModifiedAtUTC.UTC()
	return category, nil
}
