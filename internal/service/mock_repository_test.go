package service

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
	"catalog-api/internal/rowversion"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memoryStore backs both mock repositories so products can reference categories.
// Writes compare row versions the same way the SQL repositories do.
type memoryStore struct {
	mu             sync.Mutex
	nextCategoryID int
	categories     map[int]*domain.Category
	products       map[uuid.UUID]*domain.Product
	err            error
	writeErr       error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		nextCategoryID: 1,
		categories:     make(map[int]*domain.Category),
		products:       make(map[uuid.UUID]*domain.Product),
	}
}

// failWith makes every subsequent repository call return err
func (m *memoryStore) failWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// failWritesWith makes Create, Update and Delete return err while reads and
// existence checks keep answering from memory. It stands in for a unique index
// or foreign key rejecting a write that raced past the service checks.
func (m *memoryStore) failWritesWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

type mockCategoryRepository struct{ *memoryStore }

type mockProductRepository struct{ *memoryStore }

func (m *memoryStore) categoryRepo() repository.CategoryRepository { return mockCategoryRepository{m} }

func (m *memoryStore) productRepo() repository.ProductRepository { return mockProductRepository{m} }

func copyCategory(c *domain.Category) *domain.Category {
	cp := *c
	cp.RowVersion = append([]byte(nil), c.RowVersion...)
	return &cp
}

func (m mockCategoryRepository) nameTaken(normalized string, excludeID int) bool {
	for id, c := range m.categories {
		if id != excludeID && domain.NormalizeName(c.Name) == normalized {
			return true
		}
	}
	return false
}

func (m mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	if m.nameTaken(domain.NormalizeName(category.Name), 0) {
		return repository.ErrDuplicateName
	}

	now := time.Now().UTC()
	category.ID = m.nextCategoryID
	category.CreatedAtUTC = now
	category.ModifiedAtUTC = now
	category.RowVersion = rowversion.New()
	m.nextCategoryID++
	m.categories[category.ID] = copyCategory(category)
	return nil
}

func (m mockCategoryRepository) FindByID(ctx context.Context, id int) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return copyCategory(c), nil
}

func (m mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, copyCategory(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m mockCategoryRepository) Exists(ctx context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.categories[id]
	return ok, nil
}

func (m mockCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	return m.nameTaken(domain.NormalizeName(name), excludeID), nil
}

func (m mockCategoryRepository) HasProducts(ctx context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, p := range m.products {
		if p.CategoryID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m mockCategoryRepository) Update(ctx context.Context, category *domain.Category, expected []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	stored, ok := m.categories[category.ID]
	if !ok || !bytes.Equal(stored.RowVersion, expected) {
		return repository.ErrConcurrencyConflict
	}
	if m.nameTaken(domain.NormalizeName(category.Name), category.ID) {
		return repository.ErrDuplicateName
	}

	category.ModifiedAtUTC = time.Now().UTC()
	category.RowVersion = rowversion.New()
	category.CreatedAtUTC = stored.CreatedAtUTC
	m.categories[category.ID] = copyCategory(category)
	return nil
}

func (m mockCategoryRepository) Delete(ctx context.Context, id int, expected []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	stored, ok := m.categories[id]
	if !ok || !bytes.Equal(stored.RowVersion, expected) {
		return repository.ErrConcurrencyConflict
	}
	for _, p := range m.products {
		if p.CategoryID == id {
			return repository.ErrCategoryInUse
		}
	}
	delete(m.categories, id)
	return nil
}

func (m mockCategoryRepository) ProductCounts(ctx context.Context) ([]domain.CategoryProductCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	counts := make([]domain.CategoryProductCount, 0, len(m.categories))
	for _, c := range m.categories {
		n := 0
		for _, p := range m.products {
			if p.CategoryID == c.ID {
				n++
			}
		}
		counts = append(counts, domain.CategoryProductCount{CategoryID: c.ID, CategoryName: c.Name, ProductCount: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].CategoryName != counts[j].CategoryName {
			return counts[i].CategoryName < counts[j].CategoryName
		}
		return counts[i].CategoryID < counts[j].CategoryID
	})
	return counts, nil
}

func (m mockProductRepository) copyProduct(p *domain.Product) *domain.Product {
	cp := *p
	cp.RowVersion = append([]byte(nil), p.RowVersion...)
	if c, ok := m.categories[p.CategoryID]; ok {
		cp.CategoryName = c.Name
	}
	return &cp
}

func (m mockProductRepository) nameTaken(categoryID int, normalized string, excludeID uuid.UUID) bool {
	for id, p := range m.products {
		if id != excludeID && p.CategoryID == categoryID && domain.NormalizeName(p.ProductName) == normalized {
			return true
		}
	}
	return false
}

func (m mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.categories[product.CategoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	if m.nameTaken(product.CategoryID, domain.NormalizeName(product.ProductName), uuid.Nil) {
		return repository.ErrDuplicateName
	}

	now := time.Now().UTC()
	product.ID = uuid.New()
	product.CreatedAtUTC = now
	product.ModifiedAtUTC = now
	product.RowVersion = rowversion.New()
	m.products[product.ID] = m.copyProduct(product)
	return nil
}

func (m mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return m.copyProduct(p), nil
}

func (m mockProductRepository) sorted() []*domain.Product {
	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, m.copyProduct(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (m mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(), nil
}

func (m mockProductRepository) ListWithCategory(ctx context.Context) ([]domain.ProductWithCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var items []domain.ProductWithCategory
	for _, p := range m.sorted() {
		items = append(items, domain.ProductWithCategory{
			ProductID:    p.ID,
			ProductName:  p.ProductName,
			Price:        p.Price,
			QtyInStock:   p.QtyInStock,
			CategoryID:   p.CategoryID,
			CategoryName: p.CategoryName,
		})
	}
	return items, nil
}

func (m mockProductRepository) ExistsByName(ctx context.Context, categoryID int, name string, excludeID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	return m.nameTaken(categoryID, domain.NormalizeName(name), excludeID), nil
}

func (m mockProductRepository) Update(ctx context.Context, product *domain.Product, expected []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	stored, ok := m.products[product.ID]
	if !ok || !bytes.Equal(stored.RowVersion, expected) {
		return repository.ErrConcurrencyConflict
	}
	if _, ok := m.categories[product.CategoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	if m.nameTaken(product.CategoryID, domain.NormalizeName(product.ProductName), product.ID) {
		return repository.ErrDuplicateName
	}

	product.ModifiedAtUTC = time.Now().UTC()
	product.RowVersion = rowversion.New()
	product.CreatedAtUTC = stored.CreatedAtUTC
	m.products[product.ID] = m.copyProduct(product)
	return nil
}

func (m mockProductRepository) Delete(ctx context.Context, id uuid.UUID, expected []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	stored, ok := m.products[id]
	if !ok || !bytes.Equal(stored.RowVersion, expected) {
		return repository.ErrConcurrencyConflict
	}
	delete(m.products, id)
	return nil
}

// seedCatalog loads the same catalog the seed migration inserts
func seedCatalog(m *memoryStore) map[string]*domain.Category {
	ctx := context.Background()
	categories := map[string]*domain.Category{}
	for _, name := range []string{"Electronics", "Stationery", "Printers"} {
		c := &domain.Category{Name: name}
		if err := m.categoryRepo().Create(ctx, c); err != nil {
			panic(err)
		}
		categories[name] = c
	}

	products := []struct {
		name     string
		price    string
		category string
	}{
		{"Laptop", "1200.00", "Electronics"},
		{"Desktop Computer", "900.00", "Electronics"},
		{"Pen", "1.50", "Stationery"},
		{"Pencil", "0.75", "Stationery"},
		{"Eraser", "0.50", "Stationery"},
	}
	for _, p := range products {
		product := &domain.Product{
			ProductName: p.name,
			Price:       decimal.RequireFromString(p.price),
			CategoryID:  categories[p.category].ID,
		}
		if err := m.productRepo().Create(ctx, product); err != nil {
			panic(err)
		}
	}
	return categories
}
